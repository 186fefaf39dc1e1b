// Package compression provides the codecs used for recipe body blobs
// stored in the database.
package compression

// Compressor is a symmetric byte codec.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}
