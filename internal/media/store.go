// Package media stores uploaded recipe images and serves their public
// URLs, over the local filesystem or an S3-compatible bucket.
package media

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

var mediaLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	mediaLogger = l
}

// Store is the object store behind image uploads. Upload returns the
// public URL the stored object is reachable at.
type Store interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

func publicURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}
