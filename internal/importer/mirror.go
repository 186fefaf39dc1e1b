package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/scsmith60/messhall/internal/media"
	"github.com/scsmith60/messhall/internal/model"
)

// ImageMirror copies a remote image into the media store so imported
// recipes never point at third-party hosts.
type ImageMirror struct {
	client   *http.Client
	store    media.Store
	maxBytes int64
}

func NewImageMirror(store media.Store, maxUploadMB int) *ImageMirror {
	return &ImageMirror{
		client:   &http.Client{Timeout: 30 * time.Second},
		store:    store,
		maxBytes: int64(maxUploadMB) << 20,
	}
}

// Mirror fetches rawURL and stores it under the owner's key space,
// returning the new public URL.
func (m *ImageMirror) Mirror(ctx context.Context, rawURL string, owner model.UserID) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("error building image request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch returned %s", resp.Status)
	}

	// One extra byte so an oversized body is distinguishable from one
	// that fits exactly.
	data, err := io.ReadAll(io.LimitReader(resp.Body, m.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("error reading image body: %w", err)
	}
	if int64(len(data)) > m.maxBytes {
		return "", fmt.Errorf("image exceeds %d bytes", m.maxBytes)
	}

	contentType := http.DetectContentType(data)
	ext, ok := media.ExtensionForType(contentType)
	if !ok {
		return "", fmt.Errorf("unsupported image type %s", contentType)
	}

	key := path.Join("images", string(owner), uuid.NewString()+ext)
	url, err := m.store.Upload(ctx, key, contentType, data)
	if err != nil {
		return "", fmt.Errorf("error storing mirrored image: %w", err)
	}

	importerLogger.Info().Str("source", rawURL).Str("key", key).Msg("Mirrored image")
	return url, nil
}
