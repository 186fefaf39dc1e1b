package media

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/scsmith60/messhall/internal/auth"
	"github.com/scsmith60/messhall/internal/config"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ExtensionForType maps an accepted image content type to its file
// extension. The second return is false for anything else.
func ExtensionForType(contentType string) (string, bool) {
	ext, ok := allowedImageTypes[contentType]
	return ext, ok
}

// Handler accepts multipart image uploads and responds with the public
// URL of the stored object.
type Handler struct {
	store    Store
	auth     auth.AuthProvider
	maxBytes int64
}

func NewHandler(store Store, authProvider auth.AuthProvider, maxUploadMB int) *Handler {
	return &Handler{
		store:    store,
		auth:     authProvider,
		maxBytes: int64(maxUploadMB) << 20,
	}
}

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		http.Error(w, "Upload too large", http.StatusRequestEntityTooLarge)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	// Trust the bytes, not the declared type.
	contentType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		http.Error(w, fmt.Sprintf("Unsupported image type %s", contentType), http.StatusUnsupportedMediaType)
		return
	}

	key := path.Join("images", string(userID), uuid.NewString()+ext)
	url, err := h.store.Upload(r.Context(), key, contentType, data)
	if err != nil {
		mediaLogger.Error().Err(err).Str("key", key).Msg("Image upload failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	mediaLogger.Info().Str("key", key).Str("user", string(userID)).Msg("Image uploaded")

	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"url": url}); err != nil {
		mediaLogger.Error().Err(err).Msg("Failed to encode upload response")
	}
}
