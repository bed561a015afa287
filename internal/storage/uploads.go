// Package storage handles uploaded image files: validated writes on the
// request path and supervised background deletion.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"

	"github.com/google/uuid"
)

// MaxUploadSizeBytes caps uploaded images at 5MB.
const MaxUploadSizeBytes = 5 << 20

var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// SaveImage validates and writes an uploaded image into dir, returning the
// generated filename. The content type is sniffed from the bytes, not trusted
// from the request.
func SaveImage(fh *multipart.FileHeader, dir string) (string, error) {
	if fh.Size > MaxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", MaxUploadSizeBytes/(1024*1024)))
	}

	src, err := fh.Open()
	if err != nil {
		return "", models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return "", models.NewValidationError("Unable to read uploaded file")
	}
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > MaxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", MaxUploadSizeBytes/(1024*1024)))
	}

	detected := http.DetectContentType(content)
	ext, ok := extByMIME[detected]
	if !ok {
		return "", models.NewValidationError("Invalid image type (JPEG, PNG or WEBP only)")
	}

	name := uuid.New().String() + ext
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		return "", models.NewInternalError(err)
	}

	return name, nil
}
