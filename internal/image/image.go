// Package image provides image loading, validation, and encoding utilities
// for the upload pipeline.
package image

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxImageSize is the maximum allowed image size (5MB)
	MaxImageSize = 5 * 1024 * 1024
)

// SupportedTypes maps file extensions to MIME types
var SupportedTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// Info holds information about a loaded image
type Info struct {
	Path      string
	MediaType string
	Data      []byte
	Size      int
	FileName  string
}

// Load loads and validates an image from the given path
func Load(path string) (*Info, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if info.Size() > MaxImageSize {
		return nil, fmt.Errorf("image too large: %d bytes (max %d)", info.Size(), MaxImageSize)
	}

	ext := strings.ToLower(filepath.Ext(absPath))
	mediaType, ok := SupportedTypes[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported image format: %s", ext)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Detect actual content type to verify
	detectedType := http.DetectContentType(data)
	if !strings.HasPrefix(detectedType, "image/") {
		return nil, fmt.Errorf("file is not a valid image")
	}

	return &Info{
		Path:      absPath,
		MediaType: mediaType,
		Data:      data,
		Size:      len(data),
		FileName:  filepath.Base(absPath),
	}, nil
}

// IsImageFile returns true if the file extension indicates a supported image format
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := SupportedTypes[ext]
	return ok
}

// ToBase64 returns the image data as a base64 encoded string
func (i *Info) ToBase64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// ToDataURI returns the image as a data URI, the fallback form sent to
// multimodal models when no hosted URL is available.
func (i *Info) ToDataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", i.MediaType, i.ToBase64())
}
