// Package imagehost uploads images to a hosting service and runs the upload
// pipeline that fronts it with the content-addressed cache.
package imagehost

import (
	"context"
	"fmt"

	"github.com/ruixin/snapsolve/internal/config"
)

// UploadResult is the outcome of one upload attempt.
type UploadResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Host uploads a base64-encoded image and returns its hosted URL.
type Host interface {
	Upload(ctx context.Context, base64Image string, cfg config.ImageHost) (UploadResult, error)
}

var hosts = map[string]Host{
	"imgbb": &ImgbbHost{},
}

// Upload dispatches to the host named by cfg.Type.
func Upload(ctx context.Context, base64Image string, cfg config.ImageHost) (UploadResult, error) {
	host, ok := hosts[cfg.Type]
	if !ok {
		return UploadResult{}, fmt.Errorf("unsupported image host: %s", cfg.Type)
	}
	return host.Upload(ctx, base64Image, cfg)
}
