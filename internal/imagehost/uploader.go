package imagehost

import (
	"context"

	"github.com/ruixin/snapsolve/internal/config"
	"github.com/ruixin/snapsolve/internal/image"
	"github.com/ruixin/snapsolve/internal/imagecache"
	"github.com/ruixin/snapsolve/internal/log"
)

// Uploader is the photo upload pipeline: consult the content-addressed cache,
// upload on a miss, and fall back to an inline data URI when no host is
// configured or the upload fails. The model still gets a usable image URL
// either way.
type Uploader struct {
	cache *imagecache.Cache
	cfg   config.ImageHost
}

// NewUploader creates the pipeline over the given cache and host settings.
func NewUploader(cache *imagecache.Cache, cfg config.ImageHost) *Uploader {
	return &Uploader{cache: cache, cfg: cfg}
}

// Upload resolves the local image at path to the URL to send to the model.
// It returns the hosted (or data) URL plus the URI the UI should render.
func (u *Uploader) Upload(ctx context.Context, path string) (imageURL, originalURI string, err error) {
	if entry, err := u.cache.CachedURL(ctx, path); err == nil && entry != nil {
		return entry.UploadedURL, path, nil
	}

	info, err := image.Load(path)
	if err != nil {
		return "", "", err
	}

	if u.cfg.APIKey != "" {
		result, err := Upload(ctx, info.ToBase64(), u.cfg)
		if err == nil && result.Success && result.URL != "" {
			if err := u.cache.CacheURL(ctx, path, result.URL); err != nil {
				log.LogError("imagehost", err)
			}
			return result.URL, path, nil
		}
		if err != nil {
			log.LogError("imagehost", err)
		}
	}

	// No host configured or upload failed: inline the image.
	return info.ToDataURI(), path, nil
}
