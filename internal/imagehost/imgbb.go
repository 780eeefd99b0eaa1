package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/ruixin/snapsolve/internal/config"
)

const imgbbAPIBase = "https://api.imgbb.com/1/upload"

// ImgbbHost uploads images to imgbb.com. Client defaults to
// http.DefaultClient; cfg.APIBase overrides the endpoint (tests, mirrors).
type ImgbbHost struct {
	Client *http.Client
}

// Upload implements Host. A rejected upload is reported in the result, not as
// an error; errors are reserved for transport failures.
func (h *ImgbbHost) Upload(ctx context.Context, base64Image string, cfg config.ImageHost) (UploadResult, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("image", base64Image); err != nil {
		return UploadResult{}, fmt.Errorf("failed to build form: %w", err)
	}
	if err := form.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("failed to build form: %w", err)
	}

	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = imgbbAPIBase
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiBase+"?key="+cfg.APIKey, &body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UploadResult{Success: false, Error: fmt.Sprintf("upload failed: %s", resp.Status)}, nil
	}

	var parsed struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return UploadResult{}, fmt.Errorf("failed to parse upload response: %w", err)
	}
	if parsed.Data.URL == "" {
		return UploadResult{Success: false, Error: "upload response carried no url"}, nil
	}

	return UploadResult{Success: true, URL: parsed.Data.URL}, nil
}

var _ Host = (*ImgbbHost)(nil)
