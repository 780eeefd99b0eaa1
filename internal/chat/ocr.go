package chat

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ruixin/snapsolve/internal/log"
	"github.com/ruixin/snapsolve/internal/message"
	"github.com/ruixin/snapsolve/internal/provider"
)

// ocrVerdict is the strict JSON contract the OCR prompt demands.
type ocrVerdict struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

// recognize extracts the problem text from a photo via the OCR model. The
// model is asked for a JSON verdict; anything else counts as a failed
// recognition, not a malformed request.
func (e *Engine) recognize(ctx context.Context, imageURI string) (string, error) {
	raw, err := e.ocrGW.Complete(ctx, provider.Request{
		Model: e.ocrModel.Model,
		Messages: []provider.ChatMessage{
			{Role: message.RoleSystem, Content: ocrPrompt},
			{Role: message.RoleUser, Content: ocrUserPrompt, ImageURL: imageURI},
		},
		JSONResponse: true,
	})
	if err != nil {
		return "", &GatewayError{Err: err}
	}

	var verdict ocrVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		log.LogOCR(e.ocrModel.Model, false, raw)
		return "", &RecognitionError{Reason: "model returned a malformed verdict"}
	}
	log.LogOCR(e.ocrModel.Model, verdict.Success, verdict.Text)

	if !verdict.Success {
		reason := verdict.Text
		if reason == "" {
			reason = "the photo could not be recognized"
		}
		return "", &RecognitionError{Reason: reason}
	}
	if strings.TrimSpace(verdict.Text) == "" {
		return "", &RecognitionError{Reason: "recognition returned no text"}
	}
	return verdict.Text, nil
}
