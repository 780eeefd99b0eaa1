// Package provider provides the completion gateway contract and its
// OpenAI-compatible implementation. Every configured model endpoint speaks
// the chat-completions protocol against a user-supplied base URL, so a single
// implementation covers all of them.
package provider

import (
	"context"

	"github.com/ruixin/snapsolve/internal/message"
)

// ChatMessage is one entry of a completion request. When ImageURL is set on a
// user message, the message is sent in the image-bearing multimodal form.
type ChatMessage struct {
	Role     message.Role
	Content  string
	ImageURL string
}

// Request describes one completion call: one request, one response, no
// streaming, no retries.
type Request struct {
	Model           string
	Messages        []ChatMessage
	Temperature     float64
	PresencePenalty float64

	// JSONResponse asks the model for a strict JSON object reply
	// (used by OCR routing).
	JSONResponse bool
}

// Gateway is a stateless client for a chat-completions endpoint. Complete
// returns the text of the top choice, or "" when the model returns no
// content.
type Gateway interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Factory builds a Gateway for a model endpoint. The session engine uses it
// to construct its solving and OCR gateways, and tests use it to inject
// fakes.
type Factory func(apiKey, apiBase string) Gateway
