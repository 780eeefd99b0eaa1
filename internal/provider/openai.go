package provider

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/ruixin/snapsolve/internal/log"
	"github.com/ruixin/snapsolve/internal/message"
)

// OpenAIGateway implements Gateway using the OpenAI SDK. Any endpoint that
// speaks the chat-completions protocol works through a custom base URL.
type OpenAIGateway struct {
	client openai.Client
}

// NewOpenAI creates a gateway for the given endpoint. Extra request options
// (custom HTTP client, headers) are appended after key and base URL.
func NewOpenAI(apiKey, apiBase string, opts ...option.RequestOption) *OpenAIGateway {
	options := []option.RequestOption{option.WithAPIKey(apiKey)}
	if apiBase != "" {
		options = append(options, option.WithBaseURL(apiBase))
	}
	options = append(options, opts...)
	return &OpenAIGateway{client: openai.NewClient(options...)}
}

// DefaultFactory builds OpenAI-compatible gateways.
var DefaultFactory Factory = func(apiKey, apiBase string) Gateway {
	return NewOpenAI(apiKey, apiBase)
}

// Complete sends one chat-completion request and returns the content of the
// first choice.
func (g *OpenAIGateway) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case message.RoleUser:
			if msg.ImageURL != "" {
				parts := []openai.ChatCompletionContentPartUnionParam{
					{
						OfImageURL: &openai.ChatCompletionContentPartImageParam{
							ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
								URL: msg.ImageURL,
							},
						},
					},
					{
						OfText: &openai.ChatCompletionContentPartTextParam{
							Text: msg.Content,
						},
					},
				}
				messages = append(messages, openai.ChatCompletionMessageParamUnion{
					OfUser: &openai.ChatCompletionUserMessageParam{
						Content: openai.ChatCompletionUserMessageParamContentUnion{
							OfArrayOfContentParts: parts,
						},
					},
				})
			} else {
				messages = append(messages, openai.UserMessage(msg.Content))
			}
		case message.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.SystemMessage(msg.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    req.Model,
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.PresencePenalty != 0 {
		params.PresencePenalty = openai.Float(req.PresencePenalty)
	}
	if req.JSONResponse {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	log.LogCompletion(req.Model, len(messages))

	completion, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		log.LogError("gateway", err)
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}

var _ Gateway = (*OpenAIGateway)(nil)
