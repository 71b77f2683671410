package genai

import (
	"context"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic sends a single user message through the Messages API.
type Anthropic struct {
	client    anthropic.Client
	key       string
	model     string
	maxTokens int64
}

// NewAnthropic builds a client. baseURL may be empty to use the SDK default.
func NewAnthropic(baseURL, key, model string, maxTokens int64, timeout time.Duration) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(timeout),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		key:       key,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (a *Anthropic) Configured() bool {
	return a.key != ""
}

func (a *Anthropic) Model() string {
	return a.model
}

func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	if !a.Configured() {
		return "", ErrMissingKey
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic %s: %w", a.model, err)
	}
	if len(msg.Content) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		sb.WriteString(block.Text)
	}
	return sb.String(), nil
}
