// Package namegen produces descriptive snake_case names for workflows by
// prompting an LLM with per-workflow summaries. It is a thin external
// collaborator around the curation core: batching, prompt construction and
// collision handling live here; the model call itself is one request.
package namegen

import (
	"context"
	"errors"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Completer performs a blocking text completion.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnthropicCompleter implements Completer against the Anthropic Messages API.
type AnthropicCompleter struct {
	sdk       anthropicsdk.Client
	modelName string
}

// NewAnthropicCompleter builds a completer for the given model. The API key
// is read from ANTHROPIC_API_KEY.
func NewAnthropicCompleter(modelName string) *AnthropicCompleter {
	sdk := anthropicsdk.NewClient(option.WithAPIKey("")) // reads ANTHROPIC_API_KEY automatically
	return &AnthropicCompleter{sdk: sdk, modelName: modelName}
}

// Complete sends a single user prompt and returns the concatenated text
// response, retrying automatically on transient errors.
func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	var out string
	err := WithRetry(ctx, 4, func() error {
		var innerErr error
		out, innerErr = a.doComplete(ctx, prompt)
		return innerErr
	})
	return out, err
}

func (a *AnthropicCompleter) doComplete(ctx context.Context, prompt string) (string, error) {
	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(a.modelName),
		MaxTokens: 1024,
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(prompt)),
		},
	}
	msg, err := a.sdk.Messages.New(ctx, params)
	if err != nil {
		return "", mapError(err)
	}
	var text string
	for _, b := range msg.Content {
		if b.Type == "text" {
			text += b.Text
		}
	}
	return text, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *anthropicsdk.Error
	if errors.As(err, &apiErr) {
		base := APIError{Code: apiErr.StatusCode, Message: apiErr.Error(), Cause: err}
		switch apiErr.StatusCode {
		case 429:
			return &RateLimitError{APIError: base}
		case 401, 403:
			return &AuthError{APIError: base}
		case 500, 502, 503, 529:
			return &ServerError{APIError: base}
		}
		return &base
	}
	return fmt.Errorf("anthropic request: %w", err)
}
