// Package openai implements hndigest.Summarizer over any OpenAI-compatible
// chat-completion endpoint. The defaults target DeepSeek.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fwojciec/hndigest"
	"github.com/sashabaranov/go-openai"
)

// Defaults for the summary endpoint.
const (
	DefaultBaseURL     = "https://api.deepseek.com/v1"
	DefaultModel       = "deepseek-chat"
	DefaultTemperature = 0.7
)

// Client is the subset of *openai.Client used by Summarizer.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient creates a chat-completion client for baseURL. An empty baseURL
// selects DefaultBaseURL; a nil httpClient selects http.DefaultClient.
func NewClient(apiKey, baseURL string, httpClient *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = DefaultBaseURL
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(cfg)
}

// Ensure Summarizer implements hndigest.Summarizer at compile time.
var _ hndigest.Summarizer = (*Summarizer)(nil)

// Summarizer asks a chat model for an analysis of an article.
type Summarizer struct {
	client      Client
	model       string
	locale      hndigest.Locale
	temperature float32
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithModel sets the chat model.
func WithModel(model string) Option {
	return func(s *Summarizer) {
		s.model = model
	}
}

// WithLocale sets the language of the system prompt.
func WithLocale(l hndigest.Locale) Option {
	return func(s *Summarizer) {
		s.locale = l
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(s *Summarizer) {
		s.temperature = t
	}
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client Client, opts ...Option) *Summarizer {
	s := &Summarizer{
		client:      client,
		model:       DefaultModel,
		locale:      hndigest.DefaultLocale,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize sends text as the user message and returns the first choice.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", hndigest.Errorf(hndigest.EINVALID, "text required")
	}

	resp, err := s.client.CreateChatCompletion(ctx, BuildRequest(s.model, s.locale, s.temperature, text))
	if err != nil {
		return "", summaryError(err)
	}
	if len(resp.Choices) == 0 {
		return "", hndigest.Errorf(hndigest.ESUMMARY, "malformed response")
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildRequest returns the chat-completion request for text.
func BuildRequest(model string, l hndigest.Locale, temperature float32, text string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: l.Messages().SummaryPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: temperature,
	}
}

// summaryError converts client errors to ESUMMARY errors whose message is
// the HTTP status text when a status is known.
func summaryError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var status int
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if text := http.StatusText(status); text != "" {
		return hndigest.StatusErrorf(hndigest.ESUMMARY, status, "%s", text)
	}
	return hndigest.Errorf(hndigest.ESUMMARY, "summary request: %v", err)
}
