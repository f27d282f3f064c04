package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/fwojciec/hndigest"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Summarizer implements hndigest.Summarizer at compile time.
var _ hndigest.Summarizer = (*Summarizer)(nil)

// Summarizer implements hndigest.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
	model  string
	locale hndigest.Locale
}

// NewSummarizer creates a new Summarizer. An empty model selects
// DefaultModel.
func NewSummarizer(client *genai.Client, model string, locale hndigest.Locale) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model, locale: locale}
}

// Summarize asks the model for an analysis of text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", hndigest.Errorf(hndigest.EINVALID, "text required")
	}

	result, err := s.client.Models.GenerateContent(ctx, s.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: text}},
		}},
		BuildConfig(s.locale),
	)
	if err != nil {
		return "", summaryError(err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", hndigest.Errorf(hndigest.ESUMMARY, "malformed response")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(l hndigest.Locale) *genai.GenerateContentConfig {
	temp := float32(0.7)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: l.Messages().SummaryPrompt}},
		},
		Temperature: &temp,
	}
}

// summaryError converts genai errors to ESUMMARY errors whose message is
// the HTTP status text when a status is known.
func summaryError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if text := http.StatusText(apiErr.Code); text != "" {
			return hndigest.StatusErrorf(hndigest.ESUMMARY, apiErr.Code, "%s", text)
		}
	}
	return hndigest.Errorf(hndigest.ESUMMARY, "summary request: %v", err)
}
