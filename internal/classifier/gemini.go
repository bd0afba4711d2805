package classifier

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiAnalyzer implements Analyzer using Google's Gemini API.
type GeminiAnalyzer struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiAnalyzer{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

// Analyze sends the prompt and returns the raw response text.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := a.client.Models.GenerateContent(ctx,
		a.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.1),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty response")
	}
	return text, nil
}
