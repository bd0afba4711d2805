package classifier

import "context"

// Analyzer is the AI analysis backend. It takes a prompt and returns
// free text expected to contain one embedded JSON object.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// AnalyzerFunc adapts a function to the Analyzer interface.
type AnalyzerFunc func(ctx context.Context, prompt string) (string, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
