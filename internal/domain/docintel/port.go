package docintel

import "context"

// Analyzer port (interface for the managed document-intelligence service)
type Analyzer interface {
	AnalyzeURL(ctx context.Context, modelID, documentURL string) (*AnalyzeResult, error)
}
