package vision

import "context"

// Analyzer port (interface for the managed vision service)
type Analyzer interface {
	AnalyzeImage(ctx context.Context, image []byte) (*AnalyzeResult, error)
}
