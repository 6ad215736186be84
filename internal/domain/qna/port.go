package qna

import "context"

// Answerer port (interface for the managed knowledge-base Q&A service)
type Answerer interface {
	Ask(ctx context.Context, question string) (*Response, error)
}
