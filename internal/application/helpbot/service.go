package helpbot

import (
	"context"

	"github.com/promptmenu/promptmenu-api/internal/domain/qna"
)

// Service proxies help questions to the knowledge base and normalizes the
// reply for the front end.
type Service struct {
	Answerer qna.Answerer
}

func NewService(answerer qna.Answerer) *Service {
	return &Service{Answerer: answerer}
}

type Reply struct {
	Response        *qna.Response `json:"response"`
	IsDefaultAnswer bool          `json:"is_default_answer"`
	AnswerText      string        `json:"answer_text"`
}

func (s *Service) Ask(ctx context.Context, message string) (*Reply, error) {
	resp, err := s.Answerer.Ask(ctx, message)
	if err != nil {
		return nil, err
	}
	return &Reply{
		Response:        resp,
		IsDefaultAnswer: resp.IsDefaultAnswer(),
		AnswerText:      resp.Top(),
	}, nil
}
