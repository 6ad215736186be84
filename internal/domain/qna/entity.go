package qna

// Answer is one candidate answer from the knowledge base.
type Answer struct {
	Text            string  `json:"answer"`
	ConfidenceScore float64 `json:"confidenceScore"`
	Source          string  `json:"source,omitempty"`
}

// Response is the raw knowledge-base reply; a confidence score of exactly
// zero on the top answer marks the project's configured default answer.
type Response struct {
	Answers []Answer `json:"answers"`
}

// Top returns the best answer text, or a placeholder when the knowledge base
// returned nothing.
func (r *Response) Top() string {
	if r == nil || len(r.Answers) == 0 {
		return "No answer available"
	}
	return r.Answers[0].Text
}

// IsDefaultAnswer reports whether the top answer is the fallback one.
func (r *Response) IsDefaultAnswer() bool {
	return r != nil && len(r.Answers) > 0 && r.Answers[0].ConfidenceScore == 0.0
}
