package document

import "errors"

// Result is the polymorphic verdict the model returns for one section:
// whether the section is relevant to the job, and if so, its tailored data.
type Result[T any] struct {
	IsRelevant bool `json:"is_relevant"`
	Data       *T   `json:"data"`
}

// ErrInconsistentResult reports a result violating the relevance invariant.
var ErrInconsistentResult = errors.New("section result: is_relevant and data disagree")

// Validate enforces the relevance invariant: data must be present exactly
// when the section is relevant.
func (r Result[T]) Validate() error {
	if r.IsRelevant && r.Data == nil {
		return ErrInconsistentResult
	}
	if !r.IsRelevant && r.Data != nil {
		return ErrInconsistentResult
	}
	return nil
}
