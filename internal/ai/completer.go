package ai

import (
	"context"

	"google.golang.org/genai"
)

// Request is one schema-constrained completion.
type Request struct {
	// System is the system prompt describing the task.
	System string
	// User is the content to transform.
	User string
	// Schema constrains the response shape. The provider must return JSON
	// conforming to it.
	Schema *genai.Schema
}

// Completer is the completion capability the pipeline depends on. An
// implementation owns its own repair/retry behavior and returns either JSON
// conforming to the request schema or a terminal error. Callers never retry.
type Completer interface {
	Complete(ctx context.Context, req Request) ([]byte, error)
}
