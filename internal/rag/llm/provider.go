package llm

import "context"

// Provider generates an answer for a fully built prompt. Provider identity
// is fixed at construction, the query path never branches on it.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
