package generate

import "context"

// Generator produces an answer to a question grounded in retrieved context.
type Generator interface {
	Generate(ctx context.Context, question string, contexts []string) (string, error)
	Close() error
}
