package generate

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator echoes the question and the number of contexts. Used by tests
// and the -mock run mode.
type MockGenerator struct{}

// NewMock creates a mock generator.
func NewMock() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Generate(_ context.Context, question string, contexts []string) (string, error) {
	if len(contexts) == 0 {
		return fmt.Sprintf("No relevant material found for: %s", question), nil
	}
	first := contexts[0]
	if i := strings.Index(first, "\n"); i >= 0 {
		first = first[:i]
	}
	return fmt.Sprintf("Based on %d passage(s), starting with %q: answer to %q", len(contexts), first, question), nil
}

func (m *MockGenerator) Close() error {
	return nil
}
