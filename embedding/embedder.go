package embedding

import "context"

// Embedder converts free text into a fixed-length unit-normalized vector.
// Output is deterministic for a given input string. Implementations may
// fail on empty or invalid input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Dimension() int
}
