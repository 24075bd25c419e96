package llm

import (
	"context"
)

// Embedder is the embedding capability consumed by the pipeline. The
// underlying model is external; the core never tokenizes or embeds itself.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
