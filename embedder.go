package ragdex

import (
	"context"
	"time"
)

// Embedder converts text to vector embeddings. The pgvector provider
// needs one to embed query and document text in-process; the RAG API
// provider embeds server-side and ignores it.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// OpenAIEmbedderConfig configures the bundled OpenAI-compatible
// embedding client. Only APIKey is required; BaseURL and Model fall
// back to api.openai.com and its stock embedding model.
type OpenAIEmbedderConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Timeout    time.Duration
}
