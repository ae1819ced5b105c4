// Package pgvector is a self-hosted retrieval provider on Postgres with
// the pgvector extension. Imported documents are chunked and embedded
// locally; queries embed the text and rank chunks by cosine distance.
// Metadata filtering happens server-side over the JSONB tag column.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/ragdex/internal/domain"
	"github.com/kailas-cloud/ragdex/internal/metrics"
)

const providerName = "pgvector"

// Compile-time check: Driver implements domain.Provider.
var _ domain.Provider = (*Driver)(nil)

// Chunking defaults applied when the config leaves them zero.
const (
	defaultChunkSize    = 1024
	defaultChunkOverlap = 200
)

// Config holds connection and ingestion parameters.
type Config struct {
	DSN          string
	Dimensions   int
	ChunkSize    int
	ChunkOverlap int
}

// Driver implements domain.Provider over Postgres + pgvector.
type Driver struct {
	db           *sql.DB
	embedder     domain.Embedder
	dims         int
	chunkSize    int
	chunkOverlap int
}

// New opens the database and verifies connectivity.
func New(ctx context.Context, cfg Config, embedder domain.Embedder) (*Driver, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %v: %w", err, domain.ErrProviderUnavailable)
	}

	dims := cfg.Dimensions
	if dims <= 0 {
		dims = 1536
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	chunkOverlap := cfg.ChunkOverlap
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = defaultChunkOverlap
	}

	return &Driver{
		db:           db,
		embedder:     embedder,
		dims:         dims,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// EnsureSchema creates the vector extension and tables when missing.
func (d *Driver) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS corpora (
			id UUID PRIMARY KEY,
			display_name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS corpus_files (
			id UUID PRIMARY KEY,
			corpus_id UUID NOT NULL REFERENCES corpora(id) ON DELETE CASCADE,
			display_name TEXT NOT NULL,
			source_uri TEXT NOT NULL DEFAULT '',
			size_bytes BIGINT NOT NULL DEFAULT 0,
			metadata JSONB,
			imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS corpus_chunks (
			id BIGSERIAL PRIMARY KEY,
			corpus_id UUID NOT NULL REFERENCES corpora(id) ON DELETE CASCADE,
			file_id UUID NOT NULL REFERENCES corpus_files(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			embedding vector(%d),
			metadata JSONB,
			page_number INT NOT NULL DEFAULT 0
		)`, d.dims),
		`CREATE INDEX IF NOT EXISTS corpus_files_corpus_idx ON corpus_files (corpus_id)`,
		`CREATE INDEX IF NOT EXISTS corpus_chunks_corpus_idx ON corpus_chunks (corpus_id)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %v: %w", err, domain.ErrProviderUnavailable)
		}
	}
	return nil
}

// SupportsMetadataFilter reports that filtering happens in SQL, so no
// over-fetch is needed.
func (d *Driver) SupportsMetadataFilter() bool { return true }

// Ping checks database connectivity.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %v: %w", err, domain.ErrProviderUnavailable)
	}
	return nil
}

// Close releases the database pool.
func (d *Driver) Close() error {
	return d.db.Close()
}

// observe records per-operation provider metrics.
func observe(op string, start time.Time, err error) {
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(providerName, op, "error").Inc()
		return
	}
	metrics.ProviderRequestsTotal.WithLabelValues(providerName, op, "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues(providerName, op).Observe(time.Since(start).Seconds())
}

// vectorParam converts an embedding to the pgvector wire value.
func vectorParam(vec []float32) pgvector.Vector {
	return pgvector.NewVector(vec)
}
