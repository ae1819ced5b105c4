package health

import "context"

// ProviderPinger checks retrieval provider availability.
type ProviderPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks directory cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
