package interfaces

import (
	"context"
	"encoding/json"
)

// CapabilityFetcher is the external fetch-layer contract. Implementations
// own the HTTP call, signing and retry policy; the resolution core only
// normalizes whatever raw payload comes back. Failures must be classified
// as *domain.FetchError so the resolver can degrade gracefully.
type CapabilityFetcher interface {
	// ExchangeID returns the canonical identifier this fetcher serves
	// ("binance", "bybit", "bitget", ...).
	ExchangeID() string

	// FetchCapabilities retrieves the raw coin/network capability payload.
	// An empty coin requests the full listing; a non-empty coin may be used
	// by exchanges that support server-side filtering.
	FetchCapabilities(ctx context.Context, coin string) (json.RawMessage, error)
}
