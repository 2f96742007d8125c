package resolver

import (
	"context"

	"github.com/TerryChengTW/coin-porter/internal/domain"
)

type IResolutionService interface {
	// Resolve finds every technically possible transfer path for the
	// request, ranks the feasible ones, and returns a decision. Business
	// outcomes (no path, infeasible amount) come back inside the Decision;
	// an error return is reserved for invalid requests.
	Resolve(ctx context.Context, req *domain.ResolveRequest) (*domain.Decision, error)

	// Capabilities returns the normalized capability record one exchange
	// reports for one coin, refreshing it when stale.
	Capabilities(ctx context.Context, exchangeID, coin string) (*domain.CoinCapability, error)

	// KnownExchanges lists the exchange IDs with a configured fetcher.
	KnownExchanges() []string
}
