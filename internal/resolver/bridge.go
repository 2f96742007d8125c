package resolver

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/TerryChengTW/coin-porter/internal/domain"
)

// BridgeSearch is the bounded exploration the resolver falls back to when
// no direct network exists: one intermediate exchange, the original coin on
// the first leg, and on the second leg either the same coin or a
// policy-supplied substitute when the request allows conversion. Depth is
// fixed at one intermediate hop; deeper search buys little in practice and
// makes decisions hard to explain.
type BridgeSearch struct {
	evaluator *Evaluator
}

func NewBridgeSearch(evaluator *Evaluator) *BridgeSearch {
	return &BridgeSearch{evaluator: evaluator}
}

// Resolve enumerates every two-leg candidate through the given bridge
// exchanges and returns them evaluated, in deterministic order. An empty
// result means no bridge exists within the search depth; the caller reports
// that as NoPathFound together with the attempted bridge set.
func (b *BridgeSearch) Resolve(
	src, dst, coin string,
	bridgeExchanges []string,
	bridgeCoins []string,
	allowConversion bool,
	lookup CapabilityLookup,
	amount decimal.Decimal,
) []domain.TransferCandidate {
	secondLegCoins := []string{coin}
	if allowConversion {
		for _, c := range bridgeCoins {
			if c != coin {
				secondLegCoins = append(secondLegCoins, c)
			}
		}
	}

	sorted := append([]string(nil), bridgeExchanges...)
	sort.Strings(sorted)

	var candidates []domain.TransferCandidate
	for _, bridge := range sorted {
		if bridge == src || bridge == dst {
			continue
		}

		inbound := DirectNetworks(lookup(src, coin), lookup(bridge, coin))
		if len(inbound) == 0 {
			continue
		}

		for _, legCoin := range secondLegCoins {
			outbound := DirectNetworks(lookup(bridge, legCoin), lookup(dst, legCoin))
			for _, chainIn := range inbound {
				for _, chainOut := range outbound {
					hops := []domain.HopLeg{
						{FromExchange: src, ToExchange: bridge, Coin: coin, ChainID: chainIn},
						{FromExchange: bridge, ToExchange: dst, Coin: legCoin, ChainID: chainOut},
					}
					cand := b.evaluator.Evaluate(hops, lookup, amount)
					if legCoin != coin {
						// The conversion on the bridge account is manual:
						// never assumed free or instant.
						cand.RequiresManualConversion = true
					}
					candidates = append(candidates, cand)
				}
			}
		}
	}
	return candidates
}
