package resolver

import (
	"sort"

	"github.com/TerryChengTW/coin-porter/internal/domain"
)

// DirectNetworks computes the chains on which the coin can move straight
// from source to destination: the intersection of source's
// withdraw-enabled chains with destination's deposit-enabled chains. A
// chain present on both sides but disabled on either is excluded outright,
// not deprioritized. An empty result is a normal outcome, handed to the
// bridge resolver.
func DirectNetworks(source, dest *domain.CoinCapability) []string {
	if source == nil || dest == nil {
		return nil
	}

	withdrawable := make(map[string]bool, len(source.Networks))
	for _, nw := range source.Networks {
		if nw.WithdrawEnabled {
			withdrawable[nw.ChainID] = true
		}
	}

	var chains []string
	for _, nw := range dest.Networks {
		if nw.DepositEnabled && withdrawable[nw.ChainID] {
			chains = append(chains, nw.ChainID)
			withdrawable[nw.ChainID] = false // dedupe
		}
	}

	sort.Strings(chains)
	return chains
}
