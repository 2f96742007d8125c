package resolver

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/TerryChengTW/coin-porter/internal/domain"
	"github.com/TerryChengTW/coin-porter/pkg/config"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func boolPtr(b bool) *bool { return &b }

func testPolicy() config.ResolverConfig {
	return config.ResolverConfig{
		StalenessTTL:      15 * time.Minute,
		FetchTimeout:      time.Second,
		NearMinimumRatio:  1.1,
		MaxHops:           2,
		MinCheckPreFee:    boolPtr(true),
		CountRiskUnlock:   boolPtr(true),
		BridgeCoins:       []string{"USDT", "USDC"},
		ConcurrentFetches: 4,
	}
}

var testBlockTimes = map[string]int64{
	"ETH": 12,
	"BSC": 3,
	"TRX": 3,
}

// network builds a fully enabled capability record on the given chain with
// a flat fee and minimum; tests tweak fields afterwards as needed.
func network(chain, fee, minWithdraw string) domain.NetworkCapability {
	return domain.NetworkCapability{
		ChainID:         chain,
		RawChainLabel:   chain,
		DepositEnabled:  true,
		WithdrawEnabled: true,
		WithdrawFee:     d(fee),
		MinWithdraw:     d(minWithdraw),
		Confirmations:   1,
	}
}

func coin(exchange, symbol string, networks ...domain.NetworkCapability) *domain.CoinCapability {
	return &domain.CoinCapability{
		ExchangeID:         exchange,
		CoinSymbol:         symbol,
		BaseSymbol:         symbol,
		DenominationFactor: decimal.NewFromInt(1),
		WithdrawEnabled:    true,
		DepositEnabled:     true,
		Networks:           networks,
	}
}

func lookupFrom(caps ...*domain.CoinCapability) CapabilityLookup {
	index := map[string]*domain.CoinCapability{}
	for _, c := range caps {
		index[c.ExchangeID+"|"+c.CoinSymbol] = c
	}
	return func(exchangeID, coinSymbol string) *domain.CoinCapability {
		return index[exchangeID+"|"+coinSymbol]
	}
}

func directHop(from, to, coinSymbol, chain string) []domain.HopLeg {
	return []domain.HopLeg{{FromExchange: from, ToExchange: to, Coin: coinSymbol, ChainID: chain}}
}
