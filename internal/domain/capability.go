package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canonical chain identifiers shared across exchanges. Exchange-specific
// labels ("BEP20", "BNB Smart Chain (BEP20)", ...) are mapped onto these by
// the normalizer's alias table; unknown labels pass through verbatim.
const (
	ChainBSC      = "BSC"
	ChainETH      = "ETH"
	ChainTRX      = "TRX"
	ChainArbitrum = "ARBITRUM"
	ChainPolygon  = "POLYGON"
	ChainOptimism = "OPTIMISM"
	ChainAvax     = "AVAX"
	ChainSOL      = "SOL"
	ChainBTC      = "BTC"
	ChainXRP      = "XRP"
	ChainTON      = "TON"
	ChainAptos    = "APTOS"
	ChainBRC20    = "BRC20"
)

// NetworkCapability describes one coin on one chain as reported by a single
// exchange, after normalization into canonical units and field names.
type NetworkCapability struct {
	ChainID               string          `json:"chain_id"`
	RawChainLabel         string          `json:"raw_chain_label"`
	Unrecognized          bool            `json:"unrecognized,omitempty"`
	DepositEnabled        bool            `json:"deposit_enabled"`
	WithdrawEnabled       bool            `json:"withdraw_enabled"`
	WithdrawFee           decimal.Decimal `json:"withdraw_fee"`
	WithdrawFeePercentage bool            `json:"withdraw_fee_percentage,omitempty"`
	// WithdrawFeeSurcharge is an amount-proportional fee (as a fraction,
	// 0.001 = 0.1%) charged on top of WithdrawFee. Bitget's extraWithdrawFee
	// arrives this way.
	WithdrawFeeSurcharge  decimal.Decimal `json:"withdraw_fee_surcharge"`
	MinWithdraw           decimal.Decimal `json:"min_withdraw"`
	MaxWithdraw           decimal.Decimal `json:"max_withdraw"` // zero = unbounded
	MinDeposit            decimal.Decimal `json:"min_deposit"`
	Confirmations         int             `json:"confirmations"`
	RiskUnlockConfirms    int             `json:"risk_unlock_confirms,omitempty"`
	RequiresTag           bool            `json:"requires_tag,omitempty"`
	ContractAddress       string          `json:"contract_address,omitempty"`
	Congested             bool            `json:"congested,omitempty"`
	Busy                  bool            `json:"busy,omitempty"`
	AmountStepMultiple    decimal.Decimal `json:"amount_step_multiple"` // zero = unconstrained
}

// CoinCapability is one exchange's support record for one coin.
type CoinCapability struct {
	ExchangeID string `json:"exchange_id"`
	// CoinSymbol is the exchange-reported ticker, uppercased (may carry a
	// denomination prefix such as 1000SATS or 1MBABYDOGE).
	CoinSymbol string `json:"coin_symbol"`
	// BaseSymbol is the canonical ticker with any denomination prefix
	// stripped; equals CoinSymbol for ordinary listings.
	BaseSymbol string `json:"base_symbol"`
	// DenominationFactor converts one CoinSymbol unit into base units.
	// 1 for ordinary listings, e.g. 1000 for 1000SATS.
	DenominationFactor decimal.Decimal     `json:"denomination_factor"`
	Name               string              `json:"name,omitempty"`
	WithdrawEnabled    bool                `json:"withdraw_enabled"`
	DepositEnabled     bool                `json:"deposit_enabled"`
	Networks           []NetworkCapability `json:"networks"`
}

// Network returns the capability record for the given canonical chain, or nil.
func (c *CoinCapability) Network(chainID string) *NetworkCapability {
	for i := range c.Networks {
		if c.Networks[i].ChainID == chainID {
			return &c.Networks[i]
		}
	}
	return nil
}

// CapabilitySnapshot is a registry entry: one full-replacement capability
// record plus the time it was fetched from the exchange.
type CapabilitySnapshot struct {
	Capability *CoinCapability `json:"capability"`
	FetchedAt  time.Time       `json:"fetched_at"`
}

// Stale reports whether the snapshot is older than the given TTL.
func (s *CapabilitySnapshot) Stale(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.FetchedAt) > ttl
}
