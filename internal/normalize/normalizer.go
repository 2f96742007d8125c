package normalize

import (
	"encoding/json"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/TerryChengTW/coin-porter/internal/domain"
	"github.com/TerryChengTW/coin-porter/pkg/currency"
)

// coinRecord is the exchange-neutral intermediate every payload decoder
// produces. One generic pass turns it into a domain.CoinCapability, so all
// per-exchange quirks stay inside the decoder table.
type coinRecord struct {
	Symbol          string
	Name            string
	WithdrawEnabled bool
	DepositEnabled  bool
	Networks        []networkRecord
}

type networkRecord struct {
	ChainLabel         string
	DepositEnabled     bool
	WithdrawEnabled    bool
	WithdrawFee        decimal.Decimal
	FeeIsPercentage    bool
	FeeSurchargePct    decimal.Decimal
	MinWithdraw        decimal.Decimal
	MaxWithdraw        decimal.Decimal
	MinDeposit         decimal.Decimal
	Confirmations      int
	RiskUnlockConfirms int
	RequiresTag        bool
	ContractAddress    string
	Congested          bool
	Busy               bool
	AmountStepMultiple decimal.Decimal
}

// decodeFunc turns one exchange's raw capability payload into neutral
// records. Adding an exchange means registering a new entry in the decoder
// table, not adding control flow anywhere else.
type decodeFunc func(raw json.RawMessage) ([]coinRecord, error)

type Normalizer struct {
	chains   *ChainResolver
	decoders map[string]decodeFunc
	logger   zerolog.Logger
}

func New(chains *ChainResolver, logger zerolog.Logger) *Normalizer {
	return &Normalizer{
		chains: chains,
		decoders: map[string]decodeFunc{
			"binance": decodeBinance,
			"bybit":   decodeBybit,
			"bitget":  decodeBitget,
		},
		logger: logger.With().Str("component", "normalizer").Logger(),
	}
}

// Supports reports whether a decoder is registered for the exchange.
func (n *Normalizer) Supports(exchangeID string) bool {
	_, ok := n.decoders[exchangeID]
	return ok
}

// Normalize converts a raw exchange payload into canonical capabilities.
// Pure over its inputs: no I/O, no clock. Records missing a coin symbol or
// without a single decodable network are dropped with a logged reason,
// never silently merged; a payload that cannot be decoded at all returns a
// NormalizationError.
func (n *Normalizer) Normalize(exchangeID string, raw json.RawMessage) ([]domain.CoinCapability, error) {
	decode, ok := n.decoders[exchangeID]
	if !ok {
		return nil, &domain.NormalizationError{ExchangeID: exchangeID, Reason: "no decoder registered"}
	}

	records, err := decode(raw)
	if err != nil {
		return nil, err
	}

	caps := make([]domain.CoinCapability, 0, len(records))
	for _, rec := range records {
		cap, dropReason := n.finalize(exchangeID, rec)
		if dropReason != "" {
			n.logger.Warn().
				Str("exchange", exchangeID).
				Str("coin", rec.Symbol).
				Str("reason", dropReason).
				Msg("Dropping capability record")
			continue
		}
		caps = append(caps, cap)
	}

	sort.Slice(caps, func(i, j int) bool { return caps[i].CoinSymbol < caps[j].CoinSymbol })
	return caps, nil
}

// NormalizeCoin is Normalize restricted to a single coin symbol, matching
// either the listed ticker or its denomination-stripped base symbol
// (querying SATS finds a 1000SATS listing).
func (n *Normalizer) NormalizeCoin(exchangeID, coin string, raw json.RawMessage) (*domain.CoinCapability, error) {
	caps, err := n.Normalize(exchangeID, raw)
	if err != nil {
		return nil, err
	}
	want, _ := currency.SplitDenomination(coin)
	for i := range caps {
		if caps[i].CoinSymbol == want || caps[i].BaseSymbol == want {
			return &caps[i], nil
		}
	}
	return nil, nil
}

func (n *Normalizer) finalize(exchangeID string, rec coinRecord) (domain.CoinCapability, string) {
	if rec.Symbol == "" {
		return domain.CoinCapability{}, "missing coin symbol"
	}
	if len(rec.Networks) == 0 {
		// A coin with zero networks cannot move anywhere; treat as
		// unsupported rather than emitting an unusable record.
		return domain.CoinCapability{}, "no networks reported"
	}

	base, factor := currency.SplitDenomination(rec.Symbol)

	cap := domain.CoinCapability{
		ExchangeID:         exchangeID,
		CoinSymbol:         rec.Symbol,
		BaseSymbol:         base,
		DenominationFactor: factor,
		Name:               rec.Name,
		WithdrawEnabled:    rec.WithdrawEnabled,
		DepositEnabled:     rec.DepositEnabled,
		Networks:           make([]domain.NetworkCapability, 0, len(rec.Networks)),
	}

	for _, nw := range rec.Networks {
		if nw.ChainLabel == "" {
			n.logger.Warn().
				Str("exchange", exchangeID).
				Str("coin", rec.Symbol).
				Msg("Dropping network with empty chain label")
			continue
		}
		if !nw.MaxWithdraw.IsZero() && nw.MaxWithdraw.LessThan(nw.MinWithdraw) {
			n.logger.Warn().
				Str("exchange", exchangeID).
				Str("coin", rec.Symbol).
				Str("chain", nw.ChainLabel).
				Str("min", nw.MinWithdraw.String()).
				Str("max", nw.MaxWithdraw.String()).
				Msg("Dropping network with max below min withdrawal")
			continue
		}

		chainID, recognized := n.chains.Resolve(nw.ChainLabel)
		cap.Networks = append(cap.Networks, domain.NetworkCapability{
			ChainID:               chainID,
			RawChainLabel:         nw.ChainLabel,
			Unrecognized:          !recognized,
			DepositEnabled:        nw.DepositEnabled,
			WithdrawEnabled:       nw.WithdrawEnabled,
			WithdrawFee:           nw.WithdrawFee,
			WithdrawFeePercentage: nw.FeeIsPercentage,
			WithdrawFeeSurcharge:  nw.FeeSurchargePct,
			MinWithdraw:           nw.MinWithdraw,
			MaxWithdraw:           nw.MaxWithdraw,
			MinDeposit:            nw.MinDeposit,
			Confirmations:         nw.Confirmations,
			RiskUnlockConfirms:    nw.RiskUnlockConfirms,
			RequiresTag:           nw.RequiresTag,
			ContractAddress:       nw.ContractAddress,
			Congested:             nw.Congested,
			Busy:                  nw.Busy,
			AmountStepMultiple:    nw.AmountStepMultiple,
		})
	}

	if len(cap.Networks) == 0 {
		return domain.CoinCapability{}, "no decodable networks"
	}
	return cap, ""
}
