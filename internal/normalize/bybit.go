package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TerryChengTW/coin-porter/internal/domain"
)

// Bybit: GET /v5/asset/coin/query-info wraps rows in a retCode envelope.
// Every numeric field is a string; enable flags are "0"/"1" strings; an
// empty withdrawFee means withdrawal is not offered on that chain at all.
type bybitEnvelope struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Rows []bybitRow `json:"rows"`
	} `json:"result"`
}

type bybitRow struct {
	Coin   string       `json:"coin"`
	Name   string       `json:"name"`
	Chains []bybitChain `json:"chains"`
}

type bybitChain struct {
	Chain                 string `json:"chain"`
	ChainType             string `json:"chainType"`
	Confirmation          string `json:"confirmation"`
	SafeConfirmNumber     string `json:"safeConfirmNumber"`
	WithdrawFee           string `json:"withdrawFee"`
	WithdrawPercentageFee string `json:"withdrawPercentageFee"`
	DepositMin            string `json:"depositMin"`
	WithdrawMin           string `json:"withdrawMin"`
	ChainDeposit          string `json:"chainDeposit"`
	ChainWithdraw         string `json:"chainWithdraw"`
	ContractAddress       string `json:"contractAddress"`
}

func decodeBybit(raw json.RawMessage) ([]coinRecord, error) {
	var env bybitEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &domain.NormalizationError{ExchangeID: "bybit", Reason: "malformed envelope: " + err.Error()}
	}
	if env.RetCode != 0 {
		return nil, &domain.NormalizationError{ExchangeID: "bybit", Reason: fmt.Sprintf("retCode %d: %s", env.RetCode, env.RetMsg)}
	}

	records := make([]coinRecord, 0, len(env.Result.Rows))
	for _, row := range env.Result.Rows {
		rec := coinRecord{
			Symbol: strings.ToUpper(row.Coin),
			Name:   row.Name,
		}
		for _, ch := range row.Chains {
			// Empty withdrawFee marks a deposit-only chain.
			withdrawOffered := strings.TrimSpace(ch.WithdrawFee) != ""

			pctFee := parseAmount(ch.WithdrawPercentageFee)
			nw := networkRecord{
				ChainLabel:         ch.Chain,
				DepositEnabled:     ch.ChainDeposit == "1",
				WithdrawEnabled:    withdrawOffered && ch.ChainWithdraw == "1",
				MinWithdraw:        parseAmount(ch.WithdrawMin),
				MinDeposit:         parseAmount(ch.DepositMin),
				Confirmations:      parseCount(ch.Confirmation),
				RiskUnlockConfirms: maxInt(parseCount(ch.SafeConfirmNumber)-parseCount(ch.Confirmation), 0),
				ContractAddress:    ch.ContractAddress,
			}
			// Bybit reports percentage fees as decimal fractions
			// (0.02 = 2%). A non-zero percentage takes precedence over the
			// flat fee field.
			if pctFee.Sign() > 0 {
				nw.WithdrawFee = pctFee
				nw.FeeIsPercentage = true
			} else {
				nw.WithdrawFee = parseAmount(ch.WithdrawFee)
			}
			rec.Networks = append(rec.Networks, nw)
		}
		// Bybit has no coin-level enable flags; a coin is usable when any
		// chain is.
		for _, nw := range rec.Networks {
			rec.DepositEnabled = rec.DepositEnabled || nw.DepositEnabled
			rec.WithdrawEnabled = rec.WithdrawEnabled || nw.WithdrawEnabled
		}
		records = append(records, rec)
	}
	return records, nil
}
