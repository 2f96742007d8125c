package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TerryChengTW/coin-porter/internal/domain"
)

// Bitget: GET /api/v2/spot/public/coins wraps data in a code envelope
// ("00000" = success). Booleans arrive as "true"/"false" strings, the
// congestion flag as "normal"/"congested", and extraWithdrawFee as a
// whole-percent string charged on top of the flat fee.
type bitgetEnvelope struct {
	Code string       `json:"code"`
	Msg  string       `json:"msg"`
	Data []bitgetCoin `json:"data"`
}

type bitgetCoin struct {
	Coin   string        `json:"coin"`
	Chains []bitgetChain `json:"chains"`
}

type bitgetChain struct {
	Chain             string `json:"chain"`
	NeedTag           string `json:"needTag"`
	Withdrawable      string `json:"withdrawable"`
	Rechargeable      string `json:"rechargeable"`
	WithdrawFee       string `json:"withdrawFee"`
	ExtraWithdrawFee  string `json:"extraWithdrawFee"`
	DepositConfirm    string `json:"depositConfirm"`
	WithdrawConfirm   string `json:"withdrawConfirm"`
	MinDepositAmount  string `json:"minDepositAmount"`
	MinWithdrawAmount string `json:"minWithdrawAmount"`
	MaxWithdrawAmount string `json:"maxWithdrawAmount"`
	WithdrawStep      string `json:"withdrawStep"`
	Congestion        string `json:"congestion"`
	ContractAddress   string `json:"contractAddress"`
}

func decodeBitget(raw json.RawMessage) ([]coinRecord, error) {
	var env bitgetEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &domain.NormalizationError{ExchangeID: "bitget", Reason: "malformed envelope: " + err.Error()}
	}
	if env.Code != "00000" {
		return nil, &domain.NormalizationError{ExchangeID: "bitget", Reason: fmt.Sprintf("code %s: %s", env.Code, env.Msg)}
	}

	records := make([]coinRecord, 0, len(env.Data))
	for _, c := range env.Data {
		rec := coinRecord{Symbol: strings.ToUpper(c.Coin)}
		for _, ch := range c.Chains {
			nw := networkRecord{
				ChainLabel:         ch.Chain,
				DepositEnabled:     ch.Rechargeable == "true",
				WithdrawEnabled:    ch.Withdrawable == "true",
				MinWithdraw:        parseAmount(ch.MinWithdrawAmount),
				MaxWithdraw:        parseAmount(ch.MaxWithdrawAmount),
				MinDeposit:         parseAmount(ch.MinDepositAmount),
				Confirmations:      parseCount(ch.DepositConfirm),
				RequiresTag:        ch.NeedTag == "true",
				ContractAddress:    ch.ContractAddress,
				Congested:          ch.Congestion == "congested",
				AmountStepMultiple: parseAmount(ch.WithdrawStep),
			}
			// extraWithdrawFee is a whole-percent surcharge ("0.1" = 0.1%)
			// charged in addition to the flat withdrawFee, so both are
			// kept on the record.
			nw.WithdrawFee = parseAmount(ch.WithdrawFee)
			if extra := parseAmount(ch.ExtraWithdrawFee); extra.Sign() > 0 {
				nw.FeeSurchargePct = extra.Div(hundred)
			}
			rec.Networks = append(rec.Networks, nw)
		}
		for _, nw := range rec.Networks {
			rec.DepositEnabled = rec.DepositEnabled || nw.DepositEnabled
			rec.WithdrawEnabled = rec.WithdrawEnabled || nw.WithdrawEnabled
		}
		records = append(records, rec)
	}
	return records, nil
}
