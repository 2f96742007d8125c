package normalize

import (
	"encoding/json"
	"strings"

	"github.com/TerryChengTW/coin-porter/internal/domain"
)

// Binance: GET /sapi/v1/capital/config/getall returns a bare array of coin
// objects. Amounts arrive as decimal strings, enable flags as booleans.
type binanceCoin struct {
	Coin              string           `json:"coin"`
	Name              string           `json:"name"`
	DepositAllEnable  bool             `json:"depositAllEnable"`
	WithdrawAllEnable bool             `json:"withdrawAllEnable"`
	NetworkList       []binanceNetwork `json:"networkList"`
}

type binanceNetwork struct {
	Network                 string `json:"network"`
	Name                    string `json:"name"`
	DepositEnable           bool   `json:"depositEnable"`
	WithdrawEnable          bool   `json:"withdrawEnable"`
	WithdrawFee             string `json:"withdrawFee"`
	WithdrawMin             string `json:"withdrawMin"`
	WithdrawMax             string `json:"withdrawMax"`
	DepositDust             string `json:"depositDust"`
	MinConfirm              int    `json:"minConfirm"`
	UnLockConfirm           int    `json:"unLockConfirm"`
	WithdrawIntegerMultiple string `json:"withdrawIntegerMultiple"`
	MemoRegex               string `json:"memoRegex"`
	ContractAddress         string `json:"contractAddress"`
	Busy                    bool   `json:"busy"`
}

func decodeBinance(raw json.RawMessage) ([]coinRecord, error) {
	var coins []binanceCoin
	if err := json.Unmarshal(raw, &coins); err != nil {
		return nil, &domain.NormalizationError{ExchangeID: "binance", Reason: "payload is not a coin array: " + err.Error()}
	}

	records := make([]coinRecord, 0, len(coins))
	for _, c := range coins {
		rec := coinRecord{
			Symbol:          strings.ToUpper(c.Coin),
			Name:            c.Name,
			WithdrawEnabled: c.WithdrawAllEnable,
			DepositEnabled:  c.DepositAllEnable,
		}
		for _, nw := range c.NetworkList {
			// Binance reports the short network code and the descriptive
			// name separately; the descriptive name carries the token
			// standard ("BNB Smart Chain (BEP20)") so prefer the code and
			// fall back to the name.
			label := nw.Network
			if label == "" {
				label = nw.Name
			}
			rec.Networks = append(rec.Networks, networkRecord{
				ChainLabel:         label,
				DepositEnabled:     nw.DepositEnable,
				WithdrawEnabled:    nw.WithdrawEnable,
				WithdrawFee:        parseAmount(nw.WithdrawFee),
				MinWithdraw:        parseAmount(nw.WithdrawMin),
				MaxWithdraw:        parseAmount(nw.WithdrawMax),
				MinDeposit:         parseAmount(nw.DepositDust),
				Confirmations:      nw.MinConfirm,
				RiskUnlockConfirms: maxInt(nw.UnLockConfirm-nw.MinConfirm, 0),
				RequiresTag:        nw.MemoRegex != "",
				ContractAddress:    nw.ContractAddress,
				Busy:               nw.Busy,
				AmountStepMultiple: parseAmount(nw.WithdrawIntegerMultiple),
			})
		}
		records = append(records, rec)
	}
	return records, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
