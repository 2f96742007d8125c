package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type RiskFlag string

const (
	RiskCongested   RiskFlag = "congested"
	RiskBusy        RiskFlag = "busy"
	RiskRequiresTag RiskFlag = "requires_tag"
	RiskNearMinimum RiskFlag = "near_minimum"
)

// HopLeg is one withdrawal-then-deposit movement of a single coin on a
// single chain between two exchange accounts.
type HopLeg struct {
	FromExchange string `json:"from_exchange"`
	ToExchange   string `json:"to_exchange"`
	Coin         string `json:"coin"`
	ChainID      string `json:"chain_id"`
}

// TransferCandidate is one evaluated option for moving a specific amount
// from source to destination. Candidates are ephemeral: built per resolution
// request and discarded once the decision is returned.
type TransferCandidate struct {
	Hops                     []HopLeg        `json:"hops"`
	TotalFee                 decimal.Decimal `json:"total_fee"`
	EstimatedConfirmations   int             `json:"estimated_confirmations"`
	EstimatedTimeSeconds     int64           `json:"estimated_time_seconds,omitempty"`
	RiskFlags                []RiskFlag      `json:"risk_flags,omitempty"`
	Feasible                 bool            `json:"feasible"`
	InfeasibilityReasons     []string        `json:"infeasibility_reasons,omitempty"`
	RequiresManualConversion bool            `json:"requires_manual_conversion,omitempty"`
}

// AddInfeasibility records one violated check. Candidates collect every
// reason rather than short-circuiting, so the decision can explain itself.
func (c *TransferCandidate) AddInfeasibility(format string, args ...any) {
	c.InfeasibilityReasons = append(c.InfeasibilityReasons, fmt.Sprintf(format, args...))
}

// AddRiskFlag records a risk flag once.
func (c *TransferCandidate) AddRiskFlag(flag RiskFlag) {
	if !c.HasRisk(flag) {
		c.RiskFlags = append(c.RiskFlags, flag)
	}
}

// HasRisk reports whether the candidate carries the given flag.
func (c *TransferCandidate) HasRisk(flag RiskFlag) bool {
	for _, f := range c.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// ChainPath joins the hop chain IDs, used as the deterministic final
// tie-break when ranking otherwise equal candidates.
func (c *TransferCandidate) ChainPath() string {
	path := ""
	for i, hop := range c.Hops {
		if i > 0 {
			path += ">"
		}
		path += hop.ChainID
	}
	return path
}

// ResolveOptions tunes a single resolution request.
type ResolveOptions struct {
	// MaxHops caps search depth; 1 = direct only, 2 allows one bridge
	// exchange in between. Defaults to 2.
	MaxHops int `json:"max_hops,omitempty"`
	// AllowBridgeConversion admits bridge candidates whose destination coin
	// differs from the requested coin. Such candidates are marked
	// RequiresManualConversion, never assumed free.
	AllowBridgeConversion bool `json:"allow_bridge_conversion,omitempty"`
	// BridgeExchangeAllowlist restricts which exchanges may act as the
	// intermediate hop. Empty = all known exchanges.
	BridgeExchangeAllowlist []string `json:"bridge_exchange_allowlist,omitempty"`
}

// ResolveRequest is the sole entry point's input.
type ResolveRequest struct {
	SourceExchange string          `json:"source_exchange" binding:"required"`
	DestExchange   string          `json:"dest_exchange" binding:"required"`
	Coin           string          `json:"coin" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Options        ResolveOptions  `json:"options"`
}

// Decision is the resolution outcome handed to the execution layer. A nil
// Best with a populated Reason is a normal business outcome (NoPathFound or
// all candidates infeasible), not an error.
type Decision struct {
	RequestID      string              `json:"request_id"`
	Best           *TransferCandidate  `json:"best,omitempty"`
	Ranked         []TransferCandidate `json:"ranked"`
	Reason         []string            `json:"reason,omitempty"`
	ProcessingTime time.Duration       `json:"processing_time"`
}
