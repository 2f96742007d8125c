package resolver

import (
	"github.com/shopspring/decimal"

	"github.com/TerryChengTW/coin-porter/internal/domain"
	"github.com/TerryChengTW/coin-porter/pkg/config"
	"github.com/TerryChengTW/coin-porter/pkg/currency"
)

// CapabilityLookup returns the normalized capability one exchange reports
// for one coin, or nil when that data is unavailable. The evaluator is pure
// over whatever snapshot the lookup represents.
type CapabilityLookup func(exchangeID, coin string) *domain.CoinCapability

// Evaluator scores a hop sequence for a given amount: accumulated fees,
// confirmation/time estimates, risk flags, and per-check infeasibility
// reasons. Amounts are in canonical base units of the coin.
type Evaluator struct {
	blockTimes      map[string]int64
	nearMin         decimal.Decimal
	minCheckPreFee  bool
	countRiskUnlock bool
}

func NewEvaluator(policy config.ResolverConfig, blockTimes map[string]int64) *Evaluator {
	return &Evaluator{
		blockTimes:      blockTimes,
		nearMin:         decimal.NewFromFloat(policy.NearMinimumRatio),
		minCheckPreFee:  policy.MinCheckPreFee == nil || *policy.MinCheckPreFee,
		countRiskUnlock: policy.CountRiskUnlock == nil || *policy.CountRiskUnlock,
	}
}

// Evaluate builds a TransferCandidate for the hop sequence. Every violated
// check appends its own reason; a candidate is feasible only when none
// fire. Fees accumulate additively across hops and are returned in base
// units of the final leg's coin, so multi-hop is never cheaper than the sum
// of its legs.
func (e *Evaluator) Evaluate(hops []domain.HopLeg, lookup CapabilityLookup, amount decimal.Decimal) domain.TransferCandidate {
	cand := domain.TransferCandidate{Hops: hops, TotalFee: decimal.Zero}
	if len(hops) == 0 {
		cand.AddInfeasibility("no hops to evaluate")
		return cand
	}

	totalFeeBase := decimal.Zero
	remaining := amount // base units, reduced per leg when fees are deducted in transit

	for i, hop := range hops {
		srcCap := lookup(hop.FromExchange, hop.Coin)
		dstCap := lookup(hop.ToExchange, hop.Coin)
		if srcCap == nil {
			cand.AddInfeasibility("capability data unavailable for %s on %s", hop.Coin, hop.FromExchange)
			continue
		}
		if dstCap == nil {
			cand.AddInfeasibility("capability data unavailable for %s on %s", hop.Coin, hop.ToExchange)
			continue
		}

		srcNet := srcCap.Network(hop.ChainID)
		dstNet := dstCap.Network(hop.ChainID)
		if srcNet == nil {
			cand.AddInfeasibility("%s does not list %s on chain %s", hop.FromExchange, hop.Coin, hop.ChainID)
			continue
		}
		if dstNet == nil {
			cand.AddInfeasibility("%s does not list %s on chain %s", hop.ToExchange, hop.Coin, hop.ChainID)
			continue
		}

		e.checkLeg(&cand, hop, srcCap, dstCap, srcNet, dstNet, remaining)

		fee := legFeeBase(srcNet, srcCap.DenominationFactor, remaining)
		totalFeeBase = totalFeeBase.Add(fee)
		remaining = remaining.Sub(fee)
		if remaining.Sign() < 0 {
			cand.AddInfeasibility("accumulated fees exceed the transferred amount on hop %d", i+1)
			remaining = decimal.Zero
		}

		// Crediting depends on the destination's confirmation requirement.
		// Some listings omit it; the source side's count for the same
		// chain is the closest available estimate.
		confirms := dstNet.Confirmations
		unlock := dstNet.RiskUnlockConfirms
		if confirms == 0 {
			confirms = srcNet.Confirmations
			unlock = srcNet.RiskUnlockConfirms
		}
		if e.countRiskUnlock {
			confirms += unlock
		}
		cand.EstimatedConfirmations += confirms
		if bt, ok := e.blockTimes[hop.ChainID]; ok {
			cand.EstimatedTimeSeconds += int64(confirms) * bt
		}
	}

	// Total fee reported in the destination coin's listed units.
	last := hops[len(hops)-1]
	cand.TotalFee = totalFeeBase
	if dstCap := lookup(last.ToExchange, last.Coin); dstCap != nil {
		cand.TotalFee = currency.FromBaseUnits(totalFeeBase, dstCap.DenominationFactor)
	}

	cand.Feasible = len(cand.InfeasibilityReasons) == 0
	return cand
}

// checkLeg runs the per-leg feasibility and risk checks against the amount
// entering the leg (base units).
func (e *Evaluator) checkLeg(cand *domain.TransferCandidate, hop domain.HopLeg, srcCap, dstCap *domain.CoinCapability, srcNet, dstNet *domain.NetworkCapability, amountBase decimal.Decimal) {
	if !srcCap.WithdrawEnabled {
		cand.AddInfeasibility("%s has withdrawals disabled for %s", hop.FromExchange, hop.Coin)
	}
	if !dstCap.DepositEnabled {
		cand.AddInfeasibility("%s has deposits disabled for %s", hop.ToExchange, hop.Coin)
	}
	if !srcNet.WithdrawEnabled {
		cand.AddInfeasibility("%s withdrawal disabled on %s for %s", hop.FromExchange, hop.ChainID, hop.Coin)
	}
	if !dstNet.DepositEnabled {
		cand.AddInfeasibility("%s deposit disabled on %s for %s", hop.ToExchange, hop.ChainID, hop.Coin)
	}

	// Exchange limits are quoted in each side's listed ticker units.
	srcAmount := currency.FromBaseUnits(amountBase, srcCap.DenominationFactor)
	dstAmount := currency.FromBaseUnits(amountBase, dstCap.DenominationFactor)

	checkAmount := srcAmount
	if !e.minCheckPreFee {
		fee := legFeeBase(srcNet, srcCap.DenominationFactor, amountBase)
		checkAmount = currency.FromBaseUnits(amountBase.Sub(fee), srcCap.DenominationFactor)
	}

	if srcNet.MinWithdraw.Sign() > 0 && checkAmount.LessThan(srcNet.MinWithdraw) {
		cand.AddInfeasibility("amount %s below minimum withdrawal %s on %s/%s",
			checkAmount, srcNet.MinWithdraw, hop.FromExchange, hop.ChainID)
	} else if srcNet.MinWithdraw.Sign() > 0 && checkAmount.LessThan(srcNet.MinWithdraw.Mul(e.nearMin)) {
		cand.AddRiskFlag(domain.RiskNearMinimum)
	}
	if !srcNet.MaxWithdraw.IsZero() && srcAmount.GreaterThan(srcNet.MaxWithdraw) {
		cand.AddInfeasibility("amount %s above maximum withdrawal %s on %s/%s",
			srcAmount, srcNet.MaxWithdraw, hop.FromExchange, hop.ChainID)
	}
	if dstNet.MinDeposit.Sign() > 0 && dstAmount.LessThan(dstNet.MinDeposit) {
		cand.AddInfeasibility("amount %s below minimum deposit %s on %s/%s",
			dstAmount, dstNet.MinDeposit, hop.ToExchange, hop.ChainID)
	}
	if !currency.IsStepMultiple(srcAmount, srcNet.AmountStepMultiple) {
		cand.AddInfeasibility("amount %s is not a multiple of withdrawal step %s on %s/%s",
			srcAmount, srcNet.AmountStepMultiple, hop.FromExchange, hop.ChainID)
	}

	if srcNet.Congested || dstNet.Congested {
		cand.AddRiskFlag(domain.RiskCongested)
	}
	if srcNet.Busy || dstNet.Busy {
		cand.AddRiskFlag(domain.RiskBusy)
	}
	// Tag provisioning belongs to the execution layer, so a required memo
	// is a risk, not a blocker.
	if srcNet.RequiresTag || dstNet.RequiresTag {
		cand.AddRiskFlag(domain.RiskRequiresTag)
	}
}

// legFeeBase returns the withdrawal fee for one leg in base units of the
// coin. Percentage fees scale with the amount entering the leg; flat fees
// are quoted in the source listing's ticker units. A surcharge is
// amount-proportional and charged on top of either form.
func legFeeBase(srcNet *domain.NetworkCapability, srcFactor, amountBase decimal.Decimal) decimal.Decimal {
	var fee decimal.Decimal
	if srcNet.WithdrawFeePercentage {
		fee = amountBase.Mul(srcNet.WithdrawFee)
	} else {
		fee = currency.ToBaseUnits(srcNet.WithdrawFee, srcFactor)
	}
	if srcNet.WithdrawFeeSurcharge.Sign() > 0 {
		fee = fee.Add(amountBase.Mul(srcNet.WithdrawFeeSurcharge))
	}
	return fee
}
