package resolver

import (
	"sort"

	"github.com/TerryChengTW/coin-porter/internal/domain"
)

// Select ranks candidates and picks the best. Ordering is a strict total
// order so identical inputs always produce identical output: feasible
// first, then ascending total fee, then ascending confirmations, then fewer
// hops, and finally the lexicographic chain path as tie-break.
func Select(candidates []domain.TransferCandidate) ([]domain.TransferCandidate, *domain.TransferCandidate, []string) {
	ranked := append([]domain.TransferCandidate(nil), candidates...)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if a.Feasible != b.Feasible {
			return a.Feasible
		}
		if !a.TotalFee.Equal(b.TotalFee) {
			return a.TotalFee.LessThan(b.TotalFee)
		}
		if a.EstimatedConfirmations != b.EstimatedConfirmations {
			return a.EstimatedConfirmations < b.EstimatedConfirmations
		}
		if len(a.Hops) != len(b.Hops) {
			return len(a.Hops) < len(b.Hops)
		}
		return a.ChainPath() < b.ChainPath()
	})

	if len(ranked) > 0 && ranked[0].Feasible {
		best := ranked[0]
		return ranked, &best, nil
	}

	// Nothing feasible: the reason enumerates every collected violation so
	// the caller can see why each option was rejected.
	var reasons []string
	seen := map[string]bool{}
	for _, cand := range ranked {
		for _, r := range cand.InfeasibilityReasons {
			if !seen[r] {
				seen[r] = true
				reasons = append(reasons, r)
			}
		}
	}
	return ranked, nil, reasons
}
