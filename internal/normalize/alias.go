package normalize

import (
	"regexp"
	"strings"
)

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// ChainResolver maps exchange-reported chain labels onto canonical chain
// IDs. Labels are cleaned (parenthetical qualifiers stripped, trimmed,
// uppercased) before lookup, so "BNB Smart Chain (BEP20)" and "BEP-20"
// both land on BSC.
type ChainResolver struct {
	byAlias map[string]string
}

// NewChainResolver builds a resolver from a canonical-ID -> aliases table.
// The canonical ID itself is always accepted as its own alias.
func NewChainResolver(table map[string][]string) *ChainResolver {
	byAlias := make(map[string]string, len(table)*4)
	for canonical, aliases := range table {
		canonical = strings.ToUpper(strings.TrimSpace(canonical))
		byAlias[canonical] = canonical
		for _, alias := range aliases {
			byAlias[cleanLabel(alias)] = canonical
		}
	}
	return &ChainResolver{byAlias: byAlias}
}

// Resolve returns the canonical chain ID for a raw label. Unknown labels
// are passed through cleaned, not dropped: the second return value reports
// whether the label was recognized.
func (r *ChainResolver) Resolve(label string) (string, bool) {
	cleaned := cleanLabel(label)
	if cleaned == "" {
		return "", false
	}
	if canonical, ok := r.byAlias[cleaned]; ok {
		return canonical, true
	}
	return cleaned, false
}

func cleanLabel(label string) string {
	cleaned := parenthetical.ReplaceAllString(label, "")
	cleaned = strings.ToUpper(strings.TrimSpace(cleaned))
	// Exchanges are inconsistent about dashes in token-standard names
	// (ERC20 vs ERC-20).
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	return cleaned
}
