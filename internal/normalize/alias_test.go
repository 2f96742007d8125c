package normalize

import "testing"

func testAliasTable() map[string][]string {
	return map[string][]string{
		"BSC": {"BSC", "BEP20", "BEP-20", "BNB Smart Chain", "BNB Smart Chain (BEP20)"},
		"ETH": {"ETH", "ERC20", "ERC-20", "Ethereum", "Ethereum (ERC20)"},
		"TRX": {"TRX", "TRC20", "TRC-20", "Tron", "Tron (TRC20)"},
		"SOL": {"SOL", "Solana"},
	}
}

func TestChainResolver_Resolve(t *testing.T) {
	r := NewChainResolver(testAliasTable())

	tests := []struct {
		label          string
		want           string
		wantRecognized bool
	}{
		{"BSC", "BSC", true},
		{"BEP20", "BSC", true},
		{"BEP-20", "BSC", true},
		{"BNB Smart Chain (BEP20)", "BSC", true},
		{"bnb smart chain", "BSC", true},
		{"ERC20", "ETH", true},
		{"Ethereum (ERC20)", "ETH", true},
		{"Tron (TRC20)", "TRX", true},
		{"Solana", "SOL", true},
		// Unknown labels pass through cleaned, never dropped.
		{"KAVAEVM", "KAVAEVM", false},
		{"Some New Chain (XYZ)", "SOME NEW CHAIN", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, recognized := r.Resolve(tt.label)
			if got != tt.want || recognized != tt.wantRecognized {
				t.Errorf("Resolve(%q) = (%q, %v), want (%q, %v)",
					tt.label, got, recognized, tt.want, tt.wantRecognized)
			}
		})
	}
}

// Two exchanges labeling the same chain differently must land on one
// canonical ID, otherwise the matcher would never find the intersection.
func TestChainResolver_RoundTrip(t *testing.T) {
	r := NewChainResolver(testAliasTable())

	a, _ := r.Resolve("BEP20")
	b, _ := r.Resolve("BSC")
	c, _ := r.Resolve("BNB Smart Chain (BEP20)")

	if a != b || b != c {
		t.Errorf("labels for the same chain resolved differently: %q, %q, %q", a, b, c)
	}
}

func TestChainResolver_EmptyLabel(t *testing.T) {
	r := NewChainResolver(testAliasTable())
	if got, ok := r.Resolve(""); got != "" || ok {
		t.Errorf("Resolve(\"\") = (%q, %v), want (\"\", false)", got, ok)
	}
}
