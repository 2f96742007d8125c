package resolver

import (
	"reflect"
	"testing"
)

func TestDirectNetworks(t *testing.T) {
	t.Run("Intersection of enabled chains", func(t *testing.T) {
		// Source withdraws on TRX+ETH, destination deposits on ETH+BSC:
		// only ETH is usable end to end.
		src := coin("binance", "USDT", network("TRX", "1", "10"), network("ETH", "3", "20"))
		dst := coin("bybit", "USDT", network("ETH", "0", "0"), network("BSC", "0", "0"))

		got := DirectNetworks(src, dst)
		if !reflect.DeepEqual(got, []string{"ETH"}) {
			t.Errorf("DirectNetworks = %v, want [ETH]", got)
		}
	})

	t.Run("Disabled side excludes the chain", func(t *testing.T) {
		src := coin("binance", "USDT", network("ETH", "3", "20"))
		srcDisabled := coin("binance", "USDT", network("ETH", "3", "20"))
		srcDisabled.Networks[0].WithdrawEnabled = false

		dst := coin("bybit", "USDT", network("ETH", "0", "0"))
		dstDisabled := coin("bybit", "USDT", network("ETH", "0", "0"))
		dstDisabled.Networks[0].DepositEnabled = false

		if got := DirectNetworks(srcDisabled, dst); len(got) != 0 {
			t.Errorf("withdraw-disabled source still matched: %v", got)
		}
		if got := DirectNetworks(src, dstDisabled); len(got) != 0 {
			t.Errorf("deposit-disabled destination still matched: %v", got)
		}
	})

	t.Run("No intersection is empty, not an error", func(t *testing.T) {
		src := coin("binance", "USDT", network("TRX", "1", "10"))
		dst := coin("bybit", "USDT", network("BSC", "0.3", "10"))

		if got := DirectNetworks(src, dst); got != nil {
			t.Errorf("expected empty result, got %v", got)
		}
	})

	t.Run("Missing capability", func(t *testing.T) {
		src := coin("binance", "USDT", network("ETH", "3", "20"))
		if got := DirectNetworks(src, nil); got != nil {
			t.Errorf("nil destination should yield nothing, got %v", got)
		}
		if got := DirectNetworks(nil, src); got != nil {
			t.Errorf("nil source should yield nothing, got %v", got)
		}
	})

	t.Run("Deterministic order", func(t *testing.T) {
		src := coin("binance", "USDT",
			network("TRX", "1", "10"), network("ETH", "3", "20"), network("BSC", "0.3", "10"))
		dst := coin("bybit", "USDT",
			network("BSC", "0", "0"), network("TRX", "0", "0"), network("ETH", "0", "0"))

		want := []string{"BSC", "ETH", "TRX"}
		for i := 0; i < 5; i++ {
			if got := DirectNetworks(src, dst); !reflect.DeepEqual(got, want) {
				t.Fatalf("run %d: DirectNetworks = %v, want %v", i, got, want)
			}
		}
	})

	t.Run("Duplicate chain entries collapse", func(t *testing.T) {
		src := coin("binance", "USDT", network("ETH", "3", "20"))
		dst := coin("bybit", "USDT", network("ETH", "0", "0"), network("ETH", "0", "0"))

		if got := DirectNetworks(src, dst); !reflect.DeepEqual(got, []string{"ETH"}) {
			t.Errorf("duplicate destination listing should collapse: %v", got)
		}
	})
}