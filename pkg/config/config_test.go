package config

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

const minimalYAML = `
server:
  port: "9090"
exchanges:
  binance:
    base_url: https://api.binance.com
    enabled: true
  bybit:
    base_url: https://api.bybit.com
    api_key: file-key
    enabled: true
  okx:
    base_url: https://www.okx.com
    enabled: false
chain_aliases:
  ETH: [ERC20]
  BSC: [BEP20, "BNB Smart Chain (BEP20)"]
block_time_seconds:
  ETH: 12
`

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %s, want 9090", cfg.Server.Port)
	}
	if cfg.Resolver.StalenessTTL != 15*time.Minute {
		t.Errorf("staleness TTL default = %v, want 15m", cfg.Resolver.StalenessTTL)
	}
	if cfg.Resolver.FetchTimeout != 5*time.Second {
		t.Errorf("fetch timeout default = %v, want 5s", cfg.Resolver.FetchTimeout)
	}
	if cfg.Resolver.NearMinimumRatio != 1.1 {
		t.Errorf("near minimum ratio default = %v, want 1.1", cfg.Resolver.NearMinimumRatio)
	}
	if cfg.Resolver.MaxHops != 2 {
		t.Errorf("max hops default = %d, want 2", cfg.Resolver.MaxHops)
	}
	if cfg.BlockTimeSeconds["ETH"] != 12 {
		t.Errorf("ETH block time = %d, want 12", cfg.BlockTimeSeconds["ETH"])
	}
	if cfg.Resolver.MinCheckPreFee == nil || !*cfg.Resolver.MinCheckPreFee {
		t.Error("min_check_pre_fee omitted, want default true")
	}
	if cfg.Resolver.CountRiskUnlock == nil || !*cfg.Resolver.CountRiskUnlock {
		t.Error("count_risk_unlock omitted, want default true")
	}
}

func TestLoad_PolicyFlagsExplicitFalse(t *testing.T) {
	yaml := minimalYAML + `
resolver:
  min_check_pre_fee: false
  count_risk_unlock: false
`
	cfg, err := Load(writeConfig(t, yaml))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Resolver.MinCheckPreFee == nil || *cfg.Resolver.MinCheckPreFee {
		t.Error("explicit min_check_pre_fee false must survive defaulting")
	}
	if cfg.Resolver.CountRiskUnlock == nil || *cfg.Resolver.CountRiskUnlock {
		t.Error("explicit count_risk_unlock false must survive defaulting")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("COINPORTER_BYBIT_KEY", "env-key")
	t.Setenv("COINPORTER_BYBIT_SECRET", "env-secret")

	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Exchanges["bybit"].APIKey != "env-key" {
		t.Errorf("api key = %s, want env-key", cfg.Exchanges["bybit"].APIKey)
	}
	if cfg.Exchanges["bybit"].APISecret != "env-secret" {
		t.Errorf("api secret = %s, want env-secret", cfg.Exchanges["bybit"].APISecret)
	}
	// Untouched exchanges keep their file values.
	if cfg.Exchanges["binance"].APIKey != "" {
		t.Errorf("binance key = %s, want empty", cfg.Exchanges["binance"].APIKey)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Exchanges: map[string]ExchangeConfig{
				"binance": {BaseURL: "https://api.binance.com", Enabled: true},
			},
			ChainAliases: map[string][]string{
				"ETH": {"ERC20"},
				"BSC": {"BEP20"},
			},
			Resolver: ResolverConfig{NearMinimumRatio: 1.1, MaxHops: 2},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid", func(*Config) {}, false},
		{"No exchanges", func(c *Config) { c.Exchanges = nil }, true},
		{"Enabled exchange without base URL", func(c *Config) {
			c.Exchanges["binance"] = ExchangeConfig{Enabled: true}
		}, true},
		{"Disabled exchange without base URL", func(c *Config) {
			c.Exchanges["okx"] = ExchangeConfig{Enabled: false}
		}, false},
		{"Empty alias table", func(c *Config) { c.ChainAliases = nil }, true},
		{"Alias claimed by two chains", func(c *Config) {
			c.ChainAliases["TRX"] = []string{"BEP20"}
		}, true},
		{"Alias collision differs only by case", func(c *Config) {
			c.ChainAliases["TRX"] = []string{"bep20"}
		}, true},
		{"Ratio below one", func(c *Config) { c.Resolver.NearMinimumRatio = 0.9 }, true},
		{"Zero max hops", func(c *Config) { c.Resolver.MaxHops = 0 }, true},
		{"Three max hops", func(c *Config) { c.Resolver.MaxHops = 3 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnabledExchanges(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := cfg.EnabledExchanges()
	sort.Strings(got)
	want := []string{"binance", "bybit"}
	if len(got) != len(want) {
		t.Fatalf("EnabledExchanges() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EnabledExchanges()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
