package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/TerryChengTW/coin-porter/pkg/logger"
)

type Config struct {
	Server    ServerConfig              `yaml:"server"`
	Logging   logger.Config             `yaml:"logging"`
	Exchanges map[string]ExchangeConfig `yaml:"exchanges"`
	Resolver  ResolverConfig            `yaml:"resolver"`
	// ChainAliases maps a canonical chain ID to every label exchanges use
	// for it, e.g. BSC -> [BSC, BEP20, "BNB Smart Chain (BEP20)"].
	ChainAliases map[string][]string `yaml:"chain_aliases"`
	// BlockTimeSeconds holds the average block time per canonical chain,
	// used to turn confirmation counts into wall-clock estimates.
	BlockTimeSeconds map[string]int64 `yaml:"block_time_seconds"`
}

type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
}

type ExchangeConfig struct {
	BaseURL          string `yaml:"base_url"`
	APIKey           string `yaml:"api_key"`
	APISecret        string `yaml:"api_secret"`
	Passphrase       string `yaml:"passphrase"`
	Timeout          int    `yaml:"timeout"`
	MaxRetries       int    `yaml:"max_retries"`
	RetryBackoffBase int    `yaml:"retry_backoff_base"`
	Enabled          bool   `yaml:"enabled"`
}

type ResolverConfig struct {
	StalenessTTL time.Duration `yaml:"staleness_ttl"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// NearMinimumRatio guards amounts just above the network minimum that
	// are likely to fail once the fee is deducted. Policy constant, not a
	// protocol requirement.
	NearMinimumRatio float64 `yaml:"near_minimum_ratio"`
	MaxHops          int     `yaml:"max_hops"`
	// MinCheckPreFee selects whether network minimums are checked against
	// the requested amount before (true) or after (false) fee deduction.
	// Pointer so an omitted key defaults to true rather than false.
	MinCheckPreFee *bool `yaml:"min_check_pre_fee"`
	// CountRiskUnlock includes risk-unlock confirmations in time estimates,
	// i.e. funds must be fully unrestricted before forwarding. Defaults to
	// true when omitted.
	CountRiskUnlock *bool `yaml:"count_risk_unlock"`
	// BridgeCoins lists stable-asset substitutes a bridge leg may use when
	// conversion is allowed by the request.
	BridgeCoins       []string `yaml:"bridge_coins"`
	ConcurrentFetches int      `yaml:"concurrent_fetches"`
}

func boolPtr(b bool) *bool { return &b }

const (
	DefaultStalenessTTL     = 15 * time.Minute
	DefaultFetchTimeout     = 5 * time.Second
	DefaultNearMinimumRatio = 1.1
	DefaultMaxHops          = 2
)

func Load(path string) (*Config, error) {
	// .env is optional; secrets may come from the real environment.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	config.applyDefaults()
	config.overrideWithEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Resolver.StalenessTTL == 0 {
		c.Resolver.StalenessTTL = DefaultStalenessTTL
	}
	if c.Resolver.FetchTimeout == 0 {
		c.Resolver.FetchTimeout = DefaultFetchTimeout
	}
	if c.Resolver.NearMinimumRatio == 0 {
		c.Resolver.NearMinimumRatio = DefaultNearMinimumRatio
	}
	if c.Resolver.MaxHops == 0 {
		c.Resolver.MaxHops = DefaultMaxHops
	}
	if c.Resolver.ConcurrentFetches == 0 {
		c.Resolver.ConcurrentFetches = 4
	}
	if c.Resolver.MinCheckPreFee == nil {
		c.Resolver.MinCheckPreFee = boolPtr(true)
	}
	if c.Resolver.CountRiskUnlock == nil {
		c.Resolver.CountRiskUnlock = boolPtr(true)
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
}

// overrideWithEnv lets COINPORTER_<EXCHANGE>_KEY / _SECRET / _PASSPHRASE
// take precedence over values in the config file, so secrets never need to
// live on disk.
func (c *Config) overrideWithEnv() {
	for name, ex := range c.Exchanges {
		prefix := "COINPORTER_" + strings.ToUpper(name)
		if v := os.Getenv(prefix + "_KEY"); v != "" {
			ex.APIKey = v
		}
		if v := os.Getenv(prefix + "_SECRET"); v != "" {
			ex.APISecret = v
		}
		if v := os.Getenv(prefix + "_PASSPHRASE"); v != "" {
			ex.Passphrase = v
		}
		c.Exchanges[name] = ex
	}
}

// Validate fails fast on configuration the resolver cannot run without.
func (c *Config) Validate() error {
	if len(c.Exchanges) == 0 {
		return fmt.Errorf("at least one exchange must be configured")
	}
	for name, ex := range c.Exchanges {
		if ex.Enabled && ex.BaseURL == "" {
			return fmt.Errorf("exchange %s: base_url is required", name)
		}
	}
	if len(c.ChainAliases) == 0 {
		return fmt.Errorf("chain_aliases table is required")
	}
	seen := map[string]string{}
	for canonical, aliases := range c.ChainAliases {
		for _, alias := range aliases {
			key := strings.ToUpper(strings.TrimSpace(alias))
			if prior, ok := seen[key]; ok && prior != canonical {
				return fmt.Errorf("chain alias %q maps to both %s and %s", alias, prior, canonical)
			}
			seen[key] = canonical
		}
	}
	if c.Resolver.NearMinimumRatio < 1 {
		return fmt.Errorf("near_minimum_ratio must be >= 1, got %v", c.Resolver.NearMinimumRatio)
	}
	if c.Resolver.MaxHops < 1 || c.Resolver.MaxHops > 2 {
		return fmt.Errorf("max_hops must be 1 or 2, got %d", c.Resolver.MaxHops)
	}
	return nil
}

// EnabledExchanges returns the names of exchanges the service should build
// fetchers for.
func (c *Config) EnabledExchanges() []string {
	var names []string
	for name, ex := range c.Exchanges {
		if ex.Enabled {
			names = append(names, name)
		}
	}
	return names
}
