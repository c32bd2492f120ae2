// Package config loads the settings of the sprout command line.
//
// Settings come, by increasing priority, from the defaults, the sprout.toml
// file in the data folder, the environment (a .env file in the working
// directory is loaded first) and the command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/sprout"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"github.com/shopspring/decimal"
)

// FileName is the name of the settings file in the data folder.
const FileName = "sprout.toml"

// Providers and limiters.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderYahoo        = "yahoo"
	ProviderEODHD        = "eodhd"

	LimiterFixed  = "fixed"
	LimiterBudget = "budget"
)

// Config holds every setting.
type Config struct {
	DataDir            string `toml:"-"`
	Provider           string `toml:"provider"`
	APIKey             string `toml:"api_key"`
	Currency           string `toml:"currency"`
	Limiter            string `toml:"limiter"`
	DelaySeconds       int    `toml:"delay_seconds"`
	CallsPerMinute     int    `toml:"calls_per_minute"`
	OverviewTTLMinutes int    `toml:"overview_ttl_minutes"`
	GeminiAPIKey       string `toml:"gemini_api_key"`

	// The portfolio a new data folder starts with.
	SeedCash         float64 `toml:"seed_cash"`
	SeedSymbol       string  `toml:"seed_symbol"`
	SeedShares       float64 `toml:"seed_shares"`
	SeedBuyPrice     float64 `toml:"seed_buy_price"`
	SeedCurrentPrice float64 `toml:"seed_current_price"`
}

// DefaultDataDir returns $HOME/.sprout, or .sprout when there is no home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sprout"
	}
	return filepath.Join(home, ".sprout")
}

// Default returns the default settings.
func Default() Config {
	seed := sprout.DefaultSeed()
	c := Config{
		DataDir:            DefaultDataDir(),
		Provider:           ProviderAlphaVantage,
		Currency:           seed.Currency,
		Limiter:            LimiterFixed,
		DelaySeconds:       int(sprout.DefaultDelay / time.Second),
		CallsPerMinute:     5,
		OverviewTTLMinutes: 60,
		SeedCash:           seed.Cash.InexactFloat64(),
	}
	if len(seed.Holdings) > 0 {
		h := seed.Holdings[0]
		c.SeedSymbol = h.Symbol
		c.SeedShares = h.Shares.InexactFloat64()
		c.SeedBuyPrice = h.BuyPrice.InexactFloat64()
		c.SeedCurrentPrice = h.CurrentPrice.InexactFloat64()
	}
	return c
}

// LoadDotEnv loads the .env file in the working directory, if any. Variables
// already set are kept.
func LoadDotEnv() error {
	err := godotenv.Load(".env")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load returns the settings for dataDir: defaults, then the settings file,
// then the environment. An empty dataDir is read from SPROUT_DATA_DIR or
// defaults to DefaultDataDir.
func Load(dataDir string) (Config, error) {
	c := Default()
	if dataDir == "" {
		dataDir = os.Getenv("SPROUT_DATA_DIR")
	}
	if dataDir != "" {
		c.DataDir = dataDir
	}
	if err := c.ReadFile(filepath.Join(c.DataDir, FileName)); err != nil {
		return c, err
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// ReadFile overrides c with the settings in a toml file. A missing file is
// not an error.
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	dir := c.DataDir
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid settings file %q: %w", path, err)
	}
	c.DataDir = dir
	return nil
}

// ApplyEnv overrides c with the SPROUT_* variables found by lookup.
//
// The provider's own key variable (ALPHAVANTAGE_API_KEY or EODHD_API_KEY)
// and GEMINI_API_KEY are honoured when the SPROUT_ variants are not set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(dst *string, names ...string) {
		for _, name := range names {
			if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}
	num := func(dst *int, name string) error {
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		*dst = n
		return nil
	}

	str(&c.Provider, "SPROUT_PROVIDER")
	if c.Provider == ProviderEODHD {
		str(&c.APIKey, "SPROUT_API_KEY", "EODHD_API_KEY")
	} else {
		str(&c.APIKey, "SPROUT_API_KEY", "ALPHAVANTAGE_API_KEY")
	}
	str(&c.Currency, "SPROUT_CURRENCY")
	str(&c.Limiter, "SPROUT_LIMITER")
	str(&c.GeminiAPIKey, "SPROUT_GEMINI_API_KEY", "GEMINI_API_KEY")
	return errors.Join(
		num(&c.DelaySeconds, "SPROUT_DELAY"),
		num(&c.CallsPerMinute, "SPROUT_CALLS_PER_MINUTE"),
		num(&c.OverviewTTLMinutes, "SPROUT_OVERVIEW_TTL"),
	)
}

// Validate checks the settings values.
func (c Config) Validate() error {
	var errs error
	switch c.Provider {
	case ProviderAlphaVantage, ProviderYahoo, ProviderEODHD:
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown provider %q, want %s, %s or %s", c.Provider, ProviderAlphaVantage, ProviderYahoo, ProviderEODHD))
	}
	switch c.Limiter {
	case LimiterFixed, LimiterBudget:
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown limiter %q, want %s or %s", c.Limiter, LimiterFixed, LimiterBudget))
	}
	if len(c.Currency) != 3 {
		errs = errors.Join(errs, fmt.Errorf("invalid currency %q, want a 3 letters ISO code", c.Currency))
	}
	if c.DelaySeconds < 0 {
		errs = errors.Join(errs, fmt.Errorf("delay cannot be negative, got %d", c.DelaySeconds))
	}
	if c.CallsPerMinute < 0 {
		errs = errors.Join(errs, fmt.Errorf("calls per minute cannot be negative, got %d", c.CallsPerMinute))
	}
	if c.OverviewTTLMinutes < 0 {
		errs = errors.Join(errs, fmt.Errorf("overview cache ttl cannot be negative, got %d", c.OverviewTTLMinutes))
	}
	if c.SeedCash < 0 || c.SeedShares < 0 || c.SeedBuyPrice < 0 || c.SeedCurrentPrice < 0 {
		errs = errors.Join(errs, fmt.Errorf("seed values cannot be negative"))
	}
	return errs
}

// Delay is the pause between two quote calls of the fixed limiter.
func (c Config) Delay() time.Duration { return time.Duration(c.DelaySeconds) * time.Second }

// CacheDir is the folder of the providers' daily disk cache.
func (c Config) CacheDir() string { return filepath.Join(c.DataDir, "cache") }

// OverviewTTL is how long company overviews are cached, zero disables the
// cache.
func (c Config) OverviewTTL() time.Duration {
	return time.Duration(c.OverviewTTLMinutes) * time.Minute
}

// Seed returns the starting portfolio of a new data folder.
func (c Config) Seed() sprout.Seed {
	s := sprout.Seed{
		Currency: strings.ToUpper(c.Currency),
		Cash:     decimal.NewFromFloat(c.SeedCash),
	}
	if c.SeedSymbol != "" && c.SeedShares > 0 {
		s.Holdings = append(s.Holdings, sprout.SeedHolding{
			Symbol:       c.SeedSymbol,
			Shares:       decimal.NewFromFloat(c.SeedShares),
			BuyPrice:     decimal.NewFromFloat(c.SeedBuyPrice),
			CurrentPrice: decimal.NewFromFloat(c.SeedCurrentPrice),
		})
	}
	return s
}
