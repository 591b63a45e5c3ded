// Package config provides the typed configuration surface for a run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gmendonca/selo/internal/catalog"
	"github.com/gmendonca/selo/internal/common"
	"github.com/gmendonca/selo/internal/model"
	"github.com/gmendonca/selo/internal/price"
	"github.com/gmendonca/selo/internal/stats"
	"github.com/gmendonca/selo/internal/trust"
	"github.com/spf13/viper"
)

// Config is everything the caller may tune for a run: the seller trust
// table, the plausibility caps, and the column bindings. The classifier
// thresholds are deliberately not here; they are fixed constants.
type Config struct {
	TrustMap     trust.Map
	DefaultTrust int

	MaxPrice    float64
	MaxAvgPrice float64

	Columns catalog.Columns
	CSV     catalog.CSVOptions
}

// Default returns the built-in configuration: the stock trust table, the
// standard caps, and the source catalogs' column names and CSV conventions.
func Default() *Config {
	return &Config{
		TrustMap:     trust.DefaultMap(),
		DefaultTrust: trust.DefaultTier,
		MaxPrice:     price.DefaultMaxPlausible,
		MaxAvgPrice:  stats.DefaultMaxPlausibleAvg,
		Columns:      catalog.DefaultColumns(),
		CSV:          catalog.DefaultCSVOptions(),
	}
}

// FromViper hydrates a Config from the already-initialized viper state,
// layering file and environment settings over the defaults.
func FromViper() (*Config, error) {
	cfg := Default()

	if sellers := viper.GetStringMapString("sellers.trust"); len(sellers) > 0 {
		m := make(trust.Map, len(sellers))
		for name, tier := range sellers {
			var t int
			if _, err := fmt.Sscanf(tier, "%d", &t); err != nil {
				return nil, fmt.Errorf("%w: trust tier %q for seller %q", common.ErrInvalidConfig, tier, name)
			}
			m[strings.ToUpper(strings.TrimSpace(name))] = t
		}
		cfg.TrustMap = m
	}
	if viper.IsSet("sellers.default_trust") {
		cfg.DefaultTrust = viper.GetInt("sellers.default_trust")
	}

	if viper.IsSet("caps.price") {
		cfg.MaxPrice = viper.GetFloat64("caps.price")
	}
	if viper.IsSet("caps.category_avg") {
		cfg.MaxAvgPrice = viper.GetFloat64("caps.category_avg")
	}

	if v := viper.GetString("columns.title"); v != "" {
		cfg.Columns.Title = v
	}
	if v := viper.GetString("columns.price"); v != "" {
		cfg.Columns.Price = v
	}
	if v := viper.GetString("columns.seller"); v != "" {
		cfg.Columns.Seller = v
	}
	if v := viper.GetString("columns.category"); v != "" {
		cfg.Columns.Category = v
	}
	if v := viper.GetString("columns.claim"); v != "" {
		cfg.Columns.Claim = v
	}
	if v := viper.GetString("columns.quality"); v != "" {
		cfg.Columns.Quality = v
	}

	if v := viper.GetString("output.delimiter"); v != "" {
		r, _ := utf8.DecodeRuneInString(v)
		cfg.CSV.Delimiter = r
	}
	if viper.IsSet("output.decimal_comma") {
		cfg.CSV.DecimalComma = viper.GetBool("output.decimal_comma")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline's invariants cannot hold
// under.
func (c *Config) Validate() error {
	for name, tier := range c.TrustMap {
		if tier < model.TrustSuspect || tier > model.TrustHigh {
			return fmt.Errorf("%w: seller %q has trust tier %d, want 1-3", common.ErrInvalidConfig, name, tier)
		}
	}
	if c.DefaultTrust < model.TrustSuspect || c.DefaultTrust > model.TrustHigh {
		return fmt.Errorf("%w: default trust tier %d, want 1-3", common.ErrInvalidConfig, c.DefaultTrust)
	}
	if c.MaxPrice <= 0 {
		return fmt.Errorf("%w: individual price cap must be positive", common.ErrInvalidConfig)
	}
	if c.MaxAvgPrice <= 0 {
		return fmt.Errorf("%w: category average cap must be positive", common.ErrInvalidConfig)
	}
	return nil
}

// ExpandPath expands ~ and $VAR style environment variables in a file path.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}
	return os.ExpandEnv(path)
}
