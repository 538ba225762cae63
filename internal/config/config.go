// Package config resolves program limits and parser defaults.
//
// Values are taken, highest first, from command-line flags, VERA_*
// environment variables, an optional config file named by --config, and
// built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/vera/internal/ir"
	"github.com/roach88/vera/internal/parser"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "VERA"

// Configuration keys. Environment variables are VERA_ plus the upper-cased key.
const (
	KeyMaxSymbols        = "max_symbols"
	KeyMaxRules          = "max_rules"
	KeyMaxNameBytes      = "max_name_bytes"
	KeyImplicitConstants = "implicit_constants"
)

// Flag names.
const (
	FlagConfig              = "config"
	FlagMaxSymbols          = "max-symbols"
	FlagMaxRules            = "max-rules"
	FlagMaxNameBytes        = "max-name-bytes"
	FlagNoImplicitConstants = "no-implicit-constants"
)

// Config is the resolved configuration.
type Config struct {
	Limits            ir.Limits
	ImplicitConstants bool
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Limits:            ir.DefaultLimits(),
		ImplicitConstants: true,
	}
}

// ParserOptions returns the parser options this configuration implies.
func (c Config) ParserOptions() parser.Options {
	return parser.Options{
		ImplicitConstants: c.ImplicitConstants,
		Limits:            c.Limits,
	}
}

// AddFlags registers the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(FlagConfig, "", "config file (yaml, json or toml)")
	fs.Int(FlagMaxSymbols, d.Limits.MaxSymbols, "maximum distinct symbols, 0 for unlimited")
	fs.Int(FlagMaxRules, d.Limits.MaxRules, "maximum rules, 0 for unlimited")
	fs.Int(FlagMaxNameBytes, d.Limits.MaxNameBytes, "maximum total bytes of symbol names, 0 for unlimited")
	fs.Bool(FlagNoImplicitConstants, false, "treat ':' as part of symbol names")
}

// Load resolves the configuration. fs may be nil, or a flag set that does
// not carry every flag from AddFlags.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault(KeyMaxSymbols, d.Limits.MaxSymbols)
	v.SetDefault(KeyMaxRules, d.Limits.MaxRules)
	v.SetDefault(KeyMaxNameBytes, d.Limits.MaxNameBytes)
	v.SetDefault(KeyImplicitConstants, d.ImplicitConstants)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return Config{}, err
		}
		if f := fs.Lookup(FlagConfig); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := Config{
		Limits: ir.Limits{
			MaxSymbols:   v.GetInt(KeyMaxSymbols),
			MaxRules:     v.GetInt(KeyMaxRules),
			MaxNameBytes: v.GetInt(KeyMaxNameBytes),
		},
		ImplicitConstants: v.GetBool(KeyImplicitConstants),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range map[string]string{
		KeyMaxSymbols:   FlagMaxSymbols,
		KeyMaxRules:     FlagMaxRules,
		KeyMaxNameBytes: FlagMaxNameBytes,
	} {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	// The flag is the negation of the key, so it overrides instead of binding.
	if f := fs.Lookup(FlagNoImplicitConstants); f != nil && f.Changed {
		off, err := fs.GetBool(FlagNoImplicitConstants)
		if err != nil {
			return err
		}
		v.Set(KeyImplicitConstants, !off)
	}
	return nil
}

// Validate rejects negative limits.
func (c Config) Validate() error {
	for _, l := range []struct {
		key string
		n   int
	}{
		{KeyMaxSymbols, c.Limits.MaxSymbols},
		{KeyMaxRules, c.Limits.MaxRules},
		{KeyMaxNameBytes, c.Limits.MaxNameBytes},
	} {
		if l.n < 0 {
			return fmt.Errorf("invalid config: %s must be non-negative, got %d", l.key, l.n)
		}
	}
	return nil
}
