package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Load builds a Config from parsed flags, an optional config file, and the
// positional target arguments. Flag values override file values; the
// secondary target defaults to DefaultSecondaryTarget when only the primary
// is given.
func Load(flags *pflag.FlagSet, args []string) (*Config, error) {
	v := viper.New()

	configPath, _ := flags.GetString("config")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := v.BindPFlag("duration", flags.Lookup("duration")); err != nil {
		return nil, err
	}
	for name, key := range map[string]string{
		"warmup-duration": "warmup_duration",
		"warmup-rate":     "warmup_rate",
		"rates":           "rates",
		"cooldown":        "cooldown",
		"timeout":         "timeout",
		"max-error-rate":  "max_error_rate",
		"max-p95":         "max_p95",
		"output-dir":      "output_dir",
		"scenarios":       "scenarios",
		"json-log":        "json_log",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, err
		}
	}

	cfg := &Config{ConfigFile: configPath}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Targets = resolveTargets(args)
	cfg.OutputDir = strings.TrimSpace(cfg.OutputDir)
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	return cfg, nil
}

func resolveTargets(args []string) []string {
	switch len(args) {
	case 0:
		return nil
	case 1:
		return []string{strings.TrimSpace(args[0]), DefaultSecondaryTarget}
	default:
		targets := make([]string, 0, len(args))
		for _, a := range args {
			targets = append(targets, strings.TrimSpace(a))
		}
		return targets
	}
}
