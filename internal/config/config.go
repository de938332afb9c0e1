package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds everything a benchmark run needs: the targets under test,
// the phase plan (warmup, sweep rates, cooldown), per-request limits, the
// scenario mix, and output settings.
type Config struct {
	Targets        []string      `mapstructure:"targets"`
	Duration       time.Duration `mapstructure:"duration"`
	WarmupDuration time.Duration `mapstructure:"warmup_duration"`
	WarmupRate     int           `mapstructure:"warmup_rate"`
	Rates          []int         `mapstructure:"rates"`
	Cooldown       time.Duration `mapstructure:"cooldown"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxErrorRate   float64       `mapstructure:"max_error_rate"`
	MaxP95         float64       `mapstructure:"max_p95"`
	OutputDir      string        `mapstructure:"output_dir"`
	ScenarioFile   string        `mapstructure:"scenarios"`
	JSONLog        bool          `mapstructure:"json_log"`
	ConfigFile     string        `mapstructure:"-"`
}

// ValidationError aggregates every configuration issue found so the user
// sees all of them at once.
type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string

	if len(c.Targets) == 0 {
		issues = append(issues, "at least one target URL is required")
	}
	for _, target := range c.Targets {
		if err := validateTargetURL(target); err != nil {
			issues = append(issues, err.Error())
		}
	}

	if c.Duration <= 0 {
		issues = append(issues, "duration must be > 0")
	}
	if c.WarmupDuration < 0 {
		issues = append(issues, "warmup-duration must be >= 0")
	}
	if c.WarmupDuration > 0 && c.WarmupRate <= 0 {
		issues = append(issues, "warmup-rate must be > 0 when warmup-duration is set")
	}
	if c.Cooldown < 0 {
		issues = append(issues, "cooldown must be >= 0")
	}
	if c.Timeout <= 0 {
		issues = append(issues, "timeout must be > 0")
	}
	if c.MaxErrorRate < 0 || c.MaxErrorRate > 100 {
		issues = append(issues, "max-error-rate must be between 0 and 100")
	}
	if c.MaxP95 < 0 {
		issues = append(issues, "max-p95 must be >= 0")
	}

	if len(c.Rates) == 0 {
		issues = append(issues, "at least one sweep rate is required")
	}
	prev := 0
	for idx, r := range c.Rates {
		if r <= 0 {
			issues = append(issues, fmt.Sprintf("rates[%d]: rate must be > 0, got %d", idx, r))
			continue
		}
		if r <= prev {
			issues = append(issues, fmt.Sprintf("rates[%d]: sweep rates must be strictly ascending", idx))
		}
		prev = r
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateTargetURL(target string) error {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil {
		return fmt.Errorf("target %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("target %q: scheme must be http or https", target)
	}
	if u.Host == "" {
		return fmt.Errorf("target %q: host is required", target)
	}
	return nil
}

// TargetLabel derives a filesystem-safe label for a target URL, used to
// name its results artifact (host and port, dots and colons flattened).
func TargetLabel(target string) string {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil || u.Host == "" {
		return "target"
	}
	label := strings.NewReplacer(".", "-", ":", "-").Replace(u.Host)
	return strings.Trim(label, "-")
}
