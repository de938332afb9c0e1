package config

import (
	"time"

	"github.com/spf13/pflag"
)

// DefaultSecondaryTarget is assumed for the optional second positional
// argument when it is omitted.
const DefaultSecondaryTarget = "http://localhost:3000"

// RegisterFlags registers all benchmark flags on the provided flag set.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.DurationP("duration", "d", 60*time.Second, "Duration of each measured phase")
	flags.Duration("warmup-duration", 10*time.Second, "Warmup phase duration (0 disables warmup)")
	flags.Int("warmup-rate", 10, "Warmup phase target rate in requests per second")
	flags.IntSliceP("rates", "r", []int{10, 25, 50, 100, 200}, "Ascending sweep of target rates (requests per second)")
	flags.Duration("cooldown", 5*time.Second, "Pause between consecutive sweep phases")
	flags.Duration("timeout", 10*time.Second, "Per-request timeout")
	flags.Float64("max-error-rate", 1.0, "Highest error percentage a phase may have and still count as sustained")
	flags.Float64("max-p95", 0, "Highest acceptable p95 response time in milliseconds (0 disables the check)")
	flags.StringP("output-dir", "o", ".", "Directory for per-target result files")
	flags.String("scenarios", "", "Path to a YAML scenario mix file (defaults to the built-in mix)")
	flags.Bool("json-log", false, "Emit diagnostics as JSON instead of console lines")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")
}
