// Package analytics implements the statistical engine: trading-calendar
// resolution, rolling-window volume anomaly detection, lagged
// cross-correlation, price tracking statistics, and per-asset-type
// aggregation. Every function is a pure function of its inputs; the package
// holds no state and performs no I/O, so calls are safe to run concurrently
// across assets.
package analytics

// Config carries the tunable thresholds of the engine. The zero value is
// usable: any unset field falls back to the defaults below.
type Config struct {
	// WindowSize is the number of preceding trading days in the anomaly
	// reference window.
	WindowSize int
	// ConfidenceThreshold is the |t| bound above which a day is flagged.
	// It is paired with WindowSize: the default 4.303 is the two-tailed 95%
	// critical value for window size 3 (df=2). Callers changing WindowSize
	// should change this too; see CriticalValue95.
	ConfidenceThreshold float64
	// MaxLag bounds the cross-correlation sweep to [-MaxLag, +MaxLag] days.
	MaxLag int
	// MinLagPoints is the minimum number of aligned points a single lag
	// needs before its coefficient is considered defined. Enforced uniformly
	// across all lags.
	MinLagPoints int
	// MinOverlapDays is the minimum date overlap between the two series for
	// the sweep to be attempted at all.
	MinOverlapDays int
}

// Defaults match the original research pipeline: a 3-day window at 95%
// confidence, a +/-7 day lag sweep, at least 5 aligned points per lag and 10
// overlapping days overall.
const (
	DefaultWindowSize          = 3
	DefaultConfidenceThreshold = 4.303
	DefaultMaxLag              = 7
	DefaultMinLagPoints        = 5
	DefaultMinOverlapDays      = 10
)

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		WindowSize:          DefaultWindowSize,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		MaxLag:              DefaultMaxLag,
		MinLagPoints:        DefaultMinLagPoints,
		MinOverlapDays:      DefaultMinOverlapDays,
	}
}

func (c Config) withDefaults() Config {
	if c.WindowSize <= 0 {
		c.WindowSize = DefaultWindowSize
	}
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if c.MaxLag <= 0 {
		c.MaxLag = DefaultMaxLag
	}
	if c.MinLagPoints <= 0 {
		c.MinLagPoints = DefaultMinLagPoints
	}
	if c.MinOverlapDays <= 0 {
		c.MinOverlapDays = DefaultMinOverlapDays
	}
	return c
}
