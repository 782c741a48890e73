package config

import "time"

// RetryBackoffMode enumerates supported backoff strategies.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// Fetch configures cloning of element repositories.
type Fetch struct {
	// Depth is the clone depth; 0 means full history.
	Depth        int              `yaml:"depth" json:"depth"`
	Concurrency  int              `yaml:"concurrency" json:"concurrency"`
	MaxRetries   int              `yaml:"maxRetries" json:"maxRetries"`
	RetryBackoff RetryBackoffMode `yaml:"retryBackoff" json:"retryBackoff"`
	RetryInitial string           `yaml:"retryInitialDelay" json:"retryInitialDelay"`
	RetryMax     string           `yaml:"retryMaxDelay" json:"retryMaxDelay"`
}

// DefaultFetch returns the default repository fetch settings.
func DefaultFetch() Fetch {
	return Fetch{
		Depth:        1,
		Concurrency:  4,
		MaxRetries:   2,
		RetryBackoff: RetryBackoffLinear,
		RetryInitial: "1s",
		RetryMax:     "30s",
	}
}

func (f *Fetch) normalize() {
	if f.Depth < 0 {
		f.Depth = 0
	}
	if f.Concurrency <= 0 {
		f.Concurrency = 1
	}
	if f.MaxRetries < 0 {
		f.MaxRetries = 0
	}
	switch f.RetryBackoff {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
	default:
		f.RetryBackoff = RetryBackoffLinear
	}
}

// InitialDelay parses RetryInitial, falling back to one second.
func (f Fetch) InitialDelay() time.Duration {
	return parseDurationOr(f.RetryInitial, time.Second)
}

// MaxDelay parses RetryMax, falling back to thirty seconds.
func (f Fetch) MaxDelay() time.Duration {
	return parseDurationOr(f.RetryMax, 30*time.Second)
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
