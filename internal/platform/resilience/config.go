package resilience

import "time"

type CircuitBreakerConfig struct {
	Enabled bool
	// FailureThreshold consecutive failures open a closed breaker.
	FailureThreshold int
	OpenTimeout      time.Duration
	// HalfOpenMaxReq probes must all succeed before the breaker closes again.
	HalfOpenMaxReq int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{Enabled: true, FailureThreshold: 3, OpenTimeout: 30 * time.Second, HalfOpenMaxReq: 1}
}

// NormalizeCircuitBreakerConfig fills unset or invalid fields with defaults.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	d := DefaultCircuitBreakerConfig()
	cfg.FailureThreshold = orDefault(cfg.FailureThreshold, d.FailureThreshold)
	cfg.HalfOpenMaxReq = orDefault(cfg.HalfOpenMaxReq, d.HalfOpenMaxReq)
	cfg.OpenTimeout = orDefault(cfg.OpenTimeout, d.OpenTimeout)
	return cfg
}

func orDefault[T int | time.Duration](v, d T) T {
	if v <= 0 {
		return d
	}
	return v
}
