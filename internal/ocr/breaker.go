package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// GuardConfig bounds recognition latency and failure blast radius.
type GuardConfig struct {
	RecognizeTimeout time.Duration // default 30s
	BreakerName      string
	FailureThreshold uint32        // consecutive failures before opening, default 3
	OpenTimeout      time.Duration // how long the breaker stays open, default 1m
}

// GuardedEngine wraps an Engine with a circuit breaker and a wall-clock
// timeout. A slow or repeatedly failing engine reads as unavailable, which
// the acquirer resolves by synthetic generation.
type GuardedEngine struct {
	inner   Engine
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[RecognizeResult]
}

func NewGuardedEngine(inner Engine, cfg GuardConfig, logger *slog.Logger) *GuardedEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RecognizeTimeout <= 0 {
		cfg.RecognizeTimeout = 30 * time.Second
	}
	if cfg.BreakerName == "" {
		cfg.BreakerName = "ocr.recognize"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = time.Minute
	}

	settings := gobreaker.Settings{
		Name:    cfg.BreakerName,
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("ocr breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &GuardedEngine{
		inner:   inner,
		timeout: cfg.RecognizeTimeout,
		breaker: gobreaker.NewCircuitBreaker[RecognizeResult](settings),
	}
}

func (g *GuardedEngine) Recognize(ctx context.Context, image []byte) (RecognizeResult, error) {
	res, err := g.breaker.Execute(func() (RecognizeResult, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return g.inner.Recognize(callCtx, image)
	})
	if err != nil {
		return RecognizeResult{}, fmt.Errorf("guarded recognize: %w", err)
	}
	return res, nil
}

func (g *GuardedEngine) Terminate() error { return g.inner.Terminate() }
