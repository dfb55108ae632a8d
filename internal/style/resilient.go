package style

import (
	"context"
	"time"

	"personashop/internal/resilience"

	"go.uber.org/zap"
)

// ResilientAnalyzer retries a flaky analyzer and stops calling it while it
// keeps failing.
type ResilientAnalyzer struct {
	next     Analyzer
	breaker  *resilience.CircuitBreaker
	attempts int
	delay    time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

// NewResilientAnalyzer wraps next with two attempts per call, a 20 second
// per-attempt timeout and a breaker that opens after 3 failed calls for a minute.
func NewResilientAnalyzer(next Analyzer, logger *zap.Logger) *ResilientAnalyzer {
	return &ResilientAnalyzer{
		next:     next,
		breaker:  resilience.NewCircuitBreaker(3, time.Minute, logger),
		attempts: 2,
		delay:    500 * time.Millisecond,
		timeout:  20 * time.Second,
		logger:   logger,
	}
}

// Analyze implements Analyzer.
func (r *ResilientAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	var text string
	err := r.breaker.Execute(func() error {
		return resilience.Retry(ctx, r.logger, r.attempts, r.delay, func(ctx context.Context) error {
			attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()
			out, err := r.next.Analyze(attemptCtx, prompt)
			if err != nil {
				return err
			}
			text = out
			return nil
		})
	})
	if err != nil {
		r.logger.Warn("Style analysis failed", zap.Error(err))
		return "", err
	}
	return text, nil
}
