package retry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"EventLens/internal/logger"
)

// DefaultConfig keeps retries short: the online lookup is best-effort and a
// failed id degrades to "unavailable" rather than blocking the run.
var DefaultConfig = Config{
	MaxAttempts:         2,
	InitialBackoff:      250 * time.Millisecond,
	MaxBackoff:          2 * time.Second,
	BackoffFactor:       2.0,
	RandomizationFactor: 0.5,
}

// Config configures the retry behavior
type Config struct {
	// MaxAttempts is the maximum number of attempts including the first attempt
	MaxAttempts int

	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration

	// BackoffFactor is the factor by which the backoff increases
	BackoffFactor float64

	// RandomizationFactor is the factor by which the backoff is randomized
	RandomizationFactor float64
}

// Do executes fn with retry logic, respecting context cancellation between
// attempts and during backoff waits.
func Do(ctx context.Context, operation string, config Config, fn func() error) error {
	var err error

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err = fn()
		if err == nil {
			return nil
		}

		if attempt == config.MaxAttempts {
			logger.Debug("Failed %s after %d attempts: %v", operation, attempt, err)
			return err
		}

		backoff := calculateBackoff(attempt, config, r)
		logger.Debug("Retrying %s (attempt %d/%d) after %v: %v",
			operation, attempt, config.MaxAttempts, backoff, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return err
}

// calculateBackoff calculates the backoff duration for a given attempt
func calculateBackoff(attempt int, config Config, r *rand.Rand) time.Duration {
	backoff := float64(config.InitialBackoff) * math.Pow(config.BackoffFactor, float64(attempt-1))

	delta := config.RandomizationFactor * backoff
	min := backoff - delta
	max := backoff + delta
	backoff = min + (max-min)*r.Float64()

	if backoff > float64(config.MaxBackoff) {
		backoff = float64(config.MaxBackoff)
	}

	return time.Duration(backoff)
}
