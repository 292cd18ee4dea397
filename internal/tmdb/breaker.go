package tmdb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

const breakerName = "tmdb-api"

// Breaker wraps a RemoteSource with a circuit breaker.
// While the circuit is open calls fail fast with a TransportError, which the
// repository treats like any other network failure. Nothing is retried.
type Breaker struct {
	source domain.RemoteSource
	cb     *gobreaker.CircuitBreaker[interface{}]
	logger *slog.Logger
}

// BreakerSettings tunes when the circuit opens and how long it stays open
type BreakerSettings struct {
	ConsecutiveFailures uint32        // Failures in a row that open the circuit
	OpenTimeout         time.Duration // Time spent open before a half-open probe
}

// DefaultBreakerSettings returns the settings used when none are configured
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
	}
}

// NewBreaker wraps source with a circuit breaker
func NewBreaker(source domain.RemoteSource, settings BreakerSettings, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.ConsecutiveFailures == 0 {
		settings.ConsecutiveFailures = DefaultBreakerSettings().ConsecutiveFailures
	}
	if settings.OpenTimeout <= 0 {
		settings.OpenTimeout = DefaultBreakerSettings().OpenTimeout
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		IsSuccessful: isServerHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Breaker{source: source, cb: cb, logger: logger}
}

// FetchPopular implements domain.RemoteSource
func (b *Breaker) FetchPopular(ctx context.Context, page int) (domain.MoviePage, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.source.FetchPopular(ctx, page)
	})
	if err != nil {
		return domain.MoviePage{}, err
	}
	return castResult[domain.MoviePage](result)
}

// FetchMovie implements domain.RemoteSource
func (b *Breaker) FetchMovie(ctx context.Context, id int) (domain.MovieDetail, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.source.FetchMovie(ctx, id)
	})
	if err != nil {
		return domain.MovieDetail{}, err
	}
	return castResult[domain.MovieDetail](result)
}

// State returns the current circuit state
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRejections.WithLabelValues(breakerName).Inc()
		b.logger.Warn("circuit breaker rejected request", "error", err)
		return nil, &domain.TransportError{Err: err}
	}
	return result, err
}

// isServerHealthy decides which errors count against the circuit.
// Client-side problems (bad request, 4xx, decode) do not indicate an unhealthy server.
func isServerHealthy(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var (
		statusErr    *domain.StatusError
		transportErr *domain.TransportError
	)
	if errors.As(err, &statusErr) {
		return statusErr.Code < 500 && statusErr.Code != 429
	}
	if errors.As(err, &transportErr) {
		return false
	}
	return !errors.Is(err, domain.ErrNoResponseData)
}

func castResult[T any](result interface{}) (T, error) {
	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
