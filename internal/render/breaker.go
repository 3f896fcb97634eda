package render

import (
	"ChartService/internal/model"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var ErrRendererUnavailable = errors.New("renderer temporarily unavailable")

// BreakerConfig controls when the guarded renderer stops accepting work
type BreakerConfig struct {
	MaxFailures uint32
	Timeout     time.Duration
	Interval    time.Duration
}

// DefaultBreakerConfig returns the defaults used by the service
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 5,
		Timeout:     30 * time.Second,
		Interval:    60 * time.Second,
	}
}

// GuardedRenderer wraps a Renderer with a circuit breaker. Output is buffered so a
// failed render never leaves a partial image in w.
type GuardedRenderer struct {
	next    Renderer
	breaker *gobreaker.CircuitBreaker
}

func NewGuardedRenderer(next Renderer, cfg BreakerConfig, logger *zap.Logger) *GuardedRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultBreakerConfig().MaxFailures
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         "PNGRenderer",
		MaxRequests:  1,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: func(err error) bool {
			return err == nil || IsInputError(err)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("renderer breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &GuardedRenderer{next: next, breaker: breaker}
}

// Render runs the wrapped renderer unless the breaker is open
func (g *GuardedRenderer) Render(w io.Writer, fig *model.Figure) error {
	out, err := g.breaker.Execute(func() (interface{}, error) {
		var buf bytes.Buffer
		if err := g.next.Render(&buf, fig); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
		}
		return err
	}

	_, err = w.Write(out.([]byte))
	return err
}

// State reports the breaker state for the health endpoint
func (g *GuardedRenderer) State() string {
	return g.breaker.State().String()
}
