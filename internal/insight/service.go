package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/brainboard/internal/models"
	"github.com/hyperjump/brainboard/internal/observability"
	"github.com/hyperjump/brainboard/pkg/utils"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultTimeout = 20 * time.Second

// ErrExternal wraps failures raised inside the external strategy.
var ErrExternal = errors.New("external strategy failed")

// BreakerConfig tunes the circuit breaker around the external strategy.
type BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests"`
}

// DefaultBreakerConfig returns the breaker defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

// Service runs every operation on the selected strategy and substitutes the
// deterministic result whenever the external strategy fails.
type Service struct {
	mode          Mode
	deterministic Strategy
	external      Strategy
	breaker       *gobreaker.CircuitBreaker
	timeout       time.Duration
	logger        *zap.Logger
	metrics       *observability.Collector
	tracer        trace.Tracer
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithMetrics records per-operation metrics on c.
func WithMetrics(c *observability.Collector) ServiceOption {
	return func(s *Service) { s.metrics = c }
}

// WithTimeout bounds each external call.
func WithTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithBreaker replaces the breaker settings.
func WithBreaker(cfg BreakerConfig) ServiceOption {
	return func(s *Service) { s.breaker = s.newBreaker(cfg) }
}

// WithTracer sets the tracer used for operation spans.
func WithTracer(t trace.Tracer) ServiceOption {
	return func(s *Service) { s.tracer = t }
}

// NewService creates a service. The mode is resolved once here: external is
// only used when an external strategy is supplied, otherwise the service runs
// deterministically.
func NewService(mode Mode, deterministic, external Strategy, opts ...ServiceOption) *Service {
	s := &Service{
		mode:          mode,
		deterministic: deterministic,
		external:      external,
		timeout:       defaultTimeout,
		logger:        zap.NewNop(),
		tracer:        observability.Tracer("github.com/hyperjump/brainboard/internal/insight"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = utils.OrNop(s.logger)
	if s.mode == ModeExternal && s.external == nil {
		s.logger.Warn("external strategy unavailable, using deterministic")
		s.mode = ModeDeterministic
	}
	if s.breaker == nil {
		s.breaker = s.newBreaker(DefaultBreakerConfig())
	}
	return s
}

// Mode returns the resolved mode.
func (s *Service) Mode() Mode {
	return s.mode
}

func (s *Service) newBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker {
	def := DefaultBreakerConfig()
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = def.MinRequests
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "external-strategy",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		IsSuccessful: func(err error) bool {
			// caller cancellation is not a provider failure
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			s.metrics.SetBreakerState(name, int(to))
		},
	})
}

// BreakerState reports the breaker state name.
func (s *Service) BreakerState() string {
	return s.breaker.State().String()
}

// run executes op on the external strategy when selected, falling back to the
// deterministic strategy on any failure. Only a cancelled caller context is
// returned as an error.
func run[T any](ctx context.Context, s *Service, op string, call func(context.Context, Strategy) (T, error)) (T, error) {
	ctx, span := s.tracer.Start(ctx, "insight."+op,
		trace.WithAttributes(attribute.String("insight.strategy", s.mode.String())))
	defer span.End()
	start := time.Now()

	if s.mode == ModeExternal {
		out, err := s.breaker.Execute(func() (v any, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: panic: %v", ErrExternal, r)
				}
			}()
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			res, err := call(cctx, s.external)
			if err != nil {
				return nil, err
			}
			return res, nil
		})
		if err == nil {
			s.metrics.RecordInsight(op, ModeExternal.String(), observability.OutcomeSuccess, time.Since(start))
			return out.(T), nil
		}
		if ctx.Err() != nil {
			var zero T
			span.SetStatus(codes.Error, "cancelled")
			return zero, ctx.Err()
		}
		s.logger.Warn("external strategy failed, using deterministic",
			zap.String("operation", op), zap.Error(err))
		span.RecordError(err)
		span.AddEvent("fallback")
		result, derr := call(ctx, s.deterministic)
		if derr != nil {
			span.SetStatus(codes.Error, derr.Error())
			return result, derr
		}
		s.metrics.RecordInsight(op, ModeExternal.String(), observability.OutcomeFallback, time.Since(start))
		return result, nil
	}

	result, err := call(ctx, s.deterministic)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	s.metrics.RecordInsight(op, ModeDeterministic.String(), observability.OutcomeSuccess, time.Since(start))
	return result, nil
}

// AnalyzeMood classifies a single card's content.
func (s *Service) AnalyzeMood(ctx context.Context, content string) (models.Mood, error) {
	return run(ctx, s, "analyze_mood", func(ctx context.Context, st Strategy) (models.Mood, error) {
		return st.AnalyzeMood(ctx, content)
	})
}

// ClusterCards groups cards into named, colored clusters.
func (s *Service) ClusterCards(ctx context.Context, cards []models.Card) ([]models.Cluster, error) {
	return run(ctx, s, "cluster_cards", func(ctx context.Context, st Strategy) ([]models.Cluster, error) {
		return st.ClusterCards(ctx, cards)
	})
}

// SearchCards ranks cards against query.
func (s *Service) SearchCards(ctx context.Context, cards []models.Card, query string) ([]models.SearchResult, error) {
	return run(ctx, s, "search_cards", func(ctx context.Context, st Strategy) ([]models.SearchResult, error) {
		return st.SearchCards(ctx, cards, query)
	})
}

// GenerateSuggestions recommends next actions for the board.
func (s *Service) GenerateSuggestions(ctx context.Context, cards []models.Card) ([]string, error) {
	return run(ctx, s, "generate_suggestions", func(ctx context.Context, st Strategy) ([]string, error) {
		return st.GenerateSuggestions(ctx, cards)
	})
}

// SummarizeBoard summarizes the board.
func (s *Service) SummarizeBoard(ctx context.Context, cards []models.Card) (models.Summary, error) {
	return run(ctx, s, "summarize_board", func(ctx context.Context, st Strategy) (models.Summary, error) {
		return st.SummarizeBoard(ctx, cards)
	})
}
