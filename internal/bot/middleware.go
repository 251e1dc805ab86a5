package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/garyellow/protein-linebot-go/internal/logger"
	"github.com/garyellow/protein-linebot-go/internal/metrics"
	"github.com/garyellow/protein-linebot-go/internal/protein"
)

// ClassifyFunc maps user text to the matched rule and its replies.
type ClassifyFunc func(ctx context.Context, text string) (string, protein.Batch)

// Middleware wraps a ClassifyFunc.
type Middleware func(next ClassifyFunc) ClassifyFunc

// Chain applies middlewares so that the first one listed runs outermost.
func Chain(base ClassifyFunc, mws ...Middleware) ClassifyFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// LoggingMiddleware logs the matched rule with timing info.
func LoggingMiddleware(log *logger.Logger) Middleware {
	return func(next ClassifyFunc) ClassifyFunc {
		return func(ctx context.Context, text string) (string, protein.Batch) {
			start := time.Now()
			rule, batch := next(ctx, text)

			log.DebugContext(ctx, "Message classified",
				"rule", rule,
				"text_length", len(text),
				"reply_count", len(batch),
				"duration_us", time.Since(start).Microseconds(),
			)
			return rule, batch
		}
	}
}

// MetricsMiddleware counts classifications per rule.
func MetricsMiddleware(m *metrics.Metrics) Middleware {
	return func(next ClassifyFunc) ClassifyFunc {
		return func(ctx context.Context, text string) (string, protein.Batch) {
			rule, batch := next(ctx, text)
			if m != nil && rule != "" {
				m.RecordClassification(rule)
			}
			return rule, batch
		}
	}
}

// RecoveryMiddleware turns a panic into an empty result.
func RecoveryMiddleware(log *logger.Logger) Middleware {
	return func(next ClassifyFunc) ClassifyFunc {
		return func(ctx context.Context, text string) (rule string, batch protein.Batch) {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("panic", fmt.Sprint(r)).
						WithField("stack", string(debug.Stack())).
						ErrorContext(ctx, "Classifier panicked")
					rule, batch = "", nil
				}
			}()
			return next(ctx, text)
		}
	}
}
