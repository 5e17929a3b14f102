package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const RunIDKey ctxKey = "run_id"

// WithRunID tags ctx with the id of the current sync run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RunIDKey, id)
}

// RunID returns the run id carried by ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(RunIDKey).(string)
	return id
}

// Time logs the duration of an operation when the returned func is called,
// typically via defer with a pointer to the named error result.
func Time(ctx context.Context, logger *zap.Logger, name string, fields ...zap.Field) func(errp *error) {
	start := time.Now()
	runID := RunID(ctx)

	return func(errp *error) {
		fs := append([]zap.Field{
			zap.String("run_id", runID),
			zap.String("op", name),
			zap.Int64("dur_ms", time.Since(start).Milliseconds()),
		}, fields...)

		if errp != nil && *errp != nil {
			logger.Error("operation failed", append(fs, zap.Error(*errp))...)
			return
		}
		logger.Debug("operation done", fs...)
	}
}
