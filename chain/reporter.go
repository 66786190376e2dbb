package chain

import (
	"log/slog"

	"github.com/blockberries/frame"
	"github.com/blockberries/frame/types"
)

// Reporter receives extrinsic failures. It is advisory: the runtime
// continues with the next extrinsic regardless of what it does.
type Reporter interface {
	ExtrinsicFailed(caller types.AccountID, err *frame.ExtrinsicError)
}

// LogReporter writes extrinsic failures to a structured logger.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter creates a reporter that logs at warn level.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) ExtrinsicFailed(caller types.AccountID, err *frame.ExtrinsicError) {
	r.logger.Warn("extrinsic failed",
		slog.Uint64("block", err.Block),
		slog.Int("index", err.Index),
		slog.String("caller", string(caller)),
		slog.String("error", err.Err.Error()),
	)
}
