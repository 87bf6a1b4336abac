package notify

import (
	"context"

	"go.uber.org/zap"
)

// Log mirrors alerts into the structured log, so a drift event leaves a
// trace even when no external channel is configured.
type Log struct {
	Logger *zap.Logger
}

func (l *Log) Send(ctx context.Context, title, text string) error {
	l.Logger.Warn("alert",
		zap.String("title", title),
		zap.String("text", text),
	)
	return nil
}
