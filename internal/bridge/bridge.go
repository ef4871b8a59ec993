// Package bridge hands finished or abandoned game snapshots back to the host.
package bridge

import (
	"context"
	"log/slog"
)

// HostBridge receives the encoded snapshot. It returns nothing and is never retried.
type HostBridge interface {
	Notify(ctx context.Context, snapshot string)
}

// Func adapts a plain function to HostBridge.
type Func func(ctx context.Context, snapshot string)

func (that Func) Notify(ctx context.Context, snapshot string) {
	that(ctx, snapshot)
}

type logBridge struct {
	logger *slog.Logger
}

// NewLog returns a bridge that only writes the snapshot to the log.
func NewLog(logger *slog.Logger) HostBridge {
	return &logBridge{
		logger: logger.With("component", "bridge"),
	}
}

func (that *logBridge) Notify(ctx context.Context, snapshot string) {
	that.logger.InfoContext(ctx, "snapshot handed to host", "snapshot", snapshot)
}

type multi []HostBridge

// Multi notifies every bridge in order.
func Multi(bridges ...HostBridge) HostBridge {
	return multi(bridges)
}

func (that multi) Notify(ctx context.Context, snapshot string) {
	for _, bridge := range that {
		if bridge != nil {
			bridge.Notify(ctx, snapshot)
		}
	}
}
