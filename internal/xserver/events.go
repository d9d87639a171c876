package xserver

import (
	"context"
	"log/slog"

	"github.com/jezek/xgb"
)

// ReceiveEvents pumps X events from the connection into eventC until the
// connection closes or the context is canceled. The channel is closed on
// exit so the dispatcher can tell a dead connection from an idle one.
func ReceiveEvents(ctx context.Context, conn *xgb.Conn, eventC chan<- xgb.Event) {
	defer close(eventC)
	slog := slog.With("func", "xserver.ReceiveEvents")

	for {
		ev, err := conn.WaitForEvent()
		if ev == nil && err == nil {
			slog.Debug("exit: no event or error")
			return
		}

		if err != nil {
			// Errors come from unchecked requests, keep going.
			slog.Debug("x11 error", "error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case eventC <- ev:
		}
	}
}
