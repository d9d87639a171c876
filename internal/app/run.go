package app

import (
	"context"
	"log/slog"

	"github.com/jezek/xgb"
	"github.com/perchwm/perch/internal/config"
	"github.com/perchwm/perch/internal/control"
	"github.com/perchwm/perch/internal/wm"
	"github.com/perchwm/perch/internal/xserver"
	"github.com/perchwm/perch/pkg/sutureext"
	"github.com/thejerf/suture/v4"
)

// Options is the runtime wiring configuration.
type Options struct {
	// ListenAddress is the control API address, empty to disable it.
	ListenAddress string
}

// Run connects to the display, claims management and dispatches events
// until shutdown. It returns wm.ErrRestart when a restart was requested.
func Run(ctx context.Context, cfg config.Config, options Options) error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	defer conn.Close()

	server, err := xserver.New(conn, cfg.BorderWidth, cfg.TitleHeight)
	if err != nil {
		return err
	}
	server.SetDefaultOpacity(cfg.Opacity)
	if err := server.Manage(); err != nil {
		return err
	}

	bindings, err := ParseBindings(cfg.Bindings)
	if err != nil {
		return err
	}
	focusModel, err := ParseFocusModel(cfg.FocusModel)
	if err != nil {
		return err
	}

	notifier := NewNotifier(server)
	registry := wm.NewRegistry(server, server, notifier, cfg.BorderWidth, cfg.TitleHeight)

	eventC := make(chan xgb.Event, 64)
	dispatcher := wm.NewDispatcher(server, server, registry, notifier, nil, bindings, eventC, wm.Options{
		DesktopCount:     uint32(len(cfg.Desktops)),
		FocusModel:       focusModel,
		ShowMenuOnRoot:   cfg.ShowMenuOnRoot,
		BorderWidth:      cfg.BorderWidth,
		TitleHeight:      cfg.TitleHeight,
		DoubleClickSpeed: cfg.DoubleClickSpeed,
		DoubleClickDelta: cfg.DoubleClickDelta,
		SnapDistance:     cfg.SnapDistance,
		NavKeys:          server.NavKeys(),
	})
	notifier.SetDispatcher(dispatcher)

	server.GrabKeys(bindings)
	adoptExisting(server, registry, dispatcher)

	super := sutureext.NewSimple("perch")
	// The receiver owns the event channel and closes it with the
	// connection, so it must never be restarted.
	sutureext.Add(super, sutureext.NewServiceFunc("xserver.ReceiveEvents", func(ctx context.Context) error {
		xserver.ReceiveEvents(ctx, conn, eventC)
		return suture.ErrDoNotRestart
	}))
	if options.ListenAddress != "" {
		sutureext.Add(super, control.NewServer(options.ListenAddress, dispatcher.Commands()))
	}
	super.ServeBackground(ctx)

	return dispatcher.Run(ctx)
}

// adoptExisting brings windows mapped before startup under management.
func adoptExisting(server *xserver.Server, registry *wm.Registry, dispatcher *wm.Dispatcher) {
	windows, err := server.ExistingWindows()
	if err != nil {
		slog.Error("Failed to query existing windows", "error", err)
		return
	}

	for _, win := range windows {
		if _, err := registry.Add(win, false, true); err != nil {
			slog.Error("Failed to adopt window", "window", win, "error", err)
		}
	}
	dispatcher.RestackClients()
}
