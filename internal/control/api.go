package control

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jezek/xgb/xproto"
	"github.com/perchwm/perch/internal/build"
	"github.com/perchwm/perch/internal/core"
	"github.com/perchwm/perch/internal/wm"
)

type StateOutput struct {
	Body struct {
		Version      string `json:"version"`
		Desktop      uint32 `json:"desktop"`
		DesktopCount uint32 `json:"desktopCount"`
		ActiveWindow uint32 `json:"activeWindow"`
		ClientCount  int    `json:"clientCount"`
	}
}

type ClientsOutput struct {
	Body struct {
		Clients []wm.ClientSummary `json:"clients"`
	}
}

type CommandInput struct {
	Body struct {
		Action  string  `json:"action" enum:"close,activate,minimize,maximize,shade,stick,desktop,arrange,restart,exit" doc:"command to run"`
		Window  uint32  `json:"window,omitempty" doc:"target window id, omitted for global commands"`
		Desktop *uint32 `json:"desktop,omitempty" doc:"target desktop index for the desktop action"`
	}
}

func (s *Server) register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/api/state",
		Summary:     "Manager state",
	}, func(ctx context.Context, input *struct{}) (*StateOutput, error) {
		s.mu.RLock()
		snap := s.snap
		s.mu.RUnlock()

		out := &StateOutput{}
		out.Body.Version = build.Current.Version
		out.Body.Desktop = snap.Desktop
		out.Body.DesktopCount = snap.DesktopCount
		out.Body.ActiveWindow = snap.ActiveWindow
		out.Body.ClientCount = len(snap.Clients)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-clients",
		Method:      http.MethodGet,
		Path:        "/api/clients",
		Summary:     "Managed clients",
	}, func(ctx context.Context, input *struct{}) (*ClientsOutput, error) {
		s.mu.RLock()
		snap := s.snap
		s.mu.RUnlock()

		out := &ClientsOutput{}
		out.Body.Clients = snap.Clients
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "post-command",
		Method:        http.MethodPost,
		Path:          "/api/commands",
		Summary:       "Queue a manager command",
		DefaultStatus: http.StatusAccepted,
	}, func(ctx context.Context, input *CommandInput) (*struct{}, error) {
		cmd, err := decodeCommand(input)
		if err != nil {
			return nil, err
		}

		select {
		case s.commands <- cmd:
			return &struct{}{}, nil
		case <-time.After(time.Second):
			return nil, huma.Error503ServiceUnavailable("command queue is full")
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

func decodeCommand(input *CommandInput) (wm.Command, error) {
	var cmd wm.Command
	cmd.Window = xproto.Window(input.Body.Window)

	switch input.Body.Action {
	case "close":
		cmd.Kind = wm.MessageClose
	case "activate":
		cmd.Kind = wm.MessageActiveWindow
	case "minimize":
		cmd.Kind = wm.MessageChangeState
		cmd.Lifecycle = wm.LifecycleIconic
	case "maximize":
		cmd.Kind = wm.MessageNetState
		cmd.StateAction = wm.StateToggle
		cmd.StateFlags.Maximize = true
	case "shade":
		cmd.Kind = wm.MessageNetState
		cmd.StateAction = wm.StateToggle
		cmd.StateFlags.Shade = true
	case "stick":
		cmd.Kind = wm.MessageNetState
		cmd.StateAction = wm.StateToggle
		cmd.StateFlags.Sticky = true
	case "desktop":
		cmd.Kind = wm.MessageDesktop
		cmd.Desktop = core.Optional(input.Body.Desktop, 0)
	case "arrange":
		cmd.Kind = wm.MessageArrange
	case "restart":
		cmd.Kind = wm.MessageRestart
	case "exit":
		cmd.Kind = wm.MessageExit
	default:
		return cmd, huma.Error422UnprocessableEntity("unknown action " + input.Body.Action)
	}

	if cmd.Window == 0 && commandNeedsWindow(cmd.Kind) {
		return cmd, huma.Error422UnprocessableEntity("action requires a window")
	}
	return cmd, nil
}

func commandNeedsWindow(kind wm.MessageKind) bool {
	switch kind {
	case wm.MessageRestart, wm.MessageExit, wm.MessageDesktop, wm.MessageArrange:
		return false
	}
	return true
}
