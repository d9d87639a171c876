// Package control exposes the manager over a small HTTP API: state
// introspection plus a command queue that feeds the dispatch loop.
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/perchwm/perch/internal/build"
	"github.com/perchwm/perch/internal/bus"
	"github.com/perchwm/perch/internal/wm"
	"github.com/perchwm/perch/pkg/chiext"
)

// Server serves the control API. The latest manager snapshot is pushed
// in over the bus; commands go out through the dispatcher queue.
type Server struct {
	address  string
	commands chan<- wm.Command
	hub      *bus.Hub[wm.Snapshot]

	mu   sync.RWMutex
	snap wm.Snapshot
}

func NewServer(address string, commands chan<- wm.Command) *Server {
	s := &Server{
		address:  address,
		commands: commands,
		hub:      bus.NewHub[wm.Snapshot]().Register(),
	}
	bus.Subscribe("control.Server", func(ctx context.Context, snap wm.Snapshot) error {
		s.mu.Lock()
		s.snap = snap
		s.mu.Unlock()
		return nil
	})
	return s
}

func (s *Server) String() string {
	return "control.Server"
}

// Serve implements suture.Service.
func (s *Server) Serve(ctx context.Context) error {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chiext.Logger())
	r.Get("/api/events", s.streamEvents)

	api := humachi.New(r, huma.DefaultConfig("perch", build.Current.Version))
	s.register(api)

	server := &http.Server{
		Addr:    s.address,
		Handler: r,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errC := make(chan error, 1)
	go func() { errC <- server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		server.Close()
		<-errC
		return ctx.Err()
	case err := <-errC:
		return err
	}
}

// streamEvents pushes state snapshots as server-sent events until the
// client goes away.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := s.hub.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-events:
			b, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", b)
			flusher.Flush()
		}
	}
}
