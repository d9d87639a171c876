package app

import (
	"github.com/perchwm/perch/internal/bus"
	"github.com/perchwm/perch/internal/wm"
	"github.com/perchwm/perch/internal/xserver"
)

// Notifier bridges dispatch loop refresh signals to the decoration
// painter and the bus. All methods run on the dispatch goroutine.
type Notifier struct {
	server     *xserver.Server
	dispatcher *wm.Dispatcher
}

func NewNotifier(server *xserver.Server) *Notifier {
	return &Notifier{server: server}
}

// SetDispatcher completes the wiring; the dispatcher needs the notifier
// at construction, so this runs after both exist.
func (n *Notifier) SetDispatcher(d *wm.Dispatcher) {
	n.dispatcher = d
}

func (n *Notifier) UpdateTaskBar() {
	n.publish()
}

func (n *Notifier) UpdatePager() {
	n.publish()
}

// SignalTaskbar is the once-a-second liveness tick. Nothing observes it
// beyond the clock, so it stays quiet.
func (n *Notifier) SignalTaskbar() {}

func (n *Notifier) DrawBorder(c *wm.Client) {
	n.server.DrawBorder(c, c.State.Active)
}

func (n *Notifier) publish() {
	if n.dispatcher == nil {
		return
	}
	bus.Publish(n.dispatcher.Snapshot())
}
