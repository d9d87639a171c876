package wm

import "testing"

func TestResolveBorderAction(t *testing.T) {
	// Content 200x100, border 4, title 20: frame is 208x124 with the
	// title strip between y=4 and y=20.
	c := &Client{Width: 200, Height: 100}
	c.State.Border = BorderStyle{Outline: true, Title: true}

	tests := []struct {
		name string
		x, y int
		want ActionZone
	}{
		{"corner nw", 0, 0, ActionResizeNW},
		{"corner ne", 207, 0, ActionResizeNE},
		{"corner sw", 0, 123, ActionResizeSW},
		{"corner se", 207, 123, ActionResizeSE},
		{"corner beats edge", 10, 0, ActionResizeNW},
		{"edge n", 100, 0, ActionResizeN},
		{"edge s", 100, 123, ActionResizeS},
		{"edge w", 0, 60, ActionResizeW},
		{"edge e", 207, 60, ActionResizeE},
		{"title close", 190, 10, ActionClose},
		{"title maximize", 170, 10, ActionMaximize},
		{"title minimize", 150, 10, ActionMinimize},
		{"title move", 100, 10, ActionMove},
		{"content", 100, 60, ActionNone},
		{"outside left", -1, 5, ActionNone},
		{"outside right", 300, 5, ActionNone},
		{"outside below", 100, 124, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBorderAction(c, tt.x, tt.y, 4, 20)
			if got != tt.want {
				t.Errorf("ResolveBorderAction(%d, %d) = %s, want %s", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestResolveBorderActionNoOutline(t *testing.T) {
	c := &Client{Width: 200, Height: 100}

	if got := ResolveBorderAction(c, 0, 0, 4, 20); got != ActionNone {
		t.Errorf("ResolveBorderAction without outline = %s, want none", got)
	}
}

func TestResolveBorderActionNoTitle(t *testing.T) {
	c := &Client{Width: 200, Height: 100}
	c.State.Border = BorderStyle{Outline: true}

	if got := ResolveBorderAction(c, 100, 2, 4, 20); got != ActionResizeN {
		t.Errorf("top edge without title = %s, want resize-n", got)
	}
	if got := ResolveBorderAction(c, 100, 10, 4, 20); got != ActionNone {
		t.Errorf("content without title = %s, want none", got)
	}
}

func TestIsResize(t *testing.T) {
	resizes := []ActionZone{
		ActionResizeN, ActionResizeS, ActionResizeE, ActionResizeW,
		ActionResizeNE, ActionResizeNW, ActionResizeSE, ActionResizeSW,
	}
	for _, z := range resizes {
		if !z.IsResize() {
			t.Errorf("%s.IsResize() = false", z)
		}
	}
	for _, z := range []ActionZone{ActionNone, ActionMove, ActionClose, ActionMaximize, ActionMinimize} {
		if z.IsResize() {
			t.Errorf("%s.IsResize() = true", z)
		}
	}
}
