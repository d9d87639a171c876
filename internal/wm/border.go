package wm

// ActionZone is the symbolic classification of a frame coordinate.
type ActionZone uint8

const (
	ActionNone ActionZone = iota
	ActionMove
	ActionClose
	ActionMaximize
	ActionMinimize
	ActionResizeN
	ActionResizeS
	ActionResizeE
	ActionResizeW
	ActionResizeNE
	ActionResizeNW
	ActionResizeSE
	ActionResizeSW
)

// IsResize reports whether the zone starts an interactive resize.
func (z ActionZone) IsResize() bool {
	return z >= ActionResizeN && z <= ActionResizeSW
}

func (z ActionZone) String() string {
	switch z {
	case ActionNone:
		return "none"
	case ActionMove:
		return "move"
	case ActionClose:
		return "close"
	case ActionMaximize:
		return "maximize"
	case ActionMinimize:
		return "minimize"
	case ActionResizeN:
		return "resize-n"
	case ActionResizeS:
		return "resize-s"
	case ActionResizeE:
		return "resize-e"
	case ActionResizeW:
		return "resize-w"
	case ActionResizeNE:
		return "resize-ne"
	case ActionResizeNW:
		return "resize-nw"
	case ActionResizeSE:
		return "resize-se"
	case ActionResizeSW:
		return "resize-sw"
	default:
		return "invalid"
	}
}

// ResolveBorderAction hit-tests a frame-relative coordinate against the
// client's decoration. Coordinates outside the frame and clients without
// an outline resolve to ActionNone. Corner zones extend borderWidth plus
// titleHeight from each corner and win over plain edges.
func ResolveBorderAction(c *Client, x, y, borderWidth, titleHeight int) ActionZone {
	if !c.State.Border.Outline {
		return ActionNone
	}

	in := c.Insets(borderWidth, titleHeight)
	frameW := c.Width + in.East + in.West
	frameH := c.Height + in.North + in.South
	if x < 0 || y < 0 || x >= frameW || y >= frameH {
		return ActionNone
	}

	onN := y < borderWidth
	onS := y >= frameH-borderWidth
	onE := x >= frameW-borderWidth
	onW := x < borderWidth

	if onN || onS || onE || onW {
		corner := borderWidth + titleHeight
		nearW := x < corner
		nearE := x >= frameW-corner
		nearN := y < corner
		nearS := y >= frameH-corner

		switch {
		case nearN && nearW:
			return ActionResizeNW
		case nearN && nearE:
			return ActionResizeNE
		case nearS && nearW:
			return ActionResizeSW
		case nearS && nearE:
			return ActionResizeSE
		case onN:
			return ActionResizeN
		case onS:
			return ActionResizeS
		case onW:
			return ActionResizeW
		default:
			return ActionResizeE
		}
	}

	if c.State.Border.Title && y < in.North {
		// Button hot-zones sit at the right end of the title strip:
		// minimize, maximize, close, each one title-height wide.
		button := titleHeight
		right := frameW - in.East
		switch {
		case x >= right-button:
			return ActionClose
		case x >= right-2*button:
			return ActionMaximize
		case x >= right-3*button:
			return ActionMinimize
		default:
			return ActionMove
		}
	}

	return ActionNone
}
