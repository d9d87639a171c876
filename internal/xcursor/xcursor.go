// xcursor forked from https://github.com/BurntSushi/xgbutil/blob/master/xcursor/xcursor.go
package xcursor

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Glyph indices into the standard X cursor font, limited to the shapes
// the window manager actually sets on frames.
const (
	BottomLeftCorner  = 12
	BottomRightCorner = 14
	BottomSide        = 16
	Fleur             = 52
	LeftPtr           = 68
	LeftSide          = 70
	RightSide         = 96
	TopLeftCorner     = 134
	TopRightCorner    = 136
	TopSide           = 138
)

// CreateCursor loads a glyph from the "cursor" font with a black
// foreground and white background.
func CreateCursor(conn *xgb.Conn, cursor uint16) (xproto.Cursor, error) {
	fontId, err := xproto.NewFontId(conn)
	if err != nil {
		return 0, err
	}

	cursorId, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.OpenFontChecked(conn, fontId, uint16(len("cursor")), "cursor").Check()
	if err != nil {
		return 0, err
	}

	err = xproto.CreateGlyphCursorChecked(conn, cursorId, fontId, fontId,
		cursor, cursor+1,
		0, 0, 0,
		0xffff, 0xffff, 0xffff).Check()
	if err != nil {
		return 0, err
	}

	err = xproto.CloseFontChecked(conn, fontId).Check()
	if err != nil {
		return 0, err
	}

	return cursorId, nil
}
