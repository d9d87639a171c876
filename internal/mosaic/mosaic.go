// Package mosaic computes tiled cell layouts for arranging clients on
// one screen.
package mosaic

type Cell struct {
	X      int
	Y      int
	Width  int
	Height int
}

type Layout interface {
	Count() int
	Update(cells []Cell, w, h int)
}

type Mosaic struct {
	cells  []Cell
	layout Layout
}

func New(layout Layout) Mosaic {
	m := Mosaic{}
	m.SetLayout(layout)
	return m
}

func (m *Mosaic) SetLayout(layout Layout) {
	m.layout = layout
	m.cells = make([]Cell, layout.Count())
}

// Cells computes the layout for a screen of the given size. The returned
// slice is reused across calls.
func (m *Mosaic) Cells(w, h int) []Cell {
	m.layout.Update(m.cells, w, h)
	return m.cells
}
