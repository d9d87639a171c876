package mosaic

type LayoutGrid struct {
	xc int
	yc int
}

// NewLayoutGridCount picks the smallest near-square grid that fits count
// cells.
func NewLayoutGridCount(count int) LayoutGrid {
	xc, yc := 0, 0
	for xc*yc < count {
		xc++
		if xc*yc >= count {
			break
		}
		yc++
	}

	return NewLayoutGrid(xc, yc)
}

func NewLayoutGrid(xc, yc int) LayoutGrid {
	return LayoutGrid{
		xc: xc,
		yc: yc,
	}
}

func (l LayoutGrid) Count() int {
	return l.xc * l.yc
}

func (l LayoutGrid) Update(cells []Cell, w, h int) {
	if l.xc == 0 || l.yc == 0 {
		return
	}
	fw := w / l.xc
	fh := h / l.yc

	for i := 0; i < l.yc; i++ {
		fy := fh * i
		for j := 0; j < l.xc; j++ {
			idx := (i * l.xc) + j
			if idx >= len(cells) {
				return
			}
			cells[idx] = Cell{X: fw * j, Y: fy, Width: fw, Height: fh}
		}
	}
}
