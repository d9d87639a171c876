package mosaic

// CascadeOrigin returns the top-left corner for the nth auto-placed
// window, stepping diagonally and wrapping before the window would run
// off the screen.
func CascadeOrigin(n, stepX, stepY, screenW, screenH, winW, winH int) (int, int) {
	if stepX <= 0 {
		stepX = 32
	}
	if stepY <= 0 {
		stepY = 32
	}

	maxX := screenW - winW
	maxY := screenH - winH
	if maxX <= 0 || maxY <= 0 {
		return 0, 0
	}

	perColumn := maxY/stepY + 1
	perScreen := maxX/stepX + 1

	column := (n / perColumn) % perScreen
	row := n % perColumn

	return column * stepX, row * stepY
}
