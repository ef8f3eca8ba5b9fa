package view

import (
	"image/color"

	"lifegrid/src/grid"
)

//hudHeight is the height in pixels of the text line under the field in the window viewer
const hudHeight = 20

//fillGridRGBA converts the grid cells into RGBA pixels in buf, one pixel per cell
func fillGridRGBA(buf []byte, g grid.Grid, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	g.Walk(func(row int, col int, c grid.Cell) {
		base := (row*g.Cols() + col) * 4
		if base+3 >= len(buf) {
			return
		}
		if c {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			return
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	})
}

//cellAt maps the screen position to the grid cell, ok is false outside the field
func cellAt(x, y, scale, rows, cols int) (row int, col int, ok bool) {
	if scale <= 0 || x < 0 || y < 0 {
		return 0, 0, false
	}
	row, col = y/scale, x/scale
	if row >= rows || col >= cols {
		return 0, 0, false
	}
	return row, col, true
}
