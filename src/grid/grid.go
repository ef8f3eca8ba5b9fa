package grid

import (
	"errors"
	"fmt"
	"strings"
)

//Cell represents the liveness of one grid position
type Cell bool

//ErrOutOfBounds is returned for coordinates outside the grid
var ErrOutOfBounds = errors.New("coordinates out of bounds")

//neighbours are the Moore neighbourhood offsets as (row, col)
var neighbours = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

//Grid is an immutable snapshot of the cells liveness
//Every "modifying" operation returns a new Grid, the receiver is never changed,
//so a Grid can be shared between goroutines without locking
type Grid struct {
	rows  int
	cols  int
	cells [][]Cell
}

//New creates the grid with all cells dead
func New(rows int, cols int) Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return Grid{rows: rows, cols: cols, cells: allocate(rows, cols)}
}

//FromCells creates the grid with live cells at the given [row, col] coordinates
//coordinates outside the grid are skipped
func FromCells(rows int, cols int, live [][2]int) Grid {
	g := New(rows, cols)
	for _, c := range live {
		if g.inBounds(c[0], c[1]) {
			g.cells[c[0]][c[1]] = true
		}
	}
	return g
}

//Rows returns the number of rows
func (g Grid) Rows() int { return g.rows }

//Cols returns the number of columns
func (g Grid) Cols() int { return g.cols }

//Get returns the liveness of the cell at row, col
func (g Grid) Get(row int, col int) (bool, error) {
	if !g.inBounds(row, col) {
		return false, g.boundsError(row, col)
	}
	return bool(g.cells[row][col]), nil
}

//WithCell returns the grid with the cell at row, col set to value
//the same grid is returned when the cell already holds value
func (g Grid) WithCell(row int, col int, value bool) (Grid, error) {
	if !g.inBounds(row, col) {
		return g, g.boundsError(row, col)
	}
	if bool(g.cells[row][col]) == value {
		return g, nil
	}
	n := g.clone()
	n.cells[row][col] = Cell(value)
	return n, nil
}

//LiveNeighbors counts live cells in the Moore neighbourhood of row, col
//positions outside the grid are counted as dead (there is no wrapping)
func (g Grid) LiveNeighbors(row int, col int) (int, error) {
	if !g.inBounds(row, col) {
		return 0, g.boundsError(row, col)
	}
	return g.liveNeighbors(row, col), nil
}

//Population returns the count of live cells
func (g Grid) Population() int {
	live := 0
	g.Walk(func(_ int, _ int, c Cell) {
		if c {
			live++
		}
	})
	return live
}

//Walk calls fn for every cell in row-major order
func (g Grid) Walk(fn func(row int, col int, c Cell)) {
	for r := range g.cells {
		for c := range g.cells[r] {
			fn(r, c, g.cells[r][c])
		}
	}
}

//Equal reports whether both grids have the same dimensions and cells
func (g Grid) Equal(o Grid) bool {
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for r := range g.cells {
		for c := range g.cells[r] {
			if g.cells[r][c] != o.cells[r][c] {
				return false
			}
		}
	}
	return true
}

//String renders the grid with '#' for live and '.' for dead cells, one line per row
func (g Grid) String() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for r := range g.cells {
		if r != 0 {
			b.WriteByte('\n')
		}
		for _, c := range g.cells[r] {
			if c {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

//Builder assembles a new grid cell by cell
//it is meant for bulk replacement (one generation step), the result is handed out by Grid
type Builder struct {
	g Grid
}

//NewBuilder creates the builder for an all-dead grid of the given size
func NewBuilder(rows int, cols int) *Builder {
	return &Builder{g: New(rows, cols)}
}

//Set sets the cell, coordinates outside the grid are ignored
func (b *Builder) Set(row int, col int, value bool) {
	if b.g.inBounds(row, col) {
		b.g.cells[row][col] = Cell(value)
	}
}

//Grid returns the built grid, the builder must not be used afterwards
func (b *Builder) Grid() Grid {
	g := b.g
	b.g = Grid{}
	return g
}

func (g Grid) liveNeighbors(row int, col int) int {
	live := 0
	for _, o := range neighbours {
		nr, nc := row+o[0], col+o[1]
		//skip coordinates outside the area
		if !g.inBounds(nr, nc) {
			continue
		}
		if g.cells[nr][nc] {
			live++
		}
	}
	return live
}

//LiveNeighborsUnchecked is LiveNeighbors without the bounds check on row, col
//used by the step engine which walks valid coordinates only
func (g Grid) LiveNeighborsUnchecked(row int, col int) int {
	return g.liveNeighbors(row, col)
}

func (g Grid) inBounds(row int, col int) bool {
	return row >= 0 && col >= 0 && row < g.rows && col < g.cols
}

func (g Grid) boundsError(row int, col int) error {
	return fmt.Errorf("%w: (%d,%d) outside %dx%d grid", ErrOutOfBounds, row, col, g.rows, g.cols)
}

func (g Grid) clone() Grid {
	n := Grid{rows: g.rows, cols: g.cols, cells: allocate(g.rows, g.cols)}
	for r := range g.cells {
		copy(n.cells[r], g.cells[r])
	}
	return n
}

//allocate creates the rows backed by one slice
func allocate(rows int, cols int) [][]Cell {
	cells := make([][]Cell, rows)
	b := make([]Cell, rows*cols)
	for i := range cells {
		start := cols * i
		cells[i] = b[start : start+cols : start+cols]
	}
	return cells
}
