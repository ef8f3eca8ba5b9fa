package universe

import "lifegrid/src/grid"

//Step computes the next generation of g (rules B3/S23)
//every cell is evaluated from the neighbour counts of g only, g itself is not modified
func Step(g grid.Grid) grid.Grid {
	next, _, _ := StepStats(g)
	return next
}

//StepStats is Step that also reports the live cells count of the result
//and whether any cell changed its state
func StepStats(g grid.Grid) (next grid.Grid, liveCells int, changed bool) {
	b := grid.NewBuilder(g.Rows(), g.Cols())
	g.Walk(func(row int, col int, c grid.Cell) {
		nextState := cellNextState(bool(c), g.LiveNeighborsUnchecked(row, col))
		if nextState {
			liveCells++
			b.Set(row, col, true)
		}
		changed = changed || nextState != bool(c)
	})
	return b.Grid(), liveCells, changed
}

//cellNextState calculates the next state for the cell
func cellNextState(alive bool, liveNeighbours int) bool {
	if liveNeighbours < 2 || liveNeighbours > 3 {
		//underpopulation or overpopulation
		return false
	} else if !alive && liveNeighbours == 3 {
		//reproduction
		return true
	}
	return alive
}
