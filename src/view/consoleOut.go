package view

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"

	"lifegrid/src/universe"
)

//ConsoleOut is the non-interactive viewer printing the progress as plain lines
type ConsoleOut struct {
	u         universe.Universe
	w         io.Writer
	au        aurora.Aurora
	every     int
	showGrid  bool
	startTime time.Time

	mu   sync.Mutex
	last universe.Snapshot
}

//NewConsoleOut creates the viewer writing to w
//the progress line is printed every `every` generations, colors are used when colors is true
func NewConsoleOut(w io.Writer, every int, colors bool) *ConsoleOut {
	if every <= 0 {
		every = 10
	}
	return &ConsoleOut{w: w, every: every, au: aurora.NewAurora(colors)}
}

//ShowGrid makes Finish print the final grid
func (c *ConsoleOut) ShowGrid(show bool) {
	c.showGrid = show
}

func (c *ConsoleOut) Refresh(s universe.Snapshot) {
	c.mu.Lock()
	prev := c.last
	c.last = s
	c.mu.Unlock()
	if s.Generation != prev.Generation && s.Generation%c.every == 0 {
		_, _ = fmt.Fprintf(c.w, "  Generations done: %v, live cells: %v\n", s.Generation, s.LiveCells)
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	o := c.u.Options()
	_, _ = fmt.Fprintln(c.w, c.au.Bold("Running configuration:"))
	c.printHashData(map[string]interface{}{
		"Dimension":      fmt.Sprintf("%v x %v", o.Rows, o.Cols),
		"Interval":       o.Interval,
		"Max iterations": maxStepsDescr(o.MaxSteps),
		"Probability":    o.LiveProbability,
	})
}

func (c *ConsoleOut) Start() error {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nSimulation started...")
	return nil
}

//Finish prints the summary of the run
func (c *ConsoleOut) Finish() {
	c.mu.Lock()
	s := c.last
	c.mu.Unlock()
	totalTime := time.Since(c.startTime).Round(time.Millisecond)
	_, _ = fmt.Fprintln(c.w, c.au.Green("\nFinished:"))
	c.printHashData(map[string]interface{}{
		"Last generation": s.Generation,
		"Total time":      totalTime,
		"Live cells":      s.LiveCells,
	})
	if c.showGrid {
		_, _ = fmt.Fprintln(c.w, s.Grid.String())
	}
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}

func maxStepsDescr(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%v steps", n)
}
