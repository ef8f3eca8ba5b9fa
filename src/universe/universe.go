package universe

import (
	"errors"
	"time"

	"lifegrid/src/grid"
)

//Universe is the interface of the simulation controller as seen by the viewers
type Universe interface {
	Snapshot() Snapshot
	Options() Options
	StateCh() chan Status
	AddTemplate(tmpl Template)
	Templates() []Template
	SettleTemplate(name string) error
	SettleWithRandomData()
	Settle(cells [][2]int)
	InverseCell(row int, col int)
	PaintCell(row int, col int)
	SetFocused(focused bool)
	SetInterval(d time.Duration)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Toggle()
	Step()
	StepBack()
	Clear()
	Close()
}

//Options represents the Universe's configurable options
type Options struct {
	Rows            int
	Cols            int
	Interval        time.Duration
	MaxSteps        int     //0 means unlimited
	LiveProbability float64 //chance of a cell to be live on SettleWithRandomData
	Seed            int64   //0 means a random seed
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	Generation    int
	Running       bool //the user requested the simulation to run
	Focused       bool //the host window has focus
	Interval      time.Duration
	LiveCells     int
	IterationTime time.Duration
}

//RunningMode reports whether the periodic step is actually firing
func (s Status) RunningMode() RunningState {
	if s.Running && s.Focused {
		return RunningStateRun
	}
	return RunningStateIdle
}

//Snapshot pairs the status with the grid it describes
type Snapshot struct {
	Status
	Grid grid.Grid
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
//Refresh is called from the universe loop and must not call back into the universe synchronously
type Viewer interface {
	Refresh(s Snapshot)
	Register(u Universe)
	Start() error
}

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name  string   //template name
	Descr string   //template descr
	Cells [][2]int //array of [row,col] coordinates
}

//RunningState is the universe running mode at the concrete moment
type RunningState int

const (
	RunningStateIdle RunningState = iota
	RunningStateRun
)

func (r RunningState) String() string {
	if r == RunningStateRun {
		return "running"
	}
	return "idle"
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 500
	DefMaxSteps           = 0
	DefRows               = 50
	DefCols               = 50
)

//ErrUnknownTemplate is returned by SettleTemplate for names never added
var ErrUnknownTemplate = errors.New("unknown template")

var DefaultUniverseOptions = Options{
	Rows:            DefRows,
	Cols:            DefCols,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	LiveProbability: grid.DefaultLiveProbability,
}
