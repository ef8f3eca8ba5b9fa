package universe

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"lifegrid/src/grid"
	"lifegrid/src/logging"
)

//Option customizes the BaseUniverse
type Option func(u *BaseUniverse)

//WithClock sets the clock driving the periodic steps
func WithClock(c Clock) Option {
	return func(u *BaseUniverse) { u.clock = c }
}

//WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(u *BaseUniverse) { u.logger = l }
}

//BaseUniverse is the universe's engine
//implements Universe interface
//All commands and all timer ticks are executed one by one by the mainLoop goroutine,
//so the grid and the status are owned by that goroutine and steps never overlap
type BaseUniverse struct {
	options Options
	logger  *slog.Logger
	clock   Clock
	rng     *rand.Rand

	//owned by mainLoop
	grid       grid.Grid
	status     Status
	templates  map[string]Template
	views      []Viewer
	cancelTick func()
	tickID     uint64

	//the last published snapshot, readable from any goroutine
	current struct {
		Snapshot
		sync.RWMutex
	}

	stateCh   chan Status
	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
	doneCh    chan struct{}
}

//NewBaseUniverse creates the BaseUniverse instance and starts its main loop
//stateCh is optional, when set every status change is written to it
func NewBaseUniverse(o *Options, stateCh chan Status, opts ...Option) *BaseUniverse {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	u := BaseUniverse{
		options:   *o,
		controlCh: make(chan func()),
		closeCh:   make(chan struct{}),
		doneCh:    make(chan struct{}),
		stateCh:   stateCh,
		templates: map[string]Template{},
	}
	for _, opt := range opts {
		opt(&u)
	}
	if u.clock == nil {
		u.clock = RealClock{}
	}
	if u.logger == nil {
		u.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if u.options.Interval <= 0 {
		u.options.Interval = DefSimulationInterval
	}
	seed := uint64(u.options.Seed)
	if seed == 0 {
		seed = rand.Uint64()
	}
	u.rng = rand.New(rand.NewPCG(seed, 0))

	u.grid = grid.New(u.options.Rows, u.options.Cols)
	u.status = Status{Focused: true, Interval: u.options.Interval}
	u.current.Snapshot = Snapshot{Status: u.status, Grid: u.grid}

	go u.mainLoop()
	return &u
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (u *BaseUniverse) AddTemplate(tmpl Template) {
	u.exec(func() {
		u.templates[tmpl.Name] = tmpl
	})
}

//Templates returns the added templates sorted by name
func (u *BaseUniverse) Templates() (list []Template) {
	u.exec(func() {
		list = make([]Template, 0, len(u.templates))
		for _, t := range u.templates {
			list = append(list, t)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return
}

//Settle settles the universe with live cells at [row, col] coordinates
func (u *BaseUniverse) Settle(cells [][2]int) {
	u.exec(func() {
		u.settle(cells)
		u.publish()
	})
}

//SettleTemplate populates the universe with the seeding template
func (u *BaseUniverse) SettleTemplate(name string) (err error) {
	u.exec(func() {
		tmpl, ok := u.templates[name]
		if !ok {
			err = ErrUnknownTemplate
			return
		}
		u.settle(tmpl.Cells)
		u.logger.Debug("template settled", "template", name, "cells", len(tmpl.Cells))
		u.publish()
	})
	return
}

//SettleWithRandomData replaces the universe with random data
//the simulation is stopped and the generation counter is reset
func (u *BaseUniverse) SettleWithRandomData() {
	u.exec(func() {
		u.halt()
		u.grid = grid.NewRandom(u.options.Rows, u.options.Cols, u.options.LiveProbability, u.rng)
		u.status.Generation = 0
		u.status.LiveCells = u.grid.Population()
		u.status.IterationTime = 0
		u.logger.Info("universe randomized", "live", u.status.LiveCells, "probability", u.options.LiveProbability)
		u.publish()
	})
}

//InverseCell inverses the cell state at row, col
func (u *BaseUniverse) InverseCell(row int, col int) {
	u.exec(func() {
		v, err := u.grid.Get(row, col)
		if err != nil {
			u.logger.Error("inverse cell", "err", err)
			return
		}
		u.setCell(row, col, !v)
	})
}

//PaintCell makes the cell at row, col live
func (u *BaseUniverse) PaintCell(row int, col int) {
	u.exec(func() {
		u.setCell(row, col, true)
	})
}

//SetFocused tells the universe whether the host window has focus
//the periodic step is suspended while unfocused, the running flag is kept
func (u *BaseUniverse) SetFocused(focused bool) {
	u.exec(func() {
		if u.status.Focused == focused {
			return
		}
		u.status.Focused = focused
		u.logger.Debug("focus changed", "focused", focused)
		u.rearm()
		u.publish()
	})
}

//SetInterval changes the interval between the steps
//a running simulation is re-armed with the new interval, the pending tick is dropped
func (u *BaseUniverse) SetInterval(d time.Duration) {
	u.exec(func() {
		if d <= 0 {
			u.logger.Warn("ignoring non-positive interval", "interval", d)
			return
		}
		if d == u.status.Interval {
			return
		}
		u.options.Interval = d
		u.status.Interval = d
		u.logger.Debug("interval changed", "interval", d)
		u.rearm()
		u.publish()
	})
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (u *BaseUniverse) RegisterViewer(v Viewer) {
	v.Register(u)
	u.exec(func() {
		u.views = append(u.views, v)
	})
}

//StateCh returns the channel with the universe's status updates
func (u *BaseUniverse) StateCh() chan Status {
	return u.stateCh
}

//Snapshot returns the last published status and grid
func (u *BaseUniverse) Snapshot() Snapshot {
	u.current.RLock()
	defer u.current.RUnlock()
	return u.current.Snapshot
}

//Options returns current universe configuration represented by Options struct
func (u *BaseUniverse) Options() (o Options) {
	u.exec(func() {
		o = u.options
	})
	return
}

//Run starts the universe simulation, returns when the timer is armed
func (u *BaseUniverse) Run() {
	u.exec(u.run)
}

//Stop stops the universe simulation
func (u *BaseUniverse) Stop() {
	u.exec(u.stop)
}

//Toggle switches between running and stopped
func (u *BaseUniverse) Toggle() {
	u.exec(func() {
		if u.status.Running {
			u.stop()
		} else {
			u.run()
		}
	})
}

//Step does one simulation step right now and stops the simulation
func (u *BaseUniverse) Step() {
	u.exec(func() {
		u.halt()
		u.step()
		u.publish()
	})
}

//StepBack would restore the previous generation
//the universe keeps no history, so it does nothing
func (u *BaseUniverse) StepBack() {
	u.logger.Debug("step back is not supported, the universe keeps no history")
}

//Clear clears the universe (kill all cells and reset all counters) and stops the simulation
func (u *BaseUniverse) Clear() {
	u.exec(u.clear)
}

//Close stops the main loop and the timer
//it must not be called from a Viewer.Refresh
func (u *BaseUniverse) Close() {
	u.closeOnce.Do(func() { close(u.closeCh) })
	<-u.doneCh
}

//exec passes cmd to the main loop and waits for its completion
//returns false when the universe is closed
func (u *BaseUniverse) exec(cmd func()) bool {
	done := make(chan struct{})
	select {
	case u.controlCh <- func() { cmd(); close(done) }:
	case <-u.closeCh:
		return false
	}
	select {
	case <-done:
		return true
	case <-u.doneCh:
		return false
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (u *BaseUniverse) mainLoop() {
	defer close(u.doneCh)
	for {
		select {
		case cmd := <-u.controlCh:
			cmd()
		case <-u.closeCh:
			u.disarm()
			return
		}
	}
}

//settle makes the cells at [row, col] live, coordinates outside the area are skipped
func (u *BaseUniverse) settle(cells [][2]int) {
	for _, c := range cells {
		if n, err := u.grid.WithCell(c[0], c[1], true); err == nil {
			u.grid = n
		}
	}
	u.status.LiveCells = u.grid.Population()
}

func (u *BaseUniverse) setCell(row int, col int, value bool) {
	n, err := u.grid.WithCell(row, col, value)
	if err != nil {
		u.logger.Error("set cell", "err", err)
		return
	}
	if n.Equal(u.grid) {
		return
	}
	u.grid = n
	u.status.LiveCells = n.Population()
	u.publish()
}

func (u *BaseUniverse) run() {
	if u.status.Running {
		return
	}
	u.status.Running = true
	u.logger.Info("simulation started", "interval", u.status.Interval, "focused", u.status.Focused)
	u.rearm()
	u.publish()
}

func (u *BaseUniverse) stop() {
	if !u.status.Running {
		return
	}
	u.halt()
	u.logger.Info("simulation stopped", "generation", u.status.Generation)
	u.publish()
}

//halt clears the running flag and cancels the pending tick
func (u *BaseUniverse) halt() {
	u.status.Running = false
	u.disarm()
}

func (u *BaseUniverse) clear() {
	u.halt()
	u.grid = grid.New(u.options.Rows, u.options.Cols)
	u.status.Generation = 0
	u.status.LiveCells = 0
	u.status.IterationTime = 0
	u.logger.Info("universe cleared")
	u.publish()
}

//rearm cancels the pending tick and arms the new one if the simulation should run
func (u *BaseUniverse) rearm() {
	u.disarm()
	if !u.status.Running || !u.status.Focused {
		return
	}
	id := u.tickID
	u.cancelTick = u.clock.Every(u.status.Interval, func() {
		u.exec(func() { u.tick(id) })
	})
}

//disarm cancels the pending tick, ticks already on the way are discarded by tick
func (u *BaseUniverse) disarm() {
	if u.cancelTick != nil {
		u.cancelTick()
		u.cancelTick = nil
	}
	u.tickID++
}

func (u *BaseUniverse) tick(id uint64) {
	if id != u.tickID || u.cancelTick == nil {
		return
	}
	u.step()
	if u.options.MaxSteps > 0 && u.status.Generation >= u.options.MaxSteps {
		u.halt()
		u.logger.Info("max steps reached", "generation", u.status.Generation)
	}
	u.publish()
}

//step does the new one state calculation for entire universe
func (u *BaseUniverse) step() {
	start := time.Now()
	next, live, changed := StepStats(u.grid)
	u.grid = next
	u.status.Generation++
	u.status.LiveCells = live
	u.status.IterationTime = time.Since(start)
	u.logger.Log(context.Background(), logging.LevelTrace, "step",
		"generation", u.status.Generation, "live", live, "took", u.status.IterationTime)
	if !changed {
		u.logger.Debug("universe is stable", "generation", u.status.Generation, "live", live)
	}
}

//publish stores the snapshot, writes the status to the stateCh and refreshes the views
func (u *BaseUniverse) publish() {
	snap := Snapshot{Status: u.status, Grid: u.grid}
	u.current.Lock()
	u.current.Snapshot = snap
	u.current.Unlock()
	if u.stateCh != nil {
		select {
		case u.stateCh <- snap.Status:
		case <-u.closeCh:
		}
	}
	for _, v := range u.views {
		v.Refresh(snap)
	}
}
