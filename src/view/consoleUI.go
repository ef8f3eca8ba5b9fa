package view

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"lifegrid/src/config"
	"lifegrid/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal viewer
//the terminal has no focus events, so the universe is always treated as focused
type ConsoleUI struct {
	u      universe.Universe
	g      *gocui.Gui
	k      []keyBindings
	logger *slog.Logger

	options   universe.Options
	templates []universe.Template
	template  int
	showInfo  bool

	mu   sync.Mutex
	last universe.Snapshot

	liveFiller string
	deadFiller string
}

var (
	runningStateDescr = map[universe.RunningState]string{
		universe.RunningStateIdle: aurora.Colorize("waiting", aurora.BlueFg).String(),
		universe.RunningStateRun:  aurora.Colorize("running", aurora.CyanFg).String(),
	}

	infoText = []string{
		"- to populate or depopulate click on the cell.",
		"- run the simulation with R, stop it with S.",
		"- N advances one generation and stops the simulation.",
		"- + and - change the interval between generations.",
		"- T settles the next pattern, W fills the field randomly.",
		"- B (step back) does nothing: no history is kept.",
		"",
		"press ? to close",
	}
)

//NewConsoleUI creates the terminal viewer
func NewConsoleUI(logger *slog.Logger) (*ConsoleUI, error) {
	t := ConsoleUI{
		logger:     logger,
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("creating terminal ui: %w", err)
	}
	t.g = g
	t.g.Mouse = true

	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdNextRound, ""},
		{'b', "B", "Step back", t.cmdPrevRound, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Random", t.cmdSettleWithRandom, ""},
		{'t', "T", "Pattern", t.cmdNextTemplate, ""},
		{'+', "+", "Slower", t.cmdSlower, ""},
		{'-', "-", "Faster", t.cmdFaster, ""},
		{'?', "?", "Info", t.cmdInfo, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, "battlefield"},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}

	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return fmt.Errorf("binding %s: %w", kb.name, err)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
	t.options = u.Options()
	t.templates = u.Templates()
	t.last = u.Snapshot()
}

//Start runs the terminal main loop until the user quits
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

//Refresh is called from the universe loop, the drawing is passed to the gui goroutine
func (t *ConsoleUI) Refresh(s universe.Snapshot) {
	t.mu.Lock()
	t.last = s
	t.mu.Unlock()
	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		t.renderField(g, s)
		t.renderConfiguration(g, s)
		t.renderStatus(g, s)
		return nil
	})
}

func (t *ConsoleUI) snapshot() universe.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func (t *ConsoleUI) renderField(g *gocui.Gui, s universe.Snapshot) {
	v, e := g.View("battlefield")
	if e != nil {
		return
	}
	//the entire field is redrawing at once now
	v.Clear()

	a := s.Grid
	crop := false
	maxW, maxH := v.Size()
	if a.Cols() > maxW || a.Rows() > maxH {
		crop = true
	}

	var b bytes.Buffer
	for i := 0; i < a.Rows(); i++ {
		//discard the data outside the view area
		if i >= maxH {
			break
		}
		//line feed char
		if i != 0 {
			b.WriteByte(10)
		}
		if crop && i == (maxH-1) {
			b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			break
		}
		for j := 0; j < a.Cols() && j < maxW; j++ {
			if live, _ := a.Get(i, j); live {
				b.WriteString(t.liveFiller)
			} else {
				b.WriteString(t.deadFiller)
			}
		}
	}
	_, _ = fmt.Fprint(v, b.String())
}

func (t *ConsoleUI) renderStatus(g *gocui.Gui, s universe.Snapshot) {
	v, e := g.View("status")
	if e != nil {
		return
	}
	v.Clear()
	mode := runningStateDescr[s.RunningMode()]
	if s.Running && !s.Focused {
		mode = aurora.Colorize("suspended", aurora.YellowFg).String()
	}
	_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Generation))
	_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
	_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.IterationTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", mode))
}

func (t *ConsoleUI) renderConfiguration(g *gocui.Gui, s universe.Snapshot) {
	v, e := g.View("configuration")
	if e != nil {
		return
	}
	v.Clear()
	c := t.options
	_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Rows, c.Cols))
	_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", s.Interval))
	_, _ = fmt.Fprintln(v, t.renderProp("Iterations", "%v", maxStepsDescr(c.MaxSteps)))
	_, _ = fmt.Fprintln(v, t.renderProp("Probability", "%v", c.LiveProbability))
	if len(t.templates) > 0 {
		_, _ = fmt.Fprintln(v, t.renderProp("Pattern", "%v", t.templates[t.template].Name))
	}
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		_ = g.DeleteView("info")
		return nil
	}

	if _, err := t.headerLayout(g, 3, "This is \"The Life\" game simulation"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	s := t.snapshot()

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration(g, s)
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus(g, s)
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Battle Field"
		v.Frame = true
	}
	t.renderField(g, s)

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		_, _ = fmt.Fprintln(v, t.helpLine())
	}

	return t.infoLayout(g, maxX, maxY)
}

//infoLayout shows or hides the info overlay
func (t *ConsoleUI) infoLayout(g *gocui.Gui, maxX int, maxY int) error {
	if !t.showInfo {
		if err := g.DeleteView("info"); err != nil && err != gocui.ErrUnknownView {
			return err
		}
		return nil
	}
	w, h := 60, len(infoText)+3
	x0, y0 := (maxX-w)/2, (maxY-h)/2
	v, err := g.SetView("info", x0, y0, x0+w, y0+h)
	if err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Info"
		v.Frame = true
		_, _ = fmt.Fprintln(v, "")
		for _, l := range infoText {
			_, _ = fmt.Fprintln(v, " "+l)
		}
	}
	_, err = g.SetViewOnTop("info")
	return err
}

func (t *ConsoleUI) helpLine() string {
	b := bytes.Buffer{}
	b.WriteString("KEYBINDINGS: ")
	for i, k := range t.k {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(aurora.Green(k.name).String())
		b.WriteString(": ")
		b.WriteString(k.descr)
	}
	return b.String()
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.u.Step()
	return nil
}

func (t *ConsoleUI) cmdPrevRound(_ *gocui.View) error {
	t.u.StepBack()
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.u.Run()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.u.Stop()
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.u.Clear()
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.SettleWithRandomData()
	return nil
}

func (t *ConsoleUI) cmdNextTemplate(_ *gocui.View) error {
	if len(t.templates) == 0 {
		return nil
	}
	t.template = (t.template + 1) % len(t.templates)
	name := t.templates[t.template].Name
	t.u.Clear()
	if err := t.u.SettleTemplate(name); err != nil {
		t.logger.Error("settle template", "template", name, "err", err)
	}
	return nil
}

func (t *ConsoleUI) cmdSlower(_ *gocui.View) error {
	t.u.SetInterval(slower(t.snapshot().Interval))
	return nil
}

func (t *ConsoleUI) cmdFaster(_ *gocui.View) error {
	t.u.SetInterval(faster(t.snapshot().Interval))
	return nil
}

func (t *ConsoleUI) cmdInfo(_ *gocui.View) error {
	t.showInfo = !t.showInfo
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	t.u.InverseCell(cy, cx)
	return nil
}

//slower and faster step the interval within the bounds accepted from user input
func slower(d time.Duration) time.Duration {
	return config.ClampInterval(d + config.IntervalStep)
}

func faster(d time.Duration) time.Duration {
	return config.ClampInterval(d - config.IntervalStep)
}
