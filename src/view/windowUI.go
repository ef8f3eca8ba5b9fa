//go:build ebiten

package view

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"lifegrid/src/universe"
)

//WindowUI is the graphical viewer
//it polls the window focus every frame and forwards the changes to the universe
type WindowUI struct {
	u      universe.Universe
	logger *slog.Logger
	scale  int
	rows   int
	cols   int

	img *ebiten.Image
	buf []byte

	onColor  color.Color
	offColor color.Color

	focused  bool
	showInfo bool
	painted  [2]int
}

//NewWindowUI creates the window viewer drawing every cell as scale x scale pixels
func NewWindowUI(scale int, logger *slog.Logger) *WindowUI {
	if scale <= 0 {
		scale = 10
	}
	return &WindowUI{
		logger:   logger,
		scale:    scale,
		onColor:  color.RGBA{G: 160, A: 255},
		offColor: color.Black,
		focused:  true,
		painted:  [2]int{-1, -1},
	}
}

func (w *WindowUI) Register(u universe.Universe) {
	w.u = u
	o := u.Options()
	w.rows, w.cols = o.Rows, o.Cols
	w.img = ebiten.NewImage(o.Cols, o.Rows)
	w.buf = make([]byte, 4*o.Rows*o.Cols)
}

//Refresh does nothing, the window pulls the snapshot on every frame
func (w *WindowUI) Refresh(universe.Snapshot) {}

//Start opens the window and runs the game loop until the window is closed
func (w *WindowUI) Start() error {
	ebiten.SetWindowTitle("lifegrid")
	ebiten.SetWindowSize(w.cols*w.scale, w.rows*w.scale+hudHeight)
	//keep Update running while unfocused, otherwise the focus loss is never seen
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

//Update handles per-frame input
func (w *WindowUI) Update() error {
	if focused := ebiten.IsFocused(); focused != w.focused {
		w.focused = focused
		w.u.SetFocused(focused)
	}
	if !w.focused {
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		w.u.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		w.u.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		w.u.StepBack()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		w.u.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyW) {
		w.u.SettleWithRandomData()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd) {
		w.u.SetInterval(slower(w.u.Snapshot().Interval))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract) {
		w.u.SetInterval(faster(w.u.Snapshot().Interval))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		w.showInfo = !w.showInfo
	}

	mx, my := ebiten.CursorPosition()
	row, col, ok := cellAt(mx, my, w.scale, w.rows, w.cols)
	if !ok {
		return nil
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		w.u.InverseCell(row, col)
	}
	//holding ctrl paints live cells under the cursor
	if !ebiten.IsKeyPressed(ebiten.KeyControl) {
		w.painted = [2]int{-1, -1}
	} else if w.painted != [2]int{row, col} {
		w.painted = [2]int{row, col}
		w.u.PaintCell(row, col)
	}
	return nil
}

//Draw renders the field, the status line and the info overlay
func (w *WindowUI) Draw(screen *ebiten.Image) {
	s := w.u.Snapshot()
	fillGridRGBA(w.buf, s.Grid, w.onColor, w.offColor)
	w.img.WritePixels(w.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w.scale), float64(w.scale))
	screen.DrawImage(w.img, op)

	face := basicfont.Face7x13
	mode := s.RunningMode().String()
	if s.Running && !s.Focused {
		mode = "suspended"
	}
	status := fmt.Sprintf("time: %d  population: %d  interval: %v  %s", s.Generation, s.LiveCells, s.Interval, mode)
	text.Draw(screen, status, face, 4, w.rows*w.scale+hudHeight-6, color.White)

	if w.showInfo {
		width, height := float32(w.cols*w.scale), float32(w.rows*w.scale)
		vector.DrawFilledRect(screen, 0, 0, width, height, color.RGBA{A: 200}, false)
		for i, l := range infoText {
			text.Draw(screen, l, face, 12, 24+i*16, color.White)
		}
	}
}

//Layout returns the logical screen size
func (w *WindowUI) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.cols * w.scale, w.rows*w.scale + hudHeight
}
