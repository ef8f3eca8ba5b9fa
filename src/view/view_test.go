package view

import (
	"bytes"
	"image/color"
	"strings"
	"testing"
	"time"

	"lifegrid/src/config"
	"lifegrid/src/grid"
	"lifegrid/src/universe"
)

func TestFillGridRGBA(t *testing.T) {
	g := grid.FromCells(2, 3, [][2]int{{0, 1}, {1, 2}})
	buf := make([]byte, 4*6)
	on := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	off := color.RGBA{A: 255}
	fillGridRGBA(buf, g, on, off)

	for i := 0; i < 6; i++ {
		live := i == 1 || i == 5
		px := buf[i*4 : i*4+4]
		want := []byte{0, 0, 0, 255}
		if live {
			want = []byte{10, 20, 30, 255}
		}
		if !bytes.Equal(px, want) {
			t.Errorf("pixel %d = %v, want %v", i, px, want)
		}
	}
}

func TestCellAt(t *testing.T) {
	tests := []struct {
		name     string
		x, y     int
		row, col int
		ok       bool
	}{
		{"origin", 0, 0, 0, 0, true},
		{"inside", 25, 14, 1, 2, true},
		{"last cell", 49, 39, 3, 4, true},
		{"right of field", 50, 0, 0, 0, false},
		{"status line", 0, 40, 0, 0, false},
		{"negative", -1, 5, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := cellAt(tt.x, tt.y, 10, 4, 5)
			if ok != tt.ok || (ok && (row != tt.row || col != tt.col)) {
				t.Errorf("cellAt(%d,%d) = %d,%d,%v want %d,%d,%v", tt.x, tt.y, row, col, ok, tt.row, tt.col, tt.ok)
			}
		})
	}
}

func TestIntervalKeysStayInBounds(t *testing.T) {
	tests := []struct {
		name string
		fn   func(time.Duration) time.Duration
		in   time.Duration
		want time.Duration
	}{
		{"slower", slower, 500 * time.Millisecond, 550 * time.Millisecond},
		{"faster", faster, 500 * time.Millisecond, 450 * time.Millisecond},
		{"faster at min", faster, config.MinInterval, config.MinInterval},
		{"slower at max", slower, config.MaxInterval, config.MaxInterval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConsoleOut(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleOut(&out, 2, false)
	c.ShowGrid(true)

	o := universe.DefaultUniverseOptions
	o.Rows, o.Cols = 5, 5
	o.MaxSteps = 4
	u := universe.NewBaseUniverse(&o, nil, universe.WithClock(universe.NewManualClock()))
	defer u.Close()
	u.RegisterViewer(c)
	u.Settle([][2]int{{2, 1}, {2, 2}, {2, 3}})

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		u.Step()
	}
	c.Finish()

	text := out.String()
	for _, want := range []string{
		"Running configuration:",
		"Dimension: 5 x 5",
		"Max iterations: 4 steps",
		"Generations done: 2, live cells: 3",
		"Generations done: 4, live cells: 3",
		"Last generation: 4",
		"Live cells: 3",
		".....\n.....\n.###.\n.....\n.....",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output does not contain %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Generations done: 1") {
		t.Errorf("progress printed for an odd generation:\n%s", text)
	}
}

func TestWindowStub(t *testing.T) {
	w := NewWindowUI(10, nil)
	var _ universe.Viewer = w
	if w == nil {
		t.Fatal("nil window viewer")
	}
}
