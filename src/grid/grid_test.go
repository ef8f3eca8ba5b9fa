package grid

import (
	"errors"
	"testing"
)

func TestNewIsDead(t *testing.T) {
	g := New(4, 7)
	if g.Rows() != 4 || g.Cols() != 7 {
		t.Fatalf("dimensions = %dx%d, want 4x7", g.Rows(), g.Cols())
	}
	if p := g.Population(); p != 0 {
		t.Fatalf("population = %d, want 0", p)
	}
}

func TestGetOutOfBounds(t *testing.T) {
	g := New(3, 5)
	tests := []struct {
		name     string
		row, col int
	}{
		{"negative row", -1, 0},
		{"negative col", 0, -1},
		{"row == rows", 3, 0},
		{"col == cols", 0, 5},
		{"far away", 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Get(tt.row, tt.col); !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("Get(%d,%d) err = %v, want ErrOutOfBounds", tt.row, tt.col, err)
			}
			if _, err := g.WithCell(tt.row, tt.col, true); !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("WithCell(%d,%d) err = %v, want ErrOutOfBounds", tt.row, tt.col, err)
			}
			if _, err := g.LiveNeighbors(tt.row, tt.col); !errors.Is(err, ErrOutOfBounds) {
				t.Fatalf("LiveNeighbors(%d,%d) err = %v, want ErrOutOfBounds", tt.row, tt.col, err)
			}
		})
	}
}

func TestWithCellDoesNotMutate(t *testing.T) {
	g := New(3, 3)
	n, err := g.WithCell(1, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := g.Get(1, 2); v {
		t.Fatal("original grid was mutated")
	}
	if v, _ := n.Get(1, 2); !v {
		t.Fatal("new grid does not hold the cell")
	}
	if n.Population() != 1 {
		t.Fatalf("population = %d, want 1", n.Population())
	}
}

func TestWithCellIdempotent(t *testing.T) {
	g := FromCells(3, 3, [][2]int{{0, 0}})

	same, err := g.WithCell(0, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	if !same.Equal(g) {
		t.Fatal("setting the current value changed the grid")
	}

	once, _ := g.WithCell(2, 2, true)
	twice, _ := once.WithCell(2, 2, true)
	if !once.Equal(twice) {
		t.Fatalf("second WithCell changed the grid:\n%v\nvs\n%v", once, twice)
	}
}

func TestCornerNeighbours(t *testing.T) {
	g := FromCells(5, 6, [][2]int{{0, 0}})
	touched := map[[2]int]bool{}
	g.Walk(func(r int, c int, _ Cell) {
		n, err := g.LiveNeighbors(r, c)
		if err != nil {
			t.Fatal(err)
		}
		if n > 0 {
			touched[[2]int{r, c}] = true
		}
	})
	want := [][2]int{{0, 1}, {1, 0}, {1, 1}}
	if len(touched) != len(want) {
		t.Fatalf("corner cell counted by %d cells, want %d: %v", len(touched), len(want), touched)
	}
	for _, w := range want {
		if !touched[w] {
			t.Fatalf("cell %v does not count the corner", w)
		}
	}
}

func TestLiveNeighborsFull(t *testing.T) {
	g := NewRandom(3, 3, 1, NewRNG(1))
	tests := []struct {
		row, col, want int
	}{
		{1, 1, 8},
		{0, 0, 3},
		{0, 1, 5},
		{2, 2, 3},
	}
	for _, tt := range tests {
		if n, _ := g.LiveNeighbors(tt.row, tt.col); n != tt.want {
			t.Fatalf("LiveNeighbors(%d,%d) = %d, want %d", tt.row, tt.col, n, tt.want)
		}
	}
}

func TestFromCellsSkipsOutside(t *testing.T) {
	g := FromCells(2, 2, [][2]int{{0, 0}, {5, 5}, {-1, 0}, {1, 1}})
	if got := g.String(); got != "#.\n.#" {
		t.Fatalf("grid = %q", got)
	}
}

func TestRandomSeeded(t *testing.T) {
	a := NewRandom(20, 30, DefaultLiveProbability, NewRNG(42))
	b := NewRandom(20, 30, DefaultLiveProbability, NewRNG(42))
	if !a.Equal(b) {
		t.Fatal("identically seeded grids differ")
	}
}

func TestRandomProbability(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		min  int
		max  int
	}{
		{"never", 0, 0, 0},
		{"always", 1, 10000, 10000},
		{"default", DefaultLiveProbability, 1700, 2300},
		{"half", 0.5, 4700, 5300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewRandom(100, 100, tt.p, NewRNG(7))
			if pop := g.Population(); pop < tt.min || pop > tt.max {
				t.Fatalf("population = %d, want [%d,%d]", pop, tt.min, tt.max)
			}
		})
	}
}
