package grid

import "math/rand/v2"

//DefaultLiveProbability is the chance of a cell to be live in a random grid
const DefaultLiveProbability = 0.2

//NewRNG creates the deterministic random source for the given seed
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

//NewRandom creates the grid where every cell is independently live with liveProbability
//a cell is live when the draw from [0,1) is >= 1-liveProbability
//the result is deterministic only for identically seeded sources
func NewRandom(rows int, cols int, liveProbability float64, rng *rand.Rand) Grid {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	threshold := 1 - liveProbability
	b := NewBuilder(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			b.Set(r, c, rng.Float64() >= threshold)
		}
	}
	return b.Grid()
}
