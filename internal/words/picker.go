package words

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// Picker chooses an index in [0, n). n is always > 0.
type Picker interface {
	Intn(n int) int
}

// CryptoPicker draws from crypto/rand.
type CryptoPicker struct{}

// Intn returns a uniform index using crypto/rand.
func (CryptoPicker) Intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails if the OS source is broken; fall back to math/rand.
		return mrand.IntN(n)
	}
	return int(v.Int64())
}

// SeededPicker is a reproducible Picker for tests and replays.
// Not safe for concurrent use.
type SeededPicker struct {
	r *mrand.Rand
}

// NewSeededPicker returns a Picker whose sequence is fixed by seed.
func NewSeededPicker(seed uint64) *SeededPicker {
	return &SeededPicker{r: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns the next index in the seeded sequence.
func (p *SeededPicker) Intn(n int) int { return p.r.IntN(n) }

// FixedPicker always returns the same index (clamped to n-1).
type FixedPicker int

// Intn returns int(f) bounded by n.
func (f FixedPicker) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	if f < 0 {
		return 0
	}
	return int(f)
}
