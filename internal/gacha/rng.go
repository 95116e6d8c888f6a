// Package gacha holds the random primitives the card generator, milestone
// table and simulator roll with.
package gacha

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource yields uniform floats in [0, 1).
type RandomSource interface {
	Float64() float64
}

type cryptoSource struct{}

func (cryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		return rand.Float64()
	}
	// top 53 bits fill the mantissa exactly
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}

// DefaultRNG is the unseeded source used for live pack opens.
func DefaultRNG() RandomSource { return cryptoSource{} }

type pcgSource struct{ r *rand.Rand }

// NewSeededRNG returns a PCG source for simulations and tests.
func NewSeededRNG(seed uint64) RandomSource {
	return &pcgSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *pcgSource) Float64() float64 { return s.r.Float64() }

// LCG constants for per-card seed replay. A seed typed by a player must
// reproduce the same card forever, so these never change.
const (
	lcgMul = 9301
	lcgInc = 49297
	lcgMod = 233280
)

// LCG is a linear congruential source advanced once per Float64 call.
type LCG struct {
	state uint64
}

// NewLCG seeds a linear congruential source.
func NewLCG(seed uint64) *LCG {
	return &LCG{state: seed % lcgMod}
}

func (l *LCG) Float64() float64 {
	l.state = (l.state*lcgMul + lcgInc) % lcgMod
	return float64(l.state) / lcgMod
}
