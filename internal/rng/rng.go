// Package rng defines the random source abstraction used by the engine.
// Mulberry32 is the deterministic implementation required by seed sharing;
// System wraps math/rand for ordinary, non-reproducible evolution.
package rng

import (
	"math"
	"math/rand"
	"time"
)

// Source yields floats in [0, 1). Implementations are not safe for
// concurrent use; callers hold one source per goroutine.
type Source interface {
	Float64() float64
}

// Mulberry32 is a deterministic 32-bit generator. The exact bit sequence
// matters: shared seeds must reproduce identical genomes across independent
// implementations, so the update and tempering steps below cannot change.
type Mulberry32 struct {
	state uint32
}

func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

func (m *Mulberry32) Float64() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// System is the non-deterministic source used outside seed-reproducible paths.
type System struct {
	r *rand.Rand
}

func NewSystem() *System {
	return &System{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSystemSeeded is a System source with a fixed math/rand stream, used by
// tests that need repeatability without the mulberry32 contract.
func NewSystemSeeded(seed int64) *System {
	return &System{r: rand.New(rand.NewSource(seed))}
}

func (s *System) Float64() float64 {
	return s.r.Float64()
}

// Range draws a uniform value in [min, max).
func Range(src Source, min, max float64) float64 {
	return src.Float64()*(max-min) + min
}

// Color draws a saturated color: hue uniform in [0, 360), saturation in
// [0.6, 1), lightness in [0.4, 0.7), converted from HSL to RGB.
func Color(src Source) [3]uint8 {
	h := Range(src, 0, 360)
	s := Range(src, 0.6, 1)
	l := Range(src, 0.4, 0.7)
	return hslToRGB(h, s, l)
}

func hslToRGB(h, s, l float64) [3]uint8 {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return [3]uint8{
		uint8(math.Round((r + m) * 255)),
		uint8(math.Round((g + m) * 255)),
		uint8(math.Round((b + m) * 255)),
	}
}
