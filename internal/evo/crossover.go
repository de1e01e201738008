package evo

import (
	"fmt"
	"math"

	"github.com/JDerekLomas/fractalviewer/internal/genome"
	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/internal/rng"
)

// CrossoverType names a recombination strategy. The set is closed; anything
// else is rejected during config validation.
type CrossoverType string

const (
	CrossoverUniform     CrossoverType = "uniform"
	CrossoverBlend       CrossoverType = "blend"
	CrossoverParameter   CrossoverType = "parameter"
	CrossoverSinglePoint CrossoverType = "single-point"
)

// ParseCrossoverType validates a strategy name.
func ParseCrossoverType(s string) (CrossoverType, error) {
	switch t := CrossoverType(s); t {
	case CrossoverUniform, CrossoverBlend, CrossoverParameter, CrossoverSinglePoint:
		return t, nil
	}
	return "", fmt.Errorf("evo: unknown crossover type %q", s)
}

// Crossover recombines two parent transform lists using the named strategy.
// Parents are never modified; the child is built from deep copies. The blend
// strategy draws its mixing factor from src before any per-transform work.
func Crossover(typ CrossoverType, a, b []model.Transform, src rng.Source) ([]model.Transform, error) {
	switch typ {
	case CrossoverUniform:
		return UniformCrossover(a, b, src), nil
	case CrossoverBlend:
		return BlendCrossover(a, b, src.Float64(), src), nil
	case CrossoverParameter:
		return ParameterCrossover(a, b, src), nil
	case CrossoverSinglePoint:
		return SinglePointCrossover(a, b, src), nil
	}
	return nil, fmt.Errorf("evo: unknown crossover type %q", typ)
}

// UniformCrossover flips a coin per transform index. Indexes present in only
// one parent are inherited from that parent.
func UniformCrossover(a, b []model.Transform, src rng.Source) []model.Transform {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	child := make([]model.Transform, 0, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(a):
			child = append(child, genome.CloneTransform(b[i]))
		case i >= len(b):
			child = append(child, genome.CloneTransform(a[i]))
		case src.Float64() < 0.5:
			child = append(child, genome.CloneTransform(a[i]))
		default:
			child = append(child, genome.CloneTransform(b[i]))
		}
	}
	return child
}

// BlendCrossover interpolates every numeric field between aligned parent
// transforms as a*alpha + b*(1-alpha). Color channels are interpolated in
// float space and rounded back to bytes. Indexes present in only one parent
// are copied with their probability faded by that parent's share of the mix.
func BlendCrossover(a, b []model.Transform, alpha float64, _ rng.Source) []model.Transform {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	child := make([]model.Transform, 0, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(a):
			t := genome.CloneTransform(b[i])
			t.Probability *= 1 - alpha
			child = append(child, t)
		case i >= len(b):
			t := genome.CloneTransform(a[i])
			t.Probability *= alpha
			child = append(child, t)
		default:
			child = append(child, blendTransform(a[i], b[i], alpha))
		}
	}
	return child
}

func blendTransform(a, b model.Transform, alpha float64) model.Transform {
	var t model.Transform
	for i := range t.M {
		t.M[i] = lerp(a.M[i], b.M[i], alpha)
	}
	t.TX = lerp(a.TX, b.TX, alpha)
	t.TY = lerp(a.TY, b.TY, alpha)
	t.TZ = lerp(a.TZ, b.TZ, alpha)
	t.Probability = lerp(a.Probability, b.Probability, alpha)
	for i := range t.Color {
		t.Color[i] = uint8(math.Round(lerp(float64(a.Color[i]), float64(b.Color[i]), alpha)))
	}
	return t
}

func lerp(a, b, alpha float64) float64 {
	return a*alpha + b*(1-alpha)
}

// ParameterCrossover flips an independent coin per field within each aligned
// transform pair: every matrix cell, each translation component, the
// probability, and each color channel.
func ParameterCrossover(a, b []model.Transform, src rng.Source) []model.Transform {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	child := make([]model.Transform, 0, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(a):
			child = append(child, genome.CloneTransform(b[i]))
		case i >= len(b):
			child = append(child, genome.CloneTransform(a[i]))
		default:
			child = append(child, mixTransform(a[i], b[i], src))
		}
	}
	return child
}

func mixTransform(a, b model.Transform, src rng.Source) model.Transform {
	pick := func(x, y float64) float64 {
		if src.Float64() < 0.5 {
			return x
		}
		return y
	}
	var t model.Transform
	for i := range t.M {
		t.M[i] = pick(a.M[i], b.M[i])
	}
	t.TX = pick(a.TX, b.TX)
	t.TY = pick(a.TY, b.TY)
	t.TZ = pick(a.TZ, b.TZ)
	t.Probability = pick(a.Probability, b.Probability)
	for i := range t.Color {
		if src.Float64() < 0.5 {
			t.Color[i] = a.Color[i]
		} else {
			t.Color[i] = b.Color[i]
		}
	}
	return t
}

// SinglePointCrossover splits both parents at one index drawn from
// [0, min(len(a), len(b))) and concatenates a's head with b's tail.
func SinglePointCrossover(a, b []model.Transform, src rng.Source) []model.Transform {
	min := len(a)
	if len(b) < min {
		min = len(b)
	}
	point := 0
	if min > 0 {
		point = int(src.Float64() * float64(min))
	}
	child := make([]model.Transform, 0, point+len(b)-point)
	for _, t := range a[:point] {
		child = append(child, genome.CloneTransform(t))
	}
	for _, t := range b[point:] {
		child = append(child, genome.CloneTransform(t))
	}
	return child
}
