package evo

import (
	"fmt"
	"math"

	"github.com/JDerekLomas/fractalviewer/internal/affine"
	"github.com/JDerekLomas/fractalviewer/internal/genome"
	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/internal/rng"
)

// MutationType names a perturbation strategy for a genome's transforms.
type MutationType string

const (
	MutationRandom      MutationType = "random"
	MutationStructured  MutationType = "structured"
	MutationRotation    MutationType = "rotation"
	MutationScale       MutationType = "scale"
	MutationTranslation MutationType = "translation"
	MutationColor       MutationType = "color"
)

// ParseMutationType validates a strategy name.
func ParseMutationType(s string) (MutationType, error) {
	switch t := MutationType(s); t {
	case MutationRandom, MutationStructured, MutationRotation,
		MutationScale, MutationTranslation, MutationColor:
		return t, nil
	}
	return "", fmt.Errorf("evo: unknown mutation type %q", s)
}

const (
	minScale = 0.1
	maxScale = 0.85
	maxShear = 0.3
)

// MutateTransforms applies the named strategy to every transform in the list
// and returns a new list. The input is never modified. Strategies that touch
// the matrix re-enforce contractivity at the 0.85 ceiling as part of the
// perturbation.
func MutateTransforms(typ MutationType, transforms []model.Transform, strength float64, src rng.Source) ([]model.Transform, error) {
	var mutate func(model.Transform, float64, rng.Source) model.Transform
	switch typ {
	case MutationRandom:
		mutate = mutateRandom
	case MutationStructured:
		mutate = mutateStructured
	case MutationRotation:
		mutate = mutateRotation
	case MutationScale:
		mutate = mutateScale
	case MutationTranslation:
		mutate = mutateTranslation
	case MutationColor:
		mutate = mutateColor
	default:
		return nil, fmt.Errorf("evo: unknown mutation type %q", typ)
	}
	out := make([]model.Transform, len(transforms))
	for i, t := range transforms {
		out[i] = mutate(t, strength, src)
	}
	return out, nil
}

// mutateRandom perturbs raw matrix cells, translation, probability, and
// color, each behind its own probability gate.
func mutateRandom(t model.Transform, strength float64, src rng.Source) model.Transform {
	out := genome.CloneTransform(t)
	for i := range out.M {
		if src.Float64() < 0.5 {
			out.M[i] += rng.Range(src, -strength, strength)
		}
	}
	out.M = affine.EnforceContractivity(out.M, affine.MaxContractivity)
	mutateExtras(&out, strength, src)
	return out
}

// mutateStructured works in decomposed space so scale, rotation, and shear
// can be perturbed independently without raw-cell crosstalk.
func mutateStructured(t model.Transform, strength float64, src rng.Source) model.Transform {
	out := genome.CloneTransform(t)
	c := affine.Decompose(out.M)
	if src.Float64() < 0.4 {
		c.ScaleX = clampScale(c.ScaleX + rng.Range(src, -strength, strength))
		c.ScaleY = clampScale(c.ScaleY + rng.Range(src, -strength, strength))
		c.ScaleZ = clampScale(c.ScaleZ + rng.Range(src, -strength, strength))
	}
	if src.Float64() < 0.5 {
		c.RotationX += rng.Range(src, -strength*math.Pi, strength*math.Pi)
		c.RotationY += rng.Range(src, -strength*math.Pi, strength*math.Pi)
		c.RotationZ += rng.Range(src, -strength*math.Pi, strength*math.Pi)
	}
	if src.Float64() < 0.3 {
		c.ShearXY = clampShear(c.ShearXY + rng.Range(src, -strength*0.5, strength*0.5))
		c.ShearXZ = clampShear(c.ShearXZ + rng.Range(src, -strength*0.5, strength*0.5))
		c.ShearYZ = clampShear(c.ShearYZ + rng.Range(src, -strength*0.5, strength*0.5))
	}
	out.M = affine.EnforceContractivity(affine.Reconstruct(c), affine.MaxContractivity)
	mutateExtras(&out, strength, src)
	return out
}

// mutateRotation perturbs the three Euler angles unconditionally and leaves
// every other field alone.
func mutateRotation(t model.Transform, strength float64, src rng.Source) model.Transform {
	out := genome.CloneTransform(t)
	c := affine.Decompose(out.M)
	c.RotationX += rng.Range(src, -strength*math.Pi, strength*math.Pi)
	c.RotationY += rng.Range(src, -strength*math.Pi, strength*math.Pi)
	c.RotationZ += rng.Range(src, -strength*math.Pi, strength*math.Pi)
	out.M = affine.EnforceContractivity(affine.Reconstruct(c), affine.MaxContractivity)
	return out
}

// mutateScale scales all three axes by one shared factor half the time, and
// perturbs each axis independently otherwise.
func mutateScale(t model.Transform, strength float64, src rng.Source) model.Transform {
	out := genome.CloneTransform(t)
	c := affine.Decompose(out.M)
	if src.Float64() < 0.5 {
		factor := 1 + rng.Range(src, -strength, strength)
		c.ScaleX = clampScale(c.ScaleX * factor)
		c.ScaleY = clampScale(c.ScaleY * factor)
		c.ScaleZ = clampScale(c.ScaleZ * factor)
	} else {
		c.ScaleX = clampScale(c.ScaleX + rng.Range(src, -strength, strength))
		c.ScaleY = clampScale(c.ScaleY + rng.Range(src, -strength, strength))
		c.ScaleZ = clampScale(c.ScaleZ + rng.Range(src, -strength, strength))
	}
	out.M = affine.EnforceContractivity(affine.Reconstruct(c), affine.MaxContractivity)
	return out
}

func mutateTranslation(t model.Transform, strength float64, src rng.Source) model.Transform {
	out := genome.CloneTransform(t)
	out.TX += rng.Range(src, -strength, strength)
	out.TY += rng.Range(src, -strength, strength)
	out.TZ += rng.Range(src, -strength, strength)
	return out
}

func mutateColor(t model.Transform, strength float64, src rng.Source) model.Transform {
	out := genome.CloneTransform(t)
	span := strength * 400
	for i := range out.Color {
		out.Color[i] = clampChannel(float64(out.Color[i]) + rng.Range(src, -span, span))
	}
	return out
}

// mutateExtras applies the shared translation/probability/color rules used by
// the random and structured strategies.
func mutateExtras(out *model.Transform, strength float64, src rng.Source) {
	if src.Float64() < 0.4 {
		out.TX += rng.Range(src, -2*strength, 2*strength)
	}
	if src.Float64() < 0.4 {
		out.TY += rng.Range(src, -2*strength, 2*strength)
	}
	if src.Float64() < 0.4 {
		out.TZ += rng.Range(src, -2*strength, 2*strength)
	}
	if src.Float64() < 0.3 {
		out.Probability += rng.Range(src, -0.2, 0.2)
		if out.Probability < 0.1 {
			out.Probability = 0.1
		}
	}
	if src.Float64() < 0.2 {
		for i := range out.Color {
			out.Color[i] = clampChannel(float64(out.Color[i]) + rng.Range(src, -40, 40))
		}
	}
}

// StructuralMutation independently removes a transform (when above the
// minimum) and appends a fresh random one (when below the maximum), each
// gated by rate. Either, both, or neither may fire.
func StructuralMutation(transforms []model.Transform, rate float64, src rng.Source) []model.Transform {
	out := genome.CloneTransforms(transforms)
	if src.Float64() < rate && len(out) > model.MinTransforms {
		idx := int(src.Float64() * float64(len(out)))
		out = append(out[:idx], out[idx+1:]...)
	}
	if src.Float64() < rate && len(out) < model.MaxTransforms {
		out = append(out, genome.RandomTransform(src))
	}
	return out
}

func clampScale(v float64) float64 {
	if v < minScale {
		return minScale
	}
	if v > maxScale {
		return maxScale
	}
	return v
}

func clampShear(v float64) float64 {
	if v < -maxShear {
		return -maxShear
	}
	if v > maxShear {
		return maxShear
	}
	return v
}

func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
