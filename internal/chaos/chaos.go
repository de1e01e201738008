// Package chaos samples a genome's attractor with the chaos game: repeated
// weighted random application of the genome's affine maps to a running point.
package chaos

import (
	"errors"
	"math"

	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/internal/rng"
)

// DefaultSkip is the number of leading transient iterations discarded while
// the point settles onto the attractor.
const DefaultSkip = 20

var ErrNoTransforms = errors.New("genome has no transforms")

// Point is one attractor sample, colored by the transform that produced it.
type Point struct {
	X, Y, Z float64
	Color   [3]uint8
}

type Options struct {
	Iterations int
	Skip       int // DefaultSkip when zero
	Source     rng.Source
}

// Generate runs the chaos game for the genome and returns the surviving
// samples. Divergence (a non-finite coordinate) is recovered locally by
// reseeding the running point; it never fails the run. An empty result means
// the genome's attractor could not be sampled, which callers must treat as a
// valid outcome.
func Generate(genome model.Genome, opts Options) ([]Point, error) {
	if len(genome.Transforms) == 0 {
		return nil, ErrNoTransforms
	}
	if opts.Iterations <= 0 {
		return nil, errors.New("iterations must be > 0")
	}
	src := opts.Source
	if src == nil {
		src = rng.NewSystem()
	}
	skip := opts.Skip
	if skip == 0 {
		skip = DefaultSkip
	}

	totalWeight := 0.0
	for _, t := range genome.Transforms {
		totalWeight += t.Probability
	}

	x := rng.Range(src, -1, 1)
	y := rng.Range(src, -1, 1)
	z := rng.Range(src, -1, 1)

	points := make([]Point, 0, opts.Iterations)
	for i := 0; i < opts.Iterations; i++ {
		t := pickTransform(genome.Transforms, totalWeight, src)
		nx, ny, nz := t.Apply(x, y, z)
		if !finite(nx) || !finite(ny) || !finite(nz) {
			// Diverged: drop the point and restart from a fresh seed.
			x = rng.Range(src, -1, 1)
			y = rng.Range(src, -1, 1)
			z = rng.Range(src, -1, 1)
			continue
		}
		x, y, z = nx, ny, nz
		if i >= skip {
			points = append(points, Point{X: x, Y: y, Z: z, Color: t.Color})
		}
	}
	return points, nil
}

// pickTransform draws a transform by weight, walking the list and subtracting
// each weight. Floating rounding at the boundary can leave r slightly
// positive after the walk, so the last transform is the fallback.
func pickTransform(transforms []model.Transform, totalWeight float64, src rng.Source) model.Transform {
	r := src.Float64() * totalWeight
	for _, t := range transforms {
		r -= t.Probability
		if r <= 0 {
			return t
		}
	}
	return transforms[len(transforms)-1]
}

// Bounds is an axis-aligned bounding box over a point set.
type Bounds struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

func ComputeBounds(points []Point) Bounds {
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1), MinZ: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1), MaxZ: math.Inf(-1),
	}
	for _, p := range points {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MinZ = math.Min(b.MinZ, p.Z)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
		b.MaxZ = math.Max(b.MaxZ, p.Z)
	}
	return b
}

// Normalize recenters and rescales points into the unit cube using the
// largest axis range: scale = 2/max(range). Zero ranges substitute 1 to
// guard the division. The input slice is not modified.
func Normalize(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}
	b := ComputeBounds(points)
	rangeX := nonZeroRange(b.MaxX - b.MinX)
	rangeY := nonZeroRange(b.MaxY - b.MinY)
	rangeZ := nonZeroRange(b.MaxZ - b.MinZ)
	scale := 2 / math.Max(rangeX, math.Max(rangeY, rangeZ))

	centerX := (b.MinX + b.MaxX) / 2
	centerY := (b.MinY + b.MaxY) / 2
	centerZ := (b.MinZ + b.MaxZ) / 2

	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{
			X:     (p.X - centerX) * scale,
			Y:     (p.Y - centerY) * scale,
			Z:     (p.Z - centerZ) * scale,
			Color: p.Color,
		}
	}
	return out
}

func nonZeroRange(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
