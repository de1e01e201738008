package chaos

import (
	"errors"
	"math"
	"testing"

	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/internal/rng"
)

func contractionGenome() model.Genome {
	return model.Genome{
		ID: "test",
		Transforms: []model.Transform{
			{
				M:           [9]float64{0.5, 0, 0, 0, 0.5, 0, 0, 0, 0.5},
				Probability: 1,
				Color:       [3]uint8{200, 40, 40},
			},
			{
				M:           [9]float64{0.5, 0, 0, 0, 0.5, 0, 0, 0, 0.5},
				TX:          0.5, TY: 0.5, TZ: 0.5,
				Probability: 1,
				Color:       [3]uint8{40, 200, 40},
			},
		},
	}
}

func TestGenerateRequiresTransforms(t *testing.T) {
	_, err := Generate(model.Genome{}, Options{Iterations: 100})
	if !errors.Is(err, ErrNoTransforms) {
		t.Fatalf("expected ErrNoTransforms, got %v", err)
	}
}

func TestGenerateEmitsAfterSkip(t *testing.T) {
	points, err := Generate(contractionGenome(), Options{
		Iterations: 500,
		Source:     rng.NewMulberry32(42),
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(points) != 500-DefaultSkip {
		t.Fatalf("point count: got %d want %d", len(points), 500-DefaultSkip)
	}
}

func TestGenerateConvergesForContractiveTransforms(t *testing.T) {
	// A single near-identity contraction with zero translation pulls every
	// start point toward the origin; nothing after the skip window should
	// stray outside the initial cube.
	genome := model.Genome{
		ID: "single",
		Transforms: []model.Transform{
			{
				M:           [9]float64{0.8, 0, 0, 0, 0.8, 0, 0, 0, 0.8},
				Probability: 1,
				Color:       [3]uint8{255, 255, 255},
			},
			{
				M:           [9]float64{0.8, 0, 0, 0, 0.8, 0, 0, 0, 0.8},
				Probability: 1,
				Color:       [3]uint8{0, 0, 0},
			},
		},
	}
	points, err := Generate(genome, Options{Iterations: 2000, Source: rng.NewMulberry32(7)})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(points) == 0 {
		t.Fatal("expected emitted points")
	}
	for i, p := range points {
		r := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
		if r > 2 {
			t.Fatalf("point %d escaped bounded region: radius %v", i, r)
		}
	}
}

func TestGenerateIsDeterministicForSeededSource(t *testing.T) {
	genome := contractionGenome()
	a, err := Generate(genome, Options{Iterations: 300, Source: rng.NewMulberry32(1234)})
	if err != nil {
		t.Fatalf("generate a: %v", err)
	}
	b, err := Generate(genome, Options{Iterations: 300, Source: rng.NewMulberry32(1234)})
	if err != nil {
		t.Fatalf("generate b: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d mismatch: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateRecoversFromDivergence(t *testing.T) {
	// One wildly expansive map drives coordinates to +/-Inf within a few
	// applications; generation must reseed and keep going rather than fail.
	genome := model.Genome{
		ID: "divergent",
		Transforms: []model.Transform{
			{
				M:           [9]float64{1e200, 0, 0, 0, 1e200, 0, 0, 0, 1e200},
				TX:          1e300,
				Probability: 1,
				Color:       [3]uint8{255, 0, 0},
			},
			{
				M:           [9]float64{0.5, 0, 0, 0, 0.5, 0, 0, 0, 0.5},
				Probability: 1,
				Color:       [3]uint8{0, 255, 0},
			},
		},
	}
	points, err := Generate(genome, Options{Iterations: 1000, Source: rng.NewMulberry32(5)})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			t.Fatalf("point %d is non-finite: %+v", i, p)
		}
	}
}

func TestPickTransformFallsBackToLast(t *testing.T) {
	transforms := []model.Transform{
		{Probability: 1, Color: [3]uint8{1, 0, 0}},
		{Probability: 1, Color: [3]uint8{2, 0, 0}},
	}
	got := pickTransform(transforms, 0, maxSource{})
	if got.Color != transforms[1].Color {
		t.Fatalf("expected last-transform fallback, got %+v", got)
	}
}

// maxSource always returns a draw at the top of the unit interval.
type maxSource struct{}

func (maxSource) Float64() float64 { return math.Nextafter(1, 0) }

func TestNormalizeFitsUnitCube(t *testing.T) {
	points := []Point{
		{X: 10, Y: -5, Z: 2},
		{X: 14, Y: -1, Z: 4},
		{X: 12, Y: -3, Z: 3},
	}
	normalized := Normalize(points)
	if len(normalized) != len(points) {
		t.Fatalf("length: got %d want %d", len(normalized), len(points))
	}
	for i, p := range normalized {
		for _, v := range []float64{p.X, p.Y, p.Z} {
			if v < -1-1e-9 || v > 1+1e-9 {
				t.Fatalf("point %d outside unit cube: %+v", i, p)
			}
		}
	}
	// Largest range is X (4 units): its extremes map to -1 and +1.
	if math.Abs(normalized[0].X+1) > 1e-9 || math.Abs(normalized[1].X-1) > 1e-9 {
		t.Fatalf("x extremes: %v, %v", normalized[0].X, normalized[1].X)
	}
}

func TestNormalizeDegenerateAxis(t *testing.T) {
	points := []Point{
		{X: 1, Y: 5, Z: 5},
		{X: 3, Y: 5, Z: 5},
	}
	normalized := Normalize(points)
	for i, p := range normalized {
		for _, v := range []float64{p.X, p.Y, p.Z} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("point %d non-finite after degenerate normalize: %+v", i, p)
			}
		}
	}
	if normalized[0].Y != 0 || normalized[0].Z != 0 {
		t.Fatalf("flat axes should center at zero: %+v", normalized[0])
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(nil); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}
