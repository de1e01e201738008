package evo

import (
	"math"
	"testing"

	"github.com/JDerekLomas/fractalviewer/internal/model"
)

func smallTransform(diag float64) model.Transform {
	return model.Transform{
		M:           [9]float64{diag, 0, 0, 0, diag, 0, 0, 0, diag},
		Probability: 1,
		Color:       [3]uint8{200, 100, 50},
	}
}

func testGenome(rating model.Rating, count int) model.Genome {
	transforms := make([]model.Transform, count)
	for i := range transforms {
		transforms[i] = smallTransform(0.5)
	}
	return model.Genome{ID: "g", Transforms: transforms, Rating: rating}
}

func TestFitnessRatingFactors(t *testing.T) {
	base := Fitness(testGenome(model.RatingNone, 3))
	up := Fitness(testGenome(model.RatingUp, 3))
	down := Fitness(testGenome(model.RatingDown, 3))

	if got, want := up/base, 3.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("up rating factor = %v, want %v", got, want)
	}
	if got, want := down/base, 0.1; math.Abs(got-want) > 1e-12 {
		t.Fatalf("down rating factor = %v, want %v", got, want)
	}
}

func TestFitnessContractivityBonus(t *testing.T) {
	// Diagonal 0.5 gives a spectral radius proxy of 0.5, under the 0.7
	// bonus threshold. Diagonal 1.3 gives 1.3, over it.
	tight := Fitness(testGenome(model.RatingNone, 3))
	loose := Fitness(model.Genome{Transforms: []model.Transform{
		smallTransform(1.3), smallTransform(1.3), smallTransform(1.3),
	}})
	if got, want := tight, 1.2; math.Abs(got-want) > 1e-12 {
		t.Fatalf("contractive genome fitness = %v, want %v", got, want)
	}
	if got, want := loose, 1.0; math.Abs(got-want) > 1e-12 {
		t.Fatalf("expansive genome fitness = %v, want %v", got, want)
	}
}

func TestFitnessDiversityFactor(t *testing.T) {
	for _, tc := range []struct {
		count int
		want  float64
	}{
		{2, 1.2 * 0.9},
		{3, 1.2 * 1.0},
		{5, 1.2 * 1.2},
		{8, 1.2 * 1.5},
	} {
		if got := Fitness(testGenome(model.RatingNone, tc.count)); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("fitness with %d transforms = %v, want %v", tc.count, got, tc.want)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	pop := []model.Genome{
		testGenome(model.RatingUp, 3),
		testGenome(model.RatingDown, 3),
		testGenome(model.RatingNone, 4),
	}
	for i := range pop {
		pop[i].Generation = 7
	}
	d := Diagnostics(pop)
	if d.Generation != 7 {
		t.Errorf("generation = %d, want 7", d.Generation)
	}
	if d.RatedUp != 1 || d.RatedDown != 1 {
		t.Errorf("rated up/down = %d/%d, want 1/1", d.RatedUp, d.RatedDown)
	}
	if want := 3.0 * 1.2; math.Abs(d.BestFitness-want) > 1e-12 {
		t.Errorf("best fitness = %v, want %v", d.BestFitness, want)
	}
	if want := 0.1 * 1.2; math.Abs(d.MinFitness-want) > 1e-12 {
		t.Errorf("min fitness = %v, want %v", d.MinFitness, want)
	}
	if want := 10.0 / 3; math.Abs(d.MeanTransforms-want) > 1e-12 {
		t.Errorf("mean transforms = %v, want %v", d.MeanTransforms, want)
	}
}

func TestDiagnosticsEmpty(t *testing.T) {
	if d := Diagnostics(nil); d != (model.GenerationDiagnostics{}) {
		t.Fatalf("empty population diagnostics = %+v, want zero value", d)
	}
}
