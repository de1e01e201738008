package storage

import (
	"context"
	"testing"

	"github.com/JDerekLomas/fractalviewer/internal/evo"
	"github.com/JDerekLomas/fractalviewer/internal/genome"
	"github.com/JDerekLomas/fractalviewer/internal/model"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return store
}

func seededGenome(t *testing.T) model.Genome {
	t.Helper()
	pop, err := genome.ConstructSeedPopulation(9, 1)
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	return pop[0]
}

func TestMemoryStoreGenomeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	g := seededGenome(t)
	g.Rating = model.RatingUp
	if err := store.SaveGenome(ctx, g); err != nil {
		t.Fatalf("save genome: %v", err)
	}

	loaded, ok, err := store.GetGenome(ctx, g.ID)
	if err != nil {
		t.Fatalf("get genome: %v", err)
	}
	if !ok {
		t.Fatalf("expected genome %s", g.ID)
	}
	if loaded.ID != g.ID || loaded.Rating != model.RatingUp || len(loaded.Transforms) != len(g.Transforms) {
		t.Fatalf("unexpected genome loaded: %+v", loaded)
	}

	if _, ok, err := store.GetGenome(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing genome: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStorePopulationRoundTripAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p := model.Population{
		VersionedRecord: model.CurrentVersion(),
		ID:              "p1",
		Genomes:         []model.Genome{seededGenome(t)},
		Generation:      3,
	}
	if err := store.SavePopulation(ctx, p); err != nil {
		t.Fatalf("save population: %v", err)
	}
	loaded, ok, err := store.GetPopulation(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("get population: ok=%v err=%v", ok, err)
	}
	if loaded.Generation != 3 || len(loaded.Genomes) != 1 {
		t.Fatalf("unexpected population: %+v", loaded)
	}

	if err := store.DeletePopulation(ctx, "p1"); err != nil {
		t.Fatalf("delete population: %v", err)
	}
	if _, ok, _ := store.GetPopulation(ctx, "p1"); ok {
		t.Fatal("population survived delete")
	}
}

func TestMemoryStoreConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cfg := evo.DefaultConfig()
	cfg.MutationType = evo.MutationStructured
	if err := store.SaveConfig(ctx, "p1", cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	loaded, ok, err := store.GetConfig(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("get config: ok=%v err=%v", ok, err)
	}
	if loaded != cfg {
		t.Fatalf("config mismatch: %+v", loaded)
	}
}

func TestMemoryStoreFitnessHistoryCopies(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	input := []float64{0.1, 0.2, 0.3}
	if err := store.SaveFitnessHistory(ctx, "p1", input); err != nil {
		t.Fatalf("save history: %v", err)
	}
	input[0] = 99

	output, ok, err := store.GetFitnessHistory(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("get history: ok=%v err=%v", ok, err)
	}
	if output[0] != 0.1 {
		t.Fatalf("store aliased caller slice: %v", output)
	}
}

func TestMemoryStoreGenerationDiagnosticsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	input := []model.GenerationDiagnostics{
		{Generation: 1, BestFitness: 3.6, MeanFitness: 1.4, MinFitness: 0.12, RatedUp: 2, MeanTransforms: 4.5},
		{Generation: 2, BestFitness: 4.1, MeanFitness: 1.6, MinFitness: 0.2, RatedDown: 1, MeanTransforms: 4.25},
	}
	if err := store.SaveGenerationDiagnostics(ctx, "p1", input); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	output, ok, err := store.GetGenerationDiagnostics(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("get diagnostics: ok=%v err=%v", ok, err)
	}
	if len(output) != 2 || output[1].MeanTransforms != 4.25 {
		t.Fatalf("unexpected diagnostics: %+v", output)
	}
}
