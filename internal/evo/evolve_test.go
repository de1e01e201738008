package evo

import (
	"errors"
	"reflect"
	"testing"

	"github.com/JDerekLomas/fractalviewer/internal/genome"
	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/internal/rng"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero population", func(c *Config) { c.PopulationSize = 0 }},
		{"negative mutation rate", func(c *Config) { c.MutationRate = -0.1 }},
		{"mutation rate above one", func(c *Config) { c.MutationRate = 1.1 }},
		{"zero mutation strength", func(c *Config) { c.MutationStrength = 0 }},
		{"mutation strength above one", func(c *Config) { c.MutationStrength = 1.5 }},
		{"unknown mutation type", func(c *Config) { c.MutationType = "invert" }},
		{"crossover rate above one", func(c *Config) { c.CrossoverRate = 2 }},
		{"unknown crossover type", func(c *Config) { c.CrossoverType = "splice" }},
		{"negative elite count", func(c *Config) { c.EliteCount = -1 }},
		{"negative injection", func(c *Config) { c.RandomInjection = -1 }},
		{"elites plus injection overflow", func(c *Config) { c.EliteCount = 10; c.RandomInjection = 10 }},
		{"zero tournament size", func(c *Config) { c.TournamentSize = 0 }},
		{"structural rate above one", func(c *Config) { c.StructuralMutationRate = 1.2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func seedPopulation(t *testing.T, seed uint32, size int) []model.Genome {
	t.Helper()
	pop, err := genome.ConstructSeedPopulation(seed, size)
	if err != nil {
		t.Fatalf("ConstructSeedPopulation: %v", err)
	}
	return pop
}

func TestEvolveGenerationEndToEnd(t *testing.T) {
	pop := seedPopulation(t, 42, 16)
	next, err := EvolveGeneration(DefaultConfig(), pop, Options{
		Source: rng.NewMulberry32(99),
		IDs:    genome.NewSequential("gen1-"),
	})
	if err != nil {
		t.Fatalf("EvolveGeneration: %v", err)
	}
	if len(next) != 16 {
		t.Fatalf("next population size = %d, want 16", len(next))
	}
	for i, g := range next {
		if g.Generation != 1 {
			t.Errorf("genome %d generation = %d, want 1", i, g.Generation)
		}
		if n := len(g.Transforms); n < model.MinTransforms || n > model.MaxTransforms {
			t.Errorf("genome %d has %d transforms", i, n)
		}
		if g.ID == "" {
			t.Errorf("genome %d has no id", i)
		}
		if len(g.ParentIDs) > 2 {
			t.Errorf("genome %d has %d parents", i, len(g.ParentIDs))
		}
	}
}

func TestEvolveGenerationLeavesInputUntouched(t *testing.T) {
	pop := seedPopulation(t, 7, 8)
	pop[0].Rating = model.RatingUp
	pop[1].Rating = model.RatingDown
	before := make([]model.Genome, len(pop))
	for i, g := range pop {
		before[i] = genome.CloneGenome(g)
	}

	if _, err := EvolveGeneration(DefaultConfig(), pop, Options{Source: rng.NewMulberry32(1)}); err != nil {
		t.Fatalf("EvolveGeneration: %v", err)
	}
	if !reflect.DeepEqual(pop, before) {
		t.Fatal("EvolveGeneration modified the input population")
	}
}

func TestEvolveGenerationElitesPreserveUpRatedLineage(t *testing.T) {
	pop := seedPopulation(t, 3, 8)
	pop[5].Rating = model.RatingUp
	cfg := DefaultConfig()
	cfg.PopulationSize = 8
	cfg.EliteCount = 2

	next, err := EvolveGeneration(cfg, pop, Options{
		Source: rng.NewMulberry32(4),
		IDs:    genome.NewSequential("child-"),
	})
	if err != nil {
		t.Fatalf("EvolveGeneration: %v", err)
	}
	// Only one genome is up-rated, so exactly one elite slot is filled and
	// the elite descends from it alone with its transform count intact.
	elite := next[0]
	if !reflect.DeepEqual(elite.ParentIDs, []string{pop[5].ID}) {
		t.Fatalf("elite parents = %v, want [%s]", elite.ParentIDs, pop[5].ID)
	}
	if len(elite.Transforms) != len(pop[5].Transforms) {
		t.Errorf("elite transform count = %d, want %d", len(elite.Transforms), len(pop[5].Transforms))
	}
	if next[1].ParentIDs != nil {
		t.Errorf("second slot should be the random injection, got parents %v", next[1].ParentIDs)
	}
}

func TestEvolveGenerationNoElitesWithoutUpRatings(t *testing.T) {
	pop := seedPopulation(t, 42, 16)
	next, err := EvolveGeneration(DefaultConfig(), pop, Options{Source: rng.NewMulberry32(5)})
	if err != nil {
		t.Fatalf("EvolveGeneration with zero eligible elites: %v", err)
	}
	if len(next) != 16 {
		t.Fatalf("population size = %d, want 16", len(next))
	}
}

func TestEvolveGenerationFailsFast(t *testing.T) {
	if _, err := EvolveGeneration(DefaultConfig(), nil, Options{}); !errors.Is(err, ErrEmptyPopulation) {
		t.Errorf("empty population: err = %v, want ErrEmptyPopulation", err)
	}
	bad := DefaultConfig()
	bad.PopulationSize = 0
	if _, err := EvolveGeneration(bad, seedPopulation(t, 1, 2), Options{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("invalid config: err = %v, want ErrInvalidConfig", err)
	}
}

func TestChildGeneration(t *testing.T) {
	g3 := model.Genome{Generation: 3}
	g5 := model.Genome{Generation: 5}
	if got := ChildGeneration(g3, g5); got != 6 {
		t.Errorf("crossover child generation = %d, want 6", got)
	}
	if got := ChildGeneration(model.Genome{Generation: 4}); got != 5 {
		t.Errorf("mutation child generation = %d, want 5", got)
	}
	if got := ChildGeneration(); got != 0 {
		t.Errorf("parentless generation = %d, want 0", got)
	}
}
