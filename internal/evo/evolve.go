package evo

import (
	"sort"

	"github.com/JDerekLomas/fractalviewer/internal/affine"
	"github.com/JDerekLomas/fractalviewer/internal/genome"
	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/internal/rng"
)

const eliteStrengthFactor = 0.3

// Options carries the scheduler's injected collaborators. Zero values fall
// back to a non-deterministic source and random unique ids.
type Options struct {
	Source rng.Source
	IDs    genome.IDGenerator
}

// EvolveGeneration advances the population by one generation: elitism over
// up-rated genomes, random injection, then selection-driven breeding until
// the configured population size is reached. The input population is never
// modified.
func EvolveGeneration(cfg Config, population []model.Genome, opts Options) ([]model.Genome, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(population) == 0 {
		return nil, ErrEmptyPopulation
	}
	src := opts.Source
	if src == nil {
		src = rng.NewSystem()
	}
	ids := opts.IDs
	if ids == nil {
		ids = genome.Random{}
	}

	nextGen := 0
	for _, g := range population {
		if g.Generation >= nextGen {
			nextGen = g.Generation + 1
		}
	}

	ranked := make([]model.Genome, len(population))
	copy(ranked, population)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Fitness(ranked[i]) > Fitness(ranked[j])
	})

	structuralRate := 0.0
	if cfg.AllowStructuralMutation {
		structuralRate = cfg.StructuralMutationRate
	}
	selector := SelectorFor(cfg.TournamentSize)
	next := make([]model.Genome, 0, cfg.PopulationSize)

	// Elites: lightly perturbed copies of the best up-rated genomes. No
	// structural mutation, so an elite keeps its transform count.
	elites := 0
	for _, g := range ranked {
		if elites >= cfg.EliteCount {
			break
		}
		if g.Rating != model.RatingUp {
			continue
		}
		ts, err := mutatePipeline(cfg, g.Transforms, cfg.MutationStrength*eliteStrengthFactor, 0, src)
		if err != nil {
			return nil, err
		}
		next = append(next, newChild(ts, []string{g.ID}, nextGen, ids))
		elites++
	}

	for i := 0; i < cfg.RandomInjection; i++ {
		next = append(next, genome.RandomGenome(src, ids, nextGen))
	}

	for len(next) < cfg.PopulationSize {
		parent1, err := selector.PickParent(src, population)
		if err != nil {
			return nil, err
		}
		if src.Float64() < cfg.CrossoverRate {
			parent2, err := selector.PickParent(src, population)
			if err != nil {
				return nil, err
			}
			ts, err := Crossover(cfg.CrossoverType, parent1.Transforms, parent2.Transforms, src)
			if err != nil {
				return nil, err
			}
			ts = genome.EnsureTransformBounds(ts, src)
			if cfg.EnforceContractivity {
				enforceAll(ts)
			}
			if src.Float64() < cfg.MutationRate {
				ts, err = mutatePipeline(cfg, ts, cfg.MutationStrength, structuralRate, src)
				if err != nil {
					return nil, err
				}
			}
			next = append(next, newChild(ts, []string{parent1.ID, parent2.ID}, nextGen, ids))
			continue
		}
		ts, err := mutatePipeline(cfg, parent1.Transforms, cfg.MutationStrength, structuralRate, src)
		if err != nil {
			return nil, err
		}
		next = append(next, newChild(ts, []string{parent1.ID}, nextGen, ids))
	}
	return next, nil
}

// mutatePipeline runs the configured mutation strategy, optional structural
// mutation, and the transform-count repair in order.
func mutatePipeline(cfg Config, transforms []model.Transform, strength, structuralRate float64, src rng.Source) ([]model.Transform, error) {
	ts, err := MutateTransforms(cfg.MutationType, transforms, strength, src)
	if err != nil {
		return nil, err
	}
	if structuralRate > 0 {
		ts = StructuralMutation(ts, structuralRate, src)
	}
	return genome.EnsureTransformBounds(ts, src), nil
}

func enforceAll(transforms []model.Transform) {
	for i := range transforms {
		transforms[i].M = affine.EnforceContractivity(transforms[i].M, affine.MaxContractivity)
	}
}

func newChild(transforms []model.Transform, parentIDs []string, generation int, ids genome.IDGenerator) model.Genome {
	return model.Genome{
		VersionedRecord: model.CurrentVersion(),
		ID:              ids.Next(),
		Transforms:      transforms,
		Generation:      generation,
		ParentIDs:       parentIDs,
	}
}

// ChildGeneration derives a child's generation index from its parents per
// the lineage rule: max parent generation plus one, zero with no parents.
func ChildGeneration(parents ...model.Genome) int {
	max := -1
	for _, p := range parents {
		if p.Generation > max {
			max = p.Generation
		}
	}
	return max + 1
}
