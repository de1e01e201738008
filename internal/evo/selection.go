package evo

import (
	"errors"

	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/internal/rng"
)

// ErrEmptyPopulation is returned when a selector is asked to pick a parent
// from an empty population.
var ErrEmptyPopulation = errors.New("evo: empty population")

// Selector picks a parent genome from a population. Implementations never
// modify the population.
type Selector interface {
	Name() string
	PickParent(src rng.Source, population []model.Genome) (model.Genome, error)
}

// SelectorFor returns the selection strategy implied by the tournament size:
// tournament selection when the size exceeds one, roulette otherwise.
func SelectorFor(tournamentSize int) Selector {
	if tournamentSize > 1 {
		return TournamentSelector{Size: tournamentSize}
	}
	return RouletteSelector{}
}

// RouletteSelector picks parents with probability proportional to fitness.
type RouletteSelector struct{}

func (RouletteSelector) Name() string { return "roulette" }

func (RouletteSelector) PickParent(src rng.Source, population []model.Genome) (model.Genome, error) {
	if len(population) == 0 {
		return model.Genome{}, ErrEmptyPopulation
	}
	total := 0.0
	for _, g := range population {
		total += Fitness(g)
	}
	r := src.Float64() * total
	for _, g := range population {
		r -= Fitness(g)
		if r <= 0 {
			return g, nil
		}
	}
	// Floating point slop can leave r marginally positive after the walk.
	return population[len(population)-1], nil
}

// TournamentSelector draws Size contestants uniformly with replacement and
// keeps the fittest.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string { return "tournament" }

func (s TournamentSelector) PickParent(src rng.Source, population []model.Genome) (model.Genome, error) {
	if len(population) == 0 {
		return model.Genome{}, ErrEmptyPopulation
	}
	size := s.Size
	if size < 1 {
		size = 1
	}
	best := population[int(src.Float64()*float64(len(population)))]
	bestFitness := Fitness(best)
	for i := 1; i < size; i++ {
		contender := population[int(src.Float64()*float64(len(population)))]
		if f := Fitness(contender); f > bestFitness {
			best = contender
			bestFitness = f
		}
	}
	return best, nil
}
