// Package evo implements the breeding machinery: fitness scoring, parent
// selection, crossover and mutation operators, and the per-generation
// scheduler that ties them together.
package evo

import (
	"github.com/JDerekLomas/fractalviewer/internal/affine"
	"github.com/JDerekLomas/fractalviewer/internal/model"
)

const (
	ratingUpFactor      = 3.0
	ratingDownFactor    = 0.1
	contractivityBonus  = 1.2
	contractivityTarget = 0.7
)

// Fitness scores a genome from its rating and structure. Deterministic and
// pure: no randomness, no mutation of the input.
func Fitness(g model.Genome) float64 {
	fitness := 1.0
	switch g.Rating {
	case model.RatingUp:
		fitness *= ratingUpFactor
	case model.RatingDown:
		fitness *= ratingDownFactor
	}
	if meanSpectralRadius(g.Transforms) < contractivityTarget {
		fitness *= contractivityBonus
	}
	fitness *= 1 + float64(len(g.Transforms)-3)*0.1
	return fitness
}

func meanSpectralRadius(transforms []model.Transform) float64 {
	if len(transforms) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range transforms {
		sum += affine.SpectralRadius(t.M)
	}
	return sum / float64(len(transforms))
}

// Diagnostics summarizes a population for generation history records.
func Diagnostics(population []model.Genome) model.GenerationDiagnostics {
	d := model.GenerationDiagnostics{}
	if len(population) == 0 {
		return d
	}
	d.Generation = population[0].Generation
	best := Fitness(population[0])
	min := best
	sum := 0.0
	transformSum := 0
	for _, g := range population {
		f := Fitness(g)
		if f > best {
			best = f
		}
		if f < min {
			min = f
		}
		sum += f
		transformSum += len(g.Transforms)
		switch g.Rating {
		case model.RatingUp:
			d.RatedUp++
		case model.RatingDown:
			d.RatedDown++
		}
		if g.Generation > d.Generation {
			d.Generation = g.Generation
		}
	}
	d.BestFitness = best
	d.MinFitness = min
	d.MeanFitness = sum / float64(len(population))
	d.MeanTransforms = float64(transformSum) / float64(len(population))
	return d
}
