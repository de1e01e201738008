// Package storage persists genomes, populations, evolution settings, and
// per-run history. Backends share one JSON codec so records round-trip
// identically regardless of where they live.
package storage

import (
	"context"

	"github.com/JDerekLomas/fractalviewer/internal/evo"
	"github.com/JDerekLomas/fractalviewer/internal/model"
)

// Store defines persistence operations for the evolution engine's entities.
// Lookups return (zero, false, nil) when the record does not exist.
type Store interface {
	Init(ctx context.Context) error
	SaveGenome(ctx context.Context, genome model.Genome) error
	GetGenome(ctx context.Context, id string) (model.Genome, bool, error)
	SavePopulation(ctx context.Context, population model.Population) error
	GetPopulation(ctx context.Context, id string) (model.Population, bool, error)
	DeletePopulation(ctx context.Context, id string) error
	SaveConfig(ctx context.Context, populationID string, cfg evo.Config) error
	GetConfig(ctx context.Context, populationID string) (evo.Config, bool, error)
	SaveFitnessHistory(ctx context.Context, populationID string, history []float64) error
	GetFitnessHistory(ctx context.Context, populationID string) ([]float64, bool, error)
	SaveGenerationDiagnostics(ctx context.Context, populationID string, diagnostics []model.GenerationDiagnostics) error
	GetGenerationDiagnostics(ctx context.Context, populationID string) ([]model.GenerationDiagnostics, bool, error)
}
