package evo

import (
	"errors"
	"fmt"
)

// Config carries every knob consumed by one generation step. All fields are
// validated up front; the scheduler rejects invalid configs instead of
// repairing them.
type Config struct {
	PopulationSize          int           `toml:"population_size" json:"populationSize"`
	MutationRate            float64       `toml:"mutation_rate" json:"mutationRate"`
	MutationStrength        float64       `toml:"mutation_strength" json:"mutationStrength"`
	MutationType            MutationType  `toml:"mutation_type" json:"mutationType"`
	CrossoverRate           float64       `toml:"crossover_rate" json:"crossoverRate"`
	CrossoverType           CrossoverType `toml:"crossover_type" json:"crossoverType"`
	EliteCount              int           `toml:"elite_count" json:"eliteCount"`
	RandomInjection         int           `toml:"random_injection" json:"randomInjection"`
	TournamentSize          int           `toml:"tournament_size" json:"tournamentSize"`
	EnforceContractivity    bool          `toml:"enforce_contractivity" json:"enforceContractivity"`
	AllowStructuralMutation bool          `toml:"allow_structural_mutation" json:"allowStructuralMutation"`
	StructuralMutationRate  float64       `toml:"structural_mutation_rate" json:"structuralMutationRate"`
}

// DefaultConfig returns the settings used when the caller has no opinion.
func DefaultConfig() Config {
	return Config{
		PopulationSize:          16,
		MutationRate:            0.7,
		MutationStrength:        0.3,
		MutationType:            MutationRandom,
		CrossoverRate:           0.7,
		CrossoverType:           CrossoverUniform,
		EliteCount:              2,
		RandomInjection:         1,
		TournamentSize:          3,
		EnforceContractivity:    true,
		AllowStructuralMutation: true,
		StructuralMutationRate:  0.1,
	}
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("evo: invalid config")

func (c Config) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population size %d must be positive", ErrInvalidConfig, c.PopulationSize)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("%w: mutation rate %v outside [0,1]", ErrInvalidConfig, c.MutationRate)
	}
	if c.MutationStrength <= 0 || c.MutationStrength > 1 {
		return fmt.Errorf("%w: mutation strength %v outside (0,1]", ErrInvalidConfig, c.MutationStrength)
	}
	if _, err := ParseMutationType(string(c.MutationType)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("%w: crossover rate %v outside [0,1]", ErrInvalidConfig, c.CrossoverRate)
	}
	if _, err := ParseCrossoverType(string(c.CrossoverType)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.EliteCount < 0 {
		return fmt.Errorf("%w: elite count %d must be non-negative", ErrInvalidConfig, c.EliteCount)
	}
	if c.RandomInjection < 0 {
		return fmt.Errorf("%w: random injection %d must be non-negative", ErrInvalidConfig, c.RandomInjection)
	}
	if c.EliteCount+c.RandomInjection > c.PopulationSize {
		return fmt.Errorf("%w: elites (%d) plus injection (%d) exceed population size %d",
			ErrInvalidConfig, c.EliteCount, c.RandomInjection, c.PopulationSize)
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("%w: tournament size %d must be at least 1", ErrInvalidConfig, c.TournamentSize)
	}
	if c.StructuralMutationRate < 0 || c.StructuralMutationRate > 1 {
		return fmt.Errorf("%w: structural mutation rate %v outside [0,1]", ErrInvalidConfig, c.StructuralMutationRate)
	}
	return nil
}
