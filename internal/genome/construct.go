package genome

import (
	"errors"
	"fmt"

	"github.com/JDerekLomas/fractalviewer/internal/affine"
	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/internal/rng"
)

// RandomTransform draws a fresh contractive transform. The draw order is
// fixed (matrix cells, translation, probability, color) because seeded
// construction depends on a stable consumption order of the random stream.
func RandomTransform(src rng.Source) model.Transform {
	var m [9]float64
	for i := range m {
		m[i] = rng.Range(src, -0.9, 0.9)
	}
	t := model.Transform{
		M:           affine.EnforceContractivity(m, affine.MaxContractivity),
		TX:          rng.Range(src, -1, 1),
		TY:          rng.Range(src, -1, 1),
		TZ:          rng.Range(src, -1, 1),
		Probability: rng.Range(src, 0.1, 1),
		Color:       rng.Color(src),
	}
	return t
}

// RandomGenome builds a parentless genome with 3-6 random transforms.
func RandomGenome(src rng.Source, ids IDGenerator, generation int) model.Genome {
	count := 3 + int(src.Float64()*4)
	transforms := make([]model.Transform, 0, count)
	for i := 0; i < count; i++ {
		transforms = append(transforms, RandomTransform(src))
	}
	return model.Genome{
		VersionedRecord: model.CurrentVersion(),
		ID:              ids.Next(),
		Transforms:      transforms,
		Generation:      generation,
	}
}

// EnsureTransformBounds repairs a transform list into [MinTransforms,
// MaxTransforms]: short lists are padded with fresh random transforms, long
// lists are truncated. Padding is a silent repair, not an error.
func EnsureTransformBounds(transforms []model.Transform, src rng.Source) []model.Transform {
	for len(transforms) < model.MinTransforms {
		transforms = append(transforms, RandomTransform(src))
	}
	if len(transforms) > model.MaxTransforms {
		transforms = transforms[:model.MaxTransforms]
	}
	return transforms
}

// ConstructSeedPopulation deterministically builds size random genomes from a
// 32-bit seed. Two runs with the same seed yield bit-identical genomes, so
// nothing else may consume the mulberry32 stream while it runs.
func ConstructSeedPopulation(seed uint32, size int) ([]model.Genome, error) {
	if size <= 0 {
		return nil, errors.New("population size must be > 0")
	}
	src := rng.NewMulberry32(seed)
	ids := NewSequential(fmt.Sprintf("seed-%d-", seed))
	genomes := make([]model.Genome, 0, size)
	for i := 0; i < size; i++ {
		genomes = append(genomes, RandomGenome(src, ids, 0))
	}
	return genomes, nil
}
