// Package platform orchestrates the evolution engine: it owns the store,
// the current population, and the configuration, and exposes the operations
// collaborators drive (seed, rate, advance, render, export).
package platform

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/JDerekLomas/fractalviewer/internal/chaos"
	"github.com/JDerekLomas/fractalviewer/internal/evo"
	"github.com/JDerekLomas/fractalviewer/internal/genome"
	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/internal/rng"
	"github.com/JDerekLomas/fractalviewer/internal/seedlib"
	"github.com/JDerekLomas/fractalviewer/internal/storage"
)

var (
	ErrNotInitialized = errors.New("session is not initialized")
	ErrNoPopulation   = errors.New("no population loaded")
	ErrGenomeNotFound = errors.New("genome not found")
)

// Config wires a Session's collaborators. Store is required; the rest
// default to a non-deterministic source, UUID-backed ids, the default
// evolution settings, and the package-level logger.
type Config struct {
	Store     storage.Store
	Evolution evo.Config
	IDs       genome.IDGenerator
	Source    rng.Source
	Logger    *log.Logger
}

// Session is safe for concurrent use; one mutex guards the current
// population and its settings.
type Session struct {
	store  storage.Store
	ids    genome.IDGenerator
	src    rng.Source
	logger *log.Logger

	mu      sync.RWMutex
	started bool
	cfg     evo.Config
	current model.Population
	loaded  bool
}

func NewSession(cfg Config) *Session {
	s := &Session{
		store:  cfg.Store,
		ids:    cfg.IDs,
		src:    cfg.Source,
		logger: cfg.Logger,
		cfg:    cfg.Evolution,
	}
	if s.ids == nil {
		s.ids = genome.NewRandom()
	}
	if s.src == nil {
		s.src = rng.NewSystem()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if (cfg.Evolution == evo.Config{}) {
		s.cfg = evo.DefaultConfig()
	}
	return s
}

func (s *Session) Init(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("store is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	if err := s.store.Init(ctx); err != nil {
		return err
	}
	s.started = true
	return nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started = false
	s.loaded = false
	return storage.CloseIfSupported(s.store)
}

// SeedFromRandom builds a reproducible population from a 32-bit seed and
// makes it current. The same seed always yields the same genomes.
func (s *Session) SeedFromRandom(ctx context.Context, populationID string, seed uint32) (model.Population, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Population{}, ErrNotInitialized
	}
	genomes, err := genome.ConstructSeedPopulation(seed, s.cfg.PopulationSize)
	if err != nil {
		return model.Population{}, err
	}
	s.logger.Info("seeded population", "id", populationID, "seed", seed, "size", len(genomes))
	return s.installPopulation(ctx, populationID, genomes)
}

// SeedFromLibrary builds a population from the named seed-library genomes,
// cycling through them until the configured size is reached. An empty name
// list uses the whole catalog.
func (s *Session) SeedFromLibrary(ctx context.Context, populationID string, names []string) (model.Population, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Population{}, ErrNotInitialized
	}
	entries := make([]seedlib.Entry, 0, len(names))
	if len(names) == 0 {
		entries = seedlib.Catalog()
	} else {
		for _, name := range names {
			entry, err := seedlib.Lookup(name)
			if err != nil {
				return model.Population{}, err
			}
			entries = append(entries, entry)
		}
	}
	genomes := make([]model.Genome, 0, s.cfg.PopulationSize)
	for i := 0; i < s.cfg.PopulationSize; i++ {
		g := entries[i%len(entries)].Build()
		// Library ids repeat once the catalog cycles; suffix the slot to
		// keep ids unique within the population.
		g.ID = fmt.Sprintf("%s#%d", g.ID, i)
		genomes = append(genomes, g)
	}
	s.logger.Info("seeded population from library", "id", populationID, "entries", len(entries), "size", len(genomes))
	return s.installPopulation(ctx, populationID, genomes)
}

// Load makes a stored population current, restoring its settings when they
// were persisted alongside it.
func (s *Session) Load(ctx context.Context, populationID string) (model.Population, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Population{}, ErrNotInitialized
	}
	p, ok, err := s.store.GetPopulation(ctx, populationID)
	if err != nil {
		return model.Population{}, err
	}
	if !ok {
		return model.Population{}, fmt.Errorf("population not found: %s", populationID)
	}
	if cfg, ok, err := s.store.GetConfig(ctx, populationID); err != nil {
		return model.Population{}, err
	} else if ok {
		s.cfg = cfg
	}
	s.current = p
	s.loaded = true
	return p, nil
}

// Delete removes a stored population, unloading it if it is current.
func (s *Session) Delete(ctx context.Context, populationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotInitialized
	}
	if err := s.store.DeletePopulation(ctx, populationID); err != nil {
		return err
	}
	if s.loaded && s.current.ID == populationID {
		s.current = model.Population{}
		s.loaded = false
	}
	return nil
}

// Current returns the loaded population.
func (s *Session) Current() (model.Population, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return model.Population{}, false
	}
	return s.current, true
}

// Settings returns the evolution settings in effect.
func (s *Session) Settings() evo.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// UpdateSettings validates and persists new evolution settings for the
// current population.
func (s *Session) UpdateSettings(ctx context.Context, cfg evo.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotInitialized
	}
	s.cfg = cfg
	if !s.loaded {
		return nil
	}
	return s.store.SaveConfig(ctx, s.current.ID, cfg)
}

// Rate records the user's verdict on a genome in the current population.
func (s *Session) Rate(ctx context.Context, genomeID string, rating model.Rating) error {
	switch rating {
	case model.RatingNone, model.RatingUp, model.RatingDown:
	default:
		return fmt.Errorf("unknown rating %q", rating)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return ErrNoPopulation
	}
	for i := range s.current.Genomes {
		if s.current.Genomes[i].ID != genomeID {
			continue
		}
		s.current.Genomes[i].Rating = rating
		if err := s.store.SaveGenome(ctx, s.current.Genomes[i]); err != nil {
			return err
		}
		return s.store.SavePopulation(ctx, s.current)
	}
	return fmt.Errorf("%w: %s", ErrGenomeNotFound, genomeID)
}

// Advance evolves the current population one generation and persists the
// result along with its fitness history and diagnostics.
func (s *Session) Advance(ctx context.Context) (model.Population, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return model.Population{}, ErrNoPopulation
	}
	next, err := evo.EvolveGeneration(s.cfg, s.current.Genomes, evo.Options{
		Source: s.src,
		IDs:    s.ids,
	})
	if err != nil {
		return model.Population{}, err
	}

	diagnostics := evo.Diagnostics(next)
	s.current.Genomes = next
	s.current.Generation = diagnostics.Generation
	s.logger.Info("advanced generation",
		"id", s.current.ID,
		"generation", s.current.Generation,
		"best", diagnostics.BestFitness,
		"mean", diagnostics.MeanFitness)

	for _, g := range next {
		if err := s.store.SaveGenome(ctx, g); err != nil {
			return model.Population{}, err
		}
	}
	if err := s.store.SavePopulation(ctx, s.current); err != nil {
		return model.Population{}, err
	}
	if err := s.appendHistory(ctx, diagnostics); err != nil {
		return model.Population{}, err
	}
	return s.current, nil
}

// Render samples a genome's attractor and normalizes it into the unit cube.
// An empty point set means the genome failed to render, not an error.
func (s *Session) Render(ctx context.Context, genomeID string, iterations int) ([]chaos.Point, error) {
	g, err := s.ExportGenome(ctx, genomeID)
	if err != nil {
		return nil, err
	}
	points, err := chaos.Generate(g, chaos.Options{Iterations: iterations})
	if err != nil {
		return nil, err
	}
	return chaos.Normalize(points), nil
}

// ExportGenome hands out a deep copy for collaborators to serialize.
func (s *Session) ExportGenome(_ context.Context, genomeID string) (model.Genome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return model.Genome{}, ErrNoPopulation
	}
	for _, g := range s.current.Genomes {
		if g.ID == genomeID {
			return genome.CloneGenome(g), nil
		}
	}
	return model.Genome{}, fmt.Errorf("%w: %s", ErrGenomeNotFound, genomeID)
}

// History returns the persisted per-generation diagnostics for the current
// population.
func (s *Session) History(ctx context.Context) ([]model.GenerationDiagnostics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrNoPopulation
	}
	diagnostics, _, err := s.store.GetGenerationDiagnostics(ctx, s.current.ID)
	return diagnostics, err
}

func (s *Session) installPopulation(ctx context.Context, populationID string, genomes []model.Genome) (model.Population, error) {
	p := model.Population{
		VersionedRecord: model.CurrentVersion(),
		ID:              populationID,
		Genomes:         genomes,
		Generation:      0,
	}
	for _, g := range genomes {
		if err := s.store.SaveGenome(ctx, g); err != nil {
			return model.Population{}, err
		}
	}
	if err := s.store.SavePopulation(ctx, p); err != nil {
		return model.Population{}, err
	}
	if err := s.store.SaveConfig(ctx, populationID, s.cfg); err != nil {
		return model.Population{}, err
	}
	if err := s.store.SaveFitnessHistory(ctx, populationID, nil); err != nil {
		return model.Population{}, err
	}
	s.current = p
	s.loaded = true
	return p, nil
}

func (s *Session) appendHistory(ctx context.Context, diagnostics model.GenerationDiagnostics) error {
	history, _, err := s.store.GetFitnessHistory(ctx, s.current.ID)
	if err != nil {
		return err
	}
	history = append(history, diagnostics.BestFitness)
	if err := s.store.SaveFitnessHistory(ctx, s.current.ID, history); err != nil {
		return err
	}
	existing, _, err := s.store.GetGenerationDiagnostics(ctx, s.current.ID)
	if err != nil {
		return err
	}
	return s.store.SaveGenerationDiagnostics(ctx, s.current.ID, append(existing, diagnostics))
}
