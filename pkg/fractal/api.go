// Package fractal is the public surface of the evolution engine. It wraps
// the internal session, store, and generators behind a single Client so
// embedders and the CLI share one code path.
package fractal

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/JDerekLomas/fractalviewer/internal/chaos"
	"github.com/JDerekLomas/fractalviewer/internal/evo"
	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/internal/platform"
	"github.com/JDerekLomas/fractalviewer/internal/seedlib"
	"github.com/JDerekLomas/fractalviewer/internal/storage"
)

const defaultDBPath = "fractalviewer.db"

type Options struct {
	StoreKind string
	DBPath    string
	Evolution evo.Config
	Logger    *log.Logger
}

type Client struct {
	store   storage.Store
	session *platform.Session
}

// Point is one attractor sample in normalized unit-cube space.
type Point = chaos.Point

// SeedEntry describes one seed-library constructor.
type SeedEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Transforms  int    `json:"transforms"`
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	session := platform.NewSession(platform.Config{
		Store:     store,
		Evolution: opts.Evolution,
		Logger:    opts.Logger,
	})
	return &Client{store: store, session: session}, nil
}

func (c *Client) Init(ctx context.Context) error {
	return c.session.Init(ctx)
}

func (c *Client) Close() error {
	return c.session.Close()
}

// Seeds enumerates the seed-library catalog.
func (c *Client) Seeds() []SeedEntry {
	catalog := seedlib.Catalog()
	out := make([]SeedEntry, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, SeedEntry{
			Name:        e.Name,
			Description: e.Description,
			Transforms:  len(e.Build().Transforms),
		})
	}
	return out
}

// NewPopulation builds and activates a population. A non-empty seeds list
// draws from the seed library; otherwise the numeric seed drives the
// deterministic random constructor.
func (c *Client) NewPopulation(ctx context.Context, populationID string, seed uint32, seeds []string) (model.Population, error) {
	if populationID == "" {
		return model.Population{}, fmt.Errorf("population id is required")
	}
	if len(seeds) > 0 {
		return c.session.SeedFromLibrary(ctx, populationID, seeds)
	}
	return c.session.SeedFromRandom(ctx, populationID, seed)
}

// LoadPopulation activates a previously stored population.
func (c *Client) LoadPopulation(ctx context.Context, populationID string) (model.Population, error) {
	return c.session.Load(ctx, populationID)
}

// DeletePopulation removes a stored population.
func (c *Client) DeletePopulation(ctx context.Context, populationID string) error {
	return c.session.Delete(ctx, populationID)
}

// Population returns the active population.
func (c *Client) Population() (model.Population, bool) {
	return c.session.Current()
}

// Rate records a verdict on one genome of the active population.
func (c *Client) Rate(ctx context.Context, genomeID string, rating model.Rating) error {
	return c.session.Rate(ctx, genomeID, rating)
}

// Evolve advances the active population one generation.
func (c *Client) Evolve(ctx context.Context) (model.Population, error) {
	return c.session.Advance(ctx)
}

// Settings returns the evolution settings in effect.
func (c *Client) Settings() evo.Config {
	return c.session.Settings()
}

// UpdateSettings replaces the evolution settings for the active population.
func (c *Client) UpdateSettings(ctx context.Context, cfg evo.Config) error {
	return c.session.UpdateSettings(ctx, cfg)
}

// Render samples a genome's attractor. An empty result means the genome
// failed to render, which is a valid outcome.
func (c *Client) Render(ctx context.Context, genomeID string, iterations int) ([]Point, error) {
	return c.session.Render(ctx, genomeID, iterations)
}

// ExportGenome returns a genome copy, and its canonical JSON encoding, for
// sharing.
func (c *Client) ExportGenome(ctx context.Context, genomeID string) (model.Genome, []byte, error) {
	g, err := c.session.ExportGenome(ctx, genomeID)
	if err != nil {
		return model.Genome{}, nil, err
	}
	data, err := storage.EncodeGenome(g)
	if err != nil {
		return model.Genome{}, nil, err
	}
	return g, data, nil
}

// ImportGenome decodes a shared genome, stores it, and returns it. It does
// not join the active population until bred in.
func (c *Client) ImportGenome(ctx context.Context, data []byte) (model.Genome, error) {
	g, err := storage.DecodeGenome(data)
	if err != nil {
		return model.Genome{}, err
	}
	if len(g.Transforms) < model.MinTransforms || len(g.Transforms) > model.MaxTransforms {
		return model.Genome{}, fmt.Errorf("imported genome has %d transforms", len(g.Transforms))
	}
	if err := c.store.SaveGenome(ctx, g); err != nil {
		return model.Genome{}, err
	}
	return g, nil
}

// History returns the per-generation diagnostics of the active population.
func (c *Client) History(ctx context.Context) ([]model.GenerationDiagnostics, error) {
	return c.session.History(ctx)
}
