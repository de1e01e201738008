package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/JDerekLomas/fractalviewer/internal/model"
	"github.com/JDerekLomas/fractalviewer/pkg/fractal"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "fractalctl"})

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "seeds":
		return runSeeds(ctx, args[1:])
	case "new":
		return runNew(ctx, args[1:])
	case "show", "population":
		return runShow(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "rate":
		return runRate(ctx, args[1:])
	case "evolve":
		return runEvolve(ctx, args[1:])
	case "render":
		return runRender(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "import":
		return runImport(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

type commonFlags struct {
	store      *string
	dbPath     *string
	configPath *string
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		store:      fs.String("store", "", "store backend: memory|sqlite"),
		dbPath:     fs.String("db-path", "", "sqlite database path"),
		configPath: fs.String("config", "", "TOML config file"),
	}
}

func openClient(ctx context.Context, cf commonFlags) (*fractal.Client, error) {
	cfg, err := loadFileConfig(*cf.configPath)
	if err != nil {
		return nil, err
	}
	storeKind := cfg.Store
	if *cf.store != "" {
		storeKind = *cf.store
	}
	dbPath := cfg.DBPath
	if *cf.dbPath != "" {
		dbPath = *cf.dbPath
	}
	client, err := fractal.New(fractal.Options{
		StoreKind: storeKind,
		DBPath:    dbPath,
		Evolution: cfg.Evolution,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	fmt.Println("store initialized")
	return nil
}

func runSeeds(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seeds", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	for _, s := range client.Seeds() {
		fmt.Printf("%-12s %d transforms  %s\n", s.Name, s.Transforms, s.Description)
	}
	return nil
}

func runNew(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	id := fs.String("id", "default", "population id")
	seed := fs.Uint("seed", 0, "32-bit seed for reproducible random construction")
	from := fs.String("from", "", "comma-separated seed-library names (overrides -seed)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	var names []string
	if *from != "" {
		names = strings.Split(*from, ",")
	}
	p, err := client.NewPopulation(ctx, *id, uint32(*seed), names)
	if err != nil {
		return err
	}
	fmt.Printf("population %s created: %d genomes at generation %d\n", p.ID, len(p.Genomes), p.Generation)
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	id := fs.String("id", "default", "population id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	p, err := client.LoadPopulation(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("population %s  generation %d  %d genomes\n", p.ID, p.Generation, len(p.Genomes))
	for _, g := range p.Genomes {
		rating := string(g.Rating)
		if rating == "" {
			rating = "-"
		}
		fmt.Printf("  %-40s gen=%-3d transforms=%d rating=%s parents=%s\n",
			g.ID, g.Generation, len(g.Transforms), rating, formatParents(g.ParentIDs))
	}
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	id := fs.String("id", "default", "population id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.DeletePopulation(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("population %s deleted\n", *id)
	return nil
}

func runRate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rate", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	id := fs.String("id", "default", "population id")
	genomeID := fs.String("genome", "", "genome id")
	rating := fs.String("rating", "", "up|down|clear")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *genomeID == "" {
		return usageError("rate requires -genome")
	}
	var r model.Rating
	switch *rating {
	case "up":
		r = model.RatingUp
	case "down":
		r = model.RatingDown
	case "clear", "none":
		r = model.RatingNone
	default:
		return usageError("rate requires -rating up|down|clear")
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if _, err := client.LoadPopulation(ctx, *id); err != nil {
		return err
	}
	if err := client.Rate(ctx, *genomeID, r); err != nil {
		return err
	}
	fmt.Printf("rated %s %s\n", *genomeID, *rating)
	return nil
}

func runEvolve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("evolve", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	id := fs.String("id", "default", "population id")
	generations := fs.Int("generations", 1, "generations to advance")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *generations < 1 {
		return usageError("evolve requires -generations >= 1")
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if _, err := client.LoadPopulation(ctx, *id); err != nil {
		return err
	}
	var p model.Population
	for i := 0; i < *generations; i++ {
		p, err = client.Evolve(ctx)
		if err != nil {
			return err
		}
	}
	fmt.Printf("population %s advanced to generation %d\n", p.ID, p.Generation)
	return nil
}

func runRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	id := fs.String("id", "default", "population id")
	genomeID := fs.String("genome", "", "genome id")
	iterations := fs.Int("iterations", 50000, "chaos game iterations")
	out := fs.String("out", "", "output file for x y z r g b lines (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *genomeID == "" {
		return usageError("render requires -genome")
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if _, err := client.LoadPopulation(ctx, *id); err != nil {
		return err
	}
	points, err := client.Render(ctx, *genomeID, *iterations)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Println("genome failed to render: empty attractor")
		return nil
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		w = f
	}
	for _, pt := range points {
		fmt.Fprintf(w, "%.6f %.6f %.6f %d %d %d\n", pt.X, pt.Y, pt.Z, pt.Color[0], pt.Color[1], pt.Color[2])
	}
	logger.Info("rendered attractor", "genome", *genomeID, "points", humanize.Comma(int64(len(points))))
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	id := fs.String("id", "default", "population id")
	genomeID := fs.String("genome", "", "genome id")
	out := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *genomeID == "" {
		return usageError("export requires -genome")
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if _, err := client.LoadPopulation(ctx, *id); err != nil {
		return err
	}
	_, data, err := client.ExportGenome(ctx, *genomeID)
	if err != nil {
		return err
	}
	if *out == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s (%s)\n", *genomeID, *out, humanize.Bytes(uint64(len(data))))
	return nil
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	file := fs.String("file", "", "genome JSON file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return usageError("import requires -file")
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	g, err := client.ImportGenome(ctx, data)
	if err != nil {
		return err
	}
	fmt.Printf("imported genome %s (%d transforms, generation %d)\n", g.ID, len(g.Transforms), g.Generation)
	return nil
}

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	cf := addCommonFlags(fs)
	id := fs.String("id", "default", "population id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if _, err := client.LoadPopulation(ctx, *id); err != nil {
		return err
	}
	history, err := client.History(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no generations recorded")
		return nil
	}
	fmt.Printf("%-4s %-10s %-10s %-10s %-6s %-6s %s\n", "gen", "best", "mean", "min", "up", "down", "transforms")
	for _, d := range history {
		fmt.Printf("%-4d %-10.4f %-10.4f %-10.4f %-6d %-6d %.2f\n",
			d.Generation, d.BestFitness, d.MeanFitness, d.MinFitness, d.RatedUp, d.RatedDown, d.MeanTransforms)
	}
	return nil
}

func formatParents(parents []string) string {
	if len(parents) == 0 {
		return "-"
	}
	return strings.Join(parents, ",")
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: fractalctl <init|reset|seeds|new|show|rate|evolve|render|export|import|history> [flags]", msg)
}
