package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-docx/internal/config"
	"github.com/jonathan/resume-docx/internal/fetch"
	"github.com/jonathan/resume-docx/internal/observability"
	"github.com/jonathan/resume-docx/internal/overlay"
	"github.com/jonathan/resume-docx/internal/pipeline"
	"github.com/jonathan/resume-docx/internal/ranking"
	"github.com/jonathan/resume-docx/internal/watch"
)

type renderFlags struct {
	configPath    string
	data          string
	template      string
	profiles      []string
	structureFrom string
	seed          string
	keywords      []string
	out           string
	outDir        string
	configDir     string
	locations     string
	databaseURL   string
	browser       string
	concurrency   int
	strict        bool
	watch         bool

	tailor            bool
	maxRoles          int
	maxBulletsPerRole int
	minScore          int
}

func newRenderCmd(a *app) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a candidate record into one DOCX per profile",
		Long: `Renders the candidate record with the template descriptor, once for the
base record or once per --profile. Each profile's overlays are applied from
the config directory and its structure file, if any, reorders the sections.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, a, f)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "Candidate record (YAML, JSON or JSONC)")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Template descriptor (default: built-in template)")
	cmd.Flags().StringSliceVarP(&f.profiles, "profile", "p", nil, "Overlay profile to render (repeatable)")
	cmd.Flags().StringVar(&f.structureFrom, "structure-from", "", "Structure descriptor, reference document (.docx, .html, .md) or URL")
	cmd.Flags().StringVar(&f.seed, "seed", "", "Seed criteria: JSON or key=value pairs")
	cmd.Flags().StringArrayVarP(&f.keywords, "keyword", "k", nil, "Emphasis keyword (repeatable)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Output .docx path (single profile only)")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "Output directory (default: out)")
	cmd.Flags().StringVar(&f.configDir, "config-dir", "", "Profile overlay root (default: RESUME_CONFIG_DIR or config)")
	cmd.Flags().StringVar(&f.locations, "locations", "", "Location alias map (YAML or JSON)")
	cmd.Flags().StringVar(&f.databaseURL, "db-url", "", "PostgreSQL URL for render history (optional, defaults to DATABASE_URL env var)")
	cmd.Flags().StringVar(&f.browser, "browser", "", "Headless browser use for URL structure sources: auto, always or never")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Profiles rendered at once")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "Validate the candidate record against its schema")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Re-render whenever an input file changes")
	cmd.Flags().BoolVar(&f.tailor, "tailor", false, "Keep only the experience roles and bullets that mention a keyword")
	cmd.Flags().IntVar(&f.maxRoles, "max-roles", 0, "Roles kept by --tailor (0 = all)")
	cmd.Flags().IntVar(&f.maxBulletsPerRole, "max-bullets-per-role", 0, "Bullets kept per role by --tailor (0 = all)")
	cmd.Flags().IntVar(&f.minScore, "min-score", 0, "Keyword evidence a role needs to survive --tailor (default 1)")
	return cmd
}

// resolveRenderConfig merges the config file, explicit flags and defaults.
func resolveRenderConfig(cmd *cobra.Command, a *app, f *renderFlags) (config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if f.configPath != "" {
		loaded, err := config.LoadConfig(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
		a.logger.Debug("config loaded", zap.String("path", f.configPath))
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Data = f.data
	}
	if flags.Changed("template") {
		cfg.Template = f.template
	}
	if flags.Changed("profile") {
		cfg.Profiles = f.profiles
	}
	if flags.Changed("structure-from") {
		cfg.StructureFrom = f.structureFrom
	}
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("keyword") {
		cfg.Keywords = f.keywords
	}
	if flags.Changed("out") {
		cfg.Out = f.out
	}
	if flags.Changed("out-dir") {
		cfg.OutDir = f.outDir
	}
	if flags.Changed("config-dir") {
		cfg.ConfigDir = f.configDir
	}
	if flags.Changed("locations") {
		cfg.Locations = f.locations
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = f.databaseURL
	}
	if flags.Changed("browser") {
		cfg.Browser = f.browser
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if flags.Changed("strict") {
		cfg.Strict = f.strict
	}
	if flags.Changed("tailor") {
		cfg.Tailor = f.tailor
	}
	if flags.Changed("max-roles") {
		cfg.MaxRoles = f.maxRoles
	}
	if flags.Changed("max-bullets-per-role") {
		cfg.MaxBulletsPerRole = f.maxBulletsPerRole
	}
	if flags.Changed("min-score") {
		cfg.MinScore = f.minScore
	}
	if a.verbose {
		cfg.Verbose = true
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		ConfigDir:   envOr("RESUME_CONFIG_DIR", overlay.DefaultConfigDir),
		OutDir:      "out",
		Browser:     "auto",
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})

	// Step 4: Validate required fields
	if cfg.Data == "" {
		return cfg, fmt.Errorf("--data must be provided (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runRender(cmd *cobra.Command, a *app, f *renderFlags) error {
	cfg, err := resolveRenderConfig(cmd, a, f)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	opts := pipeline.RunOptions{
		DataPath:      cfg.Data,
		TemplatePath:  cfg.Template,
		Profiles:      cfg.Profiles,
		ConfigDir:     cfg.ConfigDir,
		OutDir:        cfg.OutDir,
		Out:           cfg.Out,
		StructureFrom: cfg.StructureFrom,
		Seed:          cfg.Seed,
		Keywords:      cfg.Keywords,
		LocationsPath: cfg.Locations,
		Strict:        cfg.Strict,
		Verbose:       cfg.Verbose,
		Concurrency:   cfg.Concurrency,
		DatabaseURL:   cfg.DatabaseURL,
		Fetcher:       fetch.NewClient(fetch.DefaultOptions(), fetch.ParseBrowserMode(cfg.Browser), a.logger),
		Logger:        a.logger,
		Stdout:        stdout,
	}
	if cfg.Tailor {
		opts.Tailor = &ranking.Options{
			MaxRoles:          cfg.MaxRoles,
			MaxBulletsPerRole: cfg.MaxBulletsPerRole,
			MinScore:          cfg.MinScore,
			Synonyms:          cfg.Synonyms,
		}
	}
	printer := observability.NewPrinter(stdout)

	render := func(ctx context.Context) error {
		res, err := pipeline.RunPipeline(ctx, opts)
		if res != nil {
			printer.PrintSummary(res.Paths(), nil)
		}
		return err
	}

	if !f.watch {
		return render(cmd.Context())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := render(ctx); err != nil {
		a.logger.Warn("initial render failed", zap.Error(err))
	}

	w, err := watch.New(watch.InputsFor(opts), func(ctx context.Context, changed []string) error {
		a.logger.Info("inputs changed", zap.Strings("paths", changed))
		return render(ctx)
	}, watch.WithLogger(a.logger))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Watching %d directories, press Ctrl+C to stop\n", len(w.Roots()))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
