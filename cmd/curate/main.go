// Command curate evaluates a batch of papers against user preferences
// with a tool-using reasoning agent and writes an append-friendly report.
//
// Usage:
//
//	GEMINI_API_KEY=...  curate [flags]
//	OPENAI_API_KEY=...  curate --provider openai [flags]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/fwojciec/curate"
	"github.com/fwojciec/curate/agent"
	"github.com/fwojciec/curate/arxiv"
	"github.com/fwojciec/curate/config"
	"github.com/fwojciec/curate/driver"
	"github.com/fwojciec/curate/gemini"
	"github.com/fwojciec/curate/hfpapers"
	openaiengine "github.com/fwojciec/curate/openai"
	"github.com/fwojciec/curate/toolbox"
	"github.com/fwojciec/curate/websearch"
	"github.com/fwojciec/curate/wikipedia"
)

func main() {
	app := &cli.App{
		Name:  "curate",
		Usage: "curate papers using a reasoning agent based on user preferences",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "TOML config file"},
			&cli.StringFlag{Name: "provider", Aliases: []string{"p"}, Usage: "reasoning provider: gemini, openai"},
			&cli.StringFlag{Name: "model", Aliases: []string{"m"}, Usage: "model ID (provider-specific)"},
			&cli.StringFlag{Name: "base-url", Usage: "base URL for an OpenAI-compatible provider"},
			&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "listing URL to scrape"},
			&cli.StringFlag{Name: "prefs", Aliases: []string{"i"}, Usage: "user preferences file"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output report file"},
			&cli.IntFlag{Name: "max-iters", Usage: "iteration ceiling per paper"},
			&cli.BoolFlag{Name: "trajectory", Aliases: []string{"t"}, Usage: "log per-paper trajectories alongside the report"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "curate: %v\n", err)
		os.Exit(1)
	}
}

func run(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt)
	defer stop()

	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr)

	prefs, err := os.ReadFile(cfg.PrefsPath)
	if err != nil {
		return fmt.Errorf("read preferences: %w", err)
	}

	engine, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}

	loop := agent.New(engine, newToolbox(), agent.WithMaxIterations(cfg.MaxIters))
	source := hfpapers.New(cfg.SourceURL)
	d := driver.New(source, loop, strings.TrimSpace(string(prefs)),
		driver.WithLogger(logger),
		driver.WithTrajectoryLog(cfg.LogTrajectory),
	)

	records, err := d.Run(ctx, cfg.OutputPath)
	if err != nil {
		return err
	}

	accepted := 0
	for _, rec := range records {
		if rec.Decision {
			accepted++
		}
	}
	logger.Info("curation completed",
		"papers", len(records),
		"accepted", accepted,
		"output", cfg.OutputPath,
	)
	return nil
}

// loadConfig reads the optional config file, then lets set flags
// override file values.
func loadConfig(cCtx *cli.Context) (config.Config, error) {
	cfg, err := config.Load(cCtx.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if cCtx.IsSet("provider") {
		cfg.Provider = cCtx.String("provider")
	}
	if cCtx.IsSet("model") {
		cfg.Model = cCtx.String("model")
	}
	if cCtx.IsSet("base-url") {
		cfg.BaseURL = cCtx.String("base-url")
	}
	if cCtx.IsSet("url") {
		cfg.SourceURL = cCtx.String("url")
	}
	if cCtx.IsSet("prefs") {
		cfg.PrefsPath = cCtx.String("prefs")
	}
	if cCtx.IsSet("output") {
		cfg.OutputPath = cCtx.String("output")
	}
	if cCtx.IsSet("max-iters") {
		cfg.MaxIters = cCtx.Int("max-iters")
	}
	if cCtx.IsSet("trajectory") {
		cfg.LogTrajectory = cCtx.Bool("trajectory")
	}
	return cfg, cfg.Validate()
}

func newEngine(ctx context.Context, cfg config.Config) (curate.Engine, error) {
	switch cfg.Provider {
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		return gemini.New(ctx, apiKey, gemini.WithModel(cfg.Model))
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		opts := []openaiengine.Option{openaiengine.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			opts = append(opts, openaiengine.WithBaseURL(cfg.BaseURL))
		}
		return openaiengine.New(apiKey, opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// newToolbox wires the fixed tool set.
func newToolbox() *toolbox.Toolbox {
	tb := toolbox.New()

	papers := arxiv.NewClient()
	tb.MustRegister(arxiv.MostRecentTool(papers))
	tb.MustRegister(arxiv.MostRelevantTool(papers))
	tb.MustRegister(wikipedia.Tool(wikipedia.NewClient()))
	tb.MustRegister(websearch.Tool(websearch.NewClient()))

	return tb
}
