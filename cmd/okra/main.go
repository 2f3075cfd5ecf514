package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/okra/internal/api"
	"github.com/alexanderramin/okra/internal/cli"
	"github.com/alexanderramin/okra/internal/config"
	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/intelligence"
	"github.com/alexanderramin/okra/internal/llm"
	"github.com/alexanderramin/okra/internal/mcpserver"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/service"
	"github.com/alexanderramin/okra/internal/telemetry"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// OKRA_CONFIG names an explicit config file; otherwise okra.{yaml,toml}
	// is searched in . and ~/.okra.
	var opts []config.Option
	if path := os.Getenv("OKRA_CONFIG"); path != "" {
		opts = append(opts, config.WithFile(path))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return err
	}
	logger := cfg.Logger(os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := telemetry.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	calc := progress.Default()
	set := service.NewSet(database, calc, service.NewSlogUseCaseObserver(logger), metrics)

	// Without a model client suggestions come from the rules table.
	var client llm.Client
	llmCfg := cfg.LLMClientConfig()
	if llmCfg.Enabled {
		var callLog llm.Observer
		if llmCfg.LogCalls {
			callLog = llm.NewLogObserver(logger)
		}
		client = llm.NewOllamaClient(llmCfg, llm.Observers(callLog, metrics))
	}
	suggestions, err := intelligence.NewSuggestionService(set.KeyResults, set.Objectives, calc, client, cfg.Suggestions.CacheSize)
	if err != nil {
		return fmt.Errorf("creating suggestion service: %w", err)
	}

	app := cli.NewApp(set)
	app.Version = version
	app.Suggestions = suggestions
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	app.Serve = func(ctx context.Context, addr string) error {
		if addr == "" {
			addr = cfg.Server.Addr
		}
		srv := api.NewServer(api.Services{
			Objectives:  set.Objectives,
			KeyResults:  set.KeyResults,
			Initiatives: set.Initiatives,
			Metrics:     set.Metrics,
			Dashboard:   set.Dashboard,
			Preview:     set.Preview,
			Suggestions: suggestions,
			Calc:        calc,
			Gatherer:    registry,
		}, api.Options{Logger: logger, CORSOrigins: cfg.Server.CORS})
		fmt.Fprintf(os.Stderr, "okra API listening on http://%s\n", addr)
		return srv.Run(ctx, addr)
	}
	app.ServeMCP = func(ctx context.Context) error {
		return mcpserver.ServeStdio(mcpserver.New(set, version), logger)
	}

	return cli.NewRootCmd(app).Execute()
}
