package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitecomposer/internal/compose"
	"git.home.luguber.info/inful/sitecomposer/internal/config"
	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
	"git.home.luguber.info/inful/sitecomposer/internal/daemon"
	"git.home.luguber.info/inful/sitecomposer/internal/history"
	"git.home.luguber.info/inful/sitecomposer/internal/pagemeta"
	"git.home.luguber.info/inful/sitecomposer/internal/pages"
	"git.home.luguber.info/inful/sitecomposer/internal/refinfo"
	"git.home.luguber.info/inful/sitecomposer/internal/search"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"site.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Compose struct {
		Output string `short:"o" help:"Override output directory"`
	} `cmd:"" help:"Compose all locale documents and write the output directory"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Validate struct{} `cmd:"" help:"Load and validate the configuration and site documents"`

	Inspect struct {
		Locale string `short:"l" required:"" help:"Locale to print"`
		Format string `short:"f" help:"Output format (yaml or json)" default:"yaml"`
	} `cmd:"" help:"Print one composed locale document to stdout"`

	Resolve struct {
		Locale string `short:"l" required:"" help:"Locale of the page(s)"`
		Path   string `short:"p" help:"Page path to resolve; all scanned pages when omitted"`
	} `cmd:"" help:"Run the page-metadata resolver and print the outcome"`

	History struct {
		Limit int `short:"n" help:"Number of runs to list" default:"20"`
	} `cmd:"" help:"List recent composition runs"`

	Daemon struct{} `cmd:"" help:"Run continuously: watch, schedule, publish, serve"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "compose":
		err = runCompose(CLI.Compose.Output)
	case "init":
		err = config.Init(CLI.Config, CLI.Init.Force)
	case "validate":
		err = runValidate()
	case "inspect":
		err = runInspect(CLI.Inspect.Locale, CLI.Inspect.Format)
	case "resolve":
		err = runResolve(CLI.Resolve.Locale, CLI.Resolve.Path)
	case "history":
		err = runHistory(CLI.History.Limit)
	case "daemon":
		err = runDaemon()
	}
	if err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}

// composeOnce runs the full pipeline shared by compose and inspect.
func composeOnce(cfg *config.Config) (*compose.Result, error) {
	site, err := config.LoadSite(cfg)
	if err != nil {
		return nil, err
	}
	defaults, err := compose.LoadDefaults(cfg.DefaultsDir)
	if err != nil {
		return nil, err
	}

	opts := []compose.Option{compose.WithDefaults(defaults)}
	if cfg.Composer.Warnings == "silent" {
		opts = append(opts, compose.WithSilentWarnings())
	}
	return compose.New(site, opts...).Compose(), nil
}

func runCompose(outputOverride string) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if outputOverride != "" {
		cfg.Output.Directory = outputOverride
	}

	startedAt := time.Now()
	result, err := composeOnce(cfg)
	if err != nil {
		return err
	}

	writer := compose.Writer{
		Directory: cfg.Output.Directory,
		Format:    cfg.Output.Format,
		Clean:     cfg.Output.Clean,
	}
	if err := writer.Write(result); err != nil {
		return err
	}

	// Search settings are derived data for the host framework; they land
	// next to the composed documents when the feature is configured.
	ref := refinfo.Resolve(cfg.Refs)
	if settings, ok := search.Derive(cfg.Search, ref); ok {
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.Output.Directory, "search.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write search settings: %w", err)
		}
		slog.Info("Search settings written", "index", settings.IndexName)
	}

	if cfg.History.Path != "" {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		if err := store.Record(context.Background(), history.Run{
			ID:        uuid.NewString(),
			StartedAt: startedAt,
			Duration:  result.Duration,
			Locales:   len(result.Locales),
			Warnings:  len(result.Warnings),
			Hash:      result.Hash,
			Trigger:   "manual",
		}); err != nil {
			return err
		}
	}

	fmt.Print(result.Summary())
	return nil
}

func runValidate() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if _, err := config.LoadSite(cfg); err != nil {
		return err
	}
	fmt.Printf("Configuration OK: %d locale(s), %d mixin(s)\n", len(cfg.Site.Locales), len(cfg.Mixins))
	return nil
}

func runInspect(locale, format string) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	result, err := composeOnce(cfg)
	if err != nil {
		return err
	}

	doc, ok := result.Locales[locale]
	if !ok {
		return fmt.Errorf("locale %q is not declared in the configuration", locale)
	}

	var data []byte
	if format == "json" {
		data, err = configtree.ToJSON(doc)
	} else {
		data, err = configtree.ToYAML(doc)
	}
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runResolve(locale, path string) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	site, err := config.LoadSite(cfg)
	if err != nil {
		return err
	}
	resolver := pagemeta.NewResolver(site.Mixins)

	scanned, err := pages.Scan(cfg.ContentDir, locale)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if path != "" {
		page := pagemeta.Metadata{}
		for _, p := range scanned {
			if p.SitePath == path {
				page = pagemeta.Metadata{TitleTemplate: p.Title, Description: p.Description}
				break
			}
		}
		return enc.Encode(resolver.Resolve(path, locale, page))
	}

	for _, p := range scanned {
		resolved := resolver.Resolve(p.SitePath, locale, pagemeta.Metadata{
			TitleTemplate: p.Title,
			Description:   p.Description,
		})
		if err := enc.Encode(map[string]any{"path": p.SitePath, "metadata": resolved}); err != nil {
			return err
		}
	}
	return nil
}

func runHistory(limit int) error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return fmt.Errorf("history is not configured (set history.path)")
	}

	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Printf("%s  %s  locales=%d warnings=%d trigger=%s hash=%s\n",
			run.StartedAt.Format(time.RFC3339), run.ID, run.Locales, run.Warnings, run.Trigger, run.Hash[:12])
	}
	return nil
}

func runDaemon() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d, err := daemon.New(cfg, CLI.Config)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("daemon error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping daemon...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return d.Stop(stopCtx)
}
