// Package main is the katalog CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/katalog/internal/cli"
	"github.com/hyperjump/katalog/internal/config"
	"github.com/hyperjump/katalog/internal/models"
	"github.com/hyperjump/katalog/internal/partindex"
	"github.com/hyperjump/katalog/internal/server"
	"github.com/hyperjump/katalog/internal/session"
	"github.com/hyperjump/katalog/internal/watcher"
	"github.com/hyperjump/katalog/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/katalog/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development). A missing default config
// is not an error: built-in defaults are used.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
			cfg = &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "models":
		runModels()
	case "grid":
		runGrid()
	case "graph":
		runGraph()
	case "highlight":
		runHighlight()
	case "parts":
		runParts()
	case "status":
		runStatus()
	case "init":
		runInit()
	case "version", "--version", "-v":
		fmt.Printf("katalog version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	catalogPath := fs.String("catalog", "", "catalog document path (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging (reloads, highlight runs, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	sess := components.Session
	// A failed first load is logged; the watcher or POST /api/v1/reload can recover.
	_ = sess.Load(context.Background())

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Catalog.WatchOrDefault() {
		watchOpts := []watcher.WatcherOption{watcher.WithDebounce(cfg.Catalog.Debounce)}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(
			[]string{cfg.Catalog.Path},
			func(path string) {
				if err := sess.Load(context.Background()); err != nil {
					logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
				}
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Warn("catalog watcher not started", zap.String("path", cfg.Catalog.Path), zap.Error(err))
		}
	}

	srv := server.NewServer(sess, &cfg.Server, cfg.Search, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// buildQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "katalog grid CamA -query x"
// would otherwise leave -query unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// commandFlags are the flags shared by the one-shot commands.
type commandFlags struct {
	fs          *flag.FlagSet
	configPath  *string
	catalogPath *string
	output      *string
	debug       *bool
}

func newCommandFlags(name string) *commandFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &commandFlags{
		fs:          fs,
		configPath:  fs.String("config", defaultConfigPath, "config file path"),
		catalogPath: fs.String("catalog", "", "catalog document path (overrides config)"),
		output:      fs.String("output", "text", "output format: text or json"),
		debug:       fs.Bool("debug", false, "enable debug logging"),
	}
}

// open parses args, loads config and the catalog, and returns a ready session.
func (c *commandFlags) open(args []string) (*Components, *config.Config, cli.OutputFormat) {
	_ = c.fs.Parse(argsReorder(args))
	format, err := cli.ParseOutputFormat(*c.output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*c.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *c.catalogPath != "" {
		cfg.Catalog.Path = *c.catalogPath
	}
	logger, err := utils.NewCLILogger(cfg.Debug || *c.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := components.Session.Load(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}
	return components, cfg, format
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func runModels() {
	c := newCommandFlags("models")
	query := c.fs.String("query", "", "highlight models containing this text")
	components, _, format := c.open(os.Args[2:])
	defer components.Close()
	sess := components.Session

	if *query != "" {
		if _, err := sess.SetQuery(context.Background(), *query); err != nil {
			fail("Highlight failed: %v", err)
		}
	}
	entries, err := sess.Models()
	if err != nil {
		fail("Listing models failed: %v", err)
	}
	if err := cli.WriteModels(os.Stdout, entries, format); err != nil {
		fail("Output failed: %v", err)
	}
}

func runGrid() {
	c := newCommandFlags("grid")
	query := c.fs.String("query", "", "keep rows with a value matching this text")
	expand := c.fs.String("expand", "", "comma-separated Name 1 groups to expand")
	expandAll := c.fs.Bool("all", false, "expand every group")
	components, _, format := c.open(os.Args[2:])
	defer components.Close()
	sess := components.Session

	model := buildQuery(c.fs.Args())
	if model == "" {
		fail("Usage: katalog grid [flags] <model>")
	}
	if *query != "" {
		if _, err := sess.SetQuery(context.Background(), *query); err != nil {
			fail("Search failed: %v", err)
		}
	}
	grid, err := sess.Select(model)
	if err != nil {
		if errors.Is(err, models.ErrNoRows) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return
		}
		fail("Selecting model failed: %v", err)
	}
	groups := splitList(*expand)
	if *expandAll {
		h, err := sess.Hierarchy()
		if err != nil {
			fail("Reading hierarchy failed: %v", err)
		}
		groups = groups[:0]
		if part, ok := h.Model(model); ok {
			for _, sub := range part.Subparts {
				groups = append(groups, sub.Name)
			}
		}
	}
	for _, g := range groups {
		grid = sess.ToggleGroup(g)
	}
	if err := cli.WriteGrid(os.Stdout, grid, format); err != nil {
		fail("Output failed: %v", err)
	}
}

func runGraph() {
	c := newCommandFlags("graph")
	components, _, format := c.open(os.Args[2:])
	defer components.Close()

	model := buildQuery(c.fs.Args())
	if model == "" {
		fail("Usage: katalog graph [flags] <model>")
	}
	graph, err := components.Session.Visualize(model)
	if err != nil {
		fail("Hierarchy lookup failed: %v", err)
	}
	if err := cli.WriteGraph(os.Stdout, graph, format); err != nil {
		fail("Output failed: %v", err)
	}
}

func runHighlight() {
	c := newCommandFlags("highlight")
	components, _, format := c.open(os.Args[2:])
	defer components.Close()

	query := buildQuery(c.fs.Args())
	if query == "" {
		fail("Usage: katalog highlight [flags] <query>")
	}
	names, err := components.Session.SetQuery(context.Background(), query)
	if err != nil {
		fail("Highlight failed: %v", err)
	}
	if err := cli.WriteHighlight(os.Stdout, query, names, format); err != nil {
		fail("Output failed: %v", err)
	}
}

func runParts() {
	c := newCommandFlags("parts")
	limit := c.fs.Int("limit", 0, "number of results (default from config)")
	fuzzy := c.fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	components, cfg, format := c.open(os.Args[2:])
	defer components.Close()

	query := buildQuery(c.fs.Args())
	if query == "" {
		fail("Usage: katalog parts [flags] <query>")
	}
	n := *limit
	if n <= 0 {
		n = cfg.Search.PartLimit
	}
	opts := &partindex.SearchOptions{FuzzyEnabled: *fuzzy, Fuzziness: cfg.Search.PartFuzziness}
	hits, err := components.Session.Parts(context.Background(), query, n, opts)
	if err != nil {
		fail("Part lookup failed: %v", err)
	}
	// Retry with typo tolerance when nothing matched exactly.
	if len(hits) == 0 && !opts.FuzzyEnabled {
		opts.FuzzyEnabled = true
		if fuzzyHits, fuzzyErr := components.Session.Parts(context.Background(), query, n, opts); fuzzyErr == nil {
			hits = fuzzyHits
		}
	}
	var suggestions []partindex.Suggestion
	if len(hits) == 0 {
		suggestions, _ = components.Session.Suggest(query, 0)
	}
	if err := cli.WriteParts(os.Stdout, query, hits, suggestions, format); err != nil {
		fail("Output failed: %v", err)
	}
}

func runStatus() {
	c := newCommandFlags("status")
	components, _, format := c.open(os.Args[2:])
	defer components.Close()
	if err := cli.WriteStatus(os.Stdout, components.Session.Status(), format); err != nil {
		fail("Output failed: %v", err)
	}
}

func runInit() {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("config", "config.yaml", "where to write the config file")
	catalogPath := fs.String("catalog", "", "catalog document path")
	force := fs.Bool("force", false, "overwrite an existing file")
	_ = fs.Parse(os.Args[2:])

	if _, err := os.Stat(*path); err == nil && !*force {
		fail("%s already exists (use --force to overwrite)", *path)
	}
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}
	if err := config.Save(*path, cfg); err != nil {
		fail("Writing config failed: %v", err)
	}
	fmt.Printf("Config written: %s\n", *path)
}

// Components holds initialized services.
type Components struct {
	Session *session.Session
}

func (c *Components) Close() {
	if c.Session != nil {
		_ = c.Session.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	filter, highlight, err := cfg.Search.Rules()
	if err != nil {
		return nil, fmt.Errorf("invalid search config: %w", err)
	}
	sess := session.New(cfg.Catalog.Path,
		session.WithLogger(logger),
		session.WithColumns(cfg.Columns.ToColumns()),
		session.WithMatchRules(filter, highlight),
		session.WithCacheSize(cfg.Search.CacheSize),
	)
	logger.Debug("session created", zap.String("session_id", sess.ID()), zap.String("catalog_path", sess.Path()))
	return &Components{Session: sess}, nil
}

func printUsage() {
	fmt.Println(`katalog - Spreadsheet-backed product catalog browser

Usage:
  katalog server [flags]               Start the HTTP server
  katalog models [flags]               List models (one per sheet)
  katalog grid [flags] <model>         Show the grouped grid of a model
  katalog graph [flags] <model>        Show the part hierarchy of a model
  katalog highlight [flags] <query>    List models containing the query
  katalog parts [flags] <query>        Find which models use a part
  katalog status [flags]               Show what the catalog contains
  katalog init [flags]                 Write a default config file
  katalog version                      Show version
  katalog help                         Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/katalog/config.yaml)
  --catalog string   Catalog document path (overrides config)
  --output string    Output format: text or json (default: text)
  --debug            Enable debug logging

Server Flags:
  --config, --catalog, --debug

Models Flags:
  --query string     Mark models containing this text

Grid Flags:
  --query string     Keep rows with a value matching this text
  --expand string    Comma-separated Name 1 groups to expand
  --all              Expand every group

Parts Flags:
  --limit int        Number of results (default from config)
  --fuzzy            Enable fuzzy matching for typo tolerance

Examples:
  katalog server --catalog ./cameraData.xlsx
  katalog models --query sony
  katalog grid "Camera X" --expand Objektív
  katalog grid --all --output json "Camera X"
  katalog graph "Camera X"
  katalog highlight c-mount
  katalog parts --fuzzy objektiv`)
}
