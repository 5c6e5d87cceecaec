// Package main is the Kensaku CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/config"
	"github.com/hyperjump/kensaku/internal/dataset"
	"github.com/hyperjump/kensaku/internal/history"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/search"
	"github.com/hyperjump/kensaku/internal/server"
	"github.com/hyperjump/kensaku/internal/storage"
	"github.com/hyperjump/kensaku/internal/watcher"
	"github.com/hyperjump/kensaku/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kensaku/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used. Returns the config and the path that was actually loaded.
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
	case "search":
		runSearch()
	case "suggest":
		runSuggest()
	case "history":
		runHistory()
	case "version", "--version", "-v":
		fmt.Printf("kensaku version %s\n", version)
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
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
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
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watchSvc *watcher.Watcher
	if cfg.Dataset.Watch && cfg.Dataset.Path != "" {
		orch := components.Orchestrator
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc = watcher.NewWatcher(cfg.Dataset.Path, func(path string) {
			records, loadErr := dataset.Load(path)
			if loadErr != nil {
				logger.Warn("dataset reload failed", zap.String("path", path), zap.Error(loadErr))
				return
			}
			orch.SetDataset(records)
			logger.Info("dataset reloaded", zap.String("path", path), zap.Int("records", len(records)))
		}, watchOpts...)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	srv := server.NewServer(
		components.Orchestrator,
		components.History,
		&cfg.Server,
		&cfg.Search,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
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

// buildQuery joins all positional args with spaces so multi-word queries work
// the same with or without shell quoting.
func buildQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// reorderArgs moves any flags (and their values) that appear after the query
// to the front of the slice so that flag.Parse() sees them. Go's flag package
// stops at the first non-flag argument.
func reorderArgs(args []string) []string {
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

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = search the dataset directly)")
	limit := fs.Int("limit", 10, "number of results")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(reorderArgs(os.Args[2:]))

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: kensaku search [flags] <query>")
		os.Exit(1)
	}

	var response models.SearchResponse[models.Record]
	if *serverURL != "" {
		res, err := searchViaHTTP(*serverURL, queryStr, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
			os.Exit(1)
		}
		response = *res
	} else {
		components := mustInitialize(*configPath)
		defer components.Close()

		start := time.Now()
		results := components.Orchestrator.Search(queryStr)
		total := len(results)
		if *limit > 0 && len(results) > *limit {
			results = results[:*limit]
		}
		response = models.SearchResponse[models.Record]{
			Results:   results,
			Total:     total,
			QueryTime: time.Since(start).Milliseconds(),
			Query:     queryStr,
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(response); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		printSearchResults(os.Stdout, &response)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// printSearchResults writes the human-readable result list. Matched field
// values are shown with their matched parts bracketed.
func printSearchResults(w io.Writer, response *models.SearchResponse[models.Record]) {
	if response.Total == 0 {
		fmt.Fprintf(w, "No results for %q\n", response.Query)
		return
	}
	fmt.Fprintf(w, "%d result(s) for %q (%dms)\n\n", response.Total, response.Query, response.QueryTime)
	for i, result := range response.Results {
		fmt.Fprintf(w, "%d. score %.1f\n", i+1, result.Score)
		for _, match := range result.Matches {
			highlighted := search.Highlight(match.Value, match.Spans, "[", "]")
			fmt.Fprintf(w, "   %s %s\n", utils.PadRight(match.Field+":", 16), utils.Truncate(highlighted, 80))
		}
	}
}

func searchViaHTTP(serverURL, query string, limit int) (*models.SearchResponse[models.Record], error) {
	u := fmt.Sprintf("%s/api/v1/search?q=%s&limit=%d", serverURL, url.QueryEscape(query), limit)
	resp, err := http.Get(u)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse[models.Record]
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runSuggest() {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = use the dataset directly)")
	_ = fs.Parse(reorderArgs(os.Args[2:]))

	queryStr := buildQuery(fs.Args())
	if queryStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: kensaku suggest [flags] <query>")
		os.Exit(1)
	}

	var suggestions []models.Suggestion
	if *serverURL != "" {
		u := fmt.Sprintf("%s/api/v1/suggest?q=%s", *serverURL, url.QueryEscape(queryStr))
		resp, err := http.Get(u)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Suggest failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Suggestions []models.Suggestion `json:"suggestions"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
		suggestions = out.Suggestions
	} else {
		components := mustInitialize(*configPath)
		defer components.Close()
		suggestions = components.Orchestrator.Suggestions(queryStr)
	}

	for _, s := range suggestions {
		fmt.Printf("%s %s\n", utils.PadRight(string(s.Kind), 10), s.Text)
	}
}

func runHistory() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: kensaku history <list|clear>")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "", "server URL (empty = use local history storage)")
	_ = fs.Parse(os.Args[3:])

	switch sub {
	case "list":
		if *serverURL != "" {
			resp, err := http.Get(*serverURL + "/api/v1/history")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
				os.Exit(1)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				fmt.Fprintf(os.Stderr, "List failed (%d): %s\n", resp.StatusCode, string(b))
				os.Exit(1)
			}
			var out struct {
				History []models.HistoryEntry `json:"history"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
				os.Exit(1)
			}
			printHistory(out.History)
			return
		}
		components := mustInitialize(*configPath)
		defer components.Close()
		printHistory(components.History.Recent(-1))
	case "clear":
		if *serverURL != "" {
			req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/history", nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
				os.Exit(1)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				fmt.Fprintf(os.Stderr, "Clear failed (%d): %s\n", resp.StatusCode, string(b))
				os.Exit(1)
			}
			fmt.Println("History cleared")
			return
		}
		components := mustInitialize(*configPath)
		defer components.Close()
		components.History.Clear(context.Background())
		fmt.Println("History cleared")
	default:
		fmt.Printf("Unknown history subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func printHistory(entries []models.HistoryEntry) {
	for _, e := range entries {
		fmt.Printf("%s %3d  %s\n", e.LastUsed.Format("2006-01-02 15:04"), e.Count, e.Text)
	}
}

// Components holds initialized services.
type Components struct {
	KV           storage.KV
	History      *history.Store
	Orchestrator *search.Orchestrator[models.Record]
}

func (c *Components) Close() {
	if c.KV != nil {
		_ = c.KV.Close()
	}
}

func mustInitialize(configPath string) *Components {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	var kv storage.KV
	if cfg.Storage.HistoryDBPath != "" {
		sqliteKV, err := storage.NewSQLiteKV(cfg.Storage.HistoryDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize history storage: %w", err)
		}
		kv = sqliteKV
	} else {
		kv = storage.NewMemoryKV()
	}

	hist := history.NewStore(kv, cfg.Storage.HistoryKey, cfg.Search.MaxHistoryItems, logger)
	hist.Load(context.Background())

	var records []models.Record
	if cfg.Dataset.Path != "" {
		loaded, err := dataset.Load(cfg.Dataset.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset: %w", err)
		}
		records = loaded
		logger.Info("dataset loaded", zap.String("path", cfg.Dataset.Path), zap.Int("records", len(records)))
	}

	orch := search.NewOrchestrator[models.Record](records, cfg.Fields, hist, nil, search.Options{
		Debounce:       cfg.Search.Debounce(),
		MaxSuggestions: cfg.Search.MaxSuggestions,
		Scoring:        &cfg.Scoring,
	}, logger)

	return &Components{
		KV:           kv,
		History:      hist,
		Orchestrator: orch,
	}, nil
}

func printUsage() {
	fmt.Println(`kensaku - Fuzzy search and suggest over structured records

Usage:
  kensaku server [flags]            Start the HTTP server
  kensaku search [flags] <query>    Search the dataset
  kensaku suggest [flags] <query>   Show suggestions for a partial query
  kensaku history <list|clear>      Manage search history
  kensaku version                   Show version
  kensaku help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kensaku/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --config string    Config file path (for direct dataset mode)
  --server string    Server URL. Empty (default) searches the dataset directly.
  --limit int        Number of results (default: 10)
  --output string    Output format: text or json (default: text)

Suggest Flags:
  --config string    Config file path
  --server string    Server URL. Empty (default) uses the dataset directly.

History Flags:
  --config string    Config file path
  --server string    Server URL. Empty (default) uses local history storage.

Examples:
  kensaku server
  kensaku search jonathan park
  kensaku search --output json "jon"
  kensaku suggest jo
  kensaku history list
  kensaku history clear`)
}
