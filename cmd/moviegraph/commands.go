package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"moviegraph/internal/config"
	"moviegraph/internal/export"
	"moviegraph/internal/graph"
	"moviegraph/internal/loader"
	"moviegraph/internal/logger"
	"moviegraph/internal/mcptool"
	"moviegraph/internal/query"
	"moviegraph/internal/storage"
)

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, logger.Error(err))
	os.Exit(1)
}

// connect loads the configuration and opens the Neo4j provider.
func connect(ctx context.Context, log *slog.Logger) *query.Neo4jProvider {
	graph.SetLogger(log)
	cfg, err := config.LoadConfig()
	if err != nil {
		fatal(log, "failed to load config", err)
	}
	provider, err := query.NewNeo4jProvider(ctx, cfg)
	if err != nil {
		fatal(log, "failed to connect to Neo4j", err)
	}
	return provider
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func handleQuery(args []string) {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	var gf graphFlags
	gf.register(fs, true)
	fs.Parse(args)

	log := logger.NewLogger()
	ctx, cancel := signalContext()
	defer cancel()

	provider := connect(ctx, log)
	defer provider.Close(context.Background())

	sg, err := query.NewService(provider, log).Graph(ctx, gf.values())
	if err != nil {
		fatal(log, "query failed", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sg); err != nil {
		fatal(log, "failed to encode result", err)
	}
}

func handleSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	wipePtr := fs.Bool("wipe", false, "Delete all data before loading")
	filePtr := fs.String("file", "", "YAML dataset to load (default: embedded movie dataset)")
	fs.Parse(args)

	log := logger.NewLogger()
	ctx, cancel := signalContext()
	defer cancel()

	var (
		ds  *loader.Dataset
		err error
	)
	if *filePtr != "" {
		ds, err = loader.LoadDataset(*filePtr)
	} else {
		ds, err = loader.DefaultDataset()
	}
	if err != nil {
		fatal(log, "failed to load dataset", err)
	}

	provider := connect(ctx, log)
	defer provider.Close(context.Background())

	l := loader.NewNeo4jLoader(provider.Driver(), provider.Database(), log)
	if *wipePtr {
		if err := l.Wipe(ctx); err != nil {
			fatal(log, "failed to wipe database", err)
		}
	}
	if err := l.ApplyConstraints(ctx); err != nil {
		fatal(log, "failed to apply constraints", err)
	}
	if err := l.Seed(ctx, ds); err != nil {
		fatal(log, "failed to seed database", err)
	}
}

func handleExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	rootsPtr := fs.String("roots", "", "File with one root (movie title or person name) per line")
	workersPtr := fs.Int("workers", 4, "Number of workers")
	outputPtr := fs.String("output", "subgraphs.jsonl", "Output file path (combined)")
	nodesPtr := fs.String("nodes", "", "Output file path for nodes")
	linksPtr := fs.String("links", "", "Output file path for links")
	var gf graphFlags
	gf.register(fs, false)
	fs.Parse(args)

	log := logger.NewLogger()
	if *rootsPtr == "" {
		log.Error("-roots is required")
		os.Exit(1)
	}

	template, err := query.Normalize(gf.values())
	if err != nil {
		fatal(log, "invalid query flags", err)
	}

	emitter, err := openEmitter(*outputPtr, *nodesPtr, *linksPtr)
	if err != nil {
		fatal(log, "failed to open output", err)
	}

	rootsFile, err := os.Open(*rootsPtr)
	if err != nil {
		fatal(log, "failed to open roots file", err)
	}
	defer rootsFile.Close()

	ctx, cancel := signalContext()
	defer cancel()

	provider := connect(ctx, log)
	defer provider.Close(context.Background())

	start := time.Now()
	pool := export.NewWorkerPool(*workersPtr, query.NewService(provider, log), emitter, template, log)
	pool.Start(ctx)
	if err := submitRoots(rootsFile, pool.Submit); err != nil {
		log.Error("failed to read roots", logger.Error(err))
	}
	pool.Stop()
	if err := emitter.Close(); err != nil {
		log.Error("failed to close output", logger.Error(err))
	}

	log.Info("export finished",
		slog.Int64("exported", pool.Exported()),
		slog.Int64("failed", pool.Failed()),
		slog.Duration("elapsed", time.Since(start)),
	)
	if pool.Failed() > 0 {
		os.Exit(1)
	}
}

func openEmitter(output, nodes, links string) (storage.Emitter, error) {
	if nodes == "" && links == "" {
		outFile, err := os.Create(output)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return storage.NewJSONLEmitter(outFile), nil
	}
	if nodes == "" || links == "" {
		return nil, fmt.Errorf("both -nodes and -links must be provided for split output")
	}

	nodeFile, err := os.Create(nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to create nodes file: %w", err)
	}
	linkFile, err := os.Create(links)
	if err != nil {
		nodeFile.Close()
		return nil, fmt.Errorf("failed to create links file: %w", err)
	}
	return storage.NewSplitJSONLEmitter(nodeFile, linkFile), nil
}

// submitRoots hands every non-blank line of r to submit.
func submitRoots(r io.Reader, submit func(string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if root := strings.TrimSpace(scanner.Text()); root != "" {
			submit(root)
		}
	}
	return scanner.Err()
}

func handleMCP() {
	// stdout carries the protocol, so logs go to stderr only.
	log := logger.NewLogger()
	ctx, cancel := signalContext()
	defer cancel()

	provider := connect(ctx, log)
	defer provider.Close(context.Background())

	s := mcptool.NewServer(version, query.NewService(provider, log), log)
	if err := mcptool.ServeStdio(s); err != nil {
		fatal(log, "MCP server stopped", err)
	}
}
