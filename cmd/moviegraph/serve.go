package main

import (
	"log/slog"

	"moviegraph/internal/config"
	"moviegraph/internal/graph"
	"moviegraph/internal/logger"
	"moviegraph/internal/movies"
	"moviegraph/internal/query"
	"moviegraph/internal/server"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// handleServe runs the HTTP server until SIGINT or SIGTERM.
func handleServe() {
	fx.New(
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),

		logger.Module,
		config.Module,
		query.Module,
		movies.Module,
		server.Module,

		fx.Invoke(graph.SetLogger),
	).Run()
}
