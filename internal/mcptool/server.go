package mcptool

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// NewServer builds an MCP server exposing the movie-subgraph tool.
func NewServer(version string, querier GraphQuerier, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("moviegraph", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTools(server.ServerTool{
		Tool:    SubgraphSpec(),
		Handler: Handler(querier, log),
	})
	return s
}

// ServeStdio serves s over stdin and stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
