package mcptool

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"

	"moviegraph/internal/graph"
	"moviegraph/internal/query"

	"github.com/mark3labs/mcp-go/mcp"
)

// GraphQuerier answers subgraph queries from raw query parameters.
type GraphQuerier interface {
	Graph(ctx context.Context, raw url.Values) (*graph.Subgraph, error)
}

// Handler returns the tool handler function for movie-subgraph
func Handler(querier GraphQuerier, log *slog.Logger) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSubgraph(ctx, request, querier, log)
	}
}

func handleSubgraph(ctx context.Context, request mcp.CallToolRequest, querier GraphQuerier, log *slog.Logger) (*mcp.CallToolResult, error) {
	if querier == nil {
		errMessage := "Graph service is not initialized"
		log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	var args SubgraphInput
	if err := request.BindArguments(&args); err != nil {
		log.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	sg, err := querier.Graph(ctx, args.Values())
	if err != nil {
		if errors.Is(err, query.ErrInvalidRoot) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		log.Error("error computing subgraph", "error", err, "root", args.Root)
		return mcp.NewToolResultError("failed to query the movie graph"), nil
	}

	body, err := json.Marshal(sg)
	if err != nil {
		log.Error("error serializing subgraph", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}
