package mcptool

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const ToolName = "movie-subgraph"

type SubgraphInput struct {
	Root        string   `json:"root,omitempty" jsonschema:"description=Movie title or person name to expand from. Empty samples relationships anywhere in the graph"`
	Depth       int      `json:"depth,omitempty" jsonschema:"default=2,description=Number of hops from the root (1-6)"`
	Limit       int      `json:"limit,omitempty" jsonschema:"default=200,description=Maximum number of links returned (1-1000)"`
	Rel         []string `json:"rel,omitempty" jsonschema:"description=Relationship types to follow such as ACTED_IN or DIRECTED. Empty follows all"`
	NodeIncl    []string `json:"node_incl,omitempty" jsonschema:"description=Keep only nodes carrying one of these labels"`
	NodeExcl    []string `json:"node_excl,omitempty" jsonschema:"description=Drop nodes carrying any of these labels"`
	ReleasedGTE *int64   `json:"released_gte,omitempty" jsonschema:"description=Keep only movies released in or after this year"`
	ReleasedLTE *int64   `json:"released_lte,omitempty" jsonschema:"description=Keep only movies released in or before this year"`
}

// Values renders the input as the query parameters of GET /graph so both
// surfaces share one normalization path.
func (in SubgraphInput) Values() url.Values {
	v := url.Values{}
	if in.Root != "" {
		v.Set("root", in.Root)
	}
	if in.Depth != 0 {
		v.Set("depth", strconv.Itoa(in.Depth))
	}
	if in.Limit != 0 {
		v.Set("limit", strconv.Itoa(in.Limit))
	}
	if len(in.Rel) > 0 {
		v.Set("rel", strings.Join(in.Rel, ","))
	}
	if len(in.NodeIncl) > 0 {
		v.Set("node_incl", strings.Join(in.NodeIncl, ","))
	}
	if len(in.NodeExcl) > 0 {
		v.Set("node_excl", strings.Join(in.NodeExcl, ","))
	}
	if in.ReleasedGTE != nil {
		v.Set("released_gte", strconv.FormatInt(*in.ReleasedGTE, 10))
	}
	if in.ReleasedLTE != nil {
		v.Set("released_lte", strconv.FormatInt(*in.ReleasedLTE, 10))
	}
	return v
}

func SubgraphSpec() mcp.Tool {
	return mcp.NewTool(ToolName,
		mcp.WithDescription("movie-subgraph returns a bounded subgraph of the movie graph as nodes and index-based links. Give a root to expand breadth-first from one movie or person, or omit it to sample relationships anywhere. Results can be filtered by relationship type, node label and movie release year."),
		mcp.WithInputSchema[SubgraphInput](),
		mcp.WithTitleAnnotation("Movie Subgraph"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
