package main

import (
	"flag"
	"net/url"
	"strconv"
)

// graphFlags mirrors the query parameters of GET /graph. Unset flags are
// left out so the server-side defaults apply.
type graphFlags struct {
	root        string
	depth       int
	limit       int
	rel         string
	nodeIncl    string
	nodeExcl    string
	releasedGTE string
	releasedLTE string
}

func (g *graphFlags) register(fs *flag.FlagSet, withRoot bool) {
	if withRoot {
		fs.StringVar(&g.root, "root", "", "Movie title or person name to expand from (empty samples the whole graph)")
	}
	fs.IntVar(&g.depth, "depth", 0, "Traversal depth (1-6, default 2)")
	fs.IntVar(&g.limit, "limit", 0, "Maximum number of links (1-1000, default 200)")
	fs.StringVar(&g.rel, "rel", "", "Comma-separated relationship types to follow")
	fs.StringVar(&g.nodeIncl, "node-incl", "", "Comma-separated labels to keep")
	fs.StringVar(&g.nodeExcl, "node-excl", "", "Comma-separated labels to drop")
	fs.StringVar(&g.releasedGTE, "released-gte", "", "Earliest movie release year")
	fs.StringVar(&g.releasedLTE, "released-lte", "", "Latest movie release year")
}

func (g *graphFlags) values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("root", g.root)
	if g.depth != 0 {
		v.Set("depth", strconv.Itoa(g.depth))
	}
	if g.limit != 0 {
		v.Set("limit", strconv.Itoa(g.limit))
	}
	set("rel", g.rel)
	set("node_incl", g.nodeIncl)
	set("node_excl", g.nodeExcl)
	set("released_gte", g.releasedGTE)
	set("released_lte", g.releasedLTE)
	return v
}
