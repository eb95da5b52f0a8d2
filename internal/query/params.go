package query

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 200
	MinLimit     = 1
	MaxLimit     = 1000

	DefaultDepth = 2
	MinDepth     = 1
	MaxDepth     = 6

	MaxRootLength = 200
)

// ErrInvalidRoot is returned by Normalize for a root value that cannot name
// any movie or person.
var ErrInvalidRoot = errors.New("invalid root")

// Request is a normalized graph query. It is immutable once built.
type Request struct {
	Limit          int
	RelTypes       []string
	Root           string
	Depth          int
	IncludedLabels []string
	ExcludedLabels []string
	ReleasedGTE    *int64
	ReleasedLTE    *int64
}

// Rooted reports whether the request asks for the neighborhood of a node.
func (r Request) Rooted() bool {
	return r.Root != ""
}

// Normalize turns raw query parameters into a Request. Malformed numbers
// fall back to their defaults and out-of-range numbers are clamped; the only
// rejected input is an oversized root.
func Normalize(raw url.Values) (Request, error) {
	req := Request{
		Limit:          clamp(parseInt(raw.Get("limit"), DefaultLimit), MinLimit, MaxLimit),
		Depth:          clamp(parseInt(raw.Get("depth"), DefaultDepth), MinDepth, MaxDepth),
		RelTypes:       splitCSV(raw["rel"], strings.ToUpper),
		IncludedLabels: splitCSV(raw["node_incl"], nil),
		ExcludedLabels: splitCSV(raw["node_excl"], nil),
		ReleasedGTE:    parseOptionalInt(raw.Get("released_gte")),
		ReleasedLTE:    parseOptionalInt(raw.Get("released_lte")),
	}

	root := raw.Get("root")
	if strings.TrimSpace(root) != "" {
		if len(root) > MaxRootLength {
			return Request{}, fmt.Errorf("%w: longer than %d bytes", ErrInvalidRoot, MaxRootLength)
		}
		req.Root = root
	}
	return req, nil
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Atoi saturates on overflow, which clamping handles.
		if errors.Is(err, strconv.ErrRange) {
			return n
		}
		return def
	}
	return n
}

func parseOptionalInt(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}

// splitCSV splits every value on commas, trims and drops empty tokens, and
// removes duplicates keeping the first occurrence.
func splitCSV(values []string, normalize func(string) string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, value := range values {
		for _, tok := range strings.Split(value, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			if normalize != nil {
				tok = normalize(tok)
			}
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}
