package movies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"moviegraph/internal/logger"
	"moviegraph/internal/query"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/fx"
)

var Module = fx.Module("movies",
	fx.Provide(NewCatalog),
)

const (
	MaxTitleLength     = 200
	DefaultSearchLimit = 25
	MaxSearchLimit     = 200
)

var (
	ErrInvalidTitle  = errors.New("invalid title")
	ErrMovieNotFound = errors.New("movie not found")
)

const (
	findMovieQuery = `
		MATCH (movie:Movie {title: $title})
		OPTIONAL MATCH (movie)<-[r]-(person:Person)
		WITH movie.title AS title,
		     movie.tagline AS tagline,
		     movie.released AS released,
		     movie.votes AS votes,
		     collect({
		        name: person.name,
		        job: head(split(toLower(type(r)), '_')),
		        role: r.roles
		     }) AS cast
		RETURN title, tagline, released, votes, cast
		LIMIT 1`

	voteQuery = `
		MATCH (movie:Movie {title: $title})
		SET movie.votes = coalesce(movie.votes, 0) + 1
		RETURN movie.votes AS votes`

	searchQuery = `
		MATCH (movie:Movie)
		WHERE toLower(movie.title) CONTAINS toLower($part)
		RETURN movie
		SKIP $offset LIMIT $limit`

	pingQuery = "RETURN 1 AS ok"
)

// Movie is the detail view of a movie. Absent properties serialize as null.
type Movie struct {
	Title    *string      `json:"title"`
	Tagline  *string      `json:"tagline"`
	Released *int64       `json:"released"`
	Votes    *int64       `json:"votes"`
	Cast     []CastMember `json:"cast"`
}

// CastMember is one person credited on a movie. Job is the first word of
// the relationship type in lower case, e.g. "acted" or "directed".
type CastMember struct {
	Name string   `json:"name"`
	Job  string   `json:"job"`
	Role []string `json:"role"`
}

type SearchResult struct {
	Movie Movie `json:"movie"`
}

type VoteResult struct {
	Votes int64 `json:"votes"`
}

// Catalog serves the movie detail, vote, search and health operations.
type Catalog struct {
	store query.Store
	log   *slog.Logger
}

func NewCatalog(store query.Store, log *slog.Logger) *Catalog {
	return &Catalog{
		store: store,
		log:   log.With(logger.Scope("movies")),
	}
}

// SanitizeTitle trims title and rejects empty or overlong values.
func SanitizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidTitle)
	}
	if len(t) > MaxTitleLength {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrInvalidTitle, MaxTitleLength)
	}
	return t, nil
}

// Movie returns the movie with the exact title, with its cast.
func (c *Catalog) Movie(ctx context.Context, title string) (*Movie, error) {
	title, err := SanitizeTitle(title)
	if err != nil {
		return nil, err
	}

	records, err := c.store.ExecuteRead(ctx, findMovieQuery, map[string]any{"title": title})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch movie: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrMovieNotFound
	}

	movie := movieFromRecord(records[0])
	c.log.Debug("movie fetched", slog.String("title", title), slog.Int("cast", len(movie.Cast)))
	return movie, nil
}

// Vote increments the vote counter of a movie and returns the new total.
func (c *Catalog) Vote(ctx context.Context, title string) (*VoteResult, error) {
	title, err := SanitizeTitle(title)
	if err != nil {
		return nil, err
	}

	records, err := c.store.ExecuteWrite(ctx, voteQuery, map[string]any{"title": title})
	if err != nil {
		return nil, fmt.Errorf("failed to vote: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrMovieNotFound
	}

	votes, _, err := neo4j.GetRecordValue[int64](records[0], "votes")
	if err != nil {
		return nil, fmt.Errorf("failed to read votes: %w", err)
	}
	return &VoteResult{Votes: votes}, nil
}

// Search finds movies whose title contains q, case-insensitively. Limit is
// clamped to [1, MaxSearchLimit] with DefaultSearchLimit when unset (zero);
// a negative offset is treated as zero.
func (c *Catalog) Search(ctx context.Context, q string, offset, limit int64) ([]SearchResult, error) {
	if limit == 0 {
		limit = DefaultSearchLimit
	}
	limit = min(max(limit, 1), MaxSearchLimit)
	offset = max(offset, 0)

	records, err := c.store.ExecuteRead(ctx, searchQuery, map[string]any{
		"part":   q,
		"offset": offset,
		"limit":  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}

	results := make([]SearchResult, 0, len(records))
	for _, record := range records {
		node, _, err := neo4j.GetRecordValue[neo4j.Node](record, "movie")
		if err != nil {
			return nil, fmt.Errorf("failed to read movie from record: %w", err)
		}
		results = append(results, SearchResult{Movie: movieFromProps(node.Props)})
	}
	c.log.Debug("search results", slog.String("q", q), slog.Int("count", len(results)))
	return results, nil
}

// Ping checks that the database answers a trivial query.
func (c *Catalog) Ping(ctx context.Context) error {
	records, err := c.store.ExecuteRead(ctx, pingQuery, nil)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	if len(records) != 1 {
		return fmt.Errorf("healthcheck returned %d rows", len(records))
	}
	ok, _, err := neo4j.GetRecordValue[int64](records[0], "ok")
	if err != nil {
		return fmt.Errorf("failed to read healthcheck: %w", err)
	}
	if ok != 1 {
		return fmt.Errorf("healthcheck returned %d", ok)
	}
	return nil
}

func movieFromRecord(record *neo4j.Record) *Movie {
	values := make(map[string]any, len(record.Keys))
	for i, key := range record.Keys {
		values[key] = record.Values[i]
	}
	movie := movieFromProps(values)

	cast, _ := values["cast"].([]any)
	for _, entry := range cast {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		// OPTIONAL MATCH without people still collects one all-null entry.
		name, ok := m["name"].(string)
		if !ok {
			continue
		}
		job, _ := m["job"].(string)
		movie.Cast = append(movie.Cast, CastMember{
			Name: name,
			Job:  job,
			Role: stringList(m["role"]),
		})
	}
	return &movie
}

func movieFromProps(props map[string]any) Movie {
	m := Movie{Cast: []CastMember{}}
	if v, ok := props["title"].(string); ok {
		m.Title = &v
	}
	if v, ok := props["tagline"].(string); ok {
		m.Tagline = &v
	}
	if v, ok := props["released"].(int64); ok {
		m.Released = &v
	}
	if v, ok := props["votes"].(int64); ok {
		m.Votes = &v
	}
	return m
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
