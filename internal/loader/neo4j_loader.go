package loader

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"moviegraph/internal/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jLoader handles batch loading of the movie dataset into Neo4j.
type Neo4jLoader struct {
	Driver neo4j.DriverWithContext
	DBName string
	log    *slog.Logger
}

// NewNeo4jLoader creates a new loader instance.
func NewNeo4jLoader(driver neo4j.DriverWithContext, dbName string, log *slog.Logger) *Neo4jLoader {
	return &Neo4jLoader{
		Driver: driver,
		DBName: dbName,
		log:    log.With(logger.Scope("loader")),
	}
}

// Seed merges the whole dataset: movies, then people, then relationships.
// Merging on title and name makes repeated seeding idempotent.
func (l *Neo4jLoader) Seed(ctx context.Context, ds *Dataset) error {
	if err := l.run(ctx, buildMovieQuery(), map[string]any{"batch": movieRows(ds.Movies)}); err != nil {
		return fmt.Errorf("failed to load movies: %w", err)
	}
	if err := l.run(ctx, buildPersonQuery(), map[string]any{"batch": personRows(ds.People)}); err != nil {
		return fmt.Errorf("failed to load people: %w", err)
	}
	if err := l.BatchLoadRelationships(ctx, ds.Relationships); err != nil {
		return err
	}

	l.log.Info("dataset loaded",
		slog.Int("movies", len(ds.Movies)),
		slog.Int("people", len(ds.People)),
		slog.Int("relationships", len(ds.Relationships)),
	)
	return nil
}

// BatchLoadRelationships loads relationships using UNWIND, one statement per
// relationship type.
func (l *Neo4jLoader) BatchLoadRelationships(ctx context.Context, rels []Relationship) error {
	if len(rels) == 0 {
		return nil
	}

	for relType, batch := range groupRelationshipsByType(rels) {
		if err := l.run(ctx, buildRelationshipQuery(relType), map[string]any{"batch": batch}); err != nil {
			return fmt.Errorf("failed to load relationships for type %s: %w", relType, err)
		}
	}
	return nil
}

// Wipe deletes all data from the database.
func (l *Neo4jLoader) Wipe(ctx context.Context) error {
	l.log.Warn("wiping database", slog.String("database", l.DBName))
	return l.run(ctx, buildWipeQuery(), nil)
}

// ApplyConstraints creates the uniqueness constraints the merge keys rely on.
func (l *Neo4jLoader) ApplyConstraints(ctx context.Context) error {
	constraints := []string{
		"CREATE CONSTRAINT movie_title IF NOT EXISTS FOR (m:Movie) REQUIRE m.title IS UNIQUE",
		"CREATE CONSTRAINT person_name IF NOT EXISTS FOR (p:Person) REQUIRE p.name IS UNIQUE",
	}

	for _, query := range constraints {
		if err := l.run(ctx, query, nil); err != nil {
			return fmt.Errorf("failed to apply constraint '%s': %w", query, err)
		}
	}
	return nil
}

func (l *Neo4jLoader) run(ctx context.Context, query string, params map[string]any) error {
	session := l.Driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: l.DBName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	return err
}

// Helpers extracted for testing
func movieRows(movies []Movie) []map[string]any {
	rows := make([]map[string]any, 0, len(movies))
	for _, m := range movies {
		row := map[string]any{"title": m.Title, "released": m.Released}
		if m.Tagline != "" {
			row["tagline"] = m.Tagline
		}
		rows = append(rows, row)
	}
	return rows
}

func personRows(people []Person) []map[string]any {
	rows := make([]map[string]any, 0, len(people))
	for _, p := range people {
		row := map[string]any{"name": p.Name}
		if p.Born != 0 {
			row["born"] = p.Born
		}
		rows = append(rows, row)
	}
	return rows
}

func buildMovieQuery() string {
	return `
			UNWIND $batch AS row
			MERGE (m:Movie {title: row.title})
			SET m += row
		`
}

func buildPersonQuery() string {
	return `
			UNWIND $batch AS row
			MERGE (p:Person {name: row.name})
			SET p += row
		`
}

func groupRelationshipsByType(rels []Relationship) map[string][]map[string]any {
	batches := make(map[string][]map[string]any)
	for _, r := range rels {
		relType := strings.ToUpper(r.Type)

		props := map[string]any{}
		if len(r.Roles) > 0 {
			props["roles"] = r.Roles
		}
		row := map[string]any{
			"person": r.Person,
			"movie":  r.Movie,
			"props":  props,
		}
		batches[relType] = append(batches[relType], row)
	}
	return batches
}

func buildRelationshipQuery(relType string) string {
	return fmt.Sprintf(`
			UNWIND $batch AS row
			MATCH (p:Person {name: row.person})
			MATCH (m:Movie {title: row.movie})
			MERGE (p)-[r:%s]->(m)
			SET r += row.props
		`, sanitizeLabel(relType))
}

func buildWipeQuery() string {
	return "MATCH (n) DETACH DELETE n"
}

func sanitizeLabel(label string) string {
	return "`" + strings.ReplaceAll(label, "`", "") + "`"
}
