package loader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed movies.yaml
var embeddedDataset []byte

// Movie is a seed movie. Title is the merge key.
type Movie struct {
	Title    string `yaml:"title"`
	Released int64  `yaml:"released"`
	Tagline  string `yaml:"tagline,omitempty"`
}

// Person is a seed person. Name is the merge key.
type Person struct {
	Name string `yaml:"name"`
	Born int64  `yaml:"born,omitempty"`
}

// Relationship links a person to a movie, e.g. ACTED_IN with roles.
type Relationship struct {
	Person string   `yaml:"person"`
	Movie  string   `yaml:"movie"`
	Type   string   `yaml:"type"`
	Roles  []string `yaml:"roles,omitempty"`
}

// Dataset is the seed graph.
type Dataset struct {
	Movies        []Movie        `yaml:"movies"`
	People        []Person       `yaml:"people"`
	Relationships []Relationship `yaml:"relationships"`
}

// DefaultDataset returns the dataset compiled into the binary.
func DefaultDataset() (*Dataset, error) {
	return ParseDataset(embeddedDataset)
}

// LoadDataset reads a YAML dataset from path.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseDataset(data)
}

// ParseDataset decodes and validates a YAML dataset.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks that every relationship points at a declared movie and
// person and that merge keys are present and unique.
func (d *Dataset) Validate() error {
	var errs []error

	movies := make(map[string]struct{}, len(d.Movies))
	for i, m := range d.Movies {
		if strings.TrimSpace(m.Title) == "" {
			errs = append(errs, fmt.Errorf("movie %d has no title", i))
			continue
		}
		if _, dup := movies[m.Title]; dup {
			errs = append(errs, fmt.Errorf("duplicate movie %q", m.Title))
		}
		movies[m.Title] = struct{}{}
	}

	people := make(map[string]struct{}, len(d.People))
	for i, p := range d.People {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("person %d has no name", i))
			continue
		}
		if _, dup := people[p.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate person %q", p.Name))
		}
		people[p.Name] = struct{}{}
	}

	for i, r := range d.Relationships {
		if _, ok := people[r.Person]; !ok {
			errs = append(errs, fmt.Errorf("relationship %d: unknown person %q", i, r.Person))
		}
		if _, ok := movies[r.Movie]; !ok {
			errs = append(errs, fmt.Errorf("relationship %d: unknown movie %q", i, r.Movie))
		}
		if r.Type == "" {
			errs = append(errs, fmt.Errorf("relationship %d has no type", i))
		}
	}
	return errors.Join(errs...)
}
