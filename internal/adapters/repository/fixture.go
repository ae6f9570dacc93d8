package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the YAML document accepted by LoadFixture.
//
//	teams:
//	  - {id: t1, name: Eagles, captain_user_id: u1, member_ids: [u1, u2]}
//	reports:
//	  - week_start: 2024-03-11
//	    week_end: 2024-03-17
//	    rows:
//	      - {user_id: u1, user_name: Alice, counters: {present: 1, visitors: 2}}
type Fixture struct {
	Teams   []Team         `yaml:"teams"`
	Reports []WeeklyReport `yaml:"reports"`
}

// LoadFixture decodes a YAML fixture into a new store.
func LoadFixture(ctx context.Context, r io.Reader, opts ...Option) (*MemoryStore, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}

	s := NewMemoryStore(opts...)
	for _, t := range fx.Teams {
		if err := s.PutTeam(ctx, t); err != nil {
			return nil, fmt.Errorf("%w: team %q: %w", ErrInvalidFixture, t.ID, err)
		}
	}
	for i, rep := range fx.Reports {
		if _, err := s.AddReport(ctx, rep); err != nil {
			return nil, fmt.Errorf("%w: report %d: %w", ErrInvalidFixture, i, err)
		}
	}
	return s, nil
}

// LoadFixtureFile opens path and calls LoadFixture.
func LoadFixtureFile(ctx context.Context, path string, opts ...Option) (*MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFixture, err)
	}
	defer f.Close()
	return LoadFixture(ctx, f, opts...)
}
