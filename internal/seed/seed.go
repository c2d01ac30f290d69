// Package seed holds the default site content and loads it into empty
// collections through the sync engine.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jonathan/portfolio/internal/content"
	"github.com/jonathan/portfolio/internal/datasync"
	"github.com/jonathan/portfolio/internal/schemas"
)

//go:embed defaults.json
var defaults []byte

// Set is a content set keyed by collection. Records keep their display
// order, newest first.
type Set map[content.Collection][]content.Record

// Counts returns the number of records per collection.
func (s Set) Counts() map[content.Collection]int {
	out := make(map[content.Collection]int, len(s))
	for c, recs := range s {
		out[c] = len(recs)
	}
	return out
}

// Default returns the embedded default content.
func Default() (Set, error) {
	return Parse(defaults)
}

// Parse reads a content set in the API's JSON form: an object keyed by
// collection name holding arrays of records. The document is checked against
// the seed schema and every record against the content rules.
func Parse(data []byte) (Set, error) {
	if err := schemas.Validate(schemas.Seed, data); err != nil {
		return nil, err
	}
	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse content set: %w", err)
	}

	set := make(Set, len(raw))
	for name, items := range raw {
		col, err := content.ParseCollection(name)
		if err != nil {
			return nil, err
		}
		recs := make([]content.Record, 0, len(items))
		for i, item := range items {
			rec, err := content.Decode(col, item)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			if err := content.Validate(rec); err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			recs = append(recs, rec)
		}
		set[col] = recs
	}
	return set, nil
}

// Engine is the part of the sync engine seeding needs.
type Engine interface {
	Refresh(ctx context.Context) datasync.LoadReport
	AddItem(ctx context.Context, rec content.Record) datasync.Result
}

// Report describes what Apply did per collection.
type Report struct {
	Added       map[content.Collection]int
	Skipped     []content.Collection
	Unavailable []content.Collection
	Failed      []datasync.Result
}

// OK reports whether every collection was either seeded or already populated.
func (r Report) OK() bool {
	return len(r.Unavailable) == 0 && len(r.Failed) == 0
}

// Apply refreshes the engine and adds the set's records to every collection
// that loaded empty. Populated collections are skipped and collections that
// failed to load are left alone.
func Apply(ctx context.Context, eng Engine, set Set) Report {
	report := Report{Added: map[content.Collection]int{}}
	loads := eng.Refresh(ctx)
	failed := loads.Failed()

	for _, load := range loads.Collections {
		col := load.Collection
		recs := set[col]
		switch {
		case len(recs) == 0:
			continue
		case slices.Contains(failed, col):
			report.Unavailable = append(report.Unavailable, col)
			continue
		case load.Count > 0:
			report.Skipped = append(report.Skipped, col)
			continue
		}

		// Added records are prepended, so insert oldest first.
		for i := len(recs) - 1; i >= 0; i-- {
			if ctx.Err() != nil {
				return report
			}
			res := eng.AddItem(ctx, recs[i])
			if !res.OK() {
				report.Failed = append(report.Failed, res)
				continue
			}
			report.Added[col]++
		}
	}
	return report
}
