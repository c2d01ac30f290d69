package datasync

import (
	"fmt"

	"github.com/jonathan/portfolio/internal/content"
)

// Op is the kind of sync operation a Result describes.
type Op string

const (
	OpLoad   Op = "load"
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

func (o Op) pastTense() string {
	switch o {
	case OpAdd:
		return "added"
	case OpUpdate:
		return "updated"
	case OpDelete:
		return "deleted"
	default:
		return "loaded"
	}
}

// Result is the outcome of one engine operation. Err is nil on success, in
// which case Record holds the canonical record returned by the store (nil for
// deletes).
type Result struct {
	Op         Op
	Collection content.Collection
	ID         string
	Record     content.Record
	Err        error
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Message is the user-facing text for the outcome, e.g. "skill added
// successfully" or "Failed to delete blogPost".
func (r Result) Message() string {
	label := r.Collection.Label()
	if r.Err != nil {
		return fmt.Sprintf("Failed to %s %s", r.Op, label)
	}
	return fmt.Sprintf("%s %s successfully", label, r.Op.pastTense())
}

// CollectionLoad is one collection's outcome within a bulk load.
type CollectionLoad struct {
	Collection content.Collection `json:"collection"`
	Count      int                `json:"count"`
	Error      string             `json:"error,omitempty"`
	Err        error              `json:"-"`
}

// LoadReport summarizes a bulk load, one entry per collection in
// content.Collections order.
type LoadReport struct {
	Collections []CollectionLoad `json:"collections"`
}

// OK reports whether every collection loaded.
func (r LoadReport) OK() bool {
	return len(r.Failed()) == 0
}

// Failed lists the collections whose list request failed.
func (r LoadReport) Failed() []content.Collection {
	var out []content.Collection
	for _, c := range r.Collections {
		if c.Err != nil {
			out = append(out, c.Collection)
		}
	}
	return out
}
