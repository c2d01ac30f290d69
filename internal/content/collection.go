// Package content defines the portfolio content model: the eight record
// collections, their names in the remote store, and the mapping between
// in-memory records and store rows.
package content

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownCollection is returned when a name matches none of the collections.
var ErrUnknownCollection = errors.New("unknown collection")

// ErrNilRecord is returned for a nil record or a nil pointer to a variant.
var ErrNilRecord = errors.New("nil record")

// Collection names one of the content types held by the site.
type Collection string

// The eight collections, by in-memory name.
const (
	CollectionSkills       Collection = "skills"
	CollectionExperiences  Collection = "experiences"
	CollectionEducation    Collection = "education"
	CollectionProjects     Collection = "projects"
	CollectionTestimonials Collection = "testimonials"
	CollectionBlogPosts    Collection = "blogPosts"
	CollectionStats        Collection = "stats"
	CollectionBrands       Collection = "brands"
)

var allCollections = []Collection{
	CollectionSkills,
	CollectionExperiences,
	CollectionEducation,
	CollectionProjects,
	CollectionTestimonials,
	CollectionBlogPosts,
	CollectionStats,
	CollectionBrands,
}

// Collections returns every collection in a fixed order.
func Collections() []Collection {
	return slices.Clone(allCollections)
}

// ParseCollection resolves an in-memory name or a store target name.
func ParseCollection(name string) (Collection, error) {
	name = strings.TrimSpace(name)
	for _, c := range allCollections {
		if string(c) == name || c.Target() == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

// Valid reports whether c is one of the eight known collections.
func (c Collection) Valid() bool {
	return slices.Contains(allCollections, c)
}

// Target returns the store's name for the collection.
func (c Collection) Target() string {
	switch c {
	case CollectionBlogPosts:
		return "blog_posts"
	default:
		return string(c)
	}
}

// Label is the singular form used in user-facing messages: the name with a
// trailing plural "s" removed.
func (c Collection) Label() string {
	return strings.TrimSuffix(string(c), "s")
}

// OrderBy returns the column the store sorts the collection by. Order is
// always descending.
func (c Collection) OrderBy() string {
	if c == CollectionBlogPosts {
		return "published_date"
	}
	return "created_at"
}
