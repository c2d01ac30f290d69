package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids[T Record](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.RecordID())
	}
	return out
}

func TestRelated(t *testing.T) {
	posts := []BlogPost{
		{Meta: Meta{ID: "1"}, Tags: []string{"seo", "roi"}},
		{Meta: Meta{ID: "2"}, Tags: []string{"roi"}},
		{Meta: Meta{ID: "3"}, Tags: []string{"social"}},
		{Meta: Meta{ID: "4"}, Tags: []string{"seo"}},
		{Meta: Meta{ID: "5"}, Tags: []string{"roi", "seo"}},
		{Meta: Meta{ID: "6"}, Tags: []string{"seo"}},
	}

	tests := []struct {
		name  string
		id    string
		limit int
		want  []string
	}{
		{name: "limited to three in list order", id: "1", limit: 3, want: []string{"2", "4", "5"}},
		{name: "no limit", id: "1", limit: 0, want: []string{"2", "4", "5", "6"}},
		{name: "no shared tags", id: "3", limit: 3, want: []string{}},
		{name: "unknown id", id: "missing", limit: 3, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Related(posts, tt.id, tt.limit)))
		})
	}
}

func TestRelated_Projects(t *testing.T) {
	projects := []Project{
		{Meta: Meta{ID: "a"}, Tags: []string{"beauty"}},
		{Meta: Meta{ID: "b"}},
		{Meta: Meta{ID: "c"}, Tags: []string{"beauty", "fashion"}},
	}
	assert.Equal(t, []string{"c"}, ids(Related(projects, "a", 3)))
	assert.Empty(t, Related(projects, "b", 3))
}
