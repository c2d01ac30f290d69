package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio/internal/content"
)

func newTestMemory() *Memory {
	m := NewMemory()
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}
	return m
}

func TestMemory_InsertAssignsIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()

	got, err := m.Insert(ctx, "skills", content.Wire{"name": "Go"})
	require.NoError(t, err)

	id, _ := got["id"].(string)
	assert.NotEmpty(t, id)
	assert.IsType(t, time.Time{}, got["created_at"])

	_, err = m.Insert(ctx, "skills", content.Wire{"id": id, "name": "Dup"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMemory_ListOrdersDescending(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()
	for _, name := range []string{"first", "second", "third"} {
		_, err := m.Insert(ctx, "skills", content.Wire{"id": name, "name": name})
		require.NoError(t, err)
	}

	rows, err := m.List(ctx, "skills", "created_at", false)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []any{"third", "second", "first"}, []any{rows[0]["id"], rows[1]["id"], rows[2]["id"]})

	rows, err = m.List(ctx, "skills", "created_at", true)
	require.NoError(t, err)
	assert.Equal(t, "first", rows[0]["id"])
}

func TestMemory_ListByPublishedDate(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()
	for id, date := range map[string]string{"old": "2022-01-01", "new": "2024-03-01", "mid": "2023-06-15"} {
		_, err := m.Insert(ctx, "blog_posts", content.Wire{"id": id, "published_date": date})
		require.NoError(t, err)
	}

	rows, err := m.List(ctx, "blog_posts", "published_date", false)
	require.NoError(t, err)
	assert.Equal(t, []any{"new", "mid", "old"}, []any{rows[0]["id"], rows[1]["id"], rows[2]["id"]})
}

func TestMemory_UpdateMerges(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()
	_, err := m.Insert(ctx, "skills", content.Wire{"id": "s1", "name": "Go", "category": "Tech"})
	require.NoError(t, err)

	got, err := m.Update(ctx, "skills", "s1", content.Wire{"id": "other", "name": "Golang"})
	require.NoError(t, err)
	assert.Equal(t, "s1", got["id"])
	assert.Equal(t, "Golang", got["name"])
	assert.Equal(t, "Tech", got["category"])

	_, err = m.Update(ctx, "skills", "missing", content.Wire{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()
	_, err := m.Insert(ctx, "brands", content.Wire{"id": "b1", "name": "Acme"})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, "brands", "b1"))
	assert.ErrorIs(t, m.Delete(ctx, "brands", "b1"), ErrNotFound)

	rows, err := m.List(ctx, "brands", "created_at", false)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestMemory_RowsAreCopied(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()
	tags := []string{"a"}
	_, err := m.Insert(ctx, "projects", content.Wire{"id": "p1", "tags": tags})
	require.NoError(t, err)
	tags[0] = "mutated"

	rows, err := m.List(ctx, "projects", "created_at", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, rows[0]["tags"])

	rows[0]["tags"].([]string)[0] = "changed"
	rows, err = m.List(ctx, "projects", "created_at", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, rows[0]["tags"])
}

func TestMemory_RejectsUnknownTarget(t *testing.T) {
	ctx := context.Background()
	m := newTestMemory()

	_, err := m.List(ctx, "widgets", "created_at", false)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = m.Insert(ctx, "widgets", content.Wire{})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().List(ctx, "skills", "created_at", false)
	assert.ErrorIs(t, err, context.Canceled)
}
