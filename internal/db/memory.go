package db

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/portfolio/internal/content"
)

// Memory is an in-process collection store with the same behaviour as DB:
// ids and created_at are assigned on insert, updates merge, and misses are
// ErrNotFound. Rows are copied in and out.
type Memory struct {
	mu   sync.RWMutex
	rows map[string][]content.Wire
	now  func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{rows: map[string][]content.Wire{}, now: time.Now}
}

func (m *Memory) List(ctx context.Context, target, orderBy string, ascending bool) ([]content.Wire, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkTarget(target); err != nil {
		return nil, err
	}
	if !slices.Contains(orderColumns, orderBy) {
		return nil, fmt.Errorf("order column %q: %w", orderBy, ErrInvalid)
	}

	m.mu.RLock()
	out := make([]content.Wire, 0, len(m.rows[target]))
	for _, row := range m.rows[target] {
		out = append(out, copyRow(row))
	}
	m.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b content.Wire) int {
		c := compareValues(a[orderBy], b[orderBy])
		if c == 0 {
			c = compareValues(a["id"], b["id"])
		}
		if !ascending {
			c = -c
		}
		return c
	})
	return out, nil
}

func (m *Memory) Insert(ctx context.Context, target string, row content.Wire) (content.Wire, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkTarget(target); err != nil {
		return nil, err
	}
	if _, err := sortedColumns(row); err != nil {
		return nil, err
	}

	stored := copyRow(row)
	if id, _ := stored["id"].(string); id == "" {
		stored["id"] = uuid.NewString()
	}
	if stored["created_at"] == nil {
		stored["created_at"] = m.now().UTC()
	}
	id := stored["id"].(string)

	m.mu.Lock()
	defer m.mu.Unlock()
	if indexByID(m.rows[target], id) >= 0 {
		return nil, fmt.Errorf("%s %s: %w", target, id, ErrConflict)
	}
	m.rows[target] = append(m.rows[target], stored)
	return copyRow(stored), nil
}

func (m *Memory) Update(ctx context.Context, target, id string, row content.Wire) (content.Wire, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkTarget(target); err != nil {
		return nil, err
	}
	if _, err := sortedColumns(row); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	idx := indexByID(m.rows[target], id)
	if idx < 0 {
		return nil, fmt.Errorf("%s %s: %w", target, id, ErrNotFound)
	}
	merged := copyRow(m.rows[target][idx])
	for k, v := range copyRow(row) {
		if k == "id" {
			continue
		}
		merged[k] = v
	}
	m.rows[target][idx] = merged
	return copyRow(merged), nil
}

func (m *Memory) Delete(ctx context.Context, target, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkTarget(target); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	idx := indexByID(m.rows[target], id)
	if idx < 0 {
		return fmt.Errorf("%s %s: %w", target, id, ErrNotFound)
	}
	m.rows[target] = slices.Delete(m.rows[target], idx, idx+1)
	return nil
}

func indexByID(rows []content.Wire, id string) int {
	return slices.IndexFunc(rows, func(r content.Wire) bool { return r["id"] == id })
}

// copyRow copies a row deeply enough that slice values are not shared.
func copyRow(row content.Wire) content.Wire {
	out := make(content.Wire, len(row))
	for k, v := range row {
		switch t := v.(type) {
		case []string:
			out[k] = slices.Clone(t)
		case []any:
			out[k] = slices.Clone(t)
		default:
			out[k] = v
		}
	}
	return out
}

// compareValues orders the value types rows carry. Nil sorts first.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	switch x := a.(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
