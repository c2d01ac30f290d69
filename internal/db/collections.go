package db

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/portfolio/internal/content"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// orderColumns are the columns a list may be sorted by.
var orderColumns = []string{"created_at", "updated_at", "published_date", "start_date", "id"}

func checkTarget(target string) error {
	for _, c := range content.Collections() {
		if c.Target() == target {
			return nil
		}
	}
	return fmt.Errorf("collection %q: %w", target, ErrInvalid)
}

func quote(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// sortedColumns returns the keys of row in a stable order, rejecting any that
// is not a plain lower-case identifier.
func sortedColumns(row content.Wire) ([]string, error) {
	cols := make([]string, 0, len(row))
	for col := range row {
		if !identPattern.MatchString(col) {
			return nil, fmt.Errorf("column %q: %w", col, ErrInvalid)
		}
		cols = append(cols, col)
	}
	slices.Sort(cols)
	return cols, nil
}

func buildList(target, orderBy string, ascending bool) (string, []any, error) {
	if err := checkTarget(target); err != nil {
		return "", nil, err
	}
	if !slices.Contains(orderColumns, orderBy) {
		return "", nil, fmt.Errorf("order column %q: %w", orderBy, ErrInvalid)
	}
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	return psql.Select("*").
		From(quote(target)).
		OrderBy(quote(orderBy)+" "+dir, "id "+dir).
		ToSql()
}

func buildInsert(target string, row content.Wire) (string, []any, error) {
	if err := checkTarget(target); err != nil {
		return "", nil, err
	}
	cols, err := sortedColumns(row)
	if err != nil {
		return "", nil, err
	}
	quoted := make([]string, 0, len(cols))
	values := make([]any, 0, len(cols))
	for _, col := range cols {
		quoted = append(quoted, quote(col))
		values = append(values, row[col])
	}
	return psql.Insert(quote(target)).
		Columns(quoted...).
		Values(values...).
		Suffix("RETURNING *").
		ToSql()
}

func buildUpdate(target, id string, row content.Wire) (string, []any, error) {
	if err := checkTarget(target); err != nil {
		return "", nil, err
	}
	cols, err := sortedColumns(row)
	if err != nil {
		return "", nil, err
	}
	q := psql.Update(quote(target))
	set := 0
	for _, col := range cols {
		// The id is the key, never a column to change.
		if col == "id" {
			continue
		}
		q = q.Set(quote(col), row[col])
		set++
	}
	if set == 0 {
		return "", nil, fmt.Errorf("update %s %s: no columns: %w", target, id, ErrInvalid)
	}
	return q.Where(squirrel.Eq{"id": id}).Suffix("RETURNING *").ToSql()
}

func buildDelete(target, id string) (string, []any, error) {
	if err := checkTarget(target); err != nil {
		return "", nil, err
	}
	return psql.Delete(quote(target)).Where(squirrel.Eq{"id": id}).ToSql()
}

// List returns every row of target ordered by orderBy.
func (db *DB) List(ctx context.Context, target, orderBy string, ascending bool) ([]content.Wire, error) {
	sql, args, err := buildList(target, orderBy, ascending)
	if err != nil {
		return nil, err
	}
	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, target, "")
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, mapError(err, target, "")
	}
	out := make([]content.Wire, 0, len(maps))
	for _, m := range maps {
		out = append(out, content.Wire(m))
	}
	return out, nil
}

// Insert stores row in target and returns the stored row. A row without an
// id is given a random one; created_at is assigned by the database.
func (db *DB) Insert(ctx context.Context, target string, row content.Wire) (content.Wire, error) {
	row = row.Clone()
	if row == nil {
		row = content.Wire{}
	}
	if id, _ := row["id"].(string); id == "" {
		row["id"] = uuid.NewString()
	}
	id, _ := row["id"].(string)

	sql, args, err := buildInsert(target, row)
	if err != nil {
		return nil, err
	}
	return db.queryOne(ctx, target, id, sql, args)
}

// Update merges row into the record of target with the given id and returns
// the stored row.
func (db *DB) Update(ctx context.Context, target, id string, row content.Wire) (content.Wire, error) {
	sql, args, err := buildUpdate(target, id, row)
	if err != nil {
		return nil, err
	}
	return db.queryOne(ctx, target, id, sql, args)
}

// Delete removes the record of target with the given id.
func (db *DB) Delete(ctx context.Context, target, id string) error {
	sql, args, err := buildDelete(target, id)
	if err != nil {
		return err
	}
	tag, err := db.pool.Exec(ctx, sql, args...)
	if err != nil {
		return mapError(err, target, id)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, target, id)
	}
	return nil
}

func (db *DB) queryOne(ctx context.Context, target, id, sql string, args []any) (content.Wire, error) {
	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, target, id)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, mapError(err, target, id)
	}
	return content.Wire(m), nil
}
