package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

// compile-time check that *ItemDB implements repository.ItemRepository
var _ repository.ItemRepository = (*ItemDB)(nil)

// ItemDB is the items table.
type ItemDB struct {
	db *DB
}

const itemColumns = `id, owner_id, name, description, available, request_id`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (model.Item, error) {
	var (
		it        model.Item
		requestID sql.NullInt64
	)
	err := s.Scan(&it.ID, &it.OwnerID, &it.Name, &it.Description, &it.Available, &requestID)
	it.RequestID = idPtr(requestID)
	return it, err
}

func (r *ItemDB) Create(ctx context.Context, item *model.Item) error {
	res, err := r.db.q.ExecContext(ctx,
		`INSERT INTO items (owner_id, name, description, available, request_id)
		 VALUES (?, ?, ?, ?, ?)`,
		item.OwnerID, item.Name, item.Description, item.Available, nullableID(item.RequestID),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading item id: %w", err)
	}
	item.ID = id
	return nil
}

func (r *ItemDB) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	it, err := scanItem(r.db.q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("item", id)
		}
		return nil, fmt.Errorf("sqlite: getting item %d: %w", id, err)
	}
	return &it, nil
}

// Update writes every mutable column. owner_id and request_id never change.
func (r *ItemDB) Update(ctx context.Context, item *model.Item) error {
	res, err := r.db.q.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`,
		item.Name, item.Description, item.Available, item.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating item %d: %w", item.ID, err)
	}
	return requireAffected(res, "item", item.ID)
}

func (r *ItemDB) Delete(ctx context.Context, id int64) error {
	res, err := r.db.q.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting item %d: %w", id, err)
	}
	return requireAffected(res, "item", id)
}

func (r *ItemDB) ListByOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.Item, error) {
	return r.list(ctx,
		`SELECT `+itemColumns+` FROM items WHERE owner_id = ?
		 ORDER BY id LIMIT ? OFFSET ?`,
		ownerID, page.Limit(), page.Offset(),
	)
}

// Search does a case-insensitive substring match on name OR description.
// Case folding is Unicode-aware: both sides go through fold_lower.
//
// LIKE WILDCARDS:
// The user's text is a literal, so % and _ in it are escaped. A search for
// "100%" must not match every item whose name starts with "100".
func (r *ItemDB) Search(ctx context.Context, text string, page model.Page) ([]model.Item, error) {
	pattern := "%" + escapeLike(text) + "%"
	return r.list(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE available = 1
		   AND (fold_lower(name) LIKE fold_lower(?) ESCAPE '\'
		        OR fold_lower(description) LIKE fold_lower(?) ESCAPE '\')
		 ORDER BY id LIMIT ? OFFSET ?`,
		pattern, pattern, page.Limit(), page.Offset(),
	)
}

func (r *ItemDB) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]model.Item, error) {
	if len(requestIDs) == 0 {
		return []model.Item{}, nil
	}
	placeholders, args := inClause(requestIDs)
	return r.list(ctx,
		`SELECT `+itemColumns+` FROM items WHERE request_id IN (`+placeholders+`) ORDER BY id`,
		args...,
	)
}

func (r *ItemDB) list(ctx context.Context, query string, args ...any) ([]model.Item, error) {
	rows, err := r.db.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating item rows: %w", err)
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
