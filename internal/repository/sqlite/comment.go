package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

// compile-time check that *CommentDB implements repository.CommentRepository
var _ repository.CommentRepository = (*CommentDB)(nil)

// CommentDB is the comments table.
type CommentDB struct {
	db *DB
}

func (r *CommentDB) Create(ctx context.Context, c *model.Comment) error {
	res, err := r.db.q.ExecContext(ctx,
		`INSERT INTO comments (item_id, author_id, text, created) VALUES (?, ?, ?, ?)`,
		c.ItemID, c.AuthorID, c.Text, encodeTime(c.Created),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading comment id: %w", err)
	}
	c.ID = id
	return nil
}

// ListByItemIDs returns comments of the given items joined with the author
// name, oldest first.
func (r *CommentDB) ListByItemIDs(ctx context.Context, itemIDs []int64) ([]model.CommentView, error) {
	if len(itemIDs) == 0 {
		return []model.CommentView{}, nil
	}
	placeholders, args := inClause(itemIDs)

	rows, err := r.db.q.QueryContext(ctx,
		`SELECT c.id, c.item_id, c.text, u.name, c.created
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.item_id IN (`+placeholders+`)
		 ORDER BY c.id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer rows.Close()

	out := []model.CommentView{}
	for rows.Next() {
		var (
			v       model.CommentView
			created string
		)
		if err := rows.Scan(&v.ID, &v.ItemID, &v.Text, &v.AuthorName, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		if v.Created, err = decodeTime(created); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comment rows: %w", err)
	}
	return out, nil
}
