package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/shareit/internal/apperror"
	"github.com/sakif/shareit/internal/model"
	"github.com/sakif/shareit/internal/repository"
)

// compile-time check that *RequestDB implements repository.RequestRepository
var _ repository.RequestRepository = (*RequestDB)(nil)

// RequestDB is the requests table.
type RequestDB struct {
	db *DB
}

func (r *RequestDB) Create(ctx context.Context, req *model.Request) error {
	res, err := r.db.q.ExecContext(ctx,
		`INSERT INTO requests (description, requester_id, created) VALUES (?, ?, ?)`,
		req.Description, req.RequesterID, encodeTime(req.Created),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting request: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading request id: %w", err)
	}
	req.ID = id
	return nil
}

func (r *RequestDB) GetByID(ctx context.Context, id int64) (*model.Request, error) {
	var (
		req     model.Request
		created string
	)
	err := r.db.q.QueryRowContext(ctx,
		`SELECT id, description, requester_id, created FROM requests WHERE id = ?`, id,
	).Scan(&req.ID, &req.Description, &req.RequesterID, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("request", id)
		}
		return nil, fmt.Errorf("sqlite: getting request %d: %w", id, err)
	}
	if req.Created, err = decodeTime(created); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByRequester returns the user's own requests, newest first.
func (r *RequestDB) ListByRequester(ctx context.Context, requesterID int64) ([]model.Request, error) {
	return r.list(ctx,
		`SELECT id, description, requester_id, created FROM requests
		 WHERE requester_id = ? ORDER BY created DESC, id DESC`,
		requesterID,
	)
}

// ListExcept returns everybody else's requests, newest first.
func (r *RequestDB) ListExcept(ctx context.Context, userID int64, page model.Page) ([]model.Request, error) {
	return r.list(ctx,
		`SELECT id, description, requester_id, created FROM requests
		 WHERE requester_id <> ? ORDER BY created DESC, id DESC LIMIT ? OFFSET ?`,
		userID, page.Limit(), page.Offset(),
	)
}

func (r *RequestDB) list(ctx context.Context, query string, args ...any) ([]model.Request, error) {
	rows, err := r.db.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing requests: %w", err)
	}
	defer rows.Close()

	reqs := []model.Request{}
	for rows.Next() {
		var (
			req     model.Request
			created string
		)
		if err := rows.Scan(&req.ID, &req.Description, &req.RequesterID, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scanning request row: %w", err)
		}
		if req.Created, err = decodeTime(created); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating request rows: %w", err)
	}
	return reqs, nil
}
