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

// compile-time check that *UserDB implements repository.UserRepository
var _ repository.UserRepository = (*UserDB)(nil)

// UserDB is the users table.
type UserDB struct {
	db *DB
}

// Create inserts a user and sets its ID.
// A taken email comes back as apperror.ErrDuplicate.
func (u *UserDB) Create(ctx context.Context, user *model.User) error {
	res, err := u.db.q.ExecContext(ctx,
		`INSERT INTO users (name, email) VALUES (?, ?)`,
		user.Name, user.Email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Duplicate("user", "email", user.Email)
		}
		return fmt.Errorf("sqlite: inserting user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByID returns apperror.ErrNotFound if no user exists with that ID.
func (u *UserDB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := u.db.q.QueryRowContext(ctx,
		`SELECT id, name, email FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Name, &user.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return &user, nil
}

func (u *UserDB) List(ctx context.Context) ([]model.User, error) {
	rows, err := u.db.q.QueryContext(ctx, `SELECT id, name, email FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating user rows: %w", err)
	}
	return users, nil
}

func (u *UserDB) Update(ctx context.Context, user *model.User) error {
	res, err := u.db.q.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ? WHERE id = ?`,
		user.Name, user.Email, user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Duplicate("user", "email", user.Email)
		}
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}
	return requireAffected(res, "user", user.ID)
}

// Delete removes the user; the schema cascades to everything they own.
func (u *UserDB) Delete(ctx context.Context, id int64) error {
	res, err := u.db.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}
	return requireAffected(res, "user", id)
}

func (u *UserDB) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var n int
	err := u.db.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?`, email, exceptID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking email: %w", err)
	}
	return n > 0, nil
}

// requireAffected turns "0 rows affected" into a NotFound for resource.
func requireAffected(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
