package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/tasku/backend/core/user"
)

const uniqueViolation = pq.ErrorCode("23505")

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
	INSERT INTO users (name, email, password_hash, role, created_at, last_access)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id`

	err := repo.db.QueryRowContext(ctx, q, usr.Name, usr.Email, usr.PasswordHash, usr.Role, usr.CreatedAt, usr.LastAccess).Scan(&usr.ID)
	if err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	const q = `
	SELECT id, name, email, password_hash, role, created_at, last_access
	FROM users WHERE id = $1`

	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, q, id); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user by id")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	const q = `
	SELECT id, name, email, password_hash, role, created_at, last_access
	FROM users WHERE lower(email) = lower($1)`

	var usr user.User
	if err := repo.db.GetContext(ctx, &usr, q, email); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user by email")
	}
	return usr, nil
}

func (repo *userRepository) UpdateLastAccess(ctx context.Context, id int, at time.Time) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE users SET last_access = $2 WHERE id = $1`, id, at)
	if err != nil {
		return errors.Wrap(err, "updating last access")
	}
	return oneRowOr(res, user.ErrNotFound)
}

func (repo *userRepository) UpdatePassword(ctx context.Context, id int, hash []byte) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	return oneRowOr(res, user.ErrNotFound)
}

// oneRowOr translates an affected-row count of zero into notFound.
// "Missing" and "not owned" stay indistinguishable on owner-scoped statements.
func oneRowOr(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
