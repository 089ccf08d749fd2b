package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/ktp-league/internal/domain/user"
	qb "github.com/riskibarqy/ktp-league/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

var userSelectColumns = []string{"id", "username", "password_hash", "is_admin", "created_at"}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select(userSelectColumns...).From("users").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("username", username))
}

func (r *UserRepository) getOne(ctx context.Context, cond qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select(userSelectColumns...).From("users").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("select user: %w", err)
	}
	return userFromRow(row), true, nil
}

func (r *UserRepository) Create(ctx context.Context, item user.User) (user.User, error) {
	query, args, err := qb.InsertModel("users", userInsertModel{
		Username:     item.Username,
		PasswordHash: item.PasswordHash,
		IsAdmin:      item.IsAdmin,
	}, "RETURNING "+joinColumns(userSelectColumns))
	if err != nil {
		return user.User{}, fmt.Errorf("build insert user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return user.User{}, user.ErrDuplicateUsername
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return userFromRow(row), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.DeleteFrom("users").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete user query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user rows affected: %w", err)
	}
	return affected > 0, nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		IsAdmin:      row.IsAdmin,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}
