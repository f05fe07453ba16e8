package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"hirelane/internal/common"
	"hirelane/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, email, roles, created_at, updated_at FROM users WHERE id = $1`, id)
	var account user.User
	var roles []string
	if err := row.Scan(&account.ID, &account.Name, &account.Email, pq.Array(&roles), &account.CreatedAt, &account.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	for _, role := range roles {
		account.Roles = append(account.Roles, user.Role(role))
	}
	return &account, nil
}

func (r *UserRepository) ListAdmins(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, roles, created_at, updated_at FROM users WHERE $1 = ANY(roles)`, string(user.RoleAdmin))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list admins", err)
	}
	defer rows.Close()
	var items []user.User
	for rows.Next() {
		var account user.User
		var roles []string
		if err := rows.Scan(&account.ID, &account.Name, &account.Email, pq.Array(&roles), &account.CreatedAt, &account.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan user", err)
		}
		for _, role := range roles {
			account.Roles = append(account.Roles, user.Role(role))
		}
		items = append(items, account)
	}
	return items, nil
}
