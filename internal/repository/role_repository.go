package repository

import (
	"context"
	"database/sql"

	"github.com/zhengdechang/auth-service/internal/model"
)

// RoleRepo reads the 'roles' table.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// List returns all roles.
func (r *RoleRepo) List(ctx context.Context) ([]model.Role, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, description FROM roles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Role
	for rows.Next() {
		var (
			role model.Role
			desc sql.NullString
		)
		if err := rows.Scan(&role.ID, &role.Name, &desc); err != nil {
			return nil, err
		}
		role.Description = desc.String
		out = append(out, role)
	}
	return out, rows.Err()
}
