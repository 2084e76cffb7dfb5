package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/expense-dashboard/internal"
	"github.com/frahmantamala/expense-dashboard/internal/rbac"
	"github.com/frahmantamala/expense-dashboard/internal/user"
)

// Repository reads users and their company assignments with sqlx.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, name, password_hash, global_role, is_active, created_at, updated_at`

func (p *Repository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return p.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (p *Repository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return p.get(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (p *Repository) get(ctx context.Context, query string, arg string) (*user.User, error) {
	var u user.User
	if err := p.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.GlobalRole = rbac.ParseGlobalRole(string(u.GlobalRole))
	u.CompanyRoles = []rbac.CompanyAssignment{}
	return &u, nil
}

type assignmentRow struct {
	CompanyID string    `db:"company_id"`
	Role      string    `db:"role"`
	JoinedAt  time.Time `db:"joined_at"`
}

// ListAssignments returns the user's company roles, oldest first.
func (p *Repository) ListAssignments(ctx context.Context, userID string) ([]rbac.CompanyAssignment, error) {
	var rows []assignmentRow
	query := `
SELECT company_id, role, joined_at
FROM company_members
WHERE user_id = $1
ORDER BY joined_at ASC, company_id ASC
`
	if err := p.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	out := make([]rbac.CompanyAssignment, 0, len(rows))
	for _, r := range rows {
		out = append(out, rbac.CompanyAssignment{
			CompanyID: r.CompanyID,
			Role:      rbac.ParseCompanyRole(r.Role),
			JoinedAt:  r.JoinedAt,
		})
	}
	return out, nil
}
