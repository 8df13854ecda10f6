package roster

import (
	"context"

	"gorm.io/gorm"

	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/enums"
)

// Scope narrows roster operations to a subset of roles. Admin-surface routes
// operate on student rows only; the open roster operates on everything.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeStudents
)

// Repository provides row-level access to the roster table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a roster repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) scoped(ctx context.Context, scope Scope) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if scope == ScopeStudents {
		q = q.Where("role = ?", enums.RoleStudent)
	}
	return q
}

// List returns roster rows ordered by creation time, newest first. A
// non-empty keyword narrows the result to rows whose stringified id, name,
// room or phone contains the keyword (case-sensitive substring match).
func (r *Repository) List(ctx context.Context, scope Scope, keyword string) ([]models.User, error) {
	q := r.scoped(ctx, scope)
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where(
			"CAST(id AS TEXT) LIKE ? OR name LIKE ? OR room LIKE ? OR phone LIKE ?",
			like, like, like, like,
		)
	}

	var rows []models.User
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single roster row within the scope.
func (r *Repository) FindByID(ctx context.Context, scope Scope, id int64) (*models.User, error) {
	var row models.User
	if err := r.scoped(ctx, scope).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert persists a new roster row.
func (r *Repository) Insert(ctx context.Context, row *models.User) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// UpdateColumns applies the provided column values to the row.
func (r *Repository) UpdateColumns(ctx context.Context, id int64, values map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(values).Error
}

// Delete removes the row. Irreversible.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}
