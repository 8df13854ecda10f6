package roster

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hostelworks/roster-backend/internal/users"
	"github.com/hostelworks/roster-backend/pkg/config"
	"github.com/hostelworks/roster-backend/pkg/db"
	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/enums"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
	"github.com/hostelworks/roster-backend/pkg/security"
)

// CreateInput is the typed payload for adding a roster record. ID may be
// client-supplied (open roster deployment); collisions surface as Conflict.
type CreateInput struct {
	ID       *int64
	Name     string
	Username string
	Email    string
	Password string
	Room     *string
	Phone    *string
	Role     enums.Role
}

// UpdateInput applies only the provided fields. Phone values are validated
// at the handler boundary before they reach the store.
type UpdateInput struct {
	Name  *string
	Room  *string
	Phone *string
	Email *string
}

// Service is the Record Store: durable CRUD over the roster table with
// search and uniqueness enforcement. Every write runs in its own
// transaction; failures roll back without leaving partial state.
type Service struct {
	client      *db.Client
	passwordCfg config.PasswordConfig
}

// NewService constructs the roster service.
func NewService(client *db.Client, passwordCfg config.PasswordConfig) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &Service{client: client, passwordCfg: passwordCfg}, nil
}

// List returns roster records, optionally filtered by keyword, newest first.
func (s *Service) List(ctx context.Context, scope Scope, keyword string) ([]models.User, error) {
	rows, err := NewRepository(s.client.DB()).List(ctx, scope, keyword)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list roster")
	}
	return rows, nil
}

// Get performs a point lookup. A missing id is a normal outcome surfaced as
// NotFound, not a failure.
func (s *Service) Get(ctx context.Context, id int64, scope Scope) (*models.User, error) {
	row, err := NewRepository(s.client.DB()).FindByID(ctx, scope, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "student not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load student")
	}
	return row, nil
}

// Create inserts a new roster record. Duplicate ids, usernames or emails are
// rejected atomically with Conflict.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.User, error) {
	passwordHash := ""
	if in.Password != "" {
		hash, err := security.HashPassword(in.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		passwordHash = hash
	}

	var created *models.User
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		row := users.CreateUserDTO{
			ID:           in.ID,
			Name:         in.Name,
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: passwordHash,
			Room:         in.Room,
			Phone:        in.Phone,
			Role:         in.Role,
		}.ToModel()

		if in.ID != nil {
			// Client-supplied id: check the collision up front so the
			// failure message names the right constraint.
			if _, err := NewRepository(tx).FindByID(ctx, ScopeAll, *in.ID); err == nil {
				return pkgerrors.New(pkgerrors.CodeConflict, "student id already exists")
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check student id")
			}
		}

		if err := NewRepository(tx).Insert(ctx, row); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username or email already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert student")
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies the provided fields to an existing record.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput, scope Scope) (*models.User, error) {
	var updated *models.User
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		row, err := repo.FindByID(ctx, scope, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "student not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load student")
		}

		values := map[string]any{}
		if in.Name != nil {
			row.Name = *in.Name
			values["name"] = *in.Name
		}
		if in.Room != nil {
			row.Room = in.Room
			values["room"] = in.Room
		}
		if in.Phone != nil {
			row.Phone = in.Phone
			values["phone"] = in.Phone
		}
		if in.Email != nil {
			row.Email = *in.Email
			values["email"] = *in.Email
		}
		if len(values) == 0 {
			updated = row
			return nil
		}

		if err := repo.UpdateColumns(ctx, row.ID, values); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update student")
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetFeesPaid flips fees_paid to true. Idempotent; no route reverses it.
func (s *Service) SetFeesPaid(ctx context.Context, id int64, scope Scope) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		row, err := repo.FindByID(ctx, scope, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "student not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load student")
		}
		if row.FeesPaid {
			return nil
		}
		if err := repo.UpdateColumns(ctx, row.ID, map[string]any{"fees_paid": true}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark fees paid")
		}
		return nil
	})
}

// Delete removes the record after the caller's confirmation step.
func (s *Service) Delete(ctx context.Context, id int64, scope Scope) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		row, err := repo.FindByID(ctx, scope, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "student not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load student")
		}
		if err := repo.Delete(ctx, row.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete student")
		}
		return nil
	})
}
