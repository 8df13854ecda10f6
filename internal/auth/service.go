package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/hostelworks/roster-backend/internal/users"
	"github.com/hostelworks/roster-backend/pkg/config"
	"github.com/hostelworks/roster-backend/pkg/db"
	"github.com/hostelworks/roster-backend/pkg/db/models"
	"github.com/hostelworks/roster-backend/pkg/enums"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
	"github.com/hostelworks/roster-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// RegisterInput is the typed payload for self-registration. Registered
// accounts always carry the student role.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Room     *string
	Phone    *string
}

// Service is the Auth Gate: it authenticates credentials against stored
// hashes and owns the bootstrap admin guarantee.
type Service struct {
	client      *db.Client
	passwordCfg config.PasswordConfig
	adminCfg    config.AdminConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(client *db.Client, passwordCfg config.PasswordConfig, adminCfg config.AdminConfig) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &Service{
		client:      client,
		passwordCfg: passwordCfg,
		adminCfg:    adminCfg,
	}, nil
}

// Login authenticates an identifier (username or email) and password.
// All failure paths return the same Unauthorized outcome so nothing about
// account existence leaks.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := users.NewRepository(s.client.DB()).FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// Rows created through the open roster surface carry no usable
		// hash; treat them like any other credential mismatch.
		if errors.Is(err, security.ErrInvalidHash) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

// Register creates a student account inside one transaction. Duplicate
// username/email is rejected atomically with Conflict.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and email are required")
	}

	passwordHash, err := security.HashPassword(in.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)

		if _, err := repo.FindByIdentifier(ctx, username); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "username or email already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}
		if _, err := repo.FindByIdentifier(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "username or email already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		}

		user, err := repo.Create(ctx, users.CreateUserDTO{
			Name:         in.Name,
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			Room:         in.Room,
			Phone:        in.Phone,
			Role:         enums.RoleStudent,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "username or email already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EnsureAdmin guarantees a single bootstrap admin account exists. Safe to
// call on every startup.
func (s *Service) EnsureAdmin(ctx context.Context) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		repo := users.NewRepository(tx)

		count, err := repo.CountByRole(ctx, enums.RoleAdmin)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count admins")
		}
		if count > 0 {
			return nil
		}

		passwordHash, err := security.HashPassword(s.adminCfg.Password, s.passwordCfg)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash admin password")
		}

		if _, err := repo.Create(ctx, users.CreateUserDTO{
			Name:         s.adminCfg.Name,
			Username:     s.adminCfg.Username(),
			Email:        strings.ToLower(s.adminCfg.Email),
			PasswordHash: passwordHash,
			FeesPaid:     true,
			Role:         enums.RoleAdmin,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create bootstrap admin")
		}
		return nil
	})
}
