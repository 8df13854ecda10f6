package reviews

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hostelworks/roster-backend/pkg/db"
	"github.com/hostelworks/roster-backend/pkg/db/models"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
)

// CreateInput is the typed payload for posting a review.
type CreateInput struct {
	Movie   string
	Content string
	Rating  int
	UserID  int64
}

// Service owns the append-only review store. Reviews are never edited or
// deleted, and they deliberately survive the deletion of their author.
type Service struct {
	client *db.Client
}

// NewService constructs the reviews service.
func NewService(client *db.Client) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &Service{client: client}, nil
}

// Create appends a review owned by the authenticated user.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Review, error) {
	if in.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	review := &models.Review{
		Movie:   in.Movie,
		Content: in.Content,
		Rating:  in.Rating,
		UserID:  in.UserID,
	}
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).Insert(ctx, review); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "insert review")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// List returns all reviews, newest first.
func (s *Service) List(ctx context.Context) ([]models.Review, error) {
	rows, err := NewRepository(s.client.DB()).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	return rows, nil
}

// Get performs a point lookup; missing reviews surface as NotFound.
func (s *Service) Get(ctx context.Context, id int64) (*models.Review, error) {
	row, err := NewRepository(s.client.DB()).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review")
	}
	return row, nil
}

// Search returns reviews whose movie title contains the query, ignoring
// letter case.
func (s *Service) Search(ctx context.Context, query string) ([]models.Review, error) {
	if query == "" {
		return nil, nil
	}
	rows, err := NewRepository(s.client.DB()).SearchByMovie(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search reviews")
	}
	return rows, nil
}

// ListByUser returns the reviews posted by one account, newest first.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	rows, err := NewRepository(s.client.DB()).ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user reviews")
	}
	return rows, nil
}
