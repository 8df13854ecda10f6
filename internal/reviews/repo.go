package reviews

import (
	"context"

	"gorm.io/gorm"

	"github.com/hostelworks/roster-backend/pkg/db/models"
)

// Repository provides row-level access to the append-only reviews table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reviews repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert persists a new review.
func (r *Repository) Insert(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// List returns all reviews, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Review, error) {
	var rows []models.Review
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a single review.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Review, error) {
	var row models.Review
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// SearchByMovie returns reviews whose movie title contains the query,
// matched case-insensitively. LOWER keeps the comparison identical across
// postgres and the sqlite test driver.
func (r *Repository) SearchByMovie(ctx context.Context, query string) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("LOWER(movie) LIKE LOWER(?)", "%"+query+"%").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns one user's reviews, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
