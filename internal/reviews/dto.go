package reviews

import (
	"time"

	"github.com/hostelworks/roster-backend/pkg/db/models"
)

// ReviewDTO is the transport shape for a review.
type ReviewDTO struct {
	ID        int64     `json:"id"`
	Movie     string    `json:"movie"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:        r.ID,
		Movie:     r.Movie,
		Content:   r.Content,
		Rating:    r.Rating,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}
}

func FromModels(list []models.Review) []*ReviewDTO {
	out := make([]*ReviewDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
