package reviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hostelworks/roster-backend/pkg/db"
	pkgerrors "github.com/hostelworks/roster-backend/pkg/errors"
)

func setupReviewsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS reviews (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  movie TEXT NOT NULL,
  content TEXT NOT NULL,
  rating INTEGER NOT NULL,
  user_id INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, conn.Exec(schema).Error)
	require.NoError(t, conn.Exec(`DELETE FROM reviews`).Error)

	return conn
}

func newReviewService(t *testing.T, conn *gorm.DB) *Service {
	t.Helper()
	svc, err := NewService(db.FromGorm(conn))
	require.NoError(t, err)
	return svc
}

func TestCreateRequiresOwner(t *testing.T) {
	conn := setupReviewsTestDB(t)
	svc := newReviewService(t, conn)

	_, err := svc.Create(context.Background(), CreateInput{Movie: "Drive", Content: "good", Rating: 4})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

func TestListNewestFirst(t *testing.T) {
	conn := setupReviewsTestDB(t)
	svc := newReviewService(t, conn)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{Movie: "Heat", Content: "tense", Rating: 5, UserID: 1})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateInput{Movie: "Ronin", Content: "driving", Rating: 4, UserID: 1})
	require.NoError(t, err)

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}

func TestGetMissingReview(t *testing.T) {
	conn := setupReviewsTestDB(t)
	svc := newReviewService(t, conn)

	_, err := svc.Get(context.Background(), 99999)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestSearchByMovie(t *testing.T) {
	conn := setupReviewsTestDB(t)
	svc := newReviewService(t, conn)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Movie: "Blade Runner", Content: "rainy", Rating: 5, UserID: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Movie: "Blade Runner 2049", Content: "sandy", Rating: 5, UserID: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Movie: "Alien", Content: "dark", Rating: 4, UserID: 2})
	require.NoError(t, err)

	rows, err := svc.Search(ctx, "Runner")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestSearchIgnoresCase(t *testing.T) {
	conn := setupReviewsTestDB(t)
	svc := newReviewService(t, conn)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Movie: "Blade Runner", Content: "rainy", Rating: 5, UserID: 2})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Movie: "blade runner 2049", Content: "sandy", Rating: 5, UserID: 2})
	require.NoError(t, err)

	rows, err := svc.Search(ctx, "RUNNER")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.Search(ctx, "blade")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestListByUserNewestFirst(t *testing.T) {
	conn := setupReviewsTestDB(t)
	svc := newReviewService(t, conn)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{Movie: "Heat", Content: "tense", Rating: 5, UserID: 8})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateInput{Movie: "Ronin", Content: "driving", Rating: 4, UserID: 8})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Movie: "Alien", Content: "dark", Rating: 4, UserID: 9})
	require.NoError(t, err)

	rows, err := svc.ListByUser(ctx, 8)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}

func TestReviewsSurviveAuthorDeletion(t *testing.T) {
	conn := setupReviewsTestDB(t)
	svc := newReviewService(t, conn)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Movie: "Orphan", Content: "kept", Rating: 3, UserID: 77})
	require.NoError(t, err)

	// The user_id reference is weak; nothing cascades.
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(77), got.UserID)
}
