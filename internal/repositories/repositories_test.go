package repositories_test

import (
	"errors"
	"testing"
	"time"

	"nopo_backend/internal/models"
	"nopo_backend/internal/repositories"
	"nopo_backend/internal/testutil"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	assert.False(t, repositories.IsDuplicateKey(nil))
	assert.True(t, repositories.IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, repositories.IsDuplicateKey(&pgconn.PgError{Code: "23505"}))
	assert.False(t, repositories.IsDuplicateKey(&pgconn.PgError{Code: "23503"}))
	assert.True(t, repositories.IsDuplicateKey(errors.New("UNIQUE constraint failed: reviews.user_id")))
	assert.False(t, repositories.IsDuplicateKey(errors.New("connection refused")))
}

func TestReviewRepository_UniquePerUserAndRestaurant(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewReviewRepository()
	user := testutil.CreateUser(t, db, "u1", "u1@example.com", "password123")
	resto := testutil.CreateRestaurant(t, db, "r1")

	first := &models.Review{UserID: user.ID, RestaurantID: resto.ID, Content: "a", Rating: 4, RegDate: time.Now()}
	require.NoError(t, repo.CreateReview(db, first))

	dup := &models.Review{UserID: user.ID, RestaurantID: resto.ID, Content: "b", Rating: 1, RegDate: time.Now()}
	assert.ErrorIs(t, repo.CreateReview(db, dup), repositories.ErrReviewAlreadyExists)
}

func TestReviewRepository_ImagesAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewReviewRepository()
	user := testutil.CreateUser(t, db, "u1", "u1@example.com", "password123")
	resto := testutil.CreateRestaurant(t, db, "r1")

	review := &models.Review{UserID: user.ID, RestaurantID: resto.ID, Content: "a", Rating: 4, RegDate: time.Now()}
	require.NoError(t, repo.CreateReview(db, review))
	require.NoError(t, repo.CreateImages(db, nil))
	require.NoError(t, repo.CreateImages(db, []models.ReviewImage{
		{ReviewID: review.ID, URL: "/files/b.jpg", Position: 1},
		{ReviewID: review.ID, URL: "/files/a.jpg", Position: 0},
	}))

	images, err := repo.FindImagesByReview(db, review.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "/files/a.jpg", images[0].URL)

	urls, err := repo.FindImageURLsByUser(db, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/files/a.jpg", "/files/b.jpg"}, urls)

	require.NoError(t, repo.DeleteReview(db, review.ID))
	assert.Equal(t, int64(0), testutil.Count(t, db, &models.ReviewImage{}, "review_id = ?", review.ID))
	assert.ErrorIs(t, repo.DeleteReview(db, review.ID), repositories.ErrReviewNotFound)

	_, err = repo.FindReviewByID(db, review.ID)
	assert.ErrorIs(t, err, repositories.ErrReviewNotFound)
}

func TestReviewRepository_RatingStatsAndPaging(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewReviewRepository()
	resto := testutil.CreateRestaurant(t, db, "r1")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, rating := range []int{5, 4, 4} {
		u := testutil.CreateUser(t, db, "u", "u"+string(rune('a'+i))+"@example.com", "password123")
		require.NoError(t, repo.CreateReview(db, &models.Review{
			UserID: u.ID, RestaurantID: resto.ID, Content: "c", Rating: rating, RegDate: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	stats, err := repo.GetRestaurantRatingStats(db, resto.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalReviews)
	assert.InDelta(t, 4.333, stats.AverageRating, 0.01)
	assert.Equal(t, int64(2), stats.RatingCounts[4])
	assert.Equal(t, int64(1), stats.RatingCounts[5])

	page, total, err := repo.FindReviewsByRestaurant(db, resto.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	// новые сверху
	assert.True(t, page[0].RegDate.After(page[1].RegDate))

	page, _, err = repo.FindReviewsByRestaurant(db, resto.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestVisitedRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewVisitedRepository()
	user := testutil.CreateUser(t, db, "u1", "u1@example.com", "password123")
	resto := testutil.CreateRestaurant(t, db, "r1")

	ok, err := repo.Exists(db, resto.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Create(db, &models.Visited{UserID: user.ID, RestaurantID: resto.ID}))
	assert.ErrorIs(t, repo.Create(db, &models.Visited{UserID: user.ID, RestaurantID: resto.ID}), repositories.ErrVisitedAlreadyExists)

	ok, err = repo.Exists(db, resto.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := repo.CountByUser(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.DeleteByUser(db, user.ID))
	n, err = repo.CountByUser(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewUserRepository()

	user := &models.User{Email: "u1@example.com", PasswordHash: "x", Nickname: "u1"}
	require.NoError(t, repo.Create(db, user))
	assert.ErrorIs(t, repo.Create(db, &models.User{Email: "u1@example.com", PasswordHash: "y", Nickname: "dup"}), repositories.ErrUserAlreadyExists)

	found, err := repo.FindByEmail(db, "u1@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	require.NoError(t, repo.Delete(db, user.ID))
	_, err = repo.FindByID(db, user.ID)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestRestaurantRepository_FindInArea(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewRestaurantRepository()

	testutil.CreateRestaurantAt(t, db, "b inside", 127.0, 37.5)
	testutil.CreateRestaurantAt(t, db, "a inside", 127.01, 37.49)
	testutil.CreateRestaurantAt(t, db, "on border", 127.1, 37.5)
	testutil.CreateRestaurantAt(t, db, "outside", 127.2, 37.5)

	found, err := repo.FindInArea(db, repositories.Area{MinX: 126.9, MaxX: 127.1, MinY: 37.4, MaxY: 37.6})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "a inside", found[0].Name)
	assert.Equal(t, "b inside", found[1].Name)

	area := repositories.AreaAround(127.0, 37.5, 0.054)
	assert.InDelta(t, 126.946, area.MinX, 1e-9)
	assert.InDelta(t, 37.554, area.MaxY, 1e-9)
}

func TestRestaurantRepository_FindByIDsKeepsOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewRestaurantRepository()
	r1 := testutil.CreateRestaurant(t, db, "r1")
	r2 := testutil.CreateRestaurant(t, db, "r2")

	found, err := repo.FindByIDs(db, []string{r2.ID, "missing", r1.ID})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, r2.ID, found[0].ID)
	assert.Equal(t, r1.ID, found[1].ID)

	none, err := repo.FindByIDs(db, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReviewRepository_GetAverageRatings(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewReviewRepository()
	u1 := testutil.CreateUser(t, db, "u1", "u1@example.com", "password123")
	u2 := testutil.CreateUser(t, db, "u2", "u2@example.com", "password123")
	r1 := testutil.CreateRestaurant(t, db, "r1")
	r2 := testutil.CreateRestaurant(t, db, "r2")

	require.NoError(t, repo.CreateReview(db, &models.Review{UserID: u1.ID, RestaurantID: r1.ID, Content: "a", Rating: 5, RegDate: time.Now()}))
	require.NoError(t, repo.CreateReview(db, &models.Review{UserID: u2.ID, RestaurantID: r1.ID, Content: "b", Rating: 2, RegDate: time.Now()}))

	ratings, err := repo.GetAverageRatings(db, []string{r1.ID, r2.ID})
	require.NoError(t, err)
	require.Contains(t, ratings, r1.ID)
	assert.InDelta(t, 3.5, ratings[r1.ID].AverageRating, 1e-9)
	assert.Equal(t, int64(2), ratings[r1.ID].TotalReviews)
	assert.NotContains(t, ratings, r2.ID)
}
