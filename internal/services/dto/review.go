package dto

// ======================
// Request DTOs
// ======================

// ReviewRequest - создание отзыва. ImageURLs - ранее загруженные картинки.
type ReviewRequest struct {
	RestaurantID string   `json:"restoId" validate:"required"`
	Content      string   `json:"content" validate:"required,not-blank,max=2000"`
	Rating       int      `json:"rating" validate:"review-rating"`
	ImageURLs    []string `json:"imageUrls,omitempty" validate:"omitempty,max=10,dive,required,max=1024"`
}

type UpdateReviewRequest struct {
	Content string `json:"content" validate:"required,not-blank,max=2000"`
	Rating  int    `json:"rating" validate:"review-rating"`
}

// ======================
// Response DTOs
// ======================

type ReviewResponse struct {
	ReviewID  string   `json:"reviewId"`
	ImageURL  []string `json:"imageUrl"`
	Content   string   `json:"content"`
	Rating    int      `json:"rating"`
	RegDate   string   `json:"regdate"` // YYYY-MM-DD
	Nickname  string   `json:"nickname"`
	RestoName string   `json:"restoName"`
}

type CreateReviewResponse struct {
	ReviewID string `json:"reviewId"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewResponse `json:"reviews"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type RatingResponse struct {
	AverageRating   float64     `json:"average_rating"`
	TotalReviews    int64       `json:"total_reviews"`
	RatingBreakdown map[int]int `json:"rating_breakdown"`
}

type VisitedResponse struct {
	RestaurantID string `json:"restoId"`
	RestoName    string `json:"restoName"`
	Category     string `json:"category"`
	VisitedAt    string `json:"visitedAt"`
}

type ImageUploadResponse struct {
	ImageURLs []string `json:"imageUrls"`
}
