package dto

// UserInfoResponse - публичный профиль пользователя
type UserInfoResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Nickname        string `json:"nickname"`
	Gender          string `json:"gender"`
	AgeRange        string `json:"ageRange"`
	Bio             string `json:"bio"`
	ProfileImageURL string `json:"profileImageUrl"`
	VisitedCount    int64  `json:"visitedCount"`
}

// UpdateUserRequest - PATCH /user. Пустые поля не меняются.
type UpdateUserRequest struct {
	Nickname        *string `json:"nickname,omitempty" validate:"omitempty,not-blank,max=50"`
	Gender          *string `json:"gender,omitempty" validate:"omitempty,is-gender"`
	AgeRange        *string `json:"ageRange,omitempty" validate:"omitempty,is-age-range"`
	Bio             *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfileImageURL *string `json:"profileImageUrl,omitempty" validate:"omitempty,url"`
}

// BaseResponse - {"statusCode":..., "message":...} для /user
type BaseResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// LoginResponse - ответ PATCH /user с новыми токенами
type LoginResponse struct {
	StatusCode   string  `json:"statusCode"`
	Message      *string `json:"message"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
}
