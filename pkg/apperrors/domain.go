package apperrors

import "net/http"

// --- Not found ---

var ErrUserNotFound = New(
	CodeUserNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrRestaurantNotFound = New(
	CodeRestaurantNotFound,
	"restaurant",
	"Restaurant not found",
	http.StatusNotFound,
)

var ErrReviewNotFound = New(
	CodeReviewNotFound,
	"review",
	"Review not found",
	http.StatusNotFound,
)

// --- Reviews ---

// ErrDuplicateReview - пользователь уже оставил отзыв этому ресторану.
var ErrDuplicateReview = New(
	CodeReviewAlreadyExists,
	"review",
	"You have already posted a review for this restaurant",
	http.StatusConflict,
)

// ErrReviewUpdateForbidden - отзыв может менять только автор.
var ErrReviewUpdateForbidden = New(
	CodeReviewUpdateForbidden,
	"review",
	"Only the author can modify this review",
	http.StatusForbidden,
)

// ErrReviewDeleteForbidden - отзыв может удалить только автор.
var ErrReviewDeleteForbidden = New(
	CodeReviewDeleteForbidden,
	"review",
	"Only the author can delete this review",
	http.StatusForbidden,
)

// --- Uploads ---

var ErrFileTooLarge = New(
	CodeFileTooLarge,
	"upload",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrTooManyFiles = New(
	CodeTooManyFiles,
	"upload",
	"Too many images in one request",
	http.StatusBadRequest,
)

var ErrInvalidFileType = New(
	CodeUnsupportedFileType,
	"upload",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// ErrImageNotOwned - к отзыву можно прикрепить только свои загруженные картинки.
var ErrImageNotOwned = New(
	CodeImageNotOwned,
	"upload",
	"Image was uploaded by another user",
	http.StatusForbidden,
)

// --- Auth ---

var ErrEmailAlreadyExists = New(
	CodeEmailAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен (access или refresh).
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)
