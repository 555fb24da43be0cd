package apperrors

// ErrorCode - машиночитаемый код в ответе {"error":{"code":...}}
type ErrorCode string

const (
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeBadRequest       ErrorCode = "BAD_REQUEST"

	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)

// Доменные коды
const (
	CodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	CodeRestaurantNotFound ErrorCode = "RESTAURANT_NOT_FOUND"
	CodeReviewNotFound     ErrorCode = "REVIEW_NOT_FOUND"

	CodeReviewAlreadyExists ErrorCode = "REVIEW_ALREADY_EXISTS"
	CodeEmailAlreadyExists  ErrorCode = "EMAIL_ALREADY_EXISTS"

	// Попытка изменить/удалить чужой отзыв
	CodeReviewUpdateForbidden ErrorCode = "REVIEW_UPDATE_FORBIDDEN"
	CodeReviewDeleteForbidden ErrorCode = "REVIEW_DELETE_FORBIDDEN"

	CodeFileTooLarge        ErrorCode = "FILE_TOO_LARGE"
	CodeTooManyFiles        ErrorCode = "TOO_MANY_FILES"
	CodeUnsupportedFileType ErrorCode = "UNSUPPORTED_FILE_TYPE"
	CodeImageNotOwned       ErrorCode = "IMAGE_NOT_OWNED"
)
