package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrRestaurantNotFound   = errors.New("restaurant not found")
	ErrReviewNotFound       = errors.New("review not found")
	ErrReviewAlreadyExists  = errors.New("review already exists for this restaurant")
	ErrVisitedAlreadyExists = errors.New("visited record already exists")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

// pgUniqueViolation - SQLSTATE unique_violation
const pgUniqueViolation = "23505"

// IsDuplicateKey reports whether err is a unique-constraint violation from any supported dialect.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// sqlite без TranslateError
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}
