// Package contextkeys - общие ключи context.Context и gin.Context.
package contextkeys

type contextKey string

const (
	// DBContextKey - *gorm.DB (пул или транзакция теста) для текущего запроса
	DBContextKey = contextKey("db")

	RequestIDKey = contextKey("request_id")
	UserIDKey    = contextKey("user_id")
)

// GinUserID - ключ gin.Context с ID аутентифицированного пользователя
const GinUserID = "userID"
