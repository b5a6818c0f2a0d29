package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/marllouie99/DioceseIligan-BookingService/internal/api/handlers"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	userRoleKey
)

// Заголовки аутентификации, проставляемые API gateway
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Auth проверяет наличие X-User-ID и кладёт ID и роль пользователя в контекст.
// Сама аутентификация выполняется выше по стеку (gateway).
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "отсутствует заголовок X-User-ID")
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "некорректный заголовок X-User-ID")
			return
		}

		role := r.Header.Get(HeaderUserRole)
		if role == "" {
			role = "requester"
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, role)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID возвращает ID пользователя из контекста
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// UserRole возвращает роль пользователя из контекста
func UserRole(ctx context.Context) string {
	if role, ok := ctx.Value(userRoleKey).(string); ok {
		return role
	}
	return "requester"
}
