package middleware

import (
	"context"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader возвращается клиенту, чтобы ошибку можно было найти в логах.
const RequestIDHeader = "X-Request-Id"

// GetRequestIDFromContext returns the id assigned by chi's RequestID
// middleware, or "" outside of a request.
func GetRequestIDFromContext(ctx context.Context) string {
	return chiMiddleware.GetReqID(ctx)
}
