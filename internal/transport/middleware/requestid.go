package middleware

import (
	"context"
	"net/http"

	chimw "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"

	"github.com/frahmantamala/expense-dashboard/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID accepts an upstream request id or mints one, exposes it through
// chi's request id key and the context logger, and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), chimw.RequestIDKey, reqID)
		ctx = logger.With(ctx, "request_id", reqID)

		w.Header().Set(RequestIDHeader, reqID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
