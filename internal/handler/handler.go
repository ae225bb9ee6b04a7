// internal/handler/handler.go
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
)

// OwnerHeader carries the owner identifier set by the fronting gateway.
const OwnerHeader = "X-Owner-ID"

type ctxKey struct{}

// RequireOwner rejects requests without an owner header and stores the owner
// id in the request context.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get(OwnerHeader)
		if owner == "" {
			WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing " + OwnerHeader + " header"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, owner)))
	})
}

// OwnerID returns the owner stored by RequireOwner, or "".
func OwnerID(ctx context.Context) string {
	owner, _ := ctx.Value(ctxKey{}).(string)
	return owner
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return appErrors.NewValidation("body", "invalid request body: "+err.Error())
	}
	return nil
}

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case appErrors.IsValidation(err):
		return http.StatusBadRequest
	case appErrors.IsNotFound(err):
		return http.StatusNotFound
	case appErrors.IsStore(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// WriteError writes err as {"error": ...}. Server-side failures are logged.
func WriteError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
	WriteJSON(w, status, map[string]string{"error": err.Error()})
}

// RequestLogger logs one line per request through zap.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("owner_id", r.Header.Get(OwnerHeader)))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
