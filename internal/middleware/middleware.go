package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"restaurant-orders/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderAPIKey        = "X-API-Key"
	HeaderUserID        = "X-User-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)

// CORS adds CORS headers to the response.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-User-ID, X-Correlation-ID")
		w.Header().Set("Access-Control-Expose-Headers", "X-Correlation-ID")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// CorrelationID reuses a valid incoming X-Correlation-ID or generates a new
// one, echoes it in the response and stores it in the request context.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderCorrelationID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(HeaderCorrelationID, id)
		next.ServeHTTP(w, r.WithContext(WithCorrelationID(r.Context(), id)))
	})
}

// APIKeyAuth validates the API key from the X-API-Key header.
func APIKeyAuth(apiKey string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip authentication for health check endpoint
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if providedKey == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing API key")
				writeUnauthorised(w, r, "missing API key")
				return
			}

			if providedKey != apiKey {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("provided_key", providedKey[:min(8, len(providedKey))]).
					Msg("invalid API key")
				writeUnauthorised(w, r, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserID reads the authenticated user from the X-User-ID header set by the
// gateway. A missing header is allowed; handlers that need a user check
// UserIDFromContext. A malformed header is rejected.
func UserID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(HeaderUserID)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				logger.Warn().Str("path", r.URL.Path).Str("user_id", raw).Msg("malformed user id")
				writeUnauthorised(w, r, "malformed user id")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Create a response writer wrapper to capture status code
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", duration).
				Str("remote_addr", r.RemoteAddr).
				Str("correlation_id", rw.Header().Get(HeaderCorrelationID)).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					writeErrorResponse(w, http.StatusInternalServerError, model.ErrorResponse{
						Error:         model.ErrCodeInternalError,
						Message:       "internal server error",
						CorrelationID: CorrelationIDFromContext(r.Context()),
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorised(w http.ResponseWriter, r *http.Request, message string) {
	writeErrorResponse(w, http.StatusUnauthorized, model.ErrorResponse{
		Error:         model.ErrCodeUnauthorised,
		Message:       "unauthorised: " + message,
		CorrelationID: CorrelationIDFromContext(r.Context()),
	})
}

func writeErrorResponse(w http.ResponseWriter, status int, body model.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
