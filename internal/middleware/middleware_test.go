package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-orders/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Preflight request",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectHandler:  false,
		},
		{
			name:           "POST request",
			method:         http.MethodPost,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "PATCH request",
			method:         http.MethodPatch,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := CORS(okHandler(&handlerCalled))

			req := httptest.NewRequest(tt.method, "/api/orders", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, PATCH, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, X-API-Key, X-User-ID, X-Correlation-ID", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	logger := zerolog.Nop()
	validAPIKey := "test-api-key-123"

	tests := []struct {
		name           string
		path           string
		apiKey         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Valid API key",
			path:           "/api/orders",
			apiKey:         validAPIKey,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Invalid API key",
			path:           "/api/orders",
			apiKey:         "invalid-key",
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
		{
			name:           "Short invalid API key",
			path:           "/api/orders/1",
			apiKey:         "abc",
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
		{
			name:           "Missing API key",
			path:           "/api/orders",
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
		{
			name:           "Health check bypasses auth",
			path:           "/health",
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := APIKeyAuth(validAPIKey, logger)(okHandler(&handlerCalled))

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.apiKey != "" {
				req.Header.Set(HeaderAPIKey, tt.apiKey)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)

			if !tt.expectHandler {
				var body model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, model.ErrCodeUnauthorised, body.Error)
			}
		})
	}
}

func TestUserID(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectUser     bool
		expectedUser   int64
	}{
		{
			name:           "Valid user",
			header:         "7",
			expectedStatus: http.StatusOK,
			expectUser:     true,
			expectedUser:   7,
		},
		{
			name:           "Missing header passes through",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Malformed header",
			header:         "seven",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Non-positive id",
			header:         "-1",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				gotUser int64
				gotOK   bool
			)
			handler := UserID(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser, gotOK = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
			if tt.header != "" {
				req.Header.Set(HeaderUserID, tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectUser, gotOK)
			assert.Equal(t, tt.expectedUser, gotUser)
		})
	}
}

func TestCorrelationID(t *testing.T) {
	incoming := uuid.NewString()

	tests := []struct {
		name     string
		header   string
		expectID func(t *testing.T, id string)
	}{
		{
			name:   "Valid incoming id is kept",
			header: incoming,
			expectID: func(t *testing.T, id string) {
				assert.Equal(t, incoming, id)
			},
		},
		{
			name: "Missing id is generated",
			expectID: func(t *testing.T, id string) {
				_, err := uuid.Parse(id)
				assert.NoError(t, err)
			},
		},
		{
			name:   "Garbage id is replaced",
			header: "not-a-uuid",
			expectID: func(t *testing.T, id string) {
				assert.NotEqual(t, "not-a-uuid", id)
				_, err := uuid.Parse(id)
				assert.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromContext string
			handler := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromContext = CorrelationIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/orders/1", nil)
			if tt.header != "" {
				req.Header.Set(HeaderCorrelationID, tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			id := w.Header().Get(HeaderCorrelationID)
			tt.expectID(t, id)
			assert.Equal(t, id, fromContext)
		})
	}
}

func TestLogging(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name          string
		method        string
		handlerStatus int
	}{
		{name: "Created", method: http.MethodPost, handlerStatus: http.StatusCreated},
		{name: "Unprocessable", method: http.MethodPost, handlerStatus: http.StatusUnprocessableEntity},
		{name: "Server error", method: http.MethodPatch, handlerStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			}))

			req := httptest.NewRequest(tt.method, "/api/orders", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.handlerStatus, w.Code)
		})
	}
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		panicValue     any
		expectedStatus int
	}{
		{
			name:           "No panic",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Panic with string",
			panicValue:     "something went wrong",
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Panic with error",
			panicValue:     assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CorrelationID(Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.panicValue != nil {
					panic(tt.panicValue)
				}
				w.WriteHeader(http.StatusOK)
			})))

			req := httptest.NewRequest(http.MethodPost, "/api/orders", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.panicValue != nil {
				var body model.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
				assert.Equal(t, model.ErrCodeInternalError, body.Error)
				assert.Equal(t, "internal server error", body.Message)
				assert.Equal(t, w.Header().Get(HeaderCorrelationID), body.CorrelationID)
			}
		})
	}
}

func TestResponseWriter(t *testing.T) {
	for _, code := range []int{http.StatusCreated, http.StatusConflict, http.StatusServiceUnavailable} {
		w := httptest.NewRecorder()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		rw.WriteHeader(code)

		assert.Equal(t, code, rw.statusCode)
		assert.Equal(t, code, w.Code)
	}
}
