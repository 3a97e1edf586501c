package rest

import (
	"net/http"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/port"
	"strings"

	"github.com/google/uuid"
)

const (
	SessionHeader     = "X-Session-ID"
	SessionQueryParam = "session_id"
)

// SessionMiddleware достает id сессии из заголовка X-Session-ID.
// EventSource не умеет ставить заголовки, поэтому допускается и ?session_id=.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context())

		raw := strings.TrimSpace(r.Header.Get(SessionHeader))
		if raw == "" {
			raw = strings.TrimSpace(r.URL.Query().Get(SessionQueryParam))
		}
		if raw == "" {
			logger.Warn("Request without session id", nil)
			WriteJSONError(w, http.StatusBadRequest, "Session ID is required")
			return
		}

		sessionID, err := uuid.Parse(raw)
		if err != nil {
			logger.Warn("Invalid session id", port.Fields{"provided_id": raw})
			WriteJSONError(w, http.StatusBadRequest, "Invalid session ID format")
			return
		}

		ctx := contextkeys.ContextWithSessionID(r.Context(), sessionID)
		ctx = contextkeys.ContextWithLogger(ctx, logger.WithFields(port.Fields{"session_id": sessionID}))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
