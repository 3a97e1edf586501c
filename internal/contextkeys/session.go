package contextkeys

import (
	"context"

	"github.com/google/uuid"
)

type sessionIDKeyType struct{}

var sessionIDKey = sessionIDKeyType{}

// ContextWithSessionID сохраняет идентификатор сессии покупателя
func ContextWithSessionID(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionIDFromContext возвращает идентификатор сессии и флаг его наличия
func SessionIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(uuid.UUID)
	return sessionID, ok
}
