package port

import (
	"context"

	"github.com/google/uuid"
)

// SessionStorePort - долговременное key/value хранилище, разделенное по сессиям.
// Ключи: cart, phone, products (см. constants).
type SessionStorePort interface {
	// Get возвращает значение и флаг его наличия.
	Get(ctx context.Context, sessionID uuid.UUID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID uuid.UUID, key, value string) error
	// Delete удаляет ключи. Отсутствующие ключи не считаются ошибкой.
	Delete(ctx context.Context, sessionID uuid.UUID, keys ...string) error
}
