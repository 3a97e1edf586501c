package postgres_adapter

import (
	"context"
	"errors"
	"fmt"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSessionStore - реализация SessionStorePort поверх таблицы session_storage.
type PostgresSessionStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionStore - конструктор.
func NewPostgresSessionStore(pool *pgxpool.Pool) (*PostgresSessionStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresSessionStore{pool: pool}, nil
}

// Get читает одно значение. Отсутствие строки - не ошибка.
func (r *PostgresSessionStore) Get(ctx context.Context, sessionID uuid.UUID, key string) (string, bool, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresSessionStore",
		"method":     "Get",
		"session_id": sessionID,
		"key":        key,
	})

	query := `SELECT value FROM session_storage WHERE session_id = $1 AND key = $2`

	var value string
	err := r.pool.QueryRow(ctx, query, sessionID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		repoLogger.Error("Failed to read session value", err, port.Fields{"query": query})
		return "", false, fmt.Errorf("failed to read session value %q: %w", key, err)
	}
	return value, true, nil
}

// Set записывает значение, перезаписывая старое (upsert).
func (r *PostgresSessionStore) Set(ctx context.Context, sessionID uuid.UUID, key, value string) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresSessionStore",
		"method":     "Set",
		"session_id": sessionID,
		"key":        key,
	})

	query := `
		INSERT INTO session_storage (session_id, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, sessionID, key, value); err != nil {
		repoLogger.Error("Failed to write session value", err, nil)
		return fmt.Errorf("failed to write session value %q: %w", key, err)
	}

	repoLogger.Debug("Session value saved.", port.Fields{"bytes": len(value)})
	return nil
}

// Delete удаляет ключи одним запросом.
func (r *PostgresSessionStore) Delete(ctx context.Context, sessionID uuid.UUID, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "PostgresSessionStore",
		"method":     "Delete",
		"session_id": sessionID,
		"keys":       keys,
	})

	query := `DELETE FROM session_storage WHERE session_id = $1 AND key = ANY($2)`

	cmdTag, err := r.pool.Exec(ctx, query, sessionID, keys)
	if err != nil {
		repoLogger.Error("Failed to delete session values", err, nil)
		return fmt.Errorf("failed to delete session values: %w", err)
	}

	repoLogger.Debug("Session values deleted.", port.Fields{"rows_affected": cmdTag.RowsAffected()})
	return nil
}
