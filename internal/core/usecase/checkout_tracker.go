package usecase

import (
	"storefront-service/internal/core/domain"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCheckoutRetention - сколько хранится итог оформления заказа.
const DefaultCheckoutRetention = time.Hour

// CheckoutTracker хранит состояние оформления заказа по сессиям.
// Флаг Submitting - единственная защита от повторной отправки.
// Итоги (success/failed) живут retention, после чего сессия снова Idle.
type CheckoutTracker struct {
	retention time.Duration
	now       func() time.Time

	mu       sync.Mutex
	statuses map[uuid.UUID]trackedStatus
}

type trackedStatus struct {
	status     domain.CheckoutStatus
	finishedAt time.Time
}

func NewCheckoutTracker() *CheckoutTracker {
	return NewCheckoutTrackerWithRetention(DefaultCheckoutRetention)
}

func NewCheckoutTrackerWithRetention(retention time.Duration) *CheckoutTracker {
	return &CheckoutTracker{
		retention: retention,
		now:       time.Now,
		statuses:  make(map[uuid.UUID]trackedStatus),
	}
}

// Status возвращает текущее состояние, для новых сессий - Idle.
func (t *CheckoutTracker) Status(sessionID uuid.UUID) domain.CheckoutStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.statuses[sessionID]
	if !ok {
		return domain.IdleStatus()
	}
	if t.expired(entry) {
		delete(t.statuses, sessionID)
		return domain.IdleStatus()
	}
	return entry.status
}

// TryBegin переводит сессию в Submitting. Прошлый результат при этом сбрасывается.
// Возвращает false, если заказ уже отправляется.
func (t *CheckoutTracker) TryBegin(sessionID uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.statuses[sessionID].status.State == domain.CheckoutSubmitting {
		return false
	}
	t.statuses[sessionID] = trackedStatus{status: domain.CheckoutStatus{State: domain.CheckoutSubmitting}}
	return true
}

// Finish фиксирует итог отправки и заодно вычищает устаревшие итоги других сессий.
func (t *CheckoutTracker) Finish(sessionID uuid.UUID, result domain.OrderResult) domain.CheckoutStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := domain.CheckoutFailed
	if result.Success {
		state = domain.CheckoutSuccess
	}
	status := domain.CheckoutStatus{State: state, Result: &result}
	t.statuses[sessionID] = trackedStatus{status: status, finishedAt: t.now()}

	for id, entry := range t.statuses {
		if t.expired(entry) {
			delete(t.statuses, id)
		}
	}
	return status
}

// Len - число сессий, для которых хранится состояние.
func (t *CheckoutTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.statuses)
}

// expired вызывается под mu. Отправка в процессе не истекает никогда.
func (t *CheckoutTracker) expired(entry trackedStatus) bool {
	if entry.status.State == domain.CheckoutSubmitting || t.retention <= 0 {
		return false
	}
	return !t.now().Before(entry.finishedAt.Add(t.retention))
}
