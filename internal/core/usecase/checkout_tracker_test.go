package usecase

import (
	"storefront-service/internal/core/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackerWithClock(retention time.Duration) (*CheckoutTracker, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewCheckoutTrackerWithRetention(retention)
	tracker.now = func() time.Time { return now }
	return tracker, &now
}

func TestCheckoutTracker_Transitions(t *testing.T) {
	tracker, _ := newTrackerWithClock(time.Hour)
	sessionID := uuid.New()

	assert.Equal(t, domain.CheckoutIdle, tracker.Status(sessionID).State)
	assert.Equal(t, 0, tracker.Len())

	require.True(t, tracker.TryBegin(sessionID))
	assert.False(t, tracker.TryBegin(sessionID))
	assert.Equal(t, domain.CheckoutSubmitting, tracker.Status(sessionID).State)

	status := tracker.Finish(sessionID, domain.OrderResult{Success: false, Message: domain.MessageOrderRejected})
	assert.Equal(t, domain.CheckoutFailed, status.State)
	assert.Equal(t, status, tracker.Status(sessionID))

	// Повторная попытка сбрасывает прошлый итог
	require.True(t, tracker.TryBegin(sessionID))
	assert.Nil(t, tracker.Status(sessionID).Result)
}

func TestCheckoutTracker_FinishedStatusExpires(t *testing.T) {
	tracker, now := newTrackerWithClock(time.Hour)
	sessionID := uuid.New()

	require.True(t, tracker.TryBegin(sessionID))
	tracker.Finish(sessionID, domain.OrderResult{Success: true, Message: domain.MessageOrderPlaced})

	*now = now.Add(59 * time.Minute)
	assert.Equal(t, domain.CheckoutSuccess, tracker.Status(sessionID).State)

	*now = now.Add(time.Minute)
	assert.Equal(t, domain.IdleStatus(), tracker.Status(sessionID))
	assert.Equal(t, 0, tracker.Len())
}

func TestCheckoutTracker_FinishSweepsOtherSessions(t *testing.T) {
	tracker, now := newTrackerWithClock(time.Hour)
	old, inFlight, fresh := uuid.New(), uuid.New(), uuid.New()

	require.True(t, tracker.TryBegin(old))
	tracker.Finish(old, domain.OrderResult{Success: true})
	require.True(t, tracker.TryBegin(inFlight))

	*now = now.Add(2 * time.Hour)
	require.True(t, tracker.TryBegin(fresh))
	tracker.Finish(fresh, domain.OrderResult{Success: true})

	// Устаревший итог удален, отправка в процессе осталась
	assert.Equal(t, 2, tracker.Len())
	assert.Equal(t, domain.CheckoutSubmitting, tracker.Status(inFlight).State)
	assert.Equal(t, domain.CheckoutSuccess, tracker.Status(fresh).State)
}

func TestCheckoutTracker_ZeroRetentionKeepsStatuses(t *testing.T) {
	tracker, now := newTrackerWithClock(0)
	sessionID := uuid.New()

	require.True(t, tracker.TryBegin(sessionID))
	tracker.Finish(sessionID, domain.OrderResult{Success: true})

	*now = now.Add(24 * time.Hour)
	assert.Equal(t, domain.CheckoutSuccess, tracker.Status(sessionID).State)
}
