package notifier

import (
	"context"
	"storefront-service/internal/core/domain"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordingListener struct {
	name string
	log  *[]string
	got  []domain.CartEvent
}

func (l *recordingListener) OnCartUpdate(ctx context.Context, event domain.CartEvent) {
	*l.log = append(*l.log, l.name)
	l.got = append(l.got, event)
}

func TestSyncBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := NewSyncBus()
	var calls []string
	first := &recordingListener{name: "first", log: &calls}
	second := &recordingListener{name: "second", log: &calls}

	bus.Subscribe(first)
	bus.Subscribe(second)
	bus.Publish(context.Background(), domain.CartEvent{Type: domain.EventCartUpdated, Cart: domain.Cart{1: 1}})

	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, domain.Cart{1: 1}, second.got[0].Cart)
}

func TestSyncBus_SubscribeIsIdempotent(t *testing.T) {
	bus := NewSyncBus()
	var calls []string
	listener := &recordingListener{name: "l", log: &calls}

	bus.Subscribe(listener)
	bus.Subscribe(listener)
	assert.Equal(t, 1, bus.Len())

	bus.Publish(context.Background(), domain.CartEvent{})
	assert.Len(t, calls, 1)
}

func TestSyncBus_Unsubscribe(t *testing.T) {
	bus := NewSyncBus()
	var calls []string
	listener := &recordingListener{name: "l", log: &calls}
	stranger := &recordingListener{name: "s", log: &calls}

	bus.Subscribe(listener)
	bus.Unsubscribe(stranger)
	assert.Equal(t, 1, bus.Len())

	bus.Unsubscribe(listener)
	bus.Unsubscribe(listener)
	assert.Equal(t, 0, bus.Len())

	bus.Publish(context.Background(), domain.CartEvent{})
	assert.Empty(t, calls)
}

func TestSyncBus_LateSubscriberSeesOnlyLaterEvents(t *testing.T) {
	bus := NewSyncBus()
	var calls []string
	early := &recordingListener{name: "early", log: &calls}
	late := &recordingListener{name: "late", log: &calls}
	sessionID := uuid.New()

	bus.Subscribe(early)
	bus.Publish(context.Background(), domain.CartEvent{SessionID: sessionID, Cart: domain.Cart{1: 1}})
	bus.Subscribe(late)
	bus.Publish(context.Background(), domain.CartEvent{SessionID: sessionID, Cart: domain.Cart{1: 2}})

	assert.Len(t, early.got, 2)
	assert.Len(t, late.got, 1)
	assert.Equal(t, domain.Cart{1: 2}, late.got[0].Cart)
}

func TestSyncBus_PublishWithoutListeners(t *testing.T) {
	assert.NotPanics(t, func() {
		NewSyncBus().Publish(context.Background(), domain.CartEvent{})
	})
}
