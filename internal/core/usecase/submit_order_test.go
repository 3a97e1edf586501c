package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"storefront-service/internal/adapters/storefront_api_client"
	"storefront-service/internal/constants"
	"storefront-service/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// prepareCheckout кладет в сессию корзину {5:2, 9:1} и телефон.
func prepareCheckout(t *testing.T, f *fixture, phone string) {
	t.Helper()
	ctx := context.Background()
	_, _, err := f.state.MergeCatalogPage(ctx, f.sessionID, []domain.Product{product(5, 50), product(9, 100)})
	require.NoError(t, err)
	_, err = f.state.UpdateCart(ctx, f.sessionID, func(c domain.Cart) domain.Cart {
		return c.WithQuantity(5, 2).WithQuantity(9, 1)
	})
	require.NoError(t, err)
	require.NoError(t, f.state.SetPhone(ctx, f.sessionID, phone))
}

func TestSubmitOrderUseCase_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prepareCheckout(t, f, "+7 (900) 123-45-67")
	events := &fakeOrderEvents{}

	status, err := NewSubmitOrderUseCase(f.api, f.state, f.tracker, events).Execute(ctx, f.sessionID)
	require.NoError(t, err)

	assert.Equal(t, domain.CheckoutSuccess, status.State)
	require.NotNil(t, status.Result)
	assert.True(t, status.Result.Success)
	assert.Equal(t, domain.MessageOrderPlaced, status.Result.Message)

	orders := f.api.submittedOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, "79001234567", orders[0].Phone)
	assert.Equal(t, []domain.OrderLine{{ID: 5, Quantity: 2}, {ID: 9, Quantity: 1}}, orders[0].Lines)

	// Корзина и телефон очищены, пустая корзина опубликована
	_, found, _ := f.store.Get(ctx, f.sessionID, constants.StorageKeyCart)
	assert.False(t, found)
	_, found, _ = f.store.Get(ctx, f.sessionID, constants.StorageKeyPhone)
	assert.False(t, found)
	event, ok := f.bus.last()
	require.True(t, ok)
	assert.True(t, event.Cart.IsEmpty())

	require.Len(t, events.events, 1)
	assert.Equal(t, 3, events.events[0].TotalItems)
	assert.Equal(t, "200", events.events[0].TotalPrice.String())

	assert.Equal(t, domain.CheckoutSuccess, f.tracker.Status(f.sessionID).State)
}

func TestSubmitOrderUseCase_RejectionKeepsCart(t *testing.T) {
	testCases := []struct {
		name            string
		reply           domain.OrderReply
		expectedMessage string
	}{
		{"rejection without text", domain.OrderReply{Success: false}, domain.MessageOrderRejected},
		{"rejection with server text", domain.OrderReply{Success: false, ErrorText: "Нет в наличии"}, "Нет в наличии"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			prepareCheckout(t, f, "+7 900")
			f.api.submitFn = func(ctx context.Context, order domain.OrderRequest) (domain.OrderReply, error) {
				return tc.reply, nil
			}

			before, _, err := f.store.Get(ctx, f.sessionID, constants.StorageKeyCart)
			require.NoError(t, err)
			publishedBefore := len(f.bus.published())

			status, err := NewSubmitOrderUseCase(f.api, f.state, f.tracker, nil).Execute(ctx, f.sessionID)
			require.NoError(t, err)

			assert.Equal(t, domain.CheckoutFailed, status.State)
			require.NotNil(t, status.Result)
			assert.False(t, status.Result.Success)
			assert.Equal(t, tc.expectedMessage, status.Result.Message)

			after, found, err := f.store.Get(ctx, f.sessionID, constants.StorageKeyCart)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, before, after)
			phone, _, _ := f.store.Get(ctx, f.sessionID, constants.StorageKeyPhone)
			assert.Equal(t, "+7 900", phone)
			assert.Len(t, f.bus.published(), publishedBefore)
		})
	}
}

// Ответ удаленного API проходит через настоящий HTTP-клиент,
// итоговое сообщение берется из текста ошибки сервера.
func TestSubmitOrderUseCase_ServerReplyMessages(t *testing.T) {
	testCases := []struct {
		name            string
		status          int
		body            string
		expectedMessage string
	}{
		{"error text without success", http.StatusOK, `{"error": "Товар закончился"}`, "Товар закончился"},
		{"error text on bad request", http.StatusBadRequest, `{"error": "Товар закончился"}`, "Товар закончился"},
		{"empty object", http.StatusOK, `{}`, domain.MessageOrderRejected},
		{"zero success without text", http.StatusOK, `{"success": 0}`, domain.MessageOrderRejected},
		{"server error without body", http.StatusInternalServerError, ``, domain.MessageConnectionFailure},
		{"not a json", http.StatusOK, `<html></html>`, domain.MessageConnectionFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			t.Cleanup(srv.Close)

			f := newFixture(t)
			ctx := context.Background()
			prepareCheckout(t, f, "+7 900")
			api := storefront_api_client.NewClient(srv.URL)

			status, err := NewSubmitOrderUseCase(api, f.state, f.tracker, nil).Execute(ctx, f.sessionID)
			require.NoError(t, err)

			assert.Equal(t, domain.CheckoutFailed, status.State)
			require.NotNil(t, status.Result)
			assert.False(t, status.Result.Success)
			assert.Equal(t, tc.expectedMessage, status.Result.Message)

			snapshot, err := f.state.Load(ctx, f.sessionID)
			require.NoError(t, err)
			assert.Equal(t, domain.Cart{5: 2, 9: 1}, snapshot.Cart)
		})
	}
}

func TestSubmitOrderUseCase_TransportFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prepareCheckout(t, f, "+7 900")
	f.api.submitFn = func(ctx context.Context, order domain.OrderRequest) (domain.OrderReply, error) {
		return domain.OrderReply{}, errors.New("connection refused")
	}
	events := &fakeOrderEvents{}

	status, err := NewSubmitOrderUseCase(f.api, f.state, f.tracker, events).Execute(ctx, f.sessionID)
	require.NoError(t, err)

	assert.Equal(t, domain.CheckoutFailed, status.State)
	assert.Equal(t, domain.MessageConnectionFailure, status.Result.Message)
	assert.Equal(t, domain.CheckoutFailed, f.tracker.Status(f.sessionID).State)
	assert.Empty(t, events.events)

	snapshot, err := f.state.Load(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.Cart{5: 2, 9: 1}, snapshot.Cart)
}

func TestSubmitOrderUseCase_PreconditionsNotMet(t *testing.T) {
	t.Run("blank phone", func(t *testing.T) {
		f := newFixture(t)
		prepareCheckout(t, f, "   ")

		status, err := NewSubmitOrderUseCase(f.api, f.state, f.tracker, nil).Execute(context.Background(), f.sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.CheckoutIdle, status.State)
		assert.Nil(t, status.Result)
		assert.Empty(t, f.api.submittedOrders())
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.state.SetPhone(context.Background(), f.sessionID, "+7 900"))

		status, err := NewSubmitOrderUseCase(f.api, f.state, f.tracker, nil).Execute(context.Background(), f.sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.CheckoutIdle, status.State)
		assert.Empty(t, f.api.submittedOrders())
	})
}

func TestSubmitOrderUseCase_RejectsDuplicateWhileSubmitting(t *testing.T) {
	f := newFixture(t)
	prepareCheckout(t, f, "+7 900")

	release := make(chan struct{})
	f.api.submitFn = func(ctx context.Context, order domain.OrderRequest) (domain.OrderReply, error) {
		<-release
		return domain.OrderReply{Success: true}, nil
	}
	uc := NewSubmitOrderUseCase(f.api, f.state, f.tracker, nil)

	done := make(chan domain.CheckoutStatus, 1)
	go func() {
		status, _ := uc.Execute(context.Background(), f.sessionID)
		done <- status
	}()

	require.Eventually(t, func() bool {
		return f.tracker.Status(f.sessionID).State == domain.CheckoutSubmitting
	}, time.Second, 5*time.Millisecond)

	status, err := uc.Execute(context.Background(), f.sessionID)
	assert.ErrorIs(t, err, domain.ErrCheckoutInProgress)
	assert.Equal(t, domain.CheckoutSubmitting, status.State)

	close(release)
	final := <-done
	assert.Equal(t, domain.CheckoutSuccess, final.State)
	assert.Len(t, f.api.submittedOrders(), 1)
}

func TestSubmitOrderUseCase_OutcomeSurvivesCancelledRequest(t *testing.T) {
	f := newFixture(t)
	prepareCheckout(t, f, "+7 900")

	ctx, cancel := context.WithCancel(context.Background())
	f.api.submitFn = func(callCtx context.Context, order domain.OrderRequest) (domain.OrderReply, error) {
		cancel()
		if callCtx.Err() != nil {
			return domain.OrderReply{}, callCtx.Err()
		}
		return domain.OrderReply{Success: true}, nil
	}

	status, err := NewSubmitOrderUseCase(f.api, f.state, f.tracker, nil).Execute(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutSuccess, status.State)

	snapshot, err := f.state.Load(context.Background(), f.sessionID)
	require.NoError(t, err)
	assert.True(t, snapshot.Cart.IsEmpty())
}

func TestSubmitOrderUseCase_NextAttemptResetsResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prepareCheckout(t, f, "+7 900")

	attempts := 0
	f.api.submitFn = func(ctx context.Context, order domain.OrderRequest) (domain.OrderReply, error) {
		attempts++
		if attempts == 1 {
			return domain.OrderReply{}, errors.New("timeout")
		}
		return domain.OrderReply{Success: true}, nil
	}
	uc := NewSubmitOrderUseCase(f.api, f.state, f.tracker, nil)

	first, err := uc.Execute(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutFailed, first.State)

	second, err := uc.Execute(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutSuccess, second.State)

	status, err := NewGetCheckoutStatusUseCase(f.tracker).Execute(ctx, f.sessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutSuccess, status.State)
	assert.Equal(t, domain.MessageOrderPlaced, status.Result.Message)
}
