package usecase

import (
	"context"
	"storefront-service/internal/adapters/storage/memory"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeAPI struct {
	mu sync.Mutex

	pages      map[int]domain.ProductPage
	pageErr    error
	reviews    []domain.Review
	reviewsErr error
	submitFn   func(ctx context.Context, order domain.OrderRequest) (domain.OrderReply, error)

	pageCalls []int
	orders    []domain.OrderRequest
}

func (f *fakeAPI) GetProductsPage(ctx context.Context, page, pageSize int) (domain.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls = append(f.pageCalls, page)
	if f.pageErr != nil {
		return domain.ProductPage{}, f.pageErr
	}
	return f.pages[page], nil
}

func (f *fakeAPI) GetReviews(ctx context.Context) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reviewsErr != nil {
		return nil, f.reviewsErr
	}
	return f.reviews, nil
}

func (f *fakeAPI) SubmitOrder(ctx context.Context, order domain.OrderRequest) (domain.OrderReply, error) {
	f.mu.Lock()
	f.orders = append(f.orders, order)
	submit := f.submitFn
	f.mu.Unlock()

	if submit == nil {
		return domain.OrderReply{Success: true}, nil
	}
	return submit(ctx, order)
}

func (f *fakeAPI) submittedOrders() []domain.OrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.OrderRequest(nil), f.orders...)
}

// recordingBus - шина, которая запоминает опубликованные события.
type recordingBus struct {
	mu     sync.Mutex
	events []domain.CartEvent
}

func (b *recordingBus) Publish(ctx context.Context, event domain.CartEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) Subscribe(listener port.CartListener)   {}
func (b *recordingBus) Unsubscribe(listener port.CartListener) {}

func (b *recordingBus) published() []domain.CartEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.CartEvent(nil), b.events...)
}

func (b *recordingBus) last() (domain.CartEvent, bool) {
	events := b.published()
	if len(events) == 0 {
		return domain.CartEvent{}, false
	}
	return events[len(events)-1], true
}

type fakeOrderEvents struct {
	mu     sync.Mutex
	events []domain.OrderSubmittedEvent
	err    error
}

func (f *fakeOrderEvents) PublishOrderSubmitted(ctx context.Context, event domain.OrderSubmittedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type fixture struct {
	store     *memory.SessionStore
	bus       *recordingBus
	api       *fakeAPI
	state     *CartState
	tracker   *CheckoutTracker
	sessionID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewSessionStore()
	bus := &recordingBus{}
	return &fixture{
		store:     store,
		bus:       bus,
		api:       &fakeAPI{pages: map[int]domain.ProductPage{}},
		state:     NewCartState(store, bus),
		tracker:   NewCheckoutTracker(),
		sessionID: uuid.New(),
	}
}

func product(id int, price int64) domain.Product {
	return domain.Product{ID: id, Title: "product", Price: decimal.NewFromInt(price)}
}

func productsRange(from, to int, price int64) []domain.Product {
	out := make([]domain.Product, 0, to-from+1)
	for id := from; id <= to; id++ {
		out = append(out, product(id, price))
	}
	return out
}
