package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"storefront-service/internal/constants"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"
	"sync"

	"github.com/google/uuid"
)

// CartState - единственный владелец корзины, телефона и снимка каталога сессии.
// Любое изменение корзины сначала сохраняется, потом публикуется в шину.
type CartState struct {
	store port.SessionStorePort
	bus   port.SyncBusPort
	locks *sessionLocks
}

func NewCartState(store port.SessionStorePort, bus port.SyncBusPort) *CartState {
	return &CartState{
		store: store,
		bus:   bus,
		locks: newSessionLocks(),
	}
}

// SessionSnapshot - согласованное состояние одной сессии.
type SessionSnapshot struct {
	Cart    domain.Cart
	Phone   string
	Catalog *domain.Catalog
}

// Load читает корзину, телефон и каталог сессии.
func (s *CartState) Load(ctx context.Context, sessionID uuid.UUID) (SessionSnapshot, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return SessionSnapshot{}, err
	}
	phone, err := s.loadPhone(ctx, sessionID)
	if err != nil {
		return SessionSnapshot{}, err
	}
	catalog, err := s.loadCatalog(ctx, sessionID)
	if err != nil {
		return SessionSnapshot{}, err
	}
	return SessionSnapshot{Cart: cart, Phone: phone, Catalog: catalog}, nil
}

// UpdateCart применяет mutate к текущей корзине, сохраняет результат целиком
// и публикует событие с новой корзиной и снимком каталога.
func (s *CartState) UpdateCart(ctx context.Context, sessionID uuid.UUID, mutate func(domain.Cart) domain.Cart) (domain.Cart, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	current, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next := mutate(current).Normalized()

	if err := s.saveCart(ctx, sessionID, next); err != nil {
		return nil, err
	}

	catalog, err := s.loadCatalog(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sessionID, next, catalog)
	return next, nil
}

// SetPhone сохраняет телефон в том виде, в каком его ввел покупатель.
func (s *CartState) SetPhone(ctx context.Context, sessionID uuid.UUID, phone string) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	if err := s.store.Set(ctx, sessionID, constants.StorageKeyPhone, phone); err != nil {
		return fmt.Errorf("failed to save phone: %w", err)
	}
	return nil
}

// MergeCatalogPage дописывает страницу в каталог сессии и сохраняет его.
// Если страница принесла новые товары, корзина переопубликовывается с новым снимком.
func (s *CartState) MergeCatalogPage(ctx context.Context, sessionID uuid.UUID, items []domain.Product) (*domain.Catalog, int, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	catalog, err := s.loadCatalog(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}

	added := catalog.AppendPage(items)
	if added == 0 {
		return catalog, 0, nil
	}

	body, err := json.Marshal(catalog.Products())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal products: %w", err)
	}
	if err := s.store.Set(ctx, sessionID, constants.StorageKeyProducts, string(body)); err != nil {
		return nil, 0, fmt.Errorf("failed to save products: %w", err)
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}
	s.publish(ctx, sessionID, cart, catalog)
	return catalog, added, nil
}

// Clear стирает корзину и телефон после подтвержденного заказа
// и публикует пустую корзину.
func (s *CartState) Clear(ctx context.Context, sessionID uuid.UUID) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	if err := s.store.Delete(ctx, sessionID, constants.StorageKeyCart, constants.StorageKeyPhone); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	catalog, err := s.loadCatalog(ctx, sessionID)
	if err != nil {
		return err
	}
	s.publish(ctx, sessionID, domain.NewCart(), catalog)
	return nil
}

func (s *CartState) publish(ctx context.Context, sessionID uuid.UUID, cart domain.Cart, catalog *domain.Catalog) {
	s.bus.Publish(ctx, domain.CartEvent{
		Type:      domain.EventCartUpdated,
		SessionID: sessionID,
		Cart:      cart.Clone(),
		Products:  catalog.Products(),
	})
}

func (s *CartState) loadCart(ctx context.Context, sessionID uuid.UUID) (domain.Cart, error) {
	raw, found, err := s.store.Get(ctx, sessionID, constants.StorageKeyCart)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if !found || raw == "" {
		return domain.NewCart(), nil
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// Поврежденная запись не должна ломать витрину
		contextkeys.LoggerFromContext(ctx).Warn("Stored cart is corrupted, starting with an empty cart", port.Fields{
			"component":  "CartState",
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return domain.NewCart(), nil
	}
	return cart.Normalized(), nil
}

func (s *CartState) saveCart(ctx context.Context, sessionID uuid.UUID, cart domain.Cart) error {
	body, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := s.store.Set(ctx, sessionID, constants.StorageKeyCart, string(body)); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *CartState) loadPhone(ctx context.Context, sessionID uuid.UUID) (string, error) {
	phone, _, err := s.store.Get(ctx, sessionID, constants.StorageKeyPhone)
	if err != nil {
		return "", fmt.Errorf("failed to load phone: %w", err)
	}
	return phone, nil
}

func (s *CartState) loadCatalog(ctx context.Context, sessionID uuid.UUID) (*domain.Catalog, error) {
	raw, found, err := s.store.Get(ctx, sessionID, constants.StorageKeyProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if !found || raw == "" {
		return domain.NewCatalog(nil), nil
	}

	var products []domain.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Stored products are corrupted, starting with an empty catalog", port.Fields{
			"component":  "CartState",
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return domain.NewCatalog(nil), nil
	}
	return domain.NewCatalog(products), nil
}

// sessionLocks сериализует read-modify-write внутри одной сессии.
// Запись удаляется, когда ее больше никто не держит.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[uuid.UUID]*sessionLock)}
}

func (l *sessionLocks) lock(sessionID uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[sessionID]
	if !ok {
		entry = &sessionLock{}
		l.locks[sessionID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, sessionID)
		}
		l.mu.Unlock()
	}
}
