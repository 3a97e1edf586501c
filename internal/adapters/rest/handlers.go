package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"storefront-service/internal/adapters/notifier"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"
	"storefront-service/internal/core/port/usecases_port"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const keepAliveInterval = 15 * time.Second

// CartSubscriptions - реестр SSE-соединений, *notifier.SSENotifier ему удовлетворяет.
type CartSubscriptions interface {
	AddClient(sessionID uuid.UUID) notifier.ClientChannel
	RemoveClient(sessionID uuid.UUID, ch notifier.ClientChannel)
}

// StorefrontUseCases - все use case'ы, которые обслуживает REST.
type StorefrontUseCases struct {
	GetStorefront     usecases_port.GetStorefrontUseCasePort
	LoadCatalogPage   usecases_port.LoadCatalogPageUseCasePort
	GetReviews        usecases_port.GetReviewsUseCasePort
	GetCart           usecases_port.GetCartUseCasePort
	AddToCart         usecases_port.AddToCartUseCasePort
	SetQuantity       usecases_port.SetQuantityUseCasePort
	RemoveItem        usecases_port.RemoveItemUseCasePort
	SetPhone          usecases_port.SetPhoneUseCasePort
	SubmitOrder       usecases_port.SubmitOrderUseCasePort
	GetCheckoutStatus usecases_port.GetCheckoutStatusUseCasePort
}

type StorefrontHandler struct {
	uc            StorefrontUseCases
	subscriptions CartSubscriptions
}

func NewStorefrontHandler(uc StorefrontUseCases, subscriptions CartSubscriptions) *StorefrontHandler {
	return &StorefrontHandler{uc: uc, subscriptions: subscriptions}
}

// handlerContext - логгер хендлера и id сессии из SessionMiddleware.
func handlerContext(w http.ResponseWriter, r *http.Request, handler string) (port.LoggerPort, uuid.UUID, bool) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": handler})

	sessionID, ok := contextkeys.SessionIDFromContext(r.Context())
	if !ok {
		logger.Error("Session ID in context invalid or missing", nil, nil)
		WriteJSONError(w, http.StatusBadRequest, "Session ID is required")
		return logger, uuid.Nil, false
	}
	return logger, sessionID, true
}

// writeUseCaseError переводит ошибку use case'а в HTTP-статус.
func writeUseCaseError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidProductID):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCheckoutInProgress):
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrStorefrontUnavailable), errors.Is(err, domain.ErrMalformedResponse):
		WriteJSONError(w, http.StatusBadGateway, fallback)
	default:
		WriteJSONError(w, http.StatusInternalServerError, fallback)
	}
}

// parseProductID читает {productID} из URL. Допустимы только положительные целые.
func parseProductID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidProductID, raw)
	}
	return id, nil
}

// parseQuantity приводит присланное количество к неотрицательному целому.
// Нечисло, отсутствие значения и отрицательные числа дают 0, дробная часть отбрасывается.
// Слишком большие числа ограничиваются domain.MaxLineQuantity.
func parseQuantity(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0
	}

	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= domain.MaxLineQuantity {
		return domain.MaxLineQuantity
	}
	return int(math.Trunc(f))
}

// GetStorefront обрабатывает GET /api/v1/storefront
func (h *StorefrontHandler) GetStorefront(w http.ResponseWriter, r *http.Request) {
	logger, sessionID, ok := handlerContext(w, r, "GetStorefront")
	if !ok {
		return
	}
	logger.Info("Processing request to get storefront", nil)

	result, err := h.uc.GetStorefront.Execute(r.Context(), sessionID)
	if err != nil {
		logger.Error("Get storefront use case failed", err, nil)
		writeUseCaseError(w, err, "Failed to load storefront")
		return
	}

	RespondWithJSON(w, http.StatusOK, toStorefrontResponse(result))
}

// GetProducts обрабатывает GET /api/v1/products?page=n
func (h *StorefrontHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	logger, sessionID, ok := handlerContext(w, r, "GetProducts")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	handlerLogger := logger.WithFields(port.Fields{"page": page})
	handlerLogger.Info("Processing request to load products page", nil)

	result, err := h.uc.LoadCatalogPage.Execute(r.Context(), sessionID, page)
	if err != nil {
		handlerLogger.Error("Load catalog page use case failed", err, nil)
		writeUseCaseError(w, err, "Failed to load products")
		return
	}

	handlerLogger.Info("Successfully loaded products page", port.Fields{
		"loaded":   result.Loaded(),
		"total":    result.Total,
		"has_more": result.HasMore,
	})
	RespondWithJSON(w, http.StatusOK, toCatalogPageResponse(result))
}

// GetReviews обрабатывает GET /api/v1/reviews
func (h *StorefrontHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetReviews"})
	logger.Info("Processing request to get reviews", nil)

	reviews, err := h.uc.GetReviews.Execute(r.Context())
	if err != nil {
		logger.Error("Get reviews use case failed", err, nil)
		writeUseCaseError(w, err, "Failed to load reviews")
		return
	}

	RespondWithJSON(w, http.StatusOK, toReviewResponses(reviews))
}

// GetCart обрабатывает GET /api/v1/cart
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	logger, sessionID, ok := handlerContext(w, r, "GetCart")
	if !ok {
		return
	}

	view, err := h.uc.GetCart.Execute(r.Context(), sessionID)
	if err != nil {
		logger.Error("Get cart use case failed", err, nil)
		writeUseCaseError(w, err, "Failed to load cart")
		return
	}

	RespondWithJSON(w, http.StatusOK, toCartResponse(view))
}

// AddToCart обрабатывает POST /api/v1/cart/items
func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	logger, sessionID, ok := handlerContext(w, r, "AddToCart")
	if !ok {
		return
	}

	var reqDTO AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for add to cart", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"product_id": reqDTO.ProductID})
	handlerLogger.Info("Processing request to add product to cart", nil)

	view, err := h.uc.AddToCart.Execute(r.Context(), sessionID, reqDTO.ProductID)
	if err != nil {
		handlerLogger.Error("Add to cart use case failed", err, nil)
		writeUseCaseError(w, err, "Failed to update cart")
		return
	}

	RespondWithJSON(w, http.StatusOK, toCartResponse(view))
}

// SetQuantity обрабатывает PUT /api/v1/cart/items/{productID}
func (h *StorefrontHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	logger, sessionID, ok := handlerContext(w, r, "SetQuantity")
	if !ok {
		return
	}

	productID, err := parseProductID(r)
	if err != nil {
		logger.Warn("Invalid productID in URL", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid productID in URL")
		return
	}

	var reqDTO SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for set quantity", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	quantity := parseQuantity(reqDTO.Quantity)

	handlerLogger := logger.WithFields(port.Fields{"product_id": productID, "quantity": quantity})
	handlerLogger.Info("Processing request to set quantity", nil)

	view, err := h.uc.SetQuantity.Execute(r.Context(), sessionID, productID, quantity)
	if err != nil {
		handlerLogger.Error("Set quantity use case failed", err, nil)
		writeUseCaseError(w, err, "Failed to update cart")
		return
	}

	RespondWithJSON(w, http.StatusOK, toCartResponse(view))
}

// RemoveItem обрабатывает DELETE /api/v1/cart/items/{productID}
func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	logger, sessionID, ok := handlerContext(w, r, "RemoveItem")
	if !ok {
		return
	}

	productID, err := parseProductID(r)
	if err != nil {
		logger.Warn("Invalid productID in URL", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid productID in URL")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"product_id": productID})
	handlerLogger.Info("Processing request to remove item", nil)

	view, err := h.uc.RemoveItem.Execute(r.Context(), sessionID, productID)
	if err != nil {
		handlerLogger.Error("Remove item use case failed", err, nil)
		writeUseCaseError(w, err, "Failed to update cart")
		return
	}

	RespondWithJSON(w, http.StatusOK, toCartResponse(view))
}

// SetPhone обрабатывает PUT /api/v1/cart/phone
func (h *StorefrontHandler) SetPhone(w http.ResponseWriter, r *http.Request) {
	logger, sessionID, ok := handlerContext(w, r, "SetPhone")
	if !ok {
		return
	}

	var reqDTO SetPhoneRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for set phone", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.uc.SetPhone.Execute(r.Context(), sessionID, reqDTO.Phone)
	if err != nil {
		logger.Error("Set phone use case failed", err, nil)
		writeUseCaseError(w, err, "Failed to save phone")
		return
	}

	RespondWithJSON(w, http.StatusOK, toCartResponse(view))
}

// SubmitOrder обрабатывает POST /api/v1/checkout.
// Невыполненные условия (пустая корзина или телефон) - не ошибка, возвращается текущий статус.
func (h *StorefrontHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	logger, sessionID, ok := handlerContext(w, r, "SubmitOrder")
	if !ok {
		return
	}
	logger.Info("Processing request to submit order", nil)

	status, err := h.uc.SubmitOrder.Execute(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrCheckoutInProgress) {
			logger.Warn("Checkout already in progress", nil)
		} else {
			logger.Error("Submit order use case failed", err, nil)
		}
		writeUseCaseError(w, err, "Failed to submit order")
		return
	}

	logger.Info("Order submission processed", port.Fields{"state": status.State})
	RespondWithJSON(w, http.StatusOK, toCheckoutStatusResponse(status))
}

// GetCheckoutStatus обрабатывает GET /api/v1/checkout
func (h *StorefrontHandler) GetCheckoutStatus(w http.ResponseWriter, r *http.Request) {
	logger, sessionID, ok := handlerContext(w, r, "GetCheckoutStatus")
	if !ok {
		return
	}

	status, err := h.uc.GetCheckoutStatus.Execute(r.Context(), sessionID)
	if err != nil {
		logger.Error("Get checkout status use case failed", err, nil)
		writeUseCaseError(w, err, "Failed to get checkout status")
		return
	}

	RespondWithJSON(w, http.StatusOK, toCheckoutStatusResponse(status))
}

// SubscribeToCart обрабатывает GET /api/v1/cart/subscribe (SSE)
func (h *StorefrontHandler) SubscribeToCart(w http.ResponseWriter, r *http.Request) {
	logger, sessionID, ok := handlerContext(w, r, "SubscribeToCart")
	if !ok {
		return
	}
	logger.Info("New client subscribing to cart events", nil)

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := h.subscriptions.AddClient(sessionID)
	defer h.subscriptions.RemoveClient(sessionID, clientChan)

	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-clientChan:
			if _, err := w.Write(data); err != nil {
				logger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			flush()

		case <-ticker.C:
			// Комментарий SSE: соединение живо, EventSource его игнорирует
			if _, err := fmt.Fprintf(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flush()

		case <-r.Context().Done():
			logger.Info("SSE client disconnected.", nil)
			return
		}
	}
}
