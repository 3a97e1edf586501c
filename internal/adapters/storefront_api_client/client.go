package storefront_api_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/contracts"
	"storefront-service/internal/core/domain"
	"storefront-service/internal/core/port"
	"strconv"
	"strings"
)

// Client - HTTP-клиент удаленного API магазина (products/reviews/order).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// doRequest - внутренний хелпер для выполнения запросов
func (c *Client) doRequest(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

// GetProductsPage запрашивает одну страницу каталога.
func (c *Client) GetProductsPage(ctx context.Context, page, pageSize int) (domain.ProductPage, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "StorefrontApiClient",
		"method":    "GetProductsPage",
		"page":      page,
		"page_size": pageSize,
	})

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	reqURL := fmt.Sprintf("%s/products?%s", c.baseURL, query.Encode())
	clientLogger.Debug("Sending request to storefront API", port.Fields{"url": reqURL})

	body, err := c.getJSON(ctx, reqURL)
	if err != nil {
		clientLogger.Error("Failed to fetch products page", err, nil)
		return domain.ProductPage{}, err
	}

	var response ProductsPageResponse
	if err := decodeValidated(contracts.SchemaProductsPage, body, &response); err != nil {
		clientLogger.Error("Products page failed validation", err, nil)
		return domain.ProductPage{}, err
	}

	items := make([]domain.Product, len(response.Items))
	for i, dto := range response.Items {
		items[i] = domain.Product{
			ID:          dto.ID,
			Title:       dto.Title,
			Description: derefString(dto.Description),
			Price:       dto.Price,
			ImageURL:    derefString(dto.ImageURL),
		}
	}

	clientLogger.Info("Successfully received products page", port.Fields{"items_count": len(items), "total": response.Total})
	return domain.ProductPage{Items: items, Total: response.Total}, nil
}

// GetReviews запрашивает все отзывы.
func (c *Client) GetReviews(ctx context.Context) ([]domain.Review, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "StorefrontApiClient",
		"method":    "GetReviews",
	})

	reqURL := c.baseURL + "/reviews"
	clientLogger.Debug("Sending request to storefront API", port.Fields{"url": reqURL})

	body, err := c.getJSON(ctx, reqURL)
	if err != nil {
		clientLogger.Error("Failed to fetch reviews", err, nil)
		return nil, err
	}

	var response []ReviewResponse
	if err := decodeValidated(contracts.SchemaReviews, body, &response); err != nil {
		clientLogger.Error("Reviews failed validation", err, nil)
		return nil, err
	}

	reviews := make([]domain.Review, len(response))
	for i, dto := range response {
		review := domain.Review{
			ID:     dto.ID,
			Text:   dto.Text,
			Author: derefString(dto.Author),
			Date:   derefString(dto.Date),
			Tags:   dto.Tags,
		}
		if dto.Rating != nil {
			review.Rating = int(math.Round(*dto.Rating))
		}
		reviews[i] = review
	}

	clientLogger.Info("Successfully received reviews", port.Fields{"reviews_count": len(reviews)})
	return reviews, nil
}

// SubmitOrder отправляет заказ. Явный отказ сервера возвращается как OrderReply
// без ошибки; ошибка означает сбой транспорта или неразборчивый ответ.
func (c *Client) SubmitOrder(ctx context.Context, order domain.OrderRequest) (domain.OrderReply, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "StorefrontApiClient",
		"method":    "SubmitOrder",
		"lines":     len(order.Lines),
	})

	payload := OrderRequest{
		Phone: order.Phone,
		Cart:  make([]OrderLineRequest, len(order.Lines)),
	}
	for i, line := range order.Lines {
		payload.Cart[i] = OrderLineRequest{ID: line.ID, Quantity: line.Quantity}
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return domain.OrderReply{}, fmt.Errorf("failed to marshal order: %w", err)
	}

	reqURL := c.baseURL + "/order"
	clientLogger.Debug("Sending order to storefront API", port.Fields{"url": reqURL})

	resp, err := c.doRequest(ctx, http.MethodPost, reqURL, bytes.NewReader(reqBody))
	if err != nil {
		clientLogger.Error("Failed to perform request to storefront API", err, nil)
		return domain.OrderReply{}, fmt.Errorf("%w: %v", domain.ErrStorefrontUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		clientLogger.Error("Failed to read order response", err, nil)
		return domain.OrderReply{}, fmt.Errorf("failed to read order response: %w", err)
	}

	var response OrderResponse
	decodeErr := decodeValidated(contracts.SchemaOrderResponse, body, &response)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Сервер мог объяснить отказ в теле ответа - тогда это отказ, а не сбой
		if decodeErr == nil && derefString(response.Error) != "" {
			clientLogger.Warn("Order rejected with non-success status code", port.Fields{"status_code": resp.StatusCode})
			return domain.OrderReply{Success: false, ErrorText: derefString(response.Error)}, nil
		}
		err := fmt.Errorf("%w: non-success status code %d: %s", domain.ErrStorefrontUnavailable, resp.StatusCode, string(body))
		clientLogger.Error("Received error response from storefront API", err, port.Fields{"status_code": resp.StatusCode})
		return domain.OrderReply{}, err
	}

	if decodeErr != nil {
		clientLogger.Error("Order response failed validation", decodeErr, nil)
		return domain.OrderReply{}, decodeErr
	}

	reply := domain.OrderReply{Success: response.isSuccess(), ErrorText: derefString(response.Error)}
	clientLogger.Info("Received order response", port.Fields{"success": reply.Success})
	return reply, nil
}

// getJSON выполняет GET и возвращает тело успешного ответа.
func (c *Client) getJSON(ctx context.Context, reqURL string) ([]byte, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorefrontUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: non-success status code %d: %s", domain.ErrStorefrontUnavailable, resp.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// decodeValidated проверяет тело по схеме и раскладывает его в DTO.
// Любая ошибка на этом шаге - domain.ErrMalformedResponse.
func decodeValidated(schemaName string, body []byte, dst interface{}) error {
	if err := contracts.Validate(schemaName, body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}
