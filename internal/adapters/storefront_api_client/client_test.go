package storefront_api_client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"storefront-service/internal/contextkeys"
	"storefront-service/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestClient_GetProductsPage(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("page_size"))
		assert.Equal(t, "trace-1", r.Header.Get("X-Trace-ID"))

		w.Write([]byte(`{
			"items": [
				{"id": 1, "title": "Чай", "description": null, "price": 120.5, "image_url": "http://img/1.png"},
				{"id": 2, "title": "Кофе", "price": 300}
			],
			"total": 22
		}`))
	})

	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-1")
	page, err := client.GetProductsPage(ctx, 2, 20)
	require.NoError(t, err)

	assert.Equal(t, 22, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Чай", page.Items[0].Title)
	assert.Equal(t, "120.5", page.Items[0].Price.String())
	assert.Equal(t, "", page.Items[0].Description)
	assert.Equal(t, "http://img/1.png", page.Items[0].ImageURL)
	assert.Equal(t, "300", page.Items[1].Price.String())
}

func TestClient_MalformedResponses(t *testing.T) {
	testCases := []struct {
		name string
		body string
		call func(c *Client) error
	}{
		{
			name: "products page without total",
			body: `{"items": []}`,
			call: func(c *Client) error { _, err := c.GetProductsPage(context.Background(), 1, 20); return err },
		},
		{
			name: "product with string price",
			body: `{"items": [{"id": 1, "title": "x", "price": "abc"}], "total": 1}`,
			call: func(c *Client) error { _, err := c.GetProductsPage(context.Background(), 1, 20); return err },
		},
		{
			name: "reviews is not an array",
			body: `{"id": 1}`,
			call: func(c *Client) error { _, err := c.GetReviews(context.Background()); return err },
		},
		{
			name: "not a json at all",
			body: `<html>oops</html>`,
			call: func(c *Client) error { _, err := c.GetReviews(context.Background()); return err },
		},
		{
			name: "order response with numeric error",
			body: `{"error": 42}`,
			call: func(c *Client) error {
				_, err := c.SubmitOrder(context.Background(), domain.OrderRequest{Phone: "1"})
				return err
			},
		},
		{
			name: "order response is an array",
			body: `[]`,
			call: func(c *Client) error {
				_, err := c.SubmitOrder(context.Background(), domain.OrderRequest{Phone: "1"})
				return err
			},
		},
		{
			name: "order response with unexpected success",
			body: `{"success": "yes"}`,
			call: func(c *Client) error {
				_, err := c.SubmitOrder(context.Background(), domain.OrderRequest{Phone: "1"})
				return err
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})
			err := tc.call(client)
			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}

func TestClient_NonSuccessStatusIsUnavailable(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetReviews(context.Background())
	assert.ErrorIs(t, err, domain.ErrStorefrontUnavailable)
}

func TestClient_GetReviews(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reviews", r.URL.Path)
		w.Write([]byte(`[
			{"id": 1, "text": "<p>ok</p>", "author": "Анна", "rating": 4.6, "tags": ["a"]},
			{"id": 2, "text": "plain", "author": null, "rating": null}
		]`))
	})

	reviews, err := client.GetReviews(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Анна", reviews[0].Author)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, []string{"a"}, reviews[0].Tags)
	assert.Equal(t, "", reviews[1].Author)
	assert.Equal(t, 0, reviews[1].Rating)
}

func TestClient_SubmitOrder(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected domain.OrderReply
	}{
		{"numeric success", http.StatusOK, `{"success": 1}`, domain.OrderReply{Success: true}},
		{"boolean success", http.StatusOK, `{"success": true}`, domain.OrderReply{Success: true}},
		{"rejection with text", http.StatusOK, `{"success": 0, "error": "Неверный телефон"}`, domain.OrderReply{Success: false, ErrorText: "Неверный телефон"}},
		{"rejection with non-2xx status", http.StatusBadRequest, `{"success": 0, "error": "Пустая корзина"}`, domain.OrderReply{Success: false, ErrorText: "Пустая корзина"}},
		{"error text without success", http.StatusOK, `{"error": "Товар закончился"}`, domain.OrderReply{Success: false, ErrorText: "Товар закончился"}},
		{"error text without success on non-2xx", http.StatusBadRequest, `{"error": "Товар закончился"}`, domain.OrderReply{Success: false, ErrorText: "Товар закончился"}},
		{"empty object", http.StatusOK, `{}`, domain.OrderReply{Success: false}},
		{"null error", http.StatusOK, `{"success": 0, "error": null}`, domain.OrderReply{Success: false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/order", r.URL.Path)

				body, err := io.ReadAll(r.Body)
				assert.NoError(t, err)
				var sent OrderRequest
				assert.NoError(t, json.Unmarshal(body, &sent))
				assert.Equal(t, "79001234567", sent.Phone)
				assert.Equal(t, []OrderLineRequest{{ID: 5, Quantity: 2}, {ID: 9, Quantity: 1}}, sent.Cart)

				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			order := domain.NewOrderRequest("+7 (900) 123-45-67", domain.Cart{5: 2, 9: 1})
			reply, err := client.SubmitOrder(context.Background(), order)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, reply)
		})
	}
}

func TestClient_SubmitOrderServerErrorWithoutText(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`internal error`))
	})

	_, err := client.SubmitOrder(context.Background(), domain.OrderRequest{Phone: "1"})
	assert.ErrorIs(t, err, domain.ErrStorefrontUnavailable)
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client := NewClient(srv.URL)
	srv.Close()

	_, err := client.SubmitOrder(context.Background(), domain.OrderRequest{Phone: "1"})
	assert.ErrorIs(t, err, domain.ErrStorefrontUnavailable)
}
