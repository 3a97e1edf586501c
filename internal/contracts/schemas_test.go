package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		schema  string
		body    string
		wantErr bool
	}{
		{"valid page", SchemaProductsPage, `{"items":[{"id":1,"title":"a","price":10}],"total":1}`, false},
		{"product without price", SchemaProductsPage, `{"items":[{"id":1,"title":"a"}],"total":1}`, true},
		{"negative total", SchemaProductsPage, `{"items":[],"total":-1}`, true},
		{"valid reviews", SchemaReviews, `[{"id":1,"text":"t","rating":4.5}]`, false},
		{"review without text", SchemaReviews, `[{"id":1}]`, true},
		{"numeric success", SchemaOrderResponse, `{"success":1}`, false},
		{"boolean success with error", SchemaOrderResponse, `{"success":false,"error":"no"}`, false},
		{"success out of enum", SchemaOrderResponse, `{"success":2}`, true},
		{"error without success", SchemaOrderResponse, `{"error":"нет в наличии"}`, false},
		{"empty order response", SchemaOrderResponse, `{}`, false},
		{"non-string error", SchemaOrderResponse, `{"error":1}`, true},
		{"invalid json", SchemaOrderResponse, `{`, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.schema, []byte(tc.body))
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	assert.Error(t, Validate("nope", []byte(`{}`)))
}
