package domain

import "errors"

var (
	// ErrMalformedResponse - удаленный API ответил, но тело не прошло разбор или схему.
	ErrMalformedResponse = errors.New("malformed response from storefront API")
	// ErrStorefrontUnavailable - удаленный API не ответил или ответил не-2xx статусом.
	ErrStorefrontUnavailable = errors.New("storefront API is unavailable")
	// ErrCheckoutInProgress - для сессии уже отправляется заказ.
	ErrCheckoutInProgress = errors.New("checkout is already in progress")
	// ErrInvalidProductID - id товара должен быть положительным целым.
	ErrInvalidProductID = errors.New("product id must be a positive integer")
)
