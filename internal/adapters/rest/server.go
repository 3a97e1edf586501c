package rest

import (
	"context"
	"fmt"
	"net/http"
	core_port "storefront-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server - REST API витрины.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает chi-роутер со всеми маршрутами. Отдельно от NewServer ради тестов.
func NewRouter(handlers *StorefrontHandler, allowedOrigins []string, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", SessionHeader, "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Отзывы общие для всех и сессии не требуют
		r.Get("/reviews", handlers.GetReviews)

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware)

			r.Get("/storefront", handlers.GetStorefront)
			r.Get("/products", handlers.GetProducts)

			r.Get("/cart", handlers.GetCart)
			r.Get("/cart/subscribe", handlers.SubscribeToCart)
			r.Post("/cart/items", handlers.AddToCart)
			r.Put("/cart/items/{productID}", handlers.SetQuantity)
			r.Delete("/cart/items/{productID}", handlers.RemoveItem)
			r.Put("/cart/phone", handlers.SetPhone)

			r.Post("/checkout", handlers.SubmitOrder)
			r.Get("/checkout", handlers.GetCheckoutStatus)
		})
	})

	return r
}

func NewServer(port string, handlers *StorefrontHandler, allowedOrigins []string, baseLogger core_port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: NewRouter(handlers, allowedOrigins, baseLogger),
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger,
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
