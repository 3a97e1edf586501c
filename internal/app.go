package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	logger_adapter "storefront-service/internal/adapters/logger"
	"storefront-service/internal/adapters/notifier"
	rabbitmq_adapter "storefront-service/internal/adapters/rabbitmq"
	"storefront-service/internal/adapters/rest"
	"storefront-service/internal/adapters/storage/memory"
	postgres_adapter "storefront-service/internal/adapters/storage/postgres"
	"storefront-service/internal/adapters/storefront_api_client"
	"storefront-service/internal/configs"
	"storefront-service/internal/constants"
	"storefront-service/internal/core/port"
	"storefront-service/internal/core/usecase"
	fluentlogger "storefront-service/pkg/fluent_logger"
	"storefront-service/pkg/postgres"
	"storefront-service/pkg/rabbitmq/rabbitmq_common"
	"storefront-service/pkg/rabbitmq/rabbitmq_producer"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	apiServer *rest.Server

	rabbitMQConnManager *rabbitmq_common.ConnectionManager
	orderProducer       *rabbitmq_producer.Publisher

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ ---
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	application := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}

	// --- 3. ХРАНИЛИЩЕ СЕССИЙ ---
	var sessionStore port.SessionStorePort
	switch appConfig.Storage.Driver {
	case configs.StorageDriverPostgres:
		dbPool, err := postgres.NewClient(context.Background(), postgres.Config{
			DatabaseURL:    appConfig.Storage.DatabaseURL,
			MaxConns:       appConfig.Storage.MaxConns,
			ConnectTimeout: 10 * time.Second,
		})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		application.dbPool = dbPool
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		if err := postgres_adapter.EnsureSchema(context.Background(), dbPool); err != nil {
			appLogger.Error("Failed to apply session storage schema", err, nil)
			application.closeResources()
			return nil, err
		}

		pgStore, err := postgres_adapter.NewPostgresSessionStore(dbPool)
		if err != nil {
			application.closeResources()
			return nil, fmt.Errorf("failed to create postgres session store: %w", err)
		}
		sessionStore = pgStore
	default:
		sessionStore = memory.NewSessionStore()
		appLogger.Warn("Using in-memory session storage, carts are lost on restart", nil)
	}

	// --- 4. ШИНА КОРЗИНЫ И SSE ---
	syncBus := notifier.NewSyncBus()
	sseNotifier := notifier.NewSSENotifier(baseLogger)
	syncBus.Subscribe(sseNotifier)

	// --- 5. КЛИЕНТ УДАЛЕННОГО API ---
	apiClient := storefront_api_client.NewCachedClient(
		storefront_api_client.NewClient(appConfig.StorefrontAPI.BaseURL),
		appConfig.StorefrontAPI.ReviewsTTL,
		appConfig.StorefrontAPI.ProductsTTL,
	)

	// --- 6. СОБЫТИЯ ЗАКАЗОВ (опционально) ---
	var orderEvents port.OrderEventsPort
	if appConfig.RabbitMQ.Enabled {
		rmqLogger := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))

		connManager, err := rabbitmq_common.NewConnectionManager(rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL}, rmqLogger)
		if err != nil {
			appLogger.Error("Failed to create RabbitMQ connection manager", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create rabbitmq connection manager: %w", err)
		}
		application.rabbitMQConnManager = connManager

		producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName:             appConfig.RabbitMQ.ExchangeName,
			ExchangeType:             "topic",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rmqLogger,
		}, connManager)
		if err != nil {
			appLogger.Error("Failed to create order events producer", err, nil)
			application.closeResources()
			return nil, fmt.Errorf("failed to create rabbitmq producer: %w", err)
		}
		application.orderProducer = producer

		orderEvents, err = rabbitmq_adapter.NewOrderEventsPublisher(producer, constants.RoutingKeyOrderSubmitted)
		if err != nil {
			application.closeResources()
			return nil, err
		}
		appLogger.Info("Order events publisher initialized", port.Fields{"exchange": appConfig.RabbitMQ.ExchangeName})
	}

	// --- 7. USE CASES ---
	cartState := usecase.NewCartState(sessionStore, syncBus)
	checkoutTracker := usecase.NewCheckoutTrackerWithRetention(appConfig.Checkout.StatusRetention)
	pageSize := appConfig.StorefrontAPI.PageSize

	setQuantityUseCase := usecase.NewSetQuantityUseCase(cartState, checkoutTracker)
	useCases := rest.StorefrontUseCases{
		GetStorefront:     usecase.NewGetStorefrontUseCase(apiClient, cartState, checkoutTracker, pageSize),
		LoadCatalogPage:   usecase.NewLoadCatalogPageUseCase(apiClient, cartState, pageSize),
		GetReviews:        usecase.NewGetReviewsUseCase(apiClient),
		GetCart:           usecase.NewGetCartUseCase(cartState, checkoutTracker),
		AddToCart:         usecase.NewAddToCartUseCase(cartState, checkoutTracker),
		SetQuantity:       setQuantityUseCase,
		RemoveItem:        usecase.NewRemoveItemUseCase(setQuantityUseCase),
		SetPhone:          usecase.NewSetPhoneUseCase(cartState, checkoutTracker),
		SubmitOrder:       usecase.NewSubmitOrderUseCase(apiClient, cartState, checkoutTracker, orderEvents),
		GetCheckoutStatus: usecase.NewGetCheckoutStatusUseCase(checkoutTracker),
	}
	appLogger.Info("Use cases initialized.", nil)

	// --- 8. REST API ---
	apiHandlers := rest.NewStorefrontHandler(useCases, sseNotifier)
	application.apiServer = rest.NewServer(appConfig.Rest.PORT, apiHandlers, appConfig.Rest.CORSAllowedOrigins, baseLogger)
	appLogger.Info("REST API server configured.", nil)

	return application, nil
}

// Run запускает HTTP-сервер и ждет сигнала на завершение.
func (a *App) Run() error {
	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			if err := a.apiServer.Stop(ctx); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
			cancel()
		}

		a.closeResources()
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("Server failed, shutting down", err, nil)
		return err
	}

	return nil
}

// closeResources закрывает все, что было успешно открыто. Fluent закрывается последним.
func (a *App) closeResources() {
	if a.orderProducer != nil {
		if err := a.orderProducer.Close(); err != nil {
			a.logger.Error("Error closing order events producer", err, nil)
		}
		a.orderProducer = nil
	}

	if a.rabbitMQConnManager != nil {
		if err := a.rabbitMQConnManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
		a.rabbitMQConnManager = nil
	}

	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
		a.dbPool = nil
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен, пишем в stdout
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
		a.fluentClient = nil
	}
}
