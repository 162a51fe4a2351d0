// Package billing собирает сервис биллинга из составных частей: хранилища,
// миграций, кеша, очереди и HTTP-сервера с маршрутами.
package billing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/rkonweb/pre-school-sub006/internal/cache"
	"github.com/rkonweb/pre-school-sub006/internal/config"
	"github.com/rkonweb/pre-school-sub006/internal/lib/jwt"
	"github.com/rkonweb/pre-school-sub006/internal/lib/rabbitmq"
	"github.com/rkonweb/pre-school-sub006/internal/migrations"
	invoiceservice "github.com/rkonweb/pre-school-sub006/internal/services/invoice"
	planservice "github.com/rkonweb/pre-school-sub006/internal/services/plan"
	subservice "github.com/rkonweb/pre-school-sub006/internal/services/subscription"
	"github.com/rkonweb/pre-school-sub006/internal/storage/repository"
)

// App объединяет HTTP-сервер и внешние соединения сервиса биллинга.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	rabbitMQ *amqp.Connection
}

// New создаёт App: подключает хранилище, прогоняет миграции, поднимает
// кеш и очередь, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbitMQ, cfg.ConnectRetries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	rabbitChan, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetBillingQueues())
	if err != nil {
		return nil, err
	}

	planService := planservice.New(db, cacheRedis, logger)
	subscriptionService := subservice.New(db, planService,
		subservice.ChannelPublisher{Ch: rabbitChan}, logger)
	invoiceService := invoiceservice.New(db, logger)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, jwtMaker, planService, subscriptionService, invoiceService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		rabbitMQ: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и ждёт отмены контекста для мягкой остановки.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.rabbitMQ.Close()
		_ = a.db.DB.Close()
		return err
	}
}
