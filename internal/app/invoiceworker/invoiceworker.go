// Package invoiceworker собирает воркер инвойсов: потребителя очереди
// начислений, записывающего события в строки инвойсов арендаторов.
package invoiceworker

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/rkonweb/pre-school-sub006/internal/config"
	"github.com/rkonweb/pre-school-sub006/internal/lib/rabbitmq"
	invoiceservice "github.com/rkonweb/pre-school-sub006/internal/services/invoice"
	"github.com/rkonweb/pre-school-sub006/internal/storage/repository"
)

// App объединяет соединения и сервис воркера инвойсов.
type App struct {
	conn           *amqp.Connection
	ch             *amqp.Channel
	invoiceService *invoiceservice.Service
	db             *repository.Storage
	logger         *slog.Logger
}

// New создаёт App воркера: хранилище, очередь и сервис инвойсов.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.AddressRabbitMQ, cfg.ConnectRetries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetBillingQueues())
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	invoiceService := invoiceservice.New(db, logger)

	return &App{
		conn:           conn,
		ch:             ch,
		invoiceService: invoiceService,
		db:             db,
		logger:         logger,
	}, nil
}

// Run запускает потребителя очереди начислений и ждёт отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.ChargeQueueName, func(body []byte) error {
		return a.invoiceService.HandleChargeMessage(ctx, body)
	})
	if err != nil {
		a.logger.Error("failed to start charge queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("invoice worker shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close database", slog.Any("err", err))
	}

	return nil
}
