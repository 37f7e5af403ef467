package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kashan660/sellaap-orders/internal/dal/postgres"
	"github.com/kashan660/sellaap-orders/internal/dal/rabbitmq"
	redisdal "github.com/kashan660/sellaap-orders/internal/dal/redis"
	"github.com/kashan660/sellaap-orders/internal/dal/repositories/audit"
	catalogrepo "github.com/kashan660/sellaap-orders/internal/dal/repositories/catalog/postgres"
	"github.com/kashan660/sellaap-orders/internal/dal/repositories/catalog/rediscache"
	outboxrepo "github.com/kashan660/sellaap-orders/internal/dal/repositories/outbox/postgres"
	"github.com/kashan660/sellaap-orders/internal/otel"
	"github.com/kashan660/sellaap-orders/internal/service/services/catalogsvc"
	"github.com/kashan660/sellaap-orders/internal/service/services/ordersvc"
	httptransport "github.com/kashan660/sellaap-orders/internal/transport/http"
	outboxworker "github.com/kashan660/sellaap-orders/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	transport      *httptransport.HTTPTransport
	worker         *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()
	redisClient := redisdal.MustNewClient()

	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient)
	auditRepository := audit.NewAuditRabbitMQRepository(rabbitClient, outboxRepository)

	catalogRepository := rediscache.NewCachedCatalogRepository(
		catalogrepo.NewPostgresCatalogRepository(postgresClient.Pool()),
		redisClient,
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithCatalogRepository(catalogRepository),
		ordersvc.WithAuditRepository(auditRepository),
		ordersvc.WithLimits(ordersvc.LimitsFromConfig()),
	)
	catalogSvc := catalogsvc.NewCatalogService(catalogRepository)

	transport := httptransport.NewHTTPTransport(orderSvc, catalogSvc)
	transport.RegisterRoutes()

	worker := outboxworker.NewWorker(outboxRepository, rabbitClient)

	return &App{
		orderSvc:       orderSvc,
		transport:      transport,
		worker:         worker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())

	g := &errgroup.Group{}
	g.Go(func() error {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil && err != http.ErrServerClosed {
			return err
		}

		return nil
	})
	g.Go(func() error {
		a.worker.Start(workerCtx)

		return nil
	})

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	cancelWorker()

	if err := g.Wait(); err != nil {
		slog.Error("Runtime error", "error", err)
	}

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
