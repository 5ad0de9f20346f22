package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tahtam/internal/app/commands"
	dashboardapp "tahtam/internal/app/handlers/dashboard"
	marketapp "tahtam/internal/app/handlers/market"
	rentalapp "tahtam/internal/app/handlers/rental"
	stallapp "tahtam/internal/app/handlers/stall"
	"tahtam/internal/app/middleware"
	appoutbox "tahtam/internal/app/outbox"
	"tahtam/internal/app/queries"
	appuow "tahtam/internal/app/uow"
	"tahtam/internal/infra/broker/kafka"
	"tahtam/internal/infra/config"
	mongodb "tahtam/internal/infra/db/mongo"
	ginserver "tahtam/internal/infra/http/gin"
	"tahtam/internal/infra/obs"
	infraoutbox "tahtam/internal/infra/outbox"
	"tahtam/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: app.readiness,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}
	if app.consumer != nil {
		go func() {
			topics := []string{topicName(cfg.KafkaTopicPrefix, "rental.events.v1")}
			if err := app.consumer.Run(ctx, topics); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("audit consumer stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers  ginserver.Handlers
	readiness map[string]obs.ReadinessCheck
	worker    *infraoutbox.Worker
	consumer  *kafka.Consumer
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		uowFactory appuow.UoWFactory
		box        appoutbox.Outbox
		idStore    middleware.IdempotencyStore
		app        application
	)
	app.readiness = map[string]obs.ReadinessCheck{}

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		app.readiness["mongo"] = client.Ping

		uowFactory = mongodb.Factory{
			DB:              client.DB,
			RentalRepo:      mongodb.NewRentalRepository(client.DB),
			StallRepo:       mongodb.NewStallRepository(client.DB),
			MarketplaceRepo: mongodb.NewMarketplaceRepository(client.DB),
		}
		store := infraoutbox.NewStore(client.DB)
		box = mongodb.NewTransactionalOutbox(store)

		mongoIdem := mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
		if err := mongoIdem.EnsureIndexes(ctx); err != nil {
			logger.Warn("idempotency index creation failed", "error", err)
		}
		idStore = mongoIdem

		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, err
		}
		app.worker = &infraoutbox.Worker{
			Store:       store,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		if group := os.Getenv("KAFKA_AUDIT_GROUP"); group != "" {
			consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, group, nil, kafka.AuditHandler{Logger: logger})
			if err != nil {
				return application{}, err
			}
			app.consumer = consumer
		}
	case "memory":
		uowFactory = memory.Factory{
			RentalRepo:      memory.NewRentalRepository(),
			StallRepo:       memory.NewStallRepository(),
			MarketplaceRepo: memory.NewMarketplaceRepository(),
		}
		box = memory.NewOutbox()
		idStore = memory.NewIdempotencyStore()
	}

	commandBus := commands.NewInMemoryBus()
	encoder := appoutbox.JSONEventEncoder{}
	commands.RegisterHandler(commandBus, rentalapp.CreateBookingGroupCommand{}.Key(), &rentalapp.CreateBookingGroupHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, rentalapp.ApplyPaymentCommand{}.Key(), &rentalapp.ApplyPaymentHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, rentalapp.DeleteLineCommand{}.Key(), &rentalapp.DeleteLineHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, rentalapp.DeleteGroupCommand{}.Key(), &rentalapp.DeleteGroupHandler{
		UoWFactory: uowFactory,
		Outbox:     box,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, stallapp.SaveStallCommand{}.Key(), &stallapp.SaveStallHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, stallapp.DeleteStallCommand{}.Key(), &stallapp.DeleteStallHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, marketapp.SaveMarketplaceCommand{}.Key(), &marketapp.SaveMarketplaceHandler{
		UoWFactory: uowFactory,
	})
	commands.RegisterHandler(commandBus, marketapp.DeleteMarketplaceCommand{}.Key(), &marketapp.DeleteMarketplaceHandler{
		UoWFactory: uowFactory,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, rentalapp.CheckConflictsQuery{}.Key(), &rentalapp.CheckConflictsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, rentalapp.StatementQuery{}.Key(), &rentalapp.StatementHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, rentalapp.ListForViewerQuery{}.Key(), &rentalapp.ListForViewerHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, rentalapp.ListByDateQuery{}.Key(), &rentalapp.ListByDateHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, stallapp.ListByMarketplaceQuery{}.Key(), &stallapp.ListByMarketplaceHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, stallapp.ListByOwnerQuery{}.Key(), &stallapp.ListByOwnerHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, marketapp.ListMarketplacesQuery{}.Key(), &marketapp.ListMarketplacesHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, dashboardapp.StatsQuery{}.Key(), &dashboardapp.StatsHandler{UoWFactory: uowFactory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Logging(logger),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
		middleware.OutboxFlush(box),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
	)

	app.handlers = ginserver.Handlers{
		Rental: ginserver.RentalHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Stall: ginserver.StallHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Market: ginserver.MarketHandler{
			Commands: commandBusWithMiddleware,
			Queries:  queryBusWithMiddleware,
		},
		Dashboard: ginserver.DashboardHandler{
			Queries: queryBusWithMiddleware,
		},
		IdentityMiddleware: ginserver.IdentityMiddleware{}.Handle,
	}
	return app, nil
}

func topicName(prefix, base string) string {
	if prefix != "" {
		return prefix + base
	}
	return base
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
