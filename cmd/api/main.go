package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/8agana/photography-mind/config"
	"github.com/8agana/photography-mind/internal/platform/database"
	"github.com/8agana/photography-mind/internal/platform/middleware"
	"github.com/8agana/photography-mind/internal/platform/tracing"
	"github.com/8agana/photography-mind/internal/repositories/importrun"
	"github.com/8agana/photography-mind/internal/repositories/order"
	"github.com/8agana/photography-mind/pkg/edges"
	"github.com/8agana/photography-mind/pkg/events"
	"github.com/8agana/photography-mind/pkg/graph"
	"github.com/8agana/photography-mind/pkg/importer"
	"github.com/8agana/photography-mind/pkg/kafka"
	"github.com/8agana/photography-mind/pkg/models"
	"github.com/8agana/photography-mind/pkg/resolver"
	"github.com/8agana/photography-mind/pkg/routes/competition"
	"github.com/8agana/photography-mind/pkg/routes/family"
	"github.com/8agana/photography-mind/pkg/routes/health"
	"github.com/8agana/photography-mind/pkg/routes/imports"
	"github.com/8agana/photography-mind/pkg/routes/shoot"
	"github.com/8agana/photography-mind/pkg/routes/stats"
)

var version = "dev"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	logger := newLogger(cfg)
	ctx := context.Background()

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	tracing.SetTracer(otel.Tracer(cfg.AppName))

	// Postgres holds the import run and order ledgers. The service runs
	// without it; imports just lose their audit trail.
	var db database.DB
	var runsRepo *importrun.Repository
	var ordersRepo *order.Repository
	if cfg.DatabaseHost != "" {
		sqlxDB, err := connectDatabase(cfg)
		if err != nil {
			logger.WithContext(ctx).WithError(err).Error("Failed to connect to database, ledgers disabled")
		} else {
			db = database.NewDatabaseInstance(sqlxDB, logger)
			if err := runMigrations(cfg, sqlxDB, logger); err != nil {
				logger.WithContext(ctx).WithError(err).Error("Failed to run migrations")
				os.Exit(1)
			}
			runsRepo = importrun.NewRepository(db, logger)
			ordersRepo = order.NewRepository(db, logger)
		}
	}

	graphClient, err := graph.NewClient(graph.Config{
		Host:     cfg.GraphDBHost,
		Port:     cfg.GraphDBPort,
		Username: cfg.GraphDBUser,
		Password: cfg.GraphDBPassword,
	}, logger)
	if err != nil {
		logger.WithContext(ctx).WithError(err).Error("Failed to create graph client")
		os.Exit(1)
	}
	defer graphClient.Close(ctx)

	store := graph.NewGraph(graphClient, logger)
	queryService := graph.NewQueryService(graphClient, logger)

	var producer *kafka.Producer
	var deliverySink edges.EventSink
	var importSink importer.EventSink
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
		defer producer.Close()

		emitter := events.NewEmitter(producer, logger)
		deliverySink = emitter
		importSink = emitter
	}

	res := resolver.New(store, nil, logger)
	engine := edges.NewEngine(store, logger)
	delivery := edges.NewDeliveryService(engine, deliverySink, logger)

	var runLedger importer.RunLedger
	var orderLedger importer.OrderLedger
	if runsRepo != nil {
		runLedger = runsRepo
	}
	if ordersRepo != nil {
		orderLedger = ordersRepo
	}
	importService := importer.NewService(store, res, engine, runLedger, orderLedger, importSink, logger)

	var consumer *kafka.Consumer
	if cfg.KafkaConsumerEnabled {
		consumer = kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaImportTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		}, logger, importHandler(importService))
		if err := consumer.Start(ctx); err != nil {
			logger.WithContext(ctx).WithError(err).Error("Failed to start Kafka consumer")
			os.Exit(1)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
	}))
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	healthChecker := health.NewChecker(db, graphClient, version)
	healthChecker.RegisterRoutes(e)

	api := e.Group("/api/v1")
	family.NewHandler(res, queryService, ordersRepo, logger).Register(api.Group("/families"))
	shoot.NewHandler(res, delivery, queryService, ordersRepo, logger).Register(api.Group("/shoots"))
	competition.NewHandler(res, delivery, queryService, logger).Register(api.Group("/competitions"))
	imports.NewHandler(importService, runsRepo, logger).Register(api.Group("/imports"))
	stats.NewHandler(queryService, logger).Register(api.Group("/stats"))

	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes

	go func() {
		healthChecker.SetReady(true)
		if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			logger.WithContext(ctx).WithError(err).Error("Server stopped")
			os.Exit(1)
		}
	}()

	logger.WithContext(ctx).WithFields(map[string]any{
		"app":  cfg.AppName,
		"port": cfg.Port,
	}).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithContext(ctx).Info("Shutting down")
	healthChecker.SetReady(false)

	if consumer != nil {
		if err := consumer.Stop(); err != nil {
			logger.WithContext(ctx).WithError(err).Error("Failed to stop Kafka consumer")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithContext(ctx).WithError(err).Error("Failed to shut down server")
	}
}

func newLogger(cfg config.Config) ectologger.Logger {
	var zapLogger *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func connectDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword, cfg.DatabaseName, cfg.DatabaseSSLMode,
	)

	db, err := sqlx.Connect(cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)
	return db, nil
}

func runMigrations(cfg config.Config, db *sqlx.DB, logger ectologger.Logger) error {
	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	if err != nil {
		return err
	}

	ms := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	return ms.Migrate(cfg.DatabaseName, driver)
}

// importHandler adapts the import pipeline to the Kafka consumer. Parse
// failures are returned so the message is retried, never silently dropped.
func importHandler(svc *importer.Service) kafka.MessageHandler {
	return func(ctx context.Context, msg *kafka.IncomingMessage) error {
		req, err := msg.ParseImportMessage()
		if err != nil {
			return err
		}

		_, err = svc.ImportRoster(ctx, models.ImportRosterRequest{
			Competition: req.Competition,
			Records:     req.Records,
			DryRun:      req.DryRun,
		})
		return err
	}
}
