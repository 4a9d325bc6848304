package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/The-Young-Programer/Investor-Zteller/internal/api"
	commonaws "github.com/The-Young-Programer/Investor-Zteller/internal/common/aws"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/config"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/database"
	apperrors "github.com/The-Young-Programer/Investor-Zteller/internal/common/errors"
	commonhttp "github.com/The-Young-Programer/Investor-Zteller/internal/common/http"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/logger"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/observability"
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/storage"
	applicationstore "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/application-store"
	applicationwizard "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/application-wizard"
	encodepaymentproof "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/encode-payment-proof"
	queryapplications "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/query-applications"
	submitapplication "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/submit-application"
	validateapplicationdata "github.com/The-Young-Programer/Investor-Zteller/internal/services/application/validate-application-data"
	emailsend "github.com/The-Young-Programer/Investor-Zteller/internal/services/communication/email-send"
	sendadminnotification "github.com/The-Young-Programer/Investor-Zteller/internal/services/communication/send-admin-notification"
	sendconfirmation "github.com/The-Young-Programer/Investor-Zteller/internal/services/communication/send-confirmation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	var cfg *config.Config
	var err error
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting investor api...",
		zap.String("environment", cfg.App.Environment),
		zap.String("address", cfg.Server.Address),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- MongoDB ---
	var mongoClient *database.MongoClient
	err = retryWithBackoff(func() error {
		var err error
		mongoClient, err = database.NewMongo(ctx, cfg.Database.Mongo)
		if err != nil {
			return err
		}
		return mongoClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "MongoDB connection")
	if err != nil {
		zapLog.Fatal("mongo failed after retries", zap.Error(err))
	}
	defer mongoClient.Close(context.Background())
	zapLog.Info("MongoDB connected successfully")

	// --- Redis ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- PostgreSQL (audit log) ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		if err := pg.EnsureAuditSchema(ctx); err != nil {
			zapLog.Fatal("audit schema setup failed", zap.Error(err))
		}
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- MinIO ---
	var objects *storage.MinioStore
	err = retryWithBackoff(func() error {
		var err error
		objects, err = storage.NewMinioStore(cfg.Storage.Minio)
		if err != nil {
			return err
		}
		return objects.EnsureBucket(ctx)
	}, 10, 2*time.Second, zapLog, "MinIO connection")
	if err != nil {
		zapLog.Fatal("minio failed after retries", zap.Error(err))
	}
	zapLog.Info("MinIO connected successfully")

	// --- Stores ---
	mongoStore := applicationstore.NewMongoStore(
		mongoClient.Collection(cfg.Database.Mongo.Collection),
		config.GetDuration(cfg.Database.Mongo.Timeout),
		log,
	)
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		zapLog.Fatal("mongo index setup failed", zap.Error(err))
	}

	var store applicationstore.Store = mongoStore
	if pg != nil {
		store = applicationstore.NewAuditedStore(store, applicationstore.NewAuditLog(pg.DB, log))
	}
	store = applicationstore.NewCachedStore(store, redis, time.Duration(cfg.Database.Redis.StatusCacheTTL)*time.Second, log)

	// --- Services ---
	errorHandler := apperrors.NewErrorHandler(log, cfg.IsDevelopment())

	validator := validateapplicationdata.NewValidator(&validateapplicationdata.Config{
		MaxFileSize:  cfg.Investment.MaxFileSize,
		AllowedTypes: validateapplicationdata.LoadConfig().AllowedTypes,
	})

	encoderCfg := encodepaymentproof.LoadConfig()
	encoderCfg.MaxFileSize = cfg.Investment.MaxFileSize
	encoderCfg.Timeout = config.GetDuration(cfg.Investment.FileTimeout)
	encoder := encodepaymentproof.NewEncoder(encoderCfg, objects, log)

	internalToken := cfg.Notifications.InternalToken
	if internalToken == "" {
		internalToken = uuid.NewString()
	}
	notifier := submitapplication.NewHTTPNotifier(
		commonhttp.NewClient(config.GetDuration(cfg.Notifications.Timeout)).WithHeader(api.InternalTokenHeader, internalToken),
		cfg.Notifications.EndpointURL,
		log,
	)

	submitCfg := submitapplication.LoadConfig()
	submitCfg.MonthlyRate = cfg.Investment.MonthlyRate
	submitCfg.NotifyTimeout = config.GetDuration(cfg.Notifications.Timeout)
	pipeline := submitapplication.NewPipeline(submitCfg, validator, encoder, store, notifier, obs, log)

	wizardCfg := applicationwizard.LoadConfig()
	wizardCfg.SessionTTL = time.Duration(cfg.Wizard.SessionTTL) * time.Second
	wizardCfg.MaxFileSize = cfg.Investment.MaxFileSize
	wizardCfg.MonthlyRate = cfg.Investment.MonthlyRate
	wizardCfg.Development = cfg.IsDevelopment()
	sessions := applicationwizard.NewSessionStore(redis, wizardCfg.SessionTTL, wizardCfg.SubmitLockTTL)
	machine := applicationwizard.NewMachine(wizardCfg, validator, log)

	mailCfg := emailsend.FromAppConfig(cfg)
	if err := mailCfg.Validate(); err != nil {
		zapLog.Fatal("invalid mail configuration", zap.Error(err))
	}
	transports := emailsend.NewTransportCache(mailCfg, emailsend.NewTransportFactory(mailCfg), log)
	transports.Warm()
	mailer := emailsend.NewService(mailCfg, transports, log)

	var sms sendconfirmation.SMSSender
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := commonaws.NewSNSClient(ctx, cfg.Integrations.AWS.Region, cfg.Integrations.AWS.SNS.SenderID)
		if err != nil {
			zapLog.Warn("sns client unavailable, sms confirmations disabled", zap.Error(err))
		} else {
			sms = snsClient
		}
	}
	dispatcher := sendconfirmation.NewDispatcher(sendconfirmation.LoadConfig(cfg), mailer, sms, log)

	ready := map[string]api.Pinger{"mongo": mongoClient, "redis": redis}
	if pg != nil {
		ready["postgres"] = pg
	}

	router := api.NewRouter(api.Dependencies{
		Logger:         log,
		AllowedOrigin:  cfg.Notifications.AppURL,
		Limiter:        api.NewRedisLimiter(redis, cfg.Server.RateLimit, time.Minute),
		InternalToken:  internalToken,
		Ready:          ready,
		RequestTimeout: config.GetDuration(cfg.Server.RequestTimeout),
		Submit:         submitapplication.NewHandler(pipeline, errorHandler),
		Wizard:         applicationwizard.NewHandler(wizardCfg, machine, sessions, pipeline, errorHandler, log),
		Queries:        queryapplications.NewHandler(store, errorHandler, log),
		Notification:   sendadminnotification.NewHandler(sendadminnotification.LoadConfig(cfg), mailer, errorHandler, log),
		Confirmation:   sendconfirmation.NewHandler(dispatcher, errorHandler),
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	dispatcher.Wait()

	zapLog.Info("Investor api stopped gracefully")
}
