package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/fatla/fatla-admin/internal/apiclient"
	"github.com/fatla/fatla-admin/internal/config"
	"github.com/fatla/fatla-admin/internal/handlers"
	"github.com/fatla/fatla-admin/internal/hooks"
	"github.com/fatla/fatla-admin/internal/middleware"
	"github.com/fatla/fatla-admin/internal/query"
	"github.com/fatla/fatla-admin/internal/repository"
	"github.com/fatla/fatla-admin/internal/service"
	"github.com/fatla/fatla-admin/internal/session"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// auditStore is both sides of the audit log.
type auditStore interface {
	hooks.Auditor
	handlers.AuditLog
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		logger.WithField("level", cfg.Log.Level).Warn("Unknown log level, using info")
	} else {
		logger.SetLevel(level)
	}

	store, closeStore, err := initCacheStore(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize query cache")
	}
	defer closeStore()

	var audit auditStore
	if cfg.Audit.Enabled {
		dynamoClient, err := initDynamoDB(cfg, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize DynamoDB")
		}
		audit = repository.NewAuditRepository(dynamoClient, cfg.DynamoDB.TableName, logger)
	}

	handler, err := buildHandler(cfg, store, audit, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build handlers")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":  cfg.Server.Port,
			"api":   cfg.API.BaseURL,
			"cache": cfg.Cache.Backend,
			"audit": cfg.Audit.Enabled,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

// buildHandler wires every layer behind the middleware chain. audit may be
// nil.
func buildHandler(cfg *config.Config, store query.Store, audit auditStore, logger *logrus.Logger) (http.Handler, error) {
	views, err := handlers.NewViews(cfg.Server.ImageHosts)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	clients := apiclient.NewFactory(cfg.API.BaseURL, cfg.API.Timeout, logger)
	sessions := session.NewManager(session.Options{
		Secure: cfg.Session.CookieSecure,
		MaxAge: cfg.Session.MaxAge,
	})
	queries := query.NewClient(store, logger,
		query.WithStaleTime(cfg.Cache.StaleTime),
		query.WithGCTime(cfg.Cache.GCTime),
	)

	var (
		auditor  hooks.Auditor
		auditLog handlers.AuditLog
	)
	if audit != nil {
		auditor, auditLog = audit, audit
	}

	binder := hooks.NewBinder(queries, auditor, logger, hooks.Config{
		StaleTime:          cfg.Cache.StaleTime,
		DashboardStaleTime: cfg.Cache.DashboardStaleTime,
	})

	h := handlers.New(handlers.Deps{
		Sessions: sessions,
		Clients:  clients,
		Auth:     service.NewAuthService(clients, logger),
		Hooks:    hooks.NewSet(binder),
		Audit:    auditLog,
		Views:    views,
		Logger:   logger,
	})

	return setupRouter(h, sessions, logger), nil
}

// setupRouter puts the guard inside the router's middleware so unmatched
// paths are gated too.
func setupRouter(h *handlers.Handlers, sessions *session.Manager, logger *logrus.Logger) http.Handler {
	router := mux.NewRouter()
	h.Routes(router)

	guard := middleware.NewRouteGuard(sessions, logger)

	var handler http.Handler = router
	handler = guard.Protect(handler)
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.RecoverMiddleware(logger)(handler)
	handler = middleware.LoggingMiddleware(logger)(handler)
	return handler
}

func initCacheStore(cfg *config.Config, logger *logrus.Logger) (query.Store, func(), error) {
	if cfg.Cache.Backend != config.CacheBackendRedis {
		logger.Info("Using in-process query cache")
		return query.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Endpoint, err)
	}

	logger.WithField("endpoint", cfg.Redis.Endpoint).Info("Redis query cache connected")
	return query.NewRedisStore(client), func() {
		if err := client.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close redis client")
		}
	}, nil
}

func initDynamoDB(cfg *config.Config, logger *logrus.Logger) (*dynamodb.Client, error) {
	var awsCfg aws.Config
	var err error

	if cfg.DynamoDB.Endpoint != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(cfg.DynamoDB.Region),
			awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:           cfg.DynamoDB.Endpoint,
						SigningRegion: cfg.DynamoDB.Region,
					}, nil
				})),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.DynamoDB.Region))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg)
	logger.WithField("table", cfg.DynamoDB.TableName).Info("DynamoDB audit client initialized")
	return client, nil
}
