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
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"employee-directory/internal/auth"
	"employee-directory/internal/config"
	"employee-directory/internal/graph"
	apphttp "employee-directory/internal/http"
	"employee-directory/internal/metrics"
	"employee-directory/internal/repository"
	"employee-directory/internal/repository/postgres"
	"employee-directory/internal/repository/sqlite"
	"employee-directory/internal/service"
	"employee-directory/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown log level %q, keeping %s", cfg.Log.Level, logger.GetLevel())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	users, employees, closeDB, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer closeDB()

	if err := users.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}
	if err := employees.Init(ctx); err != nil {
		logger.Fatalf("init employee repository: %v", err)
	}

	media, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("setup storage: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	userService := service.NewUserService(users, tokens, logger)
	employeeService := service.NewEmployeeService(employees, media, cfg.Storage.Folder, logger)

	m := metrics.New()
	resolver := graph.NewResolver(userService, employeeService, logger, graph.Options{
		EnforceAuth: cfg.Auth.Enforce,
		Metrics:     m,
	})
	schema, err := graph.NewSchema(resolver)
	if err != nil {
		logger.Fatalf("build schema: %v", err)
	}
	if !cfg.Auth.Enforce {
		logger.Warn("auth enforcement disabled, employee operations are public")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(schema, tokens, m, apphttp.UploadLimits{
		MaxFileSize: cfg.Upload.MaxFileSize,
		MaxFiles:    cfg.Upload.MaxFiles,
	}, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("graphql endpoint on http://%s/graphql", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logrus.Logger) (repository.UserRepository, repository.EmployeeRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Open(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("using postgres database")
		return postgres.NewUserRepository(pool), postgres.NewEmployeeRepository(pool), pool.Close, nil
	default:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Infof("using sqlite database %s", cfg.Database.Path)
		return sqlite.NewUserRepository(db), sqlite.NewEmployeeRepository(db), func() { db.Close() }, nil
	}
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		logger.Warn("storage bucket not configured, photo uploads will fail")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}
	if cfg.Storage.AccessKeyID != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Storage.AccessKeyID, cfg.Storage.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL), nil
}
