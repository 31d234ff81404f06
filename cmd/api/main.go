package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"blog-catalog/cache"
	"blog-catalog/cmd/api/clients/notionclient"
	"blog-catalog/cmd/api/httpclient"
	"blog-catalog/cmd/api/metrics"
	"blog-catalog/cmd/api/router"
	"blog-catalog/cmd/api/services"
	"blog-catalog/cmd/internal/logger"
	"blog-catalog/config"
	"blog-catalog/db"
	"blog-catalog/models"
	"blog-catalog/repositories"
)

const serviceName = "blog-catalog"

// @title           Blog Catalog API
// @version         1.0
// @description     Read-only catalog of blog posts backed by Notion, SQL or MongoDB
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.LogLevel())
	gin.SetMode(gin.ReleaseMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		logger.ErrorWithFields("failed to initialize source", logger.Fields{"kind": cfg.Source.Kind, "error": err.Error()})
		os.Exit(1)
	}
	defer closeSource()

	collector := metrics.New(serviceName)
	postCache := cache.New(cache.Options{
		TTL:         cfg.Cache.TTL,
		MaxEntries:  cfg.Cache.MaxEntries,
		LoadTimeout: cfg.Cache.LoadTimeout,
	}, collector.CacheHooks())

	postsSvc := services.NewPostService(source, postCache, services.Options{
		PageSize:    cfg.Query.PageSize,
		MaxPageSize: cfg.Query.MaxPageSize,
		Observer:    collector,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router.New(cfg, postsSvc, collector),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.InfoWithFields("starting api server", logger.Fields{"addr": cfg.HTTP.Addr, "source": cfg.Source.Kind})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.InfoWithFields("received shutdown signal", logger.Fields{"signal": sig.String()})
	case err := <-errCh:
		logger.ErrorWithFields("api server failed", logger.Fields{"error": err.Error()})
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithFields("graceful shutdown failed", logger.Fields{"error": err.Error()})
	}
	cancel()

	logger.Log.Info("api server stopped")
}

// openSource connects the configured upstream and returns a matching close func.
func openSource(ctx context.Context, cfg config.AppConfig) (services.Source, func(), error) {
	switch models.SourceKind(cfg.Source.Kind) {
	case models.SourceNotion:
		client := notionclient.New(notionclient.Options{
			BaseURL:       cfg.Notion.BaseURL,
			APIKey:        cfg.Notion.APIKey,
			DatabaseID:    cfg.Notion.DatabaseID,
			Version:       cfg.Notion.Version,
			PublishedOnly: cfg.Notion.PublishedOnly,
			HTTP: httpclient.Config{
				Timeout:    cfg.Notion.Timeout,
				MaxRetries: cfg.Notion.MaxRetries,
			},
		})
		return client, func() {}, nil

	case models.SourceSQL:
		sqlDB, err := db.OpenSQL(ctx, cfg.SQL.Driver, cfg.SQL.DSN, cfg.SQL.Table)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repositories.NewPostRowRepository(sqlDB, cfg.SQL.Table)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return repo, closeSQL(sqlDB), nil

	case models.SourceMongo:
		client, col, err := db.InitMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewMongoPostRowRepository(col), closeMongo(client), nil
	}
	return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
}

func closeSQL(sqlDB *sql.DB) func() {
	return func() {
		if err := sqlDB.Close(); err != nil {
			logger.WarnWithFields("closing sql source", logger.Fields{"error": err.Error()})
		}
	}
}

func closeMongo(client *mongo.Client) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.WarnWithFields("closing mongo source", logger.Fields{"error": err.Error()})
		}
	}
}
