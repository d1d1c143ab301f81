// Package app wires storage, services and transport into a runnable server.
package app

import (
	"context"
	"dronediag/internal/cache"
	"dronediag/internal/config"
	"dronediag/internal/repository"
	"dronediag/internal/service"
	"dronediag/internal/transport/rest"
	"dronediag/internal/transport/ws"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type App struct {
	Mongo *mongo.Client
	Redis *redis.Client

	CatalogRepo     repository.CatalogRepo
	QuestionSetRepo repository.QuestionSetRepo
	TemplateRepo    repository.TemplateRepo
	SessionCache    cache.SessionCache

	Datasets  *service.DatasetService
	Diagnosis *service.DiagnosisService
	Hub       *ws.Hub
	Handler   http.Handler
}

// ConnectMongo connects and pings MongoDB
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	slog.Info("connected to MongoDB", "db", cfg.MongoDB)
	return client, nil
}

// ConnectRedis connects and pings Redis
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	slog.Info("connected to Redis", "addr", cfg.RedisAddr())
	return rdb, nil
}

// New connects to the stores, loads the reference data and builds the router
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	mongoClient, err := ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	rdb, err := ConnectRedis(ctx, cfg)
	if err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, err
	}

	db := mongoClient.Database(cfg.MongoDB)
	a := &App{
		Mongo:           mongoClient,
		Redis:           rdb,
		CatalogRepo:     repository.NewCatalogRepo(db),
		QuestionSetRepo: repository.NewQuestionSetRepo(db),
		TemplateRepo:    repository.NewTemplateRepo(db),
		SessionCache:    cache.NewSessionCache(rdb, cfg.SessionTTL),
		Hub:             ws.NewHub(),
	}

	a.Datasets = service.NewDatasetService(a.CatalogRepo, a.QuestionSetRepo, a.TemplateRepo)
	if err := a.Datasets.Load(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Diagnosis = service.NewDiagnosisService(
		a.Datasets,
		a.SessionCache,
		service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		service.WithClosenessThreshold(cfg.ClosenessThreshold),
		service.WithDefaultQuestionSet(cfg.DefaultQuestionSet),
	)
	// wsHub implements service.Broadcaster
	a.Diagnosis.SetBroadcaster(a.Hub)

	a.Handler = rest.NewRouter(&rest.Container{
		DatasetService:   a.Datasets,
		DiagnosisService: a.Diagnosis,
		WSHub:            a.Hub,
		Logger:           log,
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
		TrustProxy:       cfg.TrustProxy,
		OTelServiceName:  cfg.OTelServiceName,
	})
	return a, nil
}

// Close releases every connection
func (a *App) Close(ctx context.Context) {
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			slog.Warn("failed to close Redis", "error", err)
		}
	}
	if a.Mongo != nil {
		if err := a.Mongo.Disconnect(ctx); err != nil {
			slog.Warn("failed to disconnect MongoDB", "error", err)
		}
	}
}
