package container

import (
	"context"
	"fmt"

	"goatmeter-be/internal/config"
	"goatmeter-be/internal/repository"
	"goatmeter-be/internal/service"
	"goatmeter-be/internal/service/auth"
	"goatmeter-be/pkg/database"
	"goatmeter-be/pkg/logger"
	"goatmeter-be/pkg/redis"
)

// Container wires all application dependencies. The database is
// required; Redis is optional and everything downstream degrades to
// direct database reads without it.
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client

	Store repository.TxStore

	AuthService    service.AuthService
	ProfileService *service.ProfileService
	VoteService    *service.VoteService
	AccountService *service.AccountService
	SummaryService *service.SummaryService
	CacheService   *service.CacheService
}

// New creates the dependency container.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("failed to initialize redis, proceeding without caching")
		} else {
			redisClient = client
			log.Info("redis client initialized")
		}
	} else {
		log.Info("redis url not configured, proceeding without caching")
	}

	store := repository.NewPostgresStore(db)
	cacheService := service.NewCacheService(redisClient, log.Logger)

	return &Container{
		Config:         cfg,
		Logger:         log,
		DB:             db,
		RedisClient:    redisClient,
		Store:          store,
		AuthService:    auth.NewService(cfg.GoogleClientID, cfg.JWTSecret, log),
		ProfileService: service.NewProfileService(store, log.Logger),
		VoteService:    service.NewVoteService(store, cacheService, log.Logger),
		AccountService: service.NewAccountService(store, cacheService, log.Logger),
		SummaryService: service.NewSummaryService(store, redisClient, log.Logger),
		CacheService:   cacheService,
	}, nil
}

// Close releases held connections.
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("failed to close redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
