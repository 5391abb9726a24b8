package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"mockmate/internal/config"
	"mockmate/internal/database"
	"mockmate/internal/database/migration"
	dbpostgres "mockmate/internal/database/postgres"
	"mockmate/internal/domain/queue"
	"mockmate/internal/domain/slot"
	"mockmate/internal/infrastructure/cache"
	"mockmate/internal/repository"
	"mockmate/internal/usecase"
)

// Container owns every long-lived dependency: the connection pool, the
// cache client and the wired usecases shared by HTTP routes and the
// background sweep.
type Container struct {
	Config  config.Config
	Logger  *log.Logger
	DB      database.DB
	Cache   *cache.Redis
	Queue   usecase.QueueUsecase
	Matcher usecase.MatchUsecase
	Sweeper *usecase.Sweeper
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := migration.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	grid, err := slot.NewGrid(cfg.Matching.SlotGridMinutes)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("slot grid: %w", err)
	}
	tags := queue.NewTagSet(cfg.Matching.Professions, cfg.Matching.Languages)

	redisCache := cache.NewRedis(cfg.Redis, logger)

	entries := repository.NewPostgresQueueRepository(db)
	matches := repository.NewPostgresMatchRepository(db)

	matcher := usecase.NewMatcher(entries, matches, tags, grid, cfg.Matching, logger)
	queueUC := usecase.NewQueueUsecase(entries, matches, matcher, tags, grid, redisCache, logger)
	sweeper := usecase.NewSweeper(entries, matcher, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Cache:   redisCache,
		Queue:   queueUC,
		Matcher: matcher,
		Sweeper: sweeper,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
