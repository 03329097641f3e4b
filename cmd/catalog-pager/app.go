package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/catalog-pager/internal/config"
	"github.com/Sternrassler/catalog-pager/pkg/client"
	"github.com/Sternrassler/catalog-pager/pkg/logging"
	"github.com/Sternrassler/catalog-pager/pkg/view"
	"github.com/redis/go-redis/v9"
)

// app holds the long-lived dependencies shared by every view.
type app struct {
	cfg    *config.Config
	client *client.Client
	redis  *redis.Client
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.Redis.Enabled {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.redis.Ping(pingCtx).Err(); err != nil {
			a.redis.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
	}

	clientCfg := client.DefaultConfig(cfg.Catalog.BaseURL, cfg.Catalog.UserAgent)
	clientCfg.Timeout = cfg.Catalog.Timeout
	clientCfg.CacheTTL = cfg.Catalog.CacheTTL
	clientCfg.MaxRetries = cfg.Catalog.MaxRetries
	clientCfg.BreakerFailures = cfg.Catalog.BreakerFailures
	clientCfg.BreakerTimeout = cfg.Catalog.BreakerTimeout
	clientCfg.Redis = a.redis

	c, err := client.New(clientCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create catalog client: %w", err)
	}
	a.client = c

	return a, nil
}

func (a *app) newView() (*view.ListView, error) {
	return view.New(a.client,
		view.WithPageSize(a.cfg.View.PageSize),
		view.WithMaxVisible(a.cfg.View.MaxVisible),
		view.WithLogger(logging.NewLogger("list-view")),
	)
}

func (a *app) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
