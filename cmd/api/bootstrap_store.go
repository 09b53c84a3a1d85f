package main

import (
	"context"
	"time"

	config "github.com/NordCoder/Animetrack/internal/config/api"
	domainauth "github.com/NordCoder/Animetrack/internal/domain/auth"
	pg "github.com/NordCoder/Animetrack/internal/repository/postgres"
	rds "github.com/NordCoder/Animetrack/internal/repository/redis"
	"go.uber.org/zap"
)

type refreshStore struct {
	domainauth.RefreshTokenStore
	ping  func(context.Context) error
	close func()
}

func initRefreshStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, db *pg.DB) (*refreshStore, error) {
	if cfg.Auth.RefreshStore == config.RefreshStorePostgres {
		repo := pg.NewRefreshTokenRepo(db)
		go purgeLoop(ctx, repo, cfg.Auth.PurgeInterval, logger)
		logger.Info("refresh tokens in postgres")
		return &refreshStore{
			RefreshTokenStore: repo,
			ping:              func(context.Context) error { return nil },
			close:             func() {},
		}, nil
	}

	client, err := rds.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	logger.Info("refresh tokens in redis", zap.String("addr", cfg.Redis.Addr))
	return &refreshStore{
		RefreshTokenStore: rds.NewRefreshTokenStore(client),
		ping:              func(ctx context.Context) error { return client.Ping(ctx).Err() },
		close:             func() { _ = client.Close() },
	}, nil
}

type purger interface {
	Purge(ctx context.Context) (int64, error)
}

// purgeLoop only reclaims space: expired rows are already invisible to reads.
func purgeLoop(ctx context.Context, p purger, every time.Duration, logger *zap.Logger) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := p.Purge(ctx)
			if err != nil {
				logger.Warn("purge refresh tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("purged refresh tokens", zap.Int64("rows", n))
			}
		}
	}
}
