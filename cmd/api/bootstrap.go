package main

import (
	"context"

	config "github.com/NordCoder/Animetrack/internal/config/api"
	"github.com/NordCoder/Animetrack/internal/obs"
	pg "github.com/NordCoder/Animetrack/internal/repository/postgres"
)

func initOTel(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	o, err := obs.SetupOTel(ctx, &cfg.OTEL)
	if err != nil {
		return nil, err
	}
	return o.Shutdown, nil
}

func initDB(ctx context.Context, cfg *config.Config) (*pg.DB, error) {
	return pg.NewDB(ctx, cfg.DB)
}
