package main

import (
	"context"
	"flag"
	"time"

	config "github.com/NordCoder/Animetrack/internal/config/api"
	"github.com/NordCoder/Animetrack/internal/obs"
	"github.com/NordCoder/Animetrack/internal/repository/kafka"
	"go.uber.org/zap"
)

// kafka-init creates the account events topic ahead of the api, for
// deployments where brokers refuse automatic topic creation.
func main() {
	cfgPath := flag.String("config", "config/api.yaml", "path to config file")
	timeout := flag.Duration("timeout", 60*time.Second, "overall deadline")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	logger, err := obs.NewLogger(cfg.LogConfig())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := kafka.EnsureTopic(ctx, cfg.Events.Brokers, cfg.Events.Topic, logger); err != nil {
		logger.Fatal("ensure topic", zap.String("topic", cfg.Events.Topic.Name), zap.Error(err))
	}
	logger.Info("kafka-init ok", zap.String("topic", cfg.Events.Topic.Name))
}
