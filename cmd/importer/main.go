package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	config "github.com/NordCoder/Animetrack/internal/config/importer"
	"github.com/NordCoder/Animetrack/internal/obs"
	pg "github.com/NordCoder/Animetrack/internal/repository/postgres"
	"github.com/NordCoder/Animetrack/internal/services/importer"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "config/importer.yaml", "path to config file")
	source := flag.String("source", "", "local path or s3://bucket/key, overrides import.source")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	if *source != "" {
		cfg.Import.Source = *source
	}

	logger, err := obs.NewLogger(cfg.LogConfig())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := pg.NewDB(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	var opener *importer.Opener
	if strings.HasPrefix(cfg.Import.Source, "s3://") {
		s3c, err := importer.NewS3Client(ctx, cfg.S3)
		if err != nil {
			logger.Fatal("s3 client", zap.Error(err))
		}
		opener = importer.NewOpener(s3c)
	} else {
		opener = importer.NewOpener(nil)
	}

	rc, err := opener.Open(ctx, cfg.Import.Source)
	if err != nil {
		logger.Fatal("open source", zap.String("source", cfg.Import.Source), zap.Error(err))
	}
	defer rc.Close()

	logger.Info("import started", zap.String("source", cfg.Import.Source))
	loader := importer.NewLoader(pg.NewAnimeRepo(db), cfg.Import.BatchSize, logger)
	if _, err := loader.Load(ctx, rc); err != nil {
		logger.Error("import failed", zap.Error(err))
		os.Exit(1)
	}
}
