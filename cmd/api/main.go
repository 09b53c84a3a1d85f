package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	config "github.com/NordCoder/Animetrack/internal/config/api"
	"github.com/NordCoder/Animetrack/internal/obs"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "config/api.yaml", "path to config file")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// refuses to start without both token secrets
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	logger, err := obs.NewLogger(cfg.LogConfig())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	logger.Info("starting api", zap.String("env", cfg.App.Env), zap.String("ver", cfg.App.Version))

	otelShutdown, err := initOTel(rootCtx, cfg)
	if err != nil {
		logger.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	db, err := initDB(rootCtx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	store, err := initRefreshStore(rootCtx, cfg, logger, db)
	if err != nil {
		logger.Fatal("refresh store", zap.Error(err))
	}
	defer store.close()

	ev, err := initEvents(rootCtx, cfg, logger, db)
	if err != nil {
		logger.Fatal("events", zap.Error(err))
	}

	httpSrv := buildHTTPServer(cfg, logger, db, store, ev)
	httpErrCh := make(chan error, 1)
	go func() { httpErrCh <- serveHTTP(httpSrv, cfg, logger) }()

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal", zap.String("reason", "context canceled"))
	case err := <-httpErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	_ = httpSrv.Shutdown(shCtx)
	stop()
	ev.wait()
	logger.Info("bye")
}
