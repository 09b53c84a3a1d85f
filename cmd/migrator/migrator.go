package main

import (
	"context"
	"flag"
	"os"

	"github.com/NordCoder/Animetrack/internal/obs"
	"github.com/NordCoder/Animetrack/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// usage: migrator [up|down|status|version]
func main() {
	flag.Parse()
	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	logger, err := obs.NewLogger(obs.LogConfig{Level: "info", App: "animetrack/migrator"})
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logger.Fatal("DB_DSN is empty")
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(zap.NewStdLog(logger))
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("set dialect", zap.Error(err))
	}
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	if err := goose.RunContext(context.Background(), cmd, db, "."); err != nil {
		logger.Fatal("migrate", zap.String("command", cmd), zap.Error(err))
	}
	logger.Info("migrations done", zap.String("command", cmd))
}
