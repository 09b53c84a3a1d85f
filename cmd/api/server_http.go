package main

import (
	"context"
	"net/http"
	"time"

	coreauth "github.com/NordCoder/Animetrack/internal/auth"
	config "github.com/NordCoder/Animetrack/internal/config/api"
	"github.com/NordCoder/Animetrack/internal/obs"
	pg "github.com/NordCoder/Animetrack/internal/repository/postgres"
	apiauth "github.com/NordCoder/Animetrack/internal/services/api/auth"
	"github.com/NordCoder/Animetrack/internal/services/api/catalog"
	"github.com/NordCoder/Animetrack/internal/services/api/library"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func buildRouter(cfg *config.Config, logger *zap.Logger, db *pg.DB, store *refreshStore, ev *events) *gin.Engine {
	issuer := coreauth.NewIssuer(coreauth.Config{
		AccessSecret:  []byte(cfg.Auth.AccessSecret),
		RefreshSecret: []byte(cfg.Auth.RefreshSecret),
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
	})

	deps := apiauth.Deps{
		Users:  pg.NewUserRepo(db),
		Tokens: store,
		Issuer: issuer,
		Tx:     pg.NewTransactor(db, logger),
		Events: ev.emitter,
		Logger: logger,
	}
	authUC := apiauth.NewUsecase(deps)

	animes := pg.NewAnimeRepo(db)
	catalogUC := catalog.New(animes)
	libraryUC := library.New(animes, pg.NewLibraryRepo(db))

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), obs.GinLogger(logger), obs.GinMetrics())

	r.GET("/metrics", obs.MetricsHandler())
	r.GET("/healthz", obs.HealthHandler(func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			return err
		}
		return store.ping(ctx)
	}))

	apiauth.NewHandler(authUC, logger).RegisterRoutes(r)
	catalog.NewHandler(catalogUC, logger).RegisterRoutes(r)

	protected := r.Group("/", apiauth.RequireAuth(authUC, logger))
	library.NewHandler(libraryUC, logger).RegisterRoutes(protected)

	return r
}

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, db *pg.DB, store *refreshStore, ev *events) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           obs.HTTPHandler(buildRouter(cfg, logger, db, store, ev), "animetrack-api"),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

func serveHTTP(srv *http.Server, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
	return srv.ListenAndServe()
}
