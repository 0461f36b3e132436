package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/swaggo/swag" // swag registration

	"yoga_recommendation/catalog"
	"yoga_recommendation/config"
	"yoga_recommendation/db"
	_ "yoga_recommendation/docs" // swagger docs
	"yoga_recommendation/embedding"
	"yoga_recommendation/handlers"
	"yoga_recommendation/logger"
	"yoga_recommendation/scheduler"
	"yoga_recommendation/services"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	logger.Info("logging initialized", "level", cfg.Log.Level, "format", cfg.Log.Format, "output", cfg.Log.Output)

	// The catalog and the embedding capability are both fatal at startup:
	// the engine must not serve from empty data or a dead model.
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Error("failed to load pose catalog", "path", cfg.Catalog.Path, "error", err)
		os.Exit(1)
	}
	logger.Info("pose catalog loaded", "poses", cat.Len(), "dimension", cat.Dimension)

	embedder := embedding.NewClient(cfg)
	if err := embedder.Ping(context.Background()); err != nil {
		logger.Error("embedding service check failed", "base_url", cfg.Embedding.BaseURL, "error", err)
		os.Exit(1)
	}
	logger.Info("embedding service ready", "model", cfg.Embedding.Model, "dimension", cfg.Embedding.Dimension)

	engine, err := services.NewEngine(embedder, cat, cfg.Engine.Concurrency)
	if err != nil {
		logger.Error("failed to initialize scoring engine", "error", err)
		os.Exit(1)
	}

	// History storage is optional; requests are served without it.
	if cfg.HistoryEnabled() {
		if err := db.InitMySQLWithConfig(cfg); err != nil {
			logger.Error("failed to connect to MySQL", "error", err)
			os.Exit(1)
		}
		logger.Info("MySQL connected",
			"max_open_conns", cfg.DB.MaxOpenConns,
			"max_idle_conns", cfg.DB.MaxIdleConns,
			"conn_max_lifetime", cfg.DB.ConnMaxLifetime)
	} else {
		logger.Info("no database configured, recommendation history disabled")
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	handlers.RegisterRoutes(r, cfg, engine)

	scheduler.Start(cfg)

	logger.Info("server starting", "address", cfg.Server.Addr)
	logger.Info("swagger docs available", "url", "http://localhost"+cfg.Server.Addr+"/swagger/index.html")
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, r))
}
