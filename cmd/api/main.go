package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	server "staysip/internal/adapters/http_server"
	"staysip/internal/adapters/observability"
	redisad "staysip/internal/adapters/redis"
	"staysip/internal/adapters/watch"
	"staysip/internal/app"
	"staysip/internal/domain"
	"staysip/internal/shared"
	"staysip/internal/storage/jsonfile"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// deps
	store := jsonfile.New(cfg.DataDir)
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}
	q := app.NewQueryService(store, cache, cfg.CacheTTL)

	// first load; broken files surface as issues, not a dead process
	ctx := context.Background()
	if ds, err := q.Reload(ctx); err != nil {
		log.Fatal().Err(err).Msg("initial load failed")
	} else if len(ds.Issues) > 0 {
		log.Warn().Strs("issues", ds.Issues).Msg("dataset loaded with issues")
	}

	if cfg.WatchData {
		w, err := watch.New(cfg.DataDir, func(ctx context.Context) {
			rctx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if _, err := q.Refresh(rctx); err != nil {
				log.Warn().Err(err).Msg("auto refresh failed")
			}
		})
		if err != nil {
			log.Warn().Err(err).Msg("data watcher unavailable")
		} else if err := w.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("data watcher failed to start")
		} else {
			defer w.Stop()
		}
	}

	// http
	srv := server.New(cfg.RateRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
