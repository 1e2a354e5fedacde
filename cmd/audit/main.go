package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staysip/internal/adapters/linkprobe"
	"staysip/internal/adapters/observability"
	"staysip/internal/app"
	"staysip/internal/shared"
	"staysip/internal/storage/jsonfile"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("dir", cfg.DataDir).
		Int("workers", cfg.AuditWorkers).
		Bool("check_links", cfg.CheckLinks).
		Msg("audit starting")

	store := jsonfile.New(cfg.DataDir)
	q := app.NewQueryService(store, nil, 0)
	ds, err := q.Reload(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load failed")
	}

	findings := app.AuditDataset(ds)
	for _, issue := range ds.Issues {
		findings = append(findings, app.Finding{Collection: "dataset", Problem: issue})
	}

	if cfg.CheckLinks {
		probe := linkprobe.New(cfg.LinkRPS)
		links := app.CollectLinks(ds)
		sem := semaphore.NewWeighted(int64(cfg.AuditWorkers))
		var (
			wg sync.WaitGroup
			mu sync.Mutex
		)
		for _, l := range links {
			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				log.Fatal().Err(err).Msg("semaphore acquire failed")
			}
			wg.Add(1)
			go func(l app.Link) {
				defer wg.Done()
				defer sem.Release(1)

				if err := probe.Check(ctx, l.URL); err != nil {
					mu.Lock()
					findings = append(findings, app.Finding{
						Collection: l.Collection,
						ID:         l.ID,
						Problem:    fmt.Sprintf("link %s unreachable: %v", l.URL, err),
					})
					mu.Unlock()
					return
				}
				log.Info().Str("url", l.URL).Msg("link ok")
			}(l)
		}
		wg.Wait()
	}

	if len(findings) == 0 {
		log.Info().Msg("audit clean")
		return
	}

	for _, f := range findings {
		log.Warn().
			Str("collection", f.Collection).
			Str("id", f.ID).
			Str("problem", f.Problem).
			Msg("audit finding")
	}
	log.Error().Int("findings", len(findings)).Msg("audit completed with findings")
	os.Exit(1)
}
