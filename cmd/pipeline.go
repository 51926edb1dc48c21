package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/kozaktomas/face-sorter/internal/cache"
	cachePostgres "github.com/kozaktomas/face-sorter/internal/cache/postgres"
	"github.com/kozaktomas/face-sorter/internal/config"
	"github.com/kozaktomas/face-sorter/internal/faceapi"
)

// newPipeline wires the face service client with the optional Postgres cache.
// The returned cleanup function closes the database pool when one was opened.
// Cache setup failures disable caching with a warning; they never block a run.
func newPipeline(ctx context.Context, cfg *config.Config, useCache bool) (*faceapi.Pipeline, func()) {
	client := faceapi.NewClient(cfg.FaceAPI.URL)
	cleanup := func() {}

	var store cache.FaceStore
	if useCache && cfg.Database.URL != "" {
		pool, err := cachePostgres.NewPool(&cfg.Database)
		if err != nil {
			log.Printf("warning: embedding cache unavailable: %v", err)
			return faceapi.NewPipeline(client, nil), cleanup
		}

		if err := pool.Migrate(ctx); err != nil {
			log.Printf("warning: embedding cache migration failed: %v", err)
			pool.Close() //nolint:errcheck // already degrading to no cache
			return faceapi.NewPipeline(client, nil), cleanup
		}

		store = cachePostgres.NewFaceRepository(pool)
		cleanup = func() {
			if err := pool.Close(); err != nil {
				log.Printf("warning: closing cache pool: %v", err)
			}
		}
		fmt.Println("Embedding cache enabled (PostgreSQL)")
	}

	return faceapi.NewPipeline(client, store), cleanup
}
