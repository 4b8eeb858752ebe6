// Package server implements the application's network transport layer. It is
// deliberately thin glue: decode the request, delegate to the engine, encode
// the result.
package server

import (
	"fmt"
	"net/http"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"nutriguide/internal/engine"
	"nutriguide/internal/plans"
)

// Server holds the HTTP layer's dependencies.
type Server struct {
	port   int
	engine *engine.Engine
	plans  *plans.Repository
	log    zerolog.Logger

	// searchCache memoizes formatted search results per (query, tag). The
	// catalog never changes after startup, so entries never go stale.
	searchCache *lru.Cache[string, []engine.MealView]
}

// New initializes the HTTP server with production timeouts.
func New(port int, eng *engine.Engine, planRepo *plans.Repository, cacheSize int, log zerolog.Logger) (*http.Server, error) {
	cache, err := lru.New[string, []engine.MealView](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	s := &Server{
		port:        port,
		engine:      eng,
		plans:       planRepo,
		log:         log,
		searchCache: cache,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}, nil
}
