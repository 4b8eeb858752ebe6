package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"nutriguide/internal/engine"
)

// maxRecommendBody bounds the profile payload we are willing to read.
const maxRecommendBody = 1 << 20

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"https://*", "http://*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Accept", "Content-Type"},
		MaxAge:       300,
	}))

	e.Use(s.requestIDMiddleware)

	e.GET("/health", s.healthHandler)

	api := e.Group("/api")
	api.POST("/recommend", s.recommendHandler)
	api.GET("/meals/search", s.searchHandler)
	api.GET("/plans/recent", s.recentPlansHandler)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":       "ok",
		"catalog_size": s.engine.CatalogSize(),
	})
}

// recommendHandler generates a weekly plan from the posted profile. Invalid
// profile fields come back as 400; everything else the engine absorbs.
func (s *Server) recommendHandler(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRecommendBody))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
	}

	rec, err := s.engine.Recommend(c.Request().Context(), body)
	if err != nil {
		if engine.IsValidation(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		if errors.Is(err, engine.ErrEmptyCatalog) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "meal catalog is not loaded"})
		}
		logger := s.requestLogger(c)
		logger.Error().Err(err).Msg("recommendHandler: recommendation failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	return c.JSON(http.StatusOK, rec)
}

func (s *Server) searchHandler(c echo.Context) error {
	query := c.QueryParam("query")
	tag := c.QueryParam("tag")

	cacheKey := query + "\x00" + tag
	if meals, ok := s.searchCache.Get(cacheKey); ok {
		return c.JSON(http.StatusOK, map[string]any{"meals": meals})
	}

	meals := s.engine.Search(query, tag)
	s.searchCache.Add(cacheKey, meals)

	return c.JSON(http.StatusOK, map[string]any{"meals": meals})
}

// recentPlansHandler returns previously saved plans for a user, newest first.
func (s *Server) recentPlansHandler(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = "anonymous"
	}
	limit := 5
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be an integer between 1 and 50"})
		}
		limit = n
	}

	if s.plans == nil {
		return c.JSON(http.StatusOK, map[string]any{"plans": []any{}})
	}

	saved, err := s.plans.ListRecent(c.Request().Context(), userID, limit)
	if err != nil {
		logger := s.requestLogger(c)
		logger.Error().Err(err).Msg("recentPlansHandler: query failed")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}

	type planEntry struct {
		ID        int64           `json:"id"`
		CreatedAt string          `json:"created_at"`
		Plan      json.RawMessage `json:"plan"`
	}
	entries := make([]planEntry, 0, len(saved))
	for _, p := range saved {
		entries = append(entries, planEntry{
			ID:        p.ID,
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
			Plan:      json.RawMessage(p.PlanData),
		})
	}

	return c.JSON(http.StatusOK, map[string]any{"plans": entries})
}

func (s *Server) requestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)
		return next(c)
	}
}

// requestLogger derives a logger carrying the request id set by the
// middleware. Callers must bind the result to a variable before chaining.
func (s *Server) requestLogger(c echo.Context) zerolog.Logger {
	requestID, _ := c.Get("request_id").(string)
	return s.log.With().Str("request_id", requestID).Logger()
}
