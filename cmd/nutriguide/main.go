package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"nutriguide/internal/catalog"
	"nutriguide/internal/config"
	"nutriguide/internal/database"
	"nutriguide/internal/engine"
	"nutriguide/internal/llm"
	"nutriguide/internal/metrics"
	"nutriguide/internal/planner"
	"nutriguide/internal/plans"
	"nutriguide/internal/server"
)

func gracefulShutdown(apiServer *http.Server, log zerolog.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	done <- true
}

func main() {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if len(os.Args) > 1 {
		runCommand(cfg, log, os.Args[1:])
		return
	}

	if err := serve(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func serve(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	cat := catalog.Load(cfg.DatasetPath, catalog.Options{MinCalories: cfg.CatalogMinCalories}, log)

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	planRepo := plans.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	textGen, closer := newTextGenerator(ctx, cfg, log)
	if closer != nil {
		defer closer.Close()
	}

	var weekPlanner engine.WeekPlanner
	var insights engine.InsightGenerator
	if textGen != nil {
		p := planner.NewPlanner(textGen, metricsStore)
		weekPlanner = p
		insights = p
	}

	eng := engine.New(cat, weekPlanner, insights, planRepo, cfg.PlannerTimeout, log)

	srv, err := server.New(cfg.Port, eng, planRepo, cfg.SearchCacheSize, log)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info().Int("port", cfg.Port).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	<-done
	log.Info().Msg("graceful shutdown complete")
	return nil
}

// newTextGenerator picks the configured LLM backend. Gemini wins when both
// keys are set; with neither key the engine runs heuristic-only.
func newTextGenerator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (llm.TextGenerator, llm.Closer) {
	if cfg.GeminiAPIKey != "" {
		gen, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Gemini client, continuing without it")
		} else {
			log.Info().Msg("using Gemini for plan generation")
			closer, _ := gen.(llm.Closer)
			return gen, closer
		}
	}
	if cfg.GroqAPIKey != "" {
		log.Info().Msg("using Groq for plan generation")
		return llm.NewGroqClient(cfg.GroqAPIKey), nil
	}
	log.Warn().Msg("no LLM API key configured, plans will use the heuristic assembler")
	return nil, nil
}

func runCommand(cfg *config.Config, log zerolog.Logger, args []string) {
	switch args[0] {
	case "cleanup":
		cleanupCmd := flag.NewFlagSet("cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(args[1:])

		db, err := database.NewDB(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer db.Close()

		ctx := context.Background()
		removedPlans, err := plans.NewRepository(db.SQL).Cleanup(ctx, *days)
		if err != nil {
			log.Fatal().Err(err).Msg("plan cleanup failed")
		}
		removedMetrics, err := metrics.NewStore(db.SQL).Cleanup(*days)
		if err != nil {
			log.Fatal().Err(err).Msg("metrics cleanup failed")
		}
		fmt.Printf("Removed %d old plans and %d old metric records.\n", removedPlans, removedMetrics)
	case "usage":
		usageCmd := flag.NewFlagSet("usage", flag.ExitOnError)
		days := usageCmd.Int("days", 7, "Report usage for the last N days")
		usageCmd.Parse(args[1:])

		db, err := database.NewDB(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer db.Close()

		daily, err := metrics.NewStore(db.SQL).GetDailyUsage(*days)
		if err != nil {
			log.Fatal().Err(err).Msg("usage query failed")
		}
		if len(daily) == 0 {
			fmt.Println("No recorded LLM usage in the selected window.")
			return
		}
		fmt.Printf("%-12s %10s %12s %6s\n", "Day", "Prompt", "Completion", "Calls")
		for _, u := range daily {
			fmt.Printf("%-12s %10d %12d %6d\n", u.Date, u.TotalPrompt, u.TotalCompletion, u.TotalExecution)
		}
	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: nutriguide [command]")
	fmt.Println("\nWith no command, starts the HTTP server.")
	fmt.Println("\nCommands:")
	fmt.Println("  cleanup    Remove old plans and metric records")
	fmt.Println("  usage      Show daily LLM token usage")
}
