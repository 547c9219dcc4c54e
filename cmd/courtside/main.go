package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fortuna/courtside/internal/api/rest"
	"github.com/fortuna/courtside/internal/api/websocket"
	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/config"
	"github.com/fortuna/courtside/internal/ingest/bbref"
	"github.com/fortuna/courtside/internal/ingest/nbastats"
	"github.com/fortuna/courtside/internal/logging"
	"github.com/fortuna/courtside/internal/publisher"
	"github.com/fortuna/courtside/internal/scheduler"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/store"
	"github.com/fortuna/courtside/internal/store/repository"
)

const (
	serviceName    = "courtside"
	serviceVersion = "1.0.0"

	redisMaxRetries = 30
	redisRetryDelay = 2 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Setup(cfg.LogLevel)

	log.Info().Msgf("Starting %s v%s - NBA Shot Chart Service", serviceName, serviceVersion)

	db, err := store.NewDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("✓ Connected to database")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}
	log.Info().Msg("✓ Database migrations applied")

	redisCache := connectRedis(cfg.RedisURL)
	defer redisCache.Close()
	log.Info().Msg("✓ Connected to Redis")

	redisPublisher := publisher.NewRedisPublisherFromClient(redisCache.Client())

	players := repository.NewPlayerRepository(db)
	teams := repository.NewTeamRepository(db)
	seasons := repository.NewSeasonRepository(db)
	shots := repository.NewShotRepository(db)

	playerService := service.NewPlayerService(players, seasons, shots)
	chartService := service.NewChartService(players, seasons, shots, redisCache, redisPublisher, service.ChartConfig{
		Width:    cfg.ChartWidth,
		Height:   cfg.ChartHeight,
		CacheTTL: cfg.ChartCacheTTL,
	})

	scraper := bbref.NewClient(cfg.BBRefBase)
	defer scraper.Close()

	runner := backfill.NewRunner(nbastats.New(cfg.NBAStatsBase), scraper, players, teams, seasons, shots)
	syncService := backfill.NewService(runner, 16)
	syncService.OnComplete(func(ctx context.Context, job *backfill.Job, result backfill.Result) {
		chartService.Invalidate(ctx, result.PlayerID, result.Season)
		event := publisher.BackfillCompletedEvent{
			JobID:         job.JobID,
			PlayerID:      result.PlayerID,
			Season:        result.Season,
			Source:        job.Source,
			ShotsImported: result.ShotsImported,
			CompletedAt:   time.Now().UTC(),
		}
		if err := redisPublisher.PublishBackfillCompleted(ctx, event); err != nil {
			log.Warn().Err(err).Str("job_id", job.JobID).Msg("⚠️  Failed to publish sync completion")
		}
	})
	syncService.Start()
	log.Info().Msg("✓ Sync service started")

	refresher := scheduler.NewOrchestrator(shots, syncService, &scheduler.Config{
		RefreshHour:   cfg.RefreshHour,
		CurrentSeason: cfg.CurrentSeason,
		EnableRefresh: cfg.EnableRefresh,
	})
	go refresher.Start(ctx)

	handler := rest.NewHandler(playerService, chartService, map[string]rest.HealthCheck{
		"database": db.HealthCheck,
		"redis":    redisCache.HealthCheck,
	})
	restServer := rest.NewServer(cfg.RESTPort, handler, rest.NewSyncHandler(syncService, refresher))
	go func() {
		if err := restServer.Start(); err != nil {
			log.Error().Err(err).Msg("REST server error")
		}
	}()
	log.Info().Msgf("✓ REST API server listening on :%s", cfg.RESTPort)

	wsServer := websocket.NewServer(redisCache.Client())
	go func() {
		if err := wsServer.Start(cfg.WSPort); err != nil {
			log.Error().Err(err).Msg("WebSocket server error")
		}
	}()
	log.Info().Msgf("✓ WebSocket server listening on :%s", cfg.WSPort)

	log.Info().Msgf("✓ %s v%s started successfully", serviceName, serviceVersion)
	log.Info().Msgf("  REST API: http://0.0.0.0:%s/api/v1", cfg.RESTPort)
	log.Info().Msgf("  WebSocket: ws://0.0.0.0:%s/ws/charts", cfg.WSPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("REST API server shutdown error")
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("WebSocket server shutdown error")
	}
	if err := syncService.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Sync service shutdown error")
	}

	log.Info().Msg("courtside stopped")
}

// connectRedis retries until Redis answers or the attempts run out.
func connectRedis(url string) *cache.RedisCache {
	var (
		redisCache *cache.RedisCache
		err        error
	)
	log.Info().Msg("Connecting to Redis...")
	for i := 0; i < redisMaxRetries; i++ {
		redisCache, err = cache.NewRedisCache(url)
		if err == nil {
			return redisCache
		}
		if i < redisMaxRetries-1 {
			log.Warn().Err(err).Msgf("Redis connection attempt %d/%d failed (retrying in %v)", i+1, redisMaxRetries, redisRetryDelay)
			time.Sleep(redisRetryDelay)
		}
	}
	log.Fatal().Err(err).Msgf("Failed to connect to Redis after %d attempts", redisMaxRetries)
	return nil
}
