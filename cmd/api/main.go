package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"mediagen/internal/db"
	"mediagen/internal/http/handlers"
	"mediagen/internal/http/httpapi"
	"mediagen/internal/infra"
	"mediagen/internal/infra/geoip"
	"mediagen/internal/middleware"
	"mediagen/internal/providers/elevenlabs"
	"mediagen/internal/providers/hugging"
	"mediagen/internal/providers/runway"
	"mediagen/internal/storage"
	"mediagen/internal/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	queries := db.New(dbpool)

	files, err := storage.NewFileStore(cfg.OutputDir, cfg.StorageBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize artifact store")
	}

	runwayClient, err := runway.NewClient(runway.Options{
		APIKey:  cfg.RunwayAPIKey,
		BaseURL: cfg.RunwayBaseURL,
		Model:   cfg.RunwayModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize runway client")
	}
	speechClient, err := elevenlabs.NewClient(elevenlabs.Options{
		APIKey:  cfg.ElevenAPIKey,
		BaseURL: cfg.ElevenBaseURL,
		Model:   cfg.ElevenModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize elevenlabs client")
	}
	imageClient, err := hugging.NewClient(hugging.Options{
		APIToken: cfg.HFAPIToken,
		BaseURL:  cfg.HFBaseURL,
		Model:    cfg.HFModel,
		Logger:   &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize hugging face client")
	}

	video := workflow.NewVideo(workflow.VideoOptions{
		Source:   runwayClient,
		Interval: cfg.PollInterval,
		MaxWait:  cfg.PollMaxWait,
		Logger:   &logger,
	})
	manager := workflow.NewManager(workflow.ManagerOptions{
		Video:  video,
		Source: runwayClient,
		Files:  files,
		Jobs:   db.NewRecorder(queries),
		Logger: &logger,
	})

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	app := &handlers.App{
		Speech:         speechClient,
		Images:         imageClient,
		Videos:         manager,
		Poller:         runwayClient,
		Files:          files,
		History:        queries,
		Logger:         &logger,
		DefaultVoiceID: cfg.DefaultVoiceID,
		SpeechModel:    cfg.ElevenModel,
		VideoModel:     cfg.RunwayModel,
	}

	router := httpapi.NewRouter(httpapi.Options{
		App:             app,
		Logger:          logger,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   lookup,
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       files.BasePath(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
