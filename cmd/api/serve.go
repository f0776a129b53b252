package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dailynotes/api/internal/ai"
	"dailynotes/api/internal/app"
	"dailynotes/api/internal/authpw"
	"dailynotes/api/internal/export"
	"dailynotes/api/internal/metrics"
	"dailynotes/api/internal/recordings"
	"dailynotes/api/internal/search"
	"dailynotes/api/internal/session"
	"dailynotes/api/internal/store"
)

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configFile)
		},
	}
}

func serve(ctx context.Context, configFile string) error {
	rt, err := bootstrap(ctx, configFile)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, log := rt.cfg, rt.log

	dataStore := store.NewPostgresStore(rt.db)

	var sessions app.SessionStore = dataStore
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Info(ctx, "using redis for refresh token storage")
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		log.Info(ctx, "using postgres for refresh token storage")
	}

	var provider ai.Provider = ai.Disabled{}
	if cfg.AIEnabled() {
		provider = ai.NewOpenAI(ai.OpenAIOptions{
			APIKey:          cfg.OpenAIAPIKey,
			BaseURL:         cfg.OpenAIBaseURL,
			Model:           cfg.OpenAIModel,
			TranscribeModel: cfg.OpenAITranscribeModel,
		})
	} else {
		log.Warn(ctx, "OPENAI_API_KEY not set, writing assistant endpoints will return 503")
	}

	// A nil *Meili must not reach search.NewService as a non-nil Index.
	var index search.Index
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meili := search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey, log)
		defer meili.Close()
		index = meili
	}
	searchService := search.NewService(index, search.NewPgFTS(rt.db), log)

	// Cancelled on SIGINT/SIGTERM; background work started below stops with it.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if _, err := searchService.ReindexAll(sigCtx, dataStore); err != nil && sigCtx.Err() == nil {
			log.Warn(sigCtx, "initial reindex failed", "error", err)
		}
	}()

	deps := app.Deps{
		Store:     dataStore,
		Sessions:  sessions,
		Accounts:  authpw.NewService(dataStore),
		Assistant: ai.NewAssistant(provider, log),
		Search:    searchService,
		Exporter:  export.NewService(dataStore, export.Options{Title: cfg.FeedTitle, Link: cfg.FeedLink}),
		Metrics:   metrics.New(),
		Log:       log,
	}

	if strings.TrimSpace(cfg.MinIO.Endpoint) != "" {
		archive, err := recordings.NewMinIO(recordings.Options{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Warn(ctx, "recordings bucket unavailable, archiving disabled", "bucket", cfg.MinIO.Bucket, "error", err)
		} else {
			deps.Archive = archive
		}
	}

	service := app.New(cfg, deps)
	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin, log)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "daily notes API listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "shutdown error", "error", err)
	}
	return nil
}
