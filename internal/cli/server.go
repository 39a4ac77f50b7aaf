package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coding-quiz-game/internal/config"
	"coding-quiz-game/internal/jobs"
	"coding-quiz-game/internal/logging"
	"coding-quiz-game/internal/render"
	transport "coding-quiz-game/internal/transport/http"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	janitor, err := jobs.NewJanitor(svc.quiz, cfg.Game.SweepSchedule, config.Duration(cfg.Game.SessionTTL, 30*time.Minute))
	if err != nil {
		return err
	}
	janitor.Start()

	renderer, err := render.New()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(svc.quiz, renderer),
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: SSE streams stay open for the whole game.
	}
	server.RegisterOnShutdown(svc.quiz.DiscardAll)

	go func() {
		log.Info().Str("port", finalPort).Msg("starting quiz server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	janitor.Stop(shutdownCtx)
	return server.Shutdown(shutdownCtx)
}
