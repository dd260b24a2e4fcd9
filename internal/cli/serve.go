package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkm/jobcards/internal/api"
	"github.com/dkm/jobcards/internal/api/handler"
	mongodb "github.com/dkm/jobcards/internal/infrastructure/db/mongo"
	redisdb "github.com/dkm/jobcards/internal/infrastructure/db/redis"
	"github.com/dkm/jobcards/internal/infrastructure/queue"
	"github.com/dkm/jobcards/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

// ServeCmd runs the browser front-end.
func ServeCmd(app *App) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser front-end",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd.Context()); err != nil {
				return err
			}
			app.setup(logger.Options{
				Level:   app.cfg.LogLevel,
				Pretty:  !app.cfg.IsProduction(),
				Output:  os.Stdout,
				Service: "jobcards",
			})
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				app.cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func (a *App) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log

	// --- Redis (sessions and wizard drafts) ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// --- MongoDB (activity log) ---
	activity, err := mongodb.Open(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := activity.Close(); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	auditRepo := mongodb.NewAuditRepository(activity.Database())
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure activity log indexes")
	}

	// --- Activity log workers ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, logger.Component("audit"))
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	e, err := api.NewRouter(api.Deps{
		Backend:  a.backend,
		Auditor:  dispatcher,
		Sessions: redisdb.NewSessions(rdb, cfg.Session.TTL),
		Drafts:   redisdb.NewDraftStore(rdb),
		Dependencies: []handler.Dependency{
			{Name: "redis", Ping: redisdb.Ping(rdb)},
			{Name: "mongodb", Ping: activity.Ping},
		},
		SessionTTL:   cfg.Session.TTL,
		SecureCookie: cfg.Session.CookieSecure,
		Logger:       logger.Component("web"),
	})
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.URL).Str("env", cfg.Env).Msg("jobcards web starting")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutting down, waiting for in-flight requests")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed, forcing close")
		return e.Close()
	}
	log.Info().Msg("server shutdown complete")
	return nil
}
