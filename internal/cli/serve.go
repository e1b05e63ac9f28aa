package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glusyy/grok-ani-affection-system/internal/config"
	"github.com/glusyy/grok-ani-affection-system/internal/server"
	"github.com/glusyy/grok-ani-affection-system/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP host runtime",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		engine, err := cfg.Engine.BuildEngine()
		if err != nil {
			return fmt.Errorf("build engine: %w", err)
		}

		st, err := openStore(cfg.Store)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		srv := &http.Server{
			Addr:    cfg.ListenAddr(),
			Handler: server.New(engine, st, log),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening",
				zap.String("addr", cfg.ListenAddr()),
				zap.String("store", cfg.Store.Backend),
				zap.String("preset", cfg.Engine.Preset))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// openStore builds the configured persistence backend.
func openStore(cfg config.StoreConfig) (store.StateStore, error) {
	switch cfg.Backend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ttl, err := cfg.Redis.SessionTTL()
		if err != nil {
			return nil, err
		}
		var opts []store.RedisOption
		if ttl > 0 {
			opts = append(opts, store.WithTTL(ttl))
		}
		return store.NewRedisStore(client, opts...), nil
	case "sqlite":
		return store.OpenSQLiteStore(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
