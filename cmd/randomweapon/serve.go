package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"randomweapon/internal/config"
	"randomweapon/internal/game"
	"randomweapon/internal/session"
	"randomweapon/internal/web"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func (a *app) serveCmd() *cobra.Command {
	var addr, store string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				a.cfg.Store = store
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env TRW_ADDR)")
	cmd.Flags().StringVar(&store, "store", "", "session store: memory, file, redis or sqlite (env TRW_STORE)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, a.cfg, game.Codec{Catalog: cat})
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			a.log.Warn("close session store", slog.Any("err", err))
		}
	}()

	srv, err := web.NewServer(game.NewEngine(cat), store, a.log)
	if err != nil {
		return err
	}
	if !isURL(a.cfg.Data) {
		srv.Assets = os.DirFS(a.cfg.Data)
	}

	hs := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", slog.String("addr", a.cfg.Addr), slog.String("store", a.cfg.Store))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore builds the configured session store and a func releasing it.
func openStore(ctx context.Context, cfg config.Config, codec session.Codec[game.State]) (session.Store[game.State], func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreFile:
		s, err := session.NewFileStore(cfg.SessionDir, codec)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return session.NewRedisStore(client, cfg.RedisPrefix, cfg.SessionTTL, codec), client.Close, nil
	case config.StoreSQLite:
		s, err := session.OpenSQLite(cfg.SQLitePath, codec)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return session.NewMemoryStore[game.State](), noop, nil
	}
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
