// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command shoplist runs the shopping-list server and its database
// migrations.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/shoplist/internal/app"
	"code.hybscloud.com/shoplist/internal/config"
	"code.hybscloud.com/shoplist/internal/hyper"
	"code.hybscloud.com/shoplist/internal/password"
	"code.hybscloud.com/shoplist/internal/search"
	"code.hybscloud.com/shoplist/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shoplist",
		Short:         "Shopping list server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

			var st store.Store
			var titles search.TitleSource
			if cfg.DatabaseURL == "" {
				log.Warn("no DATABASE_URL configured, using the in-memory store")
				mem := store.NewMemory()
				st, titles = mem, mem
			} else {
				db, err := sql.Open("postgres", cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer db.Close()
				pg := store.NewPostgres(db)
				st, titles = pg, pg
			}

			cookie := hyper.CookieConfig{
				Name: cfg.CookieName,
				TTL:  cfg.SessionTTL,
			}
			if cfg.Production {
				cookie.Secure = true
				cookie.Domain = cfg.CookieDomain
			}

			a := &app.App{
				Store:            st,
				Search:           search.New(titles, search.FoodSeed),
				Hasher:           password.Bcrypt{},
				Codec:            hyper.NewSessionCodec([]byte(cfg.SessionSecret), cookie),
				Log:              log,
				SupportedLocales: cfg.SupportedLocales,
				DefaultLocale:    cfg.DefaultLocale,
			}
			server := &http.Server{
				Addr:              cfg.Addr,
				Handler:           a.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("listening", slog.String("addr", cfg.Addr))
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				log.Info("shutting down")
				return server.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			dbURL := os.Getenv("DATABASE_URL")
			if dbURL == "" {
				return errors.New("DATABASE_URL is required")
			}
			db, err := sql.Open("postgres", dbURL)
			if err != nil {
				return err
			}
			defer db.Close()
			return store.Migrate(cmd.Context(), db)
		},
	}
}
