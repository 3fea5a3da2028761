package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"clinicrbac/docs"
	"clinicrbac/internal/app"
	"clinicrbac/internal/cache"
	"clinicrbac/internal/config"
	"clinicrbac/internal/db"
	"clinicrbac/internal/logger"
)

// @title Clinic RBAC API
// @version 1.0
// @description Role-based access control for admins, doctors and nurses managing users and patients.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic RBAC API server",
		RunE:  runServer,
	}
	rootCmd.Flags().String("port", "", "Listen port (overrides PORT)")
	rootCmd.Flags().Bool("reset-db", false, "Drop all tables before migrating (same as RESET_DB=true)")

	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users and patients tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := bootstrap()
			gormDB := connect(cfg, log)
			if err := db.Migrate(gormDB); err != nil {
				return err
			}
			log.Info().Msg("migrations applied")
			return nil
		},
	}
}

// bootstrap loads configuration and builds the process logger. A config
// failure is fatal.
func bootstrap() (*config.Config, zerolog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", true)
		log.Fatal().Err(err).Msg("failed to load config")
	}
	return cfg, logger.New(cfg.LogLevel, cfg.IsDev())
}

func connect(cfg *config.Config, log zerolog.Logger) *gorm.DB {
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, cfg.IsDev())
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to connect to database")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("connected to database")
	return gormDB
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, log := bootstrap()

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.ServerPort = port
	}
	if reset, _ := cmd.Flags().GetBool("reset-db"); reset {
		cfg.ResetDB = true
	}

	gormDB := connect(cfg, log)

	if cfg.ResetDB {
		log.Warn().Msg("reset requested, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatal().Err(err).Msg("failed to drop tables")
		}
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate failed")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if cacheClient == nil {
		log.Info().Msg("REDIS_ADDR not set, user lookups are not cached")
	}
	defer cacheClient.Close()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}

	e := app.NewServer(cfg, gormDB, cacheClient, log)

	addr := ":" + cfg.ServerPort
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		log.Info().Msgf("swagger documentation available at http://%s/api-docs/index.html", docs.SwaggerInfo.Host)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
	return nil
}
