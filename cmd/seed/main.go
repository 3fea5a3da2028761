package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"clinicrbac/internal/auth"
	"clinicrbac/internal/config"
	"clinicrbac/internal/db"
	"clinicrbac/internal/logger"
	"clinicrbac/internal/repository"
	"clinicrbac/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-seed",
		Short: "Create sample admin, doctor and nurse accounts on an empty database",
		RunE:  runSeed,
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		log := logger.New("info", true)
		log.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.LogLevel, cfg.IsDev())

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	log.Info().Msg("connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	seeder := service.NewSeedService(repository.NewUserRepository(gormDB), auth.NewPasswordHasher(auth.DefaultBcryptCost))
	result, err := seeder.SeedUsers(context.Background(), service.DefaultSeedUsers)
	if err != nil {
		if result != nil {
			reportSeed(log, service.DefaultSeedUsers, result)
		}
		log.Error().Err(err).Msg("seeding failed")
		return err
	}

	reportSeed(log, service.DefaultSeedUsers, result)
	return nil
}

// reportSeed logs the persisted users, with the sample password each was
// created from.
func reportSeed(log zerolog.Logger, requested []service.SeedUser, result *service.SeedResult) {
	if result.Skipped {
		log.Info().Int("users", len(result.Existing)).Msg("users already exist, skipping seed")
		for _, u := range result.Existing {
			log.Info().Str("email", u.Email).Str("role", u.Role.String()).Msg("existing user")
		}
		return
	}

	passwords := make(map[string]string, len(requested))
	for _, su := range requested {
		passwords[su.Email] = su.Password
	}
	for _, u := range result.Created {
		log.Info().Str("email", u.Email).Str("password", passwords[u.Email]).Str("role", u.Role.String()).Msg("created user")
	}
	log.Info().Int("users", len(result.Created)).Msg("seed completed")
}
