// Command migrate applies or rolls back the embedded schema migrations and
// can grant the admin role to an existing account.
//
//	migrate -direction up
//	migrate -grant-admin ops@example.com
package main

import (
	"context"
	"flag"
	"time"

	"github.com/codewithtechno/techno-hub/internal/config"
	"github.com/codewithtechno/techno-hub/internal/database"
	"github.com/codewithtechno/techno-hub/internal/logger"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/repository"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	grantAdmin := flag.String("grant-admin", "", "email of an account to promote to admin after migrating")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel).With().Str("component", "migrate").Logger()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if err := database.Migrate(db, database.Direction(*direction)); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Str("direction", *direction).Msg("migrations applied")

	if *grantAdmin == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repository.NewUserRepo(db).SetRoleByEmail(ctx, *grantAdmin, model.RoleAdmin); err != nil {
		log.Fatal().Err(err).Str("email", *grantAdmin).Msg("grant admin failed")
	}
	log.Info().Str("email", *grantAdmin).Msg("admin granted")
}
