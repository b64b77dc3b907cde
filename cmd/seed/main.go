// Command seed creates the demo photographer account if it does not exist yet.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"studio-backend/internal/app"
	"studio-backend/internal/services"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, log, store, err := app.Bootstrap(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	users := services.NewUserService(store.Photographers, services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL), log)

	p, created, err := users.Seed(ctx, cfg.SeedEmail, cfg.SeedName, cfg.SeedPassword)
	if err != nil {
		log.Error().Err(err).Str("email", cfg.SeedEmail).Msg("failed to seed photographer")
		store.Close()
		os.Exit(1)
	}

	if !created {
		log.Info().Int("id", p.ID).Str("email", p.Email).Msg("photographer already exists")
		return
	}
	log.Info().Int("id", p.ID).Str("email", p.Email).Msg("seeded photographer")
}
