package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/database"
	"github.com/stemsi/command-center/internal/logger"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/repository"
	"github.com/stemsi/command-center/internal/service"
)

// defaultAccounts are the well-known development logins.
var defaultAccounts = []model.CreateAccountRequest{
	{UserID: "admin", Name: "Administrator", Email: "admin@example.com", Role: model.RoleAdmin, Password: "admin123"},
	{UserID: "user", Name: "Test User", Email: "user@example.com", Role: model.RoleStudent, Password: "user123"},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	accountRepo := repository.NewAccountRepository(pool)
	authService := service.NewAuthService(cfg, accountRepo, log)
	accountService := service.NewAccountService(accountRepo, authService, log)
	operator := &service.Claims{Username: "seed", Role: model.RoleAdmin}

	fmt.Println("=== Seeding default accounts ===")

	created := 0
	for _, req := range defaultAccounts {
		_, err := accountService.Create(ctx, operator, req)
		switch {
		case errors.Is(err, repository.ErrDuplicateAccount):
			fmt.Printf("Account %q already exists, skipping\n", req.UserID)
		case err != nil:
			log.Fatal().Err(err).Str("user_id", req.UserID).Msg("Failed to seed account")
		default:
			created++
			fmt.Printf("Created %s account %q\n", req.Role, req.UserID)
		}
	}

	fmt.Printf("\nSeed completed! Added %d/%d accounts.\n", created, len(defaultAccounts))
}
