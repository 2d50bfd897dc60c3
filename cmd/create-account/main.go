package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/stemsi/command-center/internal/config"
	"github.com/stemsi/command-center/internal/database"
	"github.com/stemsi/command-center/internal/logger"
	"github.com/stemsi/command-center/internal/model"
	"github.com/stemsi/command-center/internal/repository"
	"github.com/stemsi/command-center/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	accountRepo := repository.NewAccountRepository(pool)
	authService := service.NewAuthService(cfg, accountRepo, log)
	accountService := service.NewAccountService(accountRepo, authService, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		v, _ := reader.ReadString('\n')
		return strings.TrimSpace(v)
	}

	fmt.Println("=== Create New Account ===")

	req := model.CreateAccountRequest{
		UserID: prompt("Enter User ID: "),
		Name:   prompt("Enter Name: "),
		Email:  prompt("Enter Email: "),
	}
	if req.UserID == "" || req.Name == "" || req.Email == "" {
		fmt.Println("Error: user ID, name and email are required")
		return
	}

	role := prompt("Enter Role [admin/student] (default admin): ")
	if role == "" {
		role = string(model.RoleAdmin)
	}
	req.Role = model.Role(role)
	if !req.Role.Valid() {
		fmt.Printf("Error: unknown role %q\n", role)
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Newline after password input
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	req.Password = string(bytePassword)
	if len(req.Password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// The CLI acts with operator rights, so admin accounts are allowed.
	operator := &service.Claims{Username: "cli", Role: model.RoleAdmin}
	account, err := accountService.Create(ctx, operator, req)
	if errors.Is(err, repository.ErrDuplicateAccount) {
		fmt.Printf("Error: account %q already exists\n", req.UserID)
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create account")
	}

	fmt.Printf("\nSuccess! %s account '%s' created with ID: %d\n", account.Role, account.UserID, account.ID)
}
