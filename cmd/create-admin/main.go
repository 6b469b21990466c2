package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/database"
	"github.com/prepnest/prepnest-backend/internal/logger"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
	"github.com/prepnest/prepnest-backend/internal/service"
)

// Bootstraps the first admin account. Registration over the API only ever
// creates user-role accounts, so this runs once against a fresh database.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	name, err := prompt(reader, "Enter Name: ")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	email, err := prompt(reader, "Enter Email: ")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if _, err := userRepo.GetByEmail(ctx, email); err == nil {
		fmt.Printf("Error: an account with email %s already exists\n", email)
		return
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Fatal().Err(err).Msg("Failed to check email")
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	password := string(bytePassword)
	if err := service.CheckPasswordStrength(password); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	admin := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d\n", admin.Name, admin.Email, admin.ID)
}

func prompt(reader *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("a value is required")
	}
	return line, nil
}
