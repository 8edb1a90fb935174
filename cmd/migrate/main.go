package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/employee-backend-go/internal/config"
	"github.com/cmlabs-hris/employee-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/employee-backend-go/internal/pkg/password"
	"github.com/cmlabs-hris/employee-backend-go/internal/repository/postgresql"
)

func main() {
	seed := flag.Bool("seed", false, "insert the configured admin account after migrating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, *seed); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, seed bool) error {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.WithMaxConns(2), database.WithMinConns(0))
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	applied, err := postgresql.RunMigrations(ctx, db)
	if err != nil {
		return err
	}
	slog.Info("Migrations complete", "applied", applied)

	if !seed {
		return nil
	}

	hashed, err := password.Hash(cfg.Seed.AdminPassword, cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	inserted, err := postgresql.SeedAdmin(ctx, db, employee.Employee{
		Name:         cfg.Seed.AdminName,
		Email:        cfg.Seed.AdminEmail,
		PasswordHash: hashed,
		Designation:  employee.DesignationManager,
		Department:   employee.DepartmentEngineering,
		EmployeeID:   cfg.Seed.AdminEmployeeID,
		JoiningDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       employee.StatusCurrentEmployee,
	})
	if err != nil {
		return err
	}
	if inserted {
		slog.Info("Admin account created", "email", cfg.Seed.AdminEmail)
	} else {
		slog.Info("Admin account already exists", "email", cfg.Seed.AdminEmail)
	}
	return nil
}
