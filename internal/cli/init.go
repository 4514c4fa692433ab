// Package cli provides common initialization utilities shared by
// cmd/payroll, cmd/payroll-server and cmd/payroll-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"payroll/internal/config"
	"payroll/internal/log"
	"payroll/internal/report"
	"payroll/internal/services"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitService builds a payroll service with a file-backed error sink and
// loads the employee registry. Exits the process when the registry cannot
// be read; without a roster nothing else can work.
func InitService(logger *log.Logger, cfg *config.Config, events services.EventPublisher) *services.PayrollService {
	svc := services.NewPayrollService(report.NewFileSink(cfg.ErrorLogPath), events)

	n, err := svc.LoadRegistryFile(cfg.RegistryPath)
	if err != nil {
		logger.Error("Failed to load employee registry", "error", err, "path", cfg.RegistryPath)
		os.Exit(1)
	}
	logger.Info("Loaded employee registry", "path", cfg.RegistryPath, "employees", n)
	return svc
}
