package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Law-sys/subcontractor-pre-qual/internal/common"
	"github.com/Law-sys/subcontractor-pre-qual/internal/observability/logging"
	"github.com/Law-sys/subcontractor-pre-qual/internal/repository"
)

// dbhealth verifies database connectivity and optionally applies the schema.
func main() {
	migrate := flag.Bool("migrate", false, "apply the schema before reporting")
	timeout := flag.Duration("timeout", 5*time.Second, "overall deadline")
	flag.Parse()

	cfg := common.LoadConfig()
	logger := logging.New("dbhealth", cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *migrate {
		if err := repository.Migrate(ctx, db); err != nil {
			logger.Error("migration failed", "error", err)
			os.Exit(1)
		}
		logger.Info("schema applied")
	}

	if err := repository.HealthCheck(ctx, db, 0); err != nil {
		logger.Error("health check failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("ok")
}
