package main

import (
	"context"
	"flag"
	"fmt"

	"go.uber.org/zap"

	"workorder-system/pkg/config"
	"workorder-system/pkg/database/migrations"
	"workorder-system/pkg/database/postgresql"
	applogger "workorder-system/pkg/logger"
	"workorder-system/seeders"
)

func main() {
	runReference := flag.Bool("reference", false, "Seed the service catalog and the equipment brand/model tree")
	runDemo := flag.Bool("demo", false, "Seed demo users, a client, equipment and equipment documents")
	runAll := flag.Bool("all", false, "Run every seeder (same as -reference -demo)")
	flag.Parse()

	if !*runReference && !*runDemo && !*runAll {
		fmt.Println("No seeder selected. Available flags:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Example: go run ./seeders/cmd/seed -all")
		return
	}

	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, "")
	defer logger.Sync()

	ctx := context.Background()
	dbPool, err := postgresql.Connect(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	if err := migrations.Up(ctx, dbPool, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	if *runAll || *runReference {
		if err := seeders.SeedReference(ctx, dbPool, logger); err != nil {
			logger.Fatal("reference seeding failed", zap.Error(err))
		}
	}
	if *runAll || *runDemo {
		if err := seeders.SeedDemo(ctx, dbPool, logger); err != nil {
			logger.Fatal("demo seeding failed", zap.Error(err))
		}
	}
	logger.Info("seeding finished")
}
