package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ms-conference/internal/config"
	"ms-conference/internal/database/migrations"
	"ms-conference/internal/logger"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up or down")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewWriterLogger(os.Stdout)

	runner := migrations.NewRunner(migrations.MigrateOptions{
		MigrationsDir: cfg.Database.MigrationsDir,
		DatabaseURL:   cfg.Database.DSN,
	}, log)
	defer runner.Close()

	var err error
	switch *direction {
	case "up":
		err = runner.MigrateUp()
	case "down":
		err = runner.MigrateDown()
	default:
		err = fmt.Errorf("unknown direction %q", *direction)
	}
	if err != nil {
		log.Error("DATABASE", err.Error())
		runner.Close()
		os.Exit(1)
	}
	log.Info("DATABASE", fmt.Sprintf("✅ Migrations %s complete", *direction))
}
