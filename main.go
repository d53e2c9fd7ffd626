package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"ghuman-groceries/app"
	"ghuman-groceries/config"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		if err := godotenv.Overload(".env"); err != nil {
			log.Debugf(".env file not found, using system environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Initialize(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	runErr := a.Run(ctx, os.Args)
	if err := a.Close(); err != nil {
		log.Errorf("❌ Close: %v", err)
	}
	if runErr != nil {
		log.Error(runErr)
		code := 1
		var exitErr cli.ExitCoder
		if errors.As(runErr, &exitErr) {
			code = exitErr.ExitCode()
		}
		os.Exit(code)
	}
}
