package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phototrail/cli/internal/client/cli"
	"github.com/phototrail/cli/internal/client/config"
	"github.com/phototrail/cli/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr)

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		signals := make(chan os.Signal, 2)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		<-signals
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
