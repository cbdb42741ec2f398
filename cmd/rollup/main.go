package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campuspulse/campuspulse/internal/app"
	"github.com/campuspulse/campuspulse/internal/rollup"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var once = flag.Bool("once", false, "Run a single rollup pass and exit")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to init service: %v", err)
	}
	defer service.Close()

	worker, err := rollup.NewWorker(service.Config.Rollup.Schedule, service.Store)
	if err != nil {
		logger.Error.Fatalf("Failed to initialize rollup worker: %v", err)
	}

	if *once {
		if err := worker.RunOnce(); err != nil {
			logger.Error.Fatalf("Rollup failed: %v", err)
		}
		return
	}

	worker.Start()
	defer worker.Stop()
	logger.Info.Printf("Rollup worker running on schedule %q", service.Config.Rollup.Schedule)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info.Println("Shutting down rollup worker")
}
