package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/df07/go-soft-renderer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory searched for scene files")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	webServer := server.NewServer(*port, *scenesDir, logger)
	if err := webServer.Start(); err != nil {
		logger.Error("error starting server", "error", err)
		os.Exit(1)
	}
}
