package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/accessdeck/accessdeck/pipeline"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (defaults apply when omitted)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: accessdeck [-config accessdeck.yaml] <presentation.pptx>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	// Logging.
	var lvl slog.Level
	switch env("LOG_LEVEL", "info") {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	cfg := pipeline.DefaultConfig()
	if *cfgPath != "" {
		var err error
		cfg, err = pipeline.LoadConfig(*cfgPath)
		if err != nil {
			slog.Error("config", "error", err)
			os.Exit(1)
		}
	}
	// The service credential never lives in the config file.
	if key := os.Getenv("CAPTION_API_KEY"); key != "" {
		cfg.Caption.APIKey = key
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pl, err := pipeline.New(cfg, logger)
	if err != nil {
		slog.Error("pipeline init", "error", err)
		os.Exit(1)
	}

	artifacts, err := pl.Run(ctx, input)
	if err != nil {
		slog.Error("pipeline failed", "input", input, "error", err)
		os.Exit(1)
	}
	slog.Info("done",
		"cleaned", artifacts.Cleaned,
		"notes", artifacts.Notes,
		"braille", artifacts.Braille,
		"interleaved", artifacts.Interleaved)
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
