package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ytget/yt-converter/internal/config"
	"github.com/ytget/yt-converter/internal/encode"
	"github.com/ytget/yt-converter/internal/httpapi"
	"github.com/ytget/yt-converter/internal/log"
	"github.com/ytget/yt-converter/internal/pipeline"
	"github.com/ytget/yt-converter/internal/provider"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const shutdownGrace = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "yt-converter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log.Configure(log.Config{Level: settings.LogLevel})
	logger := log.Base()
	logger.Info().Str("version", version).Str("addr", settings.ListenAddr).Msg("starting")

	client, err := provider.NewClient(settings.ProviderBaseURL, settings.CatalogTimeout)
	if err != nil {
		return fmt.Errorf("provider client: %w", err)
	}

	engine, err := encode.NewEngine(settings.FFmpegPath)
	if err != nil {
		return fmt.Errorf("encoder: %w", err)
	}

	converter := pipeline.NewConverter(client, client, pipeline.NewEngineEncoder(engine), settings.DefaultAudioQuality)
	server := httpapi.NewServer(settings.ListenAddr, converter)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var g errgroup.Group
	g.Go(server.ListenAndServe)
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("stopped")
	return nil
}
