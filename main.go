package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"PlaceBoard/internal/config"
	pnet "PlaceBoard/internal/net"
	"PlaceBoard/internal/session"
	"PlaceBoard/internal/state"
	"PlaceBoard/internal/ui"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		configPath  = flag.String("config", "place.toml", "Path to config file")
		debug       = flag.Bool("debug", false, "Enable debug logging")
		server      = flag.String("server", "", "Page URL of the canvas server (overrides config)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("PlaceBoard %s\n", Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if *server != "" {
		cfg.Server.URL = *server
	}

	if err := initLogging(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	log.Info().Str("version", Version).Msg("Starting PlaceBoard")
	log.Debug().Interface("config", cfg).Msg("Configuration loaded")

	url, err := resolveServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("No canvas server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = ui.Run(ctx, ui.Options{
		URL:            url,
		ReconnectDelay: cfg.Server.ReconnectDelay(),
		Session: session.Options{
			Padding:        cfg.View.Padding,
			MinScale:       cfg.View.MinScale,
			ClickTolerance: cfg.View.ClickTolerance,
			ZoomStep:       cfg.View.ZoomStep,
			PenRate:        cfg.Pen.PixelsPerSecond,
			PenBurst:       cfg.Pen.Burst,
			LogChat:        cfg.Chat.LogMessages,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Client error")
	}
	log.Info().Msg("PlaceBoard shutdown complete")
}

// resolveServer returns the socket URL from the configured page location, or
// from mDNS when none is set.
func resolveServer(cfg *config.Config) (string, error) {
	if cfg.Server.URL != "" {
		return pnet.Endpoint(cfg.Server.URL)
	}
	if !cfg.Discovery.Enabled {
		return "", fmt.Errorf("server.url is empty and discovery is disabled")
	}
	log.Info().Str("service", cfg.Discovery.Service).Dur("timeout", cfg.Discovery.Timeout()).Msg("Browsing for canvas servers")
	return pnet.Discover(cfg.Discovery.Service, cfg.Discovery.Timeout())
}

func initLogging(cfg config.LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	if cfg.File != "" {
		// Truncate on startup.
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		out = f
	}
	log.Logger = zerolog.New(out).With().Timestamp().Str("client_id", state.ClientID).Logger()
	return nil
}
