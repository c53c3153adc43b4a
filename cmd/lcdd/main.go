package main

import (
	"context"
	"time"

	"github.com/jimmicro/grace"
	_ "github.com/jimmicro/version"
	"github.com/lcdd/lcdd/internal/lcdd"
	"github.com/lcdd/lcdd/internal/lcdd/config"
	"github.com/rs/zerolog/log"
)

// zerologLogger adapts zerolog to grace.Logger, mirroring jvp.go's
// zerologLogger.
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	if len(args) > 0 {
		log.Info().Msgf(msg, args...)
	} else {
		log.Info().Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	if len(args) > 0 {
		log.Error().Msgf(msg, args...)
	} else {
		log.Error().Msg(msg)
	}
}

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create config")
	}

	server, err := lcdd.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	services := []grace.Grace{server, server.StatusAPI()}
	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(context.Background())
}
