package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"ircbook/internal/bot"
	"ircbook/internal/config"
	"ircbook/internal/snapshot"
	"ircbook/internal/transport"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg := config.Load()

	state, err := snapshot.Load(cfg.SnapshotDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load snapshot")
	}

	eng := state.Engine()
	dispatcher := bot.New(state.Users, state.Claims, state.Trades, eng, cfg.Owners)

	persist := func() error {
		return snapshot.Save(cfg.SnapshotDir, state)
	}

	srv := transport.New(cfg.ListenAddr, dispatcher, persist)

	go func() {
		if err := srv.Run(ctx); err != nil {
			log.Error().Err(err).Msg("transport server stopped")
		}
	}()

	log.Info().Str("address", cfg.ListenAddr).Msg("ircbookd running")
	<-ctx.Done()
	srv.Shutdown()
}
