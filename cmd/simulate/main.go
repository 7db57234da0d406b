package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"marketsim/internal/agent"
	"marketsim/internal/external/telemetry"
	"marketsim/internal/market"
	"marketsim/internal/sentiment"
	"marketsim/internal/stocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	ticks := flag.Uint64("ticks", 1000, "number of ticks to simulate")
	tradesOut := flag.String("trades-out", "", "optional CSV path to record settled trades")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	runID := uuid.New()
	log.Logger = log.With().Str("run_id", runID.String()).Logger()
	logger := log.Logger

	registry := stocks.Default()
	m := market.New(registry)

	sent := sentiment.New(registry.IDs(), sentiment.Config{
		TickInterval: time.Second,
		HalfLife:     30 * time.Second,
		SpikeProb:    0.01,
	})
	sent.Start()
	defer sent.Stop()
	m.SetSentiment(sent)

	seedAgents(m)

	var trades *telemetry.TradeWriter
	if *tradesOut != "" {
		var err error
		trades, err = telemetry.NewTradeWriter(*tradesOut)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open trade telemetry file")
		}
		defer trades.Close()
	}

	logger.Info().Uint64("ticks", *ticks).Msg("starting simulation run")

	for tick := uint64(0); tick < *ticks; tick++ {
		select {
		case <-ctx.Done():
			logger.Info().Uint64("completed_ticks", tick).Msg("simulation interrupted")
			return
		default:
		}
		tr := m.Tick(ctx)
		if trades != nil {
			if err := trades.WriteTick(tick, tr); err != nil {
				logger.Error().Err(err).Msg("failed to write trade telemetry")
			}
		}
	}

	logger.Info().Msg("simulation run complete")
}

func seedAgents(m *market.Market) {
	var id uint64

	id++
	m.AddAgent(agent.NewIPO(id), func(id uint64) market.Agent { return agent.NewIPO(id) })

	for i := 0; i < agent.MMPoolSize; i++ {
		id++
		m.AddAgent(agent.NewMarketMaker(id), func(id uint64) market.Agent { return agent.NewMarketMaker(id) })
	}
	for i := 0; i < agent.DumbPoolSize; i++ {
		id++
		m.AddAgent(agent.NewDumb(id), func(id uint64) market.Agent { return agent.NewDumb(id) })
	}
	for i := 0; i < agent.LimitPoolSize; i++ {
		id++
		m.AddAgent(agent.NewDumbLimit(id), func(id uint64) market.Agent { return agent.NewDumbLimit(id) })
	}
	for i := 0; i < agent.WhalePoolSize; i++ {
		id++
		m.AddAgent(agent.NewWhale(id), func(id uint64) market.Agent { return agent.NewWhale(id) })
	}
}
