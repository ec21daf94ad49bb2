package main

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pittcat/sui-arb-core/arb"
	"github.com/pittcat/sui-arb-core/collector"
	"github.com/pittcat/sui-arb-core/config"
	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/opportunity"
	"github.com/pittcat/sui-arb-core/simulator"
	"github.com/pittcat/sui-arb-core/sui"
	"github.com/pittcat/sui-arb-core/telemetry"
	"github.com/pittcat/sui-arb-core/worker"
)

func newRunCmd() *cobra.Command {
	var configName string
	var once bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the arbitrage core, or search once and exit with --once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configName)
			if err != nil {
				return err
			}
			if once {
				return runOnce(cmd, cfg)
			}
			return runServer(cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&configName, "config", "", "config file base name (default \"arb\")")
	cmd.Flags().BoolVar(&once, "once", false, "search for one opportunity, report, and exit (spec §7 run-once mode)")
	return cmd
}

func buildRegistry(cfg *config.Config) *dex.Registry {
	return dex.NewRegistry(dex.Config{
		MaxHopCount:  cfg.MaxHopCount,
		MaxPoolCount: cfg.MaxPoolCount,
		MinLiquidity: cfg.MinLiquidity,
		PeggedCoins:  map[sui.CoinType]bool{},
	}, nil)
}

func buildEngineConfig(cfg *config.Config) arb.EngineConfig {
	return arb.EngineConfig{TipNumerator: cfg.MevTipFractionBps, TipDenominator: 10_000}
}

// runOnce implements spec §7's run-once mode: a single find_opportunity
// call, a JSON report on success, and propagates the search error (which
// main maps to a nonzero exit) on Configuration/NoPath/NoProfitablePath.
func runOnce(cmd *cobra.Command, cfg *config.Config) error {
	coin, err := sui.NormalizeCoinType(cfg.CoinType)
	if err != nil {
		return fmt.Errorf("config: coin_type: %w", err)
	}
	sender, err := sui.ParseAddress(cfg.Sender)
	if err != nil {
		return fmt.Errorf("config: sender: %w", err)
	}
	var poolID *sui.ObjectID
	if cfg.PoolID != "" {
		id, err := sui.ParseAddress(cfg.PoolID)
		if err != nil {
			return fmt.Errorf("config: pool_id: %w", err)
		}
		poolID = &id
	}

	registry := buildRegistry(cfg)
	sim := simulator.New(unresolvedSnapshot{}, cfg.SimCacheCapacity, nil)
	engine := arb.NewEngine(registry, sim, buildEngineConfig(cfg), nil)

	simCtx := simulator.NewSimulateCtx(0, nil)
	simCtx.UseMockGasCoin()

	opp, err := engine.FindOpportunity(cmd.Context(), arb.FindOpportunityParams{
		Sender: sender, Coin: coin, PoolID: poolID, GasPrice: 1000,
		SimCtx: simCtx, UseGSS: true, Source: sui.PublicSource(),
	})
	if err != nil {
		return err
	}

	report := struct {
		Coin         string `json:"coin"`
		AmountIn     uint64 `json:"amount_in"`
		AmountOut    uint64 `json:"amount_out"`
		Profit       int64  `json:"profit"`
		CacheMisses  int    `json:"cache_misses"`
		SearchTimeMs int64  `json:"search_time_ms"`
	}{
		Coin:         string(coin),
		AmountIn:     opp.Best.AmountIn,
		AmountOut:    opp.Best.AmountOut,
		Profit:       opp.Best.Profit,
		CacheMisses:  opp.CacheMisses,
		SearchTimeMs: opp.SearchTime.Milliseconds(),
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

type runnableSource interface {
	Run(ctx context.Context) error
}

// runServer wires the dispatcher, worker pool, and whichever collectors
// the config enables, and runs until its context is cancelled (spec §4.C6
// "fan-out", §4.C7 "worker loop"). Real swap-event recognition, private-tx
// BCS decoding, and action signing/broadcast are deployment-supplied seams
// (see noopRecognizer, unsupportedTxDataDecoder, logSubmitter).
func runServer(cmd *cobra.Command, cfg *config.Config) error {
	sender, err := sui.ParseAddress(cfg.Sender)
	if err != nil {
		return fmt.Errorf("config: sender: %w", err)
	}

	registry := buildRegistry(cfg)
	notifier := telemetry.Notifier(telemetry.NewLogrusNotifier(nil))

	items := make(chan opportunity.ArbItem, cfg.RecentArbsCapacity)
	dispatcher := opportunity.NewDispatcher(noopRecognizer{}, items, opportunity.DispatcherConfig{
		TTLMs:              cfg.ArbTTLMs,
		RecentCapacity:     cfg.RecentArbsCapacity,
		ShioSafetyMarginMs: cfg.ShioDeadlineSafetyMarginMs,
	}, nil)

	pool := worker.NewPool(cfg.Workers, registry, unresolvedSnapshot{}, cfg.SimCacheCapacity, buildEngineConfig(cfg),
		worker.Config{Sender: sender, GasPrice: 1000}, newLogSubmitter(nil), notifier, nil)

	var sources []runnableSource
	if cfg.IPCPath != "" {
		src, err := collector.NewSocketPublicTxSource(cfg.IPCPath, dispatcher.OnPublicTxEffects, nil)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}
	if cfg.RelayWSURL != "" {
		sources = append(sources, collector.NewWSPrivateTxSource(cfg.RelayWSURL, unsupportedTxDataDecoder, dispatcher.OnPrivateTx, nil))
	}
	if cfg.ShioWSURL != "" {
		sources = append(sources, collector.NewWSShioSource(cfg.ShioWSURL, dispatcher.OnShioItem, nil))
	}

	ctx := cmd.Context()
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		src := src
		g.Go(func() error { return src.Run(gctx) })
	}
	g.Go(func() error {
		pool.Run(gctx, items)
		return nil
	})

	log.Info("arb: running")
	return g.Wait()
}
