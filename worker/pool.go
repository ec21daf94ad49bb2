// Package worker runs the opportunity-processing loop (spec §4.C7
// "Worker"): each worker pulls an ArbItem off a shared channel, checks a
// pre-search deadline, searches for a profitable round trip, dry-runs the
// resulting transaction once more, and submits an Action if it still
// clears the deadline.
//
// Grounded on the original bot's bin/arb/src/strategy.rs worker loop and
// core/workers.go's "fixed pool of goroutines draining a shared channel"
// shape.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pittcat/sui-arb-core/arb"
	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/opportunity"
	"github.com/pittcat/sui-arb-core/simulator"
	"github.com/pittcat/sui-arb-core/sui"
	"github.com/pittcat/sui-arb-core/telemetry"
)

// unit is one worker's private simulator+engine pair. Workers must never
// share a single simulator handle (spec §4.C7), so each unit gets its own.
type unit struct {
	sim    *simulator.Simulator
	engine *arb.Engine
}

// Config bundles the transaction-building parameters shared by every
// worker in a Pool (spec §4.C7 step 3's sender/gas_coins/flash fallback).
type Config struct {
	Sender        sui.Address
	GasCoins      []sui.ObjectRef
	GasPrice      uint64
	FlashFallback dex.FlashProvider
	BidPackage    sui.ObjectID
}

// Pool runs a fixed number of workers, each with its own Simulator and
// arb.Engine, draining a shared ArbItem channel and submitting Actions
// through a caller-supplied Submitter.
type Pool struct {
	units     []unit
	cfg       Config
	submitter Submitter
	notifier  telemetry.Notifier
	log       *log.Logger
}

// NewPool constructs a Pool of n workers, each simulating against its own
// Simulator instance over snapshot (spec §4.C7 "simulator pool").
func NewPool(
	n int,
	registry *dex.Registry,
	snapshot simulator.Snapshot,
	simCacheCap int,
	engineCfg arb.EngineConfig,
	cfg Config,
	submitter Submitter,
	notifier telemetry.Notifier,
	logger *log.Logger,
) *Pool {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if n <= 0 {
		n = 1
	}
	units := make([]unit, n)
	for i := range units {
		sim := simulator.New(snapshot, simCacheCap, logger)
		units[i] = unit{sim: sim, engine: arb.NewEngine(registry, sim, engineCfg, logger)}
	}
	return &Pool{units: units, cfg: cfg, submitter: submitter, notifier: notifier, log: logger}
}

// Run starts all workers against items and blocks until the channel closes
// or ctx is cancelled.
func (p *Pool) Run(ctx context.Context, items <-chan opportunity.ArbItem) {
	var wg sync.WaitGroup
	for i := range p.units {
		wg.Add(1)
		u := p.units[i]
		go func() {
			defer wg.Done()
			p.runWorker(ctx, u, items)
		}()
	}
	wg.Wait()
}

func (p *Pool) runWorker(ctx context.Context, u unit, items <-chan opportunity.ArbItem) {
	for {
		select {
		case <-ctx.Done():
			return
		case item, ok := <-items:
			if !ok {
				return
			}
			p.processItem(ctx, u, item)
		}
	}
}

// processItem implements the worker loop's five steps (spec §4.C7).
func (p *Pool) processItem(ctx context.Context, u unit, item opportunity.ArbItem) {
	now := uint64(time.Now().UnixMilli())

	// Step 2: pre-search deadline check.
	if deadlineMs, has := item.Source.Deadline(); has && deadlineMs < now {
		missed := item.Source.WithArbFoundTime(now)
		p.notify(ctx, fmt.Sprintf("worker: %s skipped, %s", item.Coin, missed))
		return
	}

	// Step 3: search for a profitable round trip.
	opp, err := u.engine.FindOpportunity(ctx, arb.FindOpportunityParams{
		Sender:        p.cfg.Sender,
		Coin:          item.Coin,
		PoolID:        item.PoolID,
		GasCoins:      p.cfg.GasCoins,
		GasPrice:      p.cfg.GasPrice,
		SimCtx:        item.SimCtx,
		UseGSS:        true,
		Source:        item.Source,
		FlashFallback: p.cfg.FlashFallback,
		BidPackage:    p.cfg.BidPackage,
	})
	if err != nil {
		p.notify(ctx, fmt.Sprintf("worker: %s no opportunity: %v", item.Coin, err))
		return
	}

	// Step 4a: dry-run the assembled tx once more before submitting.
	dryRunResult, err := u.sim.Simulate(ctx, opp.TxData, dryRunCtx(item.SimCtx, opp))
	if err != nil {
		p.notify(ctx, fmt.Sprintf("worker: %s dry run error (cache_misses=%d): %v", item.Coin, opp.CacheMisses, err))
		return
	}
	if dryRunResult.Status != simulator.StatusOK {
		p.notify(ctx, fmt.Sprintf("worker: %s dry run %s (cache_misses=%d): %s", item.Coin, dryRunResult.Status, opp.CacheMisses, dryRunResult.FailureReason))
		return
	}

	// Step 4b: re-check the deadline hasn't elapsed since the search began.
	if deadlineMs, has := opp.Source.Deadline(); has && deadlineMs < uint64(time.Now().UnixMilli()) {
		p.notify(ctx, fmt.Sprintf("worker: %s deadline elapsed before submit", item.Coin))
		return
	}

	if err := p.submitter.Submit(ctx, actionFor(opp)); err != nil {
		p.notify(ctx, fmt.Sprintf("worker: %s submit failed: %v", item.Coin, err))
	}
}

// dryRunCtx derives a SimulateCtx for the final dry run from the item's
// base context, pointed at the winning round trip and amount.
func dryRunCtx(base *simulator.SimulateCtx, opp arb.Opportunity) *simulator.SimulateCtx {
	cp := base.Clone()
	cp.SetTrade(opp.Best.BuyPath.Concat(opp.Best.SellPath), opp.Best.AmountIn)
	return cp
}

// actionFor picks the Action matching an opportunity's source (spec §4.C7
// step 4: Public/Private -> ExecutePublicTx, Shio -> ShioSubmitBid).
func actionFor(opp arb.Opportunity) Action {
	if opp.Source.IsShio() {
		return ShioSubmitBid{
			TxData:      opp.TxData,
			BidAmount:   opp.Source.Bid(),
			OppTxDigest: opp.Source.OppTxDigest,
		}
	}
	return ExecutePublicTx{TxData: opp.TxData}
}

// notify reports a diagnostic via the worker's telemetry sink (spec §4.C7
// step 5), swallowing a nil notifier so a Pool may run without one wired up.
func (p *Pool) notify(ctx context.Context, message string) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Notify(ctx, message); err != nil {
		p.log.WithError(err).Warn("worker: notify failed")
	}
}
