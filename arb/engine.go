package arb

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/simulator"
	"github.com/pittcat/sui-arb-core/sui"
	"github.com/pittcat/sui-arb-core/trader"
)

// startingGrid is the grid scan's seed amount (spec §4.C5 step 2, "e.g. 10^6 MIST").
const startingGrid uint64 = 1_000_000

// gridSteps is the grid scan's exponent range (spec §4.C5 step 2, "k in 1..=10").
const gridSteps = 10

// EngineConfig bundles find_opportunity's configurable MEV-tip policy (spec
// §4.C5 step 6, default 9/10, overridable per spec §6 mev_tip_fraction_bps).
type EngineConfig struct {
	TipNumerator   uint64
	TipDenominator uint64
}

// DefaultEngineConfig returns the protocol's default 0.9 tip fraction.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{TipNumerator: 9, TipDenominator: 10}
}

// Opportunity is FindOpportunity's successful output (spec §4.C5 step 7).
type Opportunity struct {
	Best        TrialResult
	CacheMisses int
	Source      sui.Source
	TxData      *sui.TransactionData
	SearchTime  time.Duration
}

// Engine runs find_opportunity against a dex.Registry and simulator.Simulator.
type Engine struct {
	registry *dex.Registry
	sim      *simulator.Simulator
	cfg      EngineConfig
	log      *log.Logger
}

// NewEngine constructs an Engine.
func NewEngine(registry *dex.Registry, sim *simulator.Simulator, cfg EngineConfig, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if cfg.TipDenominator == 0 {
		cfg = DefaultEngineConfig()
	}
	return &Engine{registry: registry, sim: sim, cfg: cfg, log: logger}
}

// FindOpportunityParams bundles FindOpportunity's inputs (spec §4.C5
// "find_opportunity(sender, coin, pool_id?, gas_coins, sim_ctx, use_gss, source)").
type FindOpportunityParams struct {
	Sender        sui.Address
	Coin          sui.CoinType
	PoolID        *sui.ObjectID
	GasCoins      []sui.ObjectRef
	GasPrice      uint64
	SimCtx        *simulator.SimulateCtx
	UseGSS        bool
	Source        sui.Source
	FlashFallback dex.FlashProvider
	BidPackage    sui.ObjectID
}

// FindOpportunity searches for a profitable round trip in coin: a parallel
// grid scan over input amounts, an optional golden-section refinement, MEV
// tip computation, and final flash-loan-framed transaction assembly (spec
// §4.C5 "Opportunity search").
func (e *Engine) FindOpportunity(ctx context.Context, p FindOpportunityParams) (Opportunity, error) {
	start := time.Now()

	tc, err := NewTrialCtx(e.registry, p.Coin, p.PoolID)
	if err != nil {
		return Opportunity{}, err
	}

	trialParams := TrialParams{
		Sender: p.Sender, GasCoins: p.GasCoins, GasPrice: p.GasPrice, Source: p.Source,
		FlashFallback: p.FlashFallback, BidPackage: p.BidPackage, BaseSimCtx: p.SimCtx,
	}

	gridResults := make([]TrialResult, gridSteps)
	g, gctx := errgroup.WithContext(ctx)
	for k := 1; k <= gridSteps; k++ {
		k := k
		g.Go(func() error {
			res, err := trial(gctx, e.sim, tc, trialParams, startingGrid*pow10(uint(k)))
			if err != nil {
				return err
			}
			gridResults[k-1] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Opportunity{}, err
	}

	cacheMisses := 0
	best := gridResults[0]
	for _, res := range gridResults {
		cacheMisses += res.CacheMisses
		if res.Profit > best.Profit {
			best = res
		}
	}
	if best.Profit <= 0 {
		e.log.WithFields(log.Fields{"coin": p.Coin, "cache_misses": cacheMisses}).Debug("arb: grid scan found no profitable point")
		return Opportunity{}, ErrNoProfitableGrid
	}

	if p.UseGSS {
		lo := saturatingDiv10(best.AmountIn)
		hi := saturatingMul10(best.AmountIn)
		refined, err := goldenSectionSearchMaximize(ctx, lo, hi, func(ctx context.Context, amountIn uint64) (TrialResult, error) {
			return trial(ctx, e.sim, tc, trialParams, amountIn)
		})
		if err != nil {
			return Opportunity{}, err
		}
		cacheMisses += refined.CacheMisses
		if refined.Profit > best.Profit {
			best = refined
		}
	}
	if best.Profit <= 0 {
		return Opportunity{}, ErrNoProfitablePath
	}

	source := p.Source
	if source.HasDeadline() {
		source = source.WithArbFoundTime(uint64(time.Now().UnixMilli()))
	}
	source = source.WithBidAmount(uint64(best.Profit) * e.cfg.TipNumerator / e.cfg.TipDenominator)

	round := best.BuyPath.Concat(best.SellPath)
	var oppDigest *sui.Digest
	if source.IsShio() {
		d := source.OppTxDigest
		oppDigest = &d
	}
	txData, err := trader.BuildFlashloanTradeTx(ctx, trader.FlashloanTxParams{
		Path: round, Sender: p.Sender, AmountIn: best.AmountIn, GasCoins: p.GasCoins, GasPrice: p.GasPrice,
		Source: source, OppTxDigest: oppDigest, FlashFallback: p.FlashFallback, BidPackage: p.BidPackage,
	})
	if err != nil {
		return Opportunity{}, err
	}

	return Opportunity{
		Best:        best,
		CacheMisses: cacheMisses,
		Source:      source,
		TxData:      txData,
		SearchTime:  time.Since(start),
	}, nil
}

func pow10(k uint) uint64 {
	v := uint64(1)
	for i := uint(0); i < k; i++ {
		v *= 10
	}
	return v
}

func saturatingDiv10(v uint64) uint64 {
	if v/10 == 0 {
		return 1
	}
	return v / 10
}

func saturatingMul10(v uint64) uint64 {
	const maxU64 = ^uint64(0)
	if v > maxU64/10 {
		return maxU64
	}
	return v * 10
}
