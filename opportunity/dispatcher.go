package opportunity

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pittcat/sui-arb-core/simulator"
	"github.com/pittcat/sui-arb-core/sui"
)

// Defaults from spec §4.C6: recent-coin FIFO capacity, worker-channel
// fan-out low-water mark, and the Shio deadline safety margin.
const (
	DefaultRecentCapacity     = 32
	DefaultLowWater           = 10
	DefaultShioSafetyMarginMs = uint64(20)
)

// DispatcherConfig bundles the dispatcher's tunables (spec §6 config
// surface: recent_arbs_capacity, arb_ttl_ms, shio_deadline_safety_margin_ms).
type DispatcherConfig struct {
	TTLMs              int64
	RecentCapacity     int
	LowWater           int
	ShioSafetyMarginMs uint64
	LatestEpoch        func() uint64
}

// DefaultDispatcherConfig returns spec §4.C6's defaults; latestEpoch
// supplies the current epoch for newly constructed SimulateCtx values (nil
// is accepted and yields epoch 0, useful in tests).
func DefaultDispatcherConfig(latestEpoch func() uint64) DispatcherConfig {
	return DispatcherConfig{
		TTLMs:              DefaultTTLMs,
		RecentCapacity:     DefaultRecentCapacity,
		LowWater:           DefaultLowWater,
		ShioSafetyMarginMs: DefaultShioSafetyMarginMs,
		LatestEpoch:        latestEpoch,
	}
}

// Dispatcher turns ingress events into ArbItems in the cache and fans them
// out to the worker channel (spec §4.C6). It processes events sequentially
// under its own lock (spec §5 "The strategy dispatcher processes input
// events sequentially").
type Dispatcher struct {
	mu         sync.Mutex
	cache      *ArbCache
	recognizer SwapRecognizer
	recent     []sui.CoinType // bounded FIFO, oldest first
	cfg        DispatcherConfig
	out        chan<- ArbItem
	log        *log.Logger
}

// NewDispatcher constructs a Dispatcher fanning recognized opportunities
// into out.
func NewDispatcher(recognizer SwapRecognizer, out chan<- ArbItem, cfg DispatcherConfig, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if cfg.RecentCapacity <= 0 {
		cfg.RecentCapacity = DefaultRecentCapacity
	}
	if cfg.LowWater <= 0 {
		cfg.LowWater = DefaultLowWater
	}
	if cfg.TTLMs <= 0 {
		cfg.TTLMs = DefaultTTLMs
	}
	return &Dispatcher{cache: NewArbCache(cfg.TTLMs), recognizer: recognizer, cfg: cfg, out: out, log: logger}
}

// Cache exposes the underlying ArbCache, mainly for tests and diagnostics.
func (d *Dispatcher) Cache() *ArbCache { return d.cache }

// OnPublicTxEffects implements spec §4.C6 on_public_tx_effects: for each
// recognized swap event, insert an opportunity sourced from the public
// chain with opp_tx_digest = effects.digest.
func (d *Dispatcher) OnPublicTxEffects(ctx context.Context, effects TxEffects, events []SuiEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	epoch := d.epoch()
	for _, ev := range events {
		coinIn, coinOut, poolID, ok := d.recognizer.RecognizeSwap(ev)
		if !ok {
			continue
		}
		pid := poolID
		d.cache.Insert(interestingCoin(coinIn, coinOut), &pid, effects.Digest, simulator.NewSimulateCtx(epoch, nil), sui.PublicSource())
	}
	d.fanOutLocked(ctx)
}

// OnPrivateTx implements spec §4.C6 on_private_tx: a reserved interface.
// "[a] conformant implementation MAY simulate the private tx locally to
// extract swap events; [a]bsent implementation is acceptable" — this core
// accepts events already extracted by the caller (e.g. a collector that
// ran the private tx_data through the simulator) rather than embedding that
// extraction step here.
func (d *Dispatcher) OnPrivateTx(ctx context.Context, txData *sui.TransactionData, events []SuiEvent) {
	if txData == nil || len(events) == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	epoch := d.epoch()
	digest := txData.Digest()
	for _, ev := range events {
		coinIn, coinOut, poolID, ok := d.recognizer.RecognizeSwap(ev)
		if !ok {
			continue
		}
		pid := poolID
		d.cache.Insert(interestingCoin(coinIn, coinOut), &pid, digest, simulator.NewSimulateCtx(epoch, nil), sui.PrivateSource())
	}
	d.fanOutLocked(ctx)
}

// OnShioItem implements spec §4.C6 on_shio_item: builds a SimulateCtx
// seeded with the item's created/mutated objects as overrides and a Shio
// source carrying the deadline minus the safety margin.
func (d *Dispatcher) OnShioItem(ctx context.Context, item ShioEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	epoch := d.epoch()
	overrides := make(map[sui.ObjectID]sui.ObjectReadResult, len(item.CreatedMutatedObjects))
	for _, obj := range item.CreatedMutatedObjects {
		bcs, _ := base64.StdEncoding.DecodeString(obj.ObjectBCSBase64)
		overrides[obj.ID] = sui.ObjectReadResult{ObjectID: obj.ID, Status: sui.ObjectStatusExists, BCS: bcs, Owner: obj.Owner}
	}
	simCtx := simulator.NewSimulateCtx(epoch, overrides)

	now := uint64(time.Now().UnixMilli())
	deadline := saturatingSub(item.DeadlineTimestampMs, d.cfg.ShioSafetyMarginMs)
	source := sui.NewShioSource(item.TxDigest, now, deadline)

	for _, ev := range item.Events {
		coinIn, coinOut, poolID, ok := d.recognizer.RecognizeSwap(ev)
		if !ok {
			continue
		}
		pid := poolID
		d.cache.Insert(interestingCoin(coinIn, coinOut), &pid, item.TxDigest, simCtx, source)
	}
	d.fanOutLocked(ctx)
}

// fanOutLocked pushes cache entries into the worker channel until either
// the channel holds >= LOW_WATER items or the cache is empty, then reaps
// expired entries and un-bans their coins (spec §4.C6 "Fan-out"). Callers
// must hold d.mu.
func (d *Dispatcher) fanOutLocked(ctx context.Context) {
	for len(d.out) < d.cfg.LowWater {
		item, ok := d.cache.PopOne()
		if !ok {
			break
		}
		if d.isRecentlyDispatched(item.Coin) && item.Source.Kind != sui.SourceShio {
			continue
		}
		d.markDispatched(item.Coin)

		select {
		case d.out <- item:
		case <-ctx.Done():
			return
		default:
			d.log.WithField("coin", item.Coin).Warn("opportunity: worker channel has no free slot this tick")
			return
		}
	}

	for _, coin := range d.cache.ReapExpired() {
		d.unmarkDispatched(coin)
	}
}

func (d *Dispatcher) epoch() uint64 {
	if d.cfg.LatestEpoch == nil {
		return 0
	}
	return d.cfg.LatestEpoch()
}

func (d *Dispatcher) isRecentlyDispatched(coin sui.CoinType) bool {
	for _, c := range d.recent {
		if c == coin {
			return true
		}
	}
	return false
}

func (d *Dispatcher) markDispatched(coin sui.CoinType) {
	if d.isRecentlyDispatched(coin) {
		return
	}
	d.recent = append(d.recent, coin)
	if len(d.recent) > d.cfg.RecentCapacity {
		d.recent = d.recent[1:]
	}
}

func (d *Dispatcher) unmarkDispatched(coin sui.CoinType) {
	for i, c := range d.recent {
		if c == coin {
			d.recent = append(d.recent[:i], d.recent[i+1:]...)
			return
		}
	}
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
