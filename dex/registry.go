package dex

import (
	"context"
	"fmt"
	"sort"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/pittcat/sui-arb-core/internal/utils"
	"github.com/pittcat/sui-arb-core/sui"
)

// AdapterFactory constructs the Dex views for one pool, oriented from
// coinIn. When coinOut is nil it yields one Dex per (coinIn, coinOut) pair
// formed from the pool's token set excluding coinIn (spec §4.C1).
type AdapterFactory func(ctx context.Context, resolver ObjectResolver, pool *Pool, coinIn sui.CoinType, coinOut *sui.CoinType) ([]Dex, error)

// Config holds the path searcher's tunables (spec §6).
type Config struct {
	MaxHopCount  int
	MaxPoolCount int
	MinLiquidity uint64
	PeggedCoins  map[sui.CoinType]bool
}

// DefaultConfig returns spec §4.C2's default tunables.
func DefaultConfig() Config {
	return Config{
		MaxHopCount:  2,
		MaxPoolCount: 10,
		MinLiquidity: 0,
		PeggedCoins:  map[sui.CoinType]bool{},
	}
}

// Registry holds two concurrent maps — coin -> {Dex} and (coin_a, coin_b) ->
// {Pool} — updated idempotently as pool-created events are ingested (spec
// §4.C2). It is safe for concurrent reads/writes; reads never block writes
// indefinitely (a single RWMutex, write path is rare relative to reads).
type Registry struct {
	mu       sync.RWMutex
	cfg      Config
	log      *log.Logger
	adapters map[Protocol]AdapterFactory
	coinToDex map[sui.CoinType][]Dex
	pairToPools map[pairKey][]*Pool
	poolIDs  map[sui.ObjectID]bool
}

type pairKey struct{ a, b sui.CoinType }

func makePairKey(a, b sui.CoinType) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// NewRegistry constructs an empty registry.
func NewRegistry(cfg Config, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Registry{
		cfg:         cfg,
		log:         logger,
		adapters:    make(map[Protocol]AdapterFactory),
		coinToDex:   make(map[sui.CoinType][]Dex),
		pairToPools: make(map[pairKey][]*Pool),
		poolIDs:     make(map[sui.ObjectID]bool),
	}
}

// RegisterAdapter wires a protocol's pool-discovery factory into the
// registry. Called once per protocol at process start.
func (r *Registry) RegisterAdapter(p Protocol, f AdapterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[p] = f
}

// AddPool ingests one pool-created event idempotently: it is skipped if
// already known, and skipped (not fatal) if the adapter reports
// ErrPoolUnavailable for some orientation.
func (r *Registry) AddPool(ctx context.Context, resolver ObjectResolver, pool *Pool) error {
	r.mu.Lock()
	if r.poolIDs[pool.PoolID] {
		r.mu.Unlock()
		return nil
	}
	factory, ok := r.adapters[pool.Protocol]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("dex: no adapter registered for protocol %s", pool.Protocol)
	}

	var allViews []Dex
	for _, tok := range pool.Tokens {
		views, err := factory(ctx, resolver, pool, tok.CoinType, nil)
		if err != nil {
			if isPoolUnavailable(err) {
				r.log.WithFields(log.Fields{"pool_id": pool.PoolID.Hex(), "protocol": pool.Protocol.String()}).
					Warn("dex: pool unavailable, skipping orientation")
				continue
			}
			return utils.Wrapf(err, "dex: adapter factory for %s", pool.Protocol)
		}
		allViews = append(allViews, views...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.poolIDs[pool.PoolID] {
		return nil
	}
	r.poolIDs[pool.PoolID] = true
	for _, d := range allViews {
		r.coinToDex[d.CoinInType()] = append(r.coinToDex[d.CoinInType()], d)
	}
	for i := 0; i < len(pool.Tokens); i++ {
		for j := i + 1; j < len(pool.Tokens); j++ {
			k := makePairKey(pool.Tokens[i].CoinType, pool.Tokens[j].CoinType)
			r.pairToPools[k] = append(r.pairToPools[k], pool)
		}
	}
	return nil
}

func isPoolUnavailable(err error) bool {
	for e := err; e != nil; {
		if e == ErrPoolUnavailable {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		e = u.Unwrap()
	}
	return false
}

// PoolsForPair returns a copy of the pools known to contain both coins.
func (r *Registry) PoolsForPair(a, b sui.CoinType) []*Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.pairToPools[makePairKey(a, b)]
	out := make([]*Pool, len(src))
	copy(out, src)
	return out
}

// dexFrom returns the Dex views where coin is the input side.
func (r *Registry) dexFrom(coin sui.CoinType) []Dex {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.coinToDex[coin]
	out := make([]Dex, len(src))
	copy(out, src)
	return out
}

func (r *Registry) isPegged(c sui.CoinType) bool {
	return r.cfg.PeggedCoins != nil && r.cfg.PeggedCoins[c]
}

// FindSellPaths discovers paths from coinIn to SUI (spec §4.C2). coinIn ==
// SUI returns a single empty path ("no trade required").
func (r *Registry) FindSellPaths(coinIn sui.CoinType) ([]Path, error) {
	if coinIn.IsSUI() {
		return []Path{{}}, nil
	}
	if r.cfg.MaxHopCount <= 0 {
		return nil, nil
	}

	hopMap := make(map[sui.CoinType][]Dex)
	visitedCoins := map[sui.CoinType]bool{coinIn: true}
	visitedPools := map[sui.ObjectID]bool{}
	frontier := []sui.CoinType{coinIn}

	for depth := 0; depth < r.cfg.MaxHopCount && len(frontier) > 0; depth++ {
		isLastHop := depth == r.cfg.MaxHopCount-1
		var next []sui.CoinType
		for _, c := range frontier {
			candidates := r.dexFrom(c)

			if r.isPegged(c) || isLastHop {
				filtered := candidates[:0:0]
				for _, d := range candidates {
					if d.CoinOutType().IsSUI() {
						filtered = append(filtered, d)
					}
				}
				candidates = filtered
			}

			pruned := candidates[:0:0]
			for _, d := range candidates {
				if d.Liquidity() >= r.cfg.MinLiquidity {
					pruned = append(pruned, d)
				}
			}
			candidates = pruned

			if len(candidates) > r.cfg.MaxPoolCount {
				fresh := candidates[:0:0]
				for _, d := range candidates {
					if !visitedPools[d.ObjectID()] {
						fresh = append(fresh, d)
					}
				}
				sort.SliceStable(fresh, func(i, j int) bool {
					li, lj := fresh[i].Liquidity(), fresh[j].Liquidity()
					if li != lj {
						return li > lj
					}
					return fresh[i].ObjectID().Hex() < fresh[j].ObjectID().Hex()
				})
				if len(fresh) > r.cfg.MaxPoolCount {
					fresh = fresh[:r.cfg.MaxPoolCount]
				}
				candidates = fresh
			}

			hopMap[c] = candidates
			for _, d := range candidates {
				visitedPools[d.ObjectID()] = true
				out := d.CoinOutType()
				if out.IsSUI() {
					continue
				}
				if !visitedCoins[out] {
					visitedCoins[out] = true
					next = append(next, out)
				}
			}
		}
		frontier = next
	}

	var paths []Path
	usedPools := map[sui.ObjectID]bool{}
	var dfs func(c sui.CoinType, acc Path)
	dfs = func(c sui.CoinType, acc Path) {
		if len(acc) >= r.cfg.MaxHopCount {
			return
		}
		cands, ok := hopMap[c]
		if !ok {
			return
		}
		for _, d := range cands {
			if usedPools[d.ObjectID()] {
				continue // hopMap has back-edges (AddPool registers both directions of a pool); reusing a pool within one path would both loop forever and violate is_disjoint
			}
			next := make(Path, len(acc)+1)
			copy(next, acc)
			next[len(acc)] = d
			out := d.CoinOutType()
			usedPools[d.ObjectID()] = true
			if out.IsSUI() {
				paths = append(paths, next)
			} else if _, ok := hopMap[out]; ok {
				dfs(out, next)
			}
			usedPools[d.ObjectID()] = false
		}
	}
	dfs(coinIn, Path{})
	return paths, nil
}

// FindBuyPaths discovers paths from SUI to coinOut by computing the sell
// paths for coinOut and reversing+flipping each one (spec §4.C2).
func (r *Registry) FindBuyPaths(coinOut sui.CoinType) ([]Path, error) {
	if coinOut.IsSUI() {
		return []Path{{}}, nil
	}
	sellPaths, err := r.FindSellPaths(coinOut)
	if err != nil {
		return nil, err
	}
	out := make([]Path, len(sellPaths))
	for i, p := range sellPaths {
		out[i] = p.Reversed()
	}
	return out, nil
}
