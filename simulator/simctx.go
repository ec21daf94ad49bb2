package simulator

import (
	"github.com/pittcat/sui-arb-core/dex"
	"github.com/pittcat/sui-arb-core/sui"
)

// BorrowedCoin records a synthesized input that must be subtracted back out
// of the sender's balance delta after simulation (spec §4.C3 "Borrowed coin
// synthesis").
type BorrowedCoin struct {
	ObjectID sui.ObjectID
	CoinType sui.CoinType
	Amount   uint64
}

// SimulateCtx carries one simulation call's overrides and the path/amount
// hint the arithmetic quote model uses in place of a real Move VM (spec
// §3 "SimulateCtx"; see DESIGN.md for why this core quotes via the Dex
// adapters' own reserve state rather than interpreting PTB commands
// generically).
type SimulateCtx struct {
	epoch            uint64
	overrideObjects  map[sui.ObjectID]sui.ObjectReadResult
	fallbackDisabled bool
	mockGasCoin      bool
	borrowedCoin     *BorrowedCoin
	path             dex.Path
	amountIn         uint64
}

// NewSimulateCtx opens a context at the given epoch with an initial set of
// object overrides (may be nil/empty).
func NewSimulateCtx(epoch uint64, overrides map[sui.ObjectID]sui.ObjectReadResult) *SimulateCtx {
	if overrides == nil {
		overrides = make(map[sui.ObjectID]sui.ObjectReadResult)
	}
	return &SimulateCtx{epoch: epoch, overrideObjects: overrides}
}

// Epoch returns the epoch this context was opened at.
func (c *SimulateCtx) Epoch() uint64 { return c.epoch }

// AddOverride inserts or replaces one per-call object override.
func (c *SimulateCtx) AddOverride(res sui.ObjectReadResult) {
	if c.overrideObjects == nil {
		c.overrideObjects = make(map[sui.ObjectID]sui.ObjectReadResult)
	}
	c.overrideObjects[res.ObjectID] = res
}

// DisableFallback switches this context into pure-override mode: any read
// whose id has no override entry returns "not found" instead of consulting
// the snapshot (spec §4.C3 step 3, used for deterministic replay).
func (c *SimulateCtx) DisableFallback() { c.fallbackDisabled = true }

// UseMockGasCoin marks that no real gas payment object was supplied and the
// simulator should synthesize one (spec §4.C3 "Mocked gas coin").
func (c *SimulateCtx) UseMockGasCoin() { c.mockGasCoin = true }

// SetBorrowedCoin records a synthesized input coin so its amount is
// subtracted back out of the reported profit after simulation.
func (c *SimulateCtx) SetBorrowedCoin(bc BorrowedCoin) {
	c.borrowedCoin = &bc
	c.AddOverride(sui.ObjectReadResult{ObjectID: bc.ObjectID, Status: sui.ObjectStatusExists})
}

// SetTrade records the path and input amount this context's Simulate call
// should quote against.
func (c *SimulateCtx) SetTrade(path dex.Path, amountIn uint64) {
	c.path = path
	c.amountIn = amountIn
}

// Clone returns a shallow copy safe to mutate independently (callers hand
// one SimulateCtx to each of many concurrent trial simulations sharing the
// same base overrides).
func (c *SimulateCtx) Clone() *SimulateCtx {
	cp := &SimulateCtx{
		epoch:            c.epoch,
		fallbackDisabled: c.fallbackDisabled,
		mockGasCoin:      c.mockGasCoin,
		path:             c.path,
		amountIn:         c.amountIn,
	}
	cp.overrideObjects = make(map[sui.ObjectID]sui.ObjectReadResult, len(c.overrideObjects))
	for k, v := range c.overrideObjects {
		cp.overrideObjects[k] = v
	}
	if c.borrowedCoin != nil {
		bc := *c.borrowedCoin
		cp.borrowedCoin = &bc
	}
	return cp
}
