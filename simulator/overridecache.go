package simulator

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pittcat/sui-arb-core/sui"
)

// overrideCache implements spec §4.C3's object resolution order: override
// entries first, a synthesized Clock second, the snapshot (through an
// LRU of already-seen object versions) last. One instance is built fresh
// per Simulate call, so its LRU only ever warms within a single simulation.
type overrideCache struct {
	snapshot         Snapshot
	fallbackDisabled bool
	overrides        map[sui.ObjectID]sui.ObjectReadResult
	versioned        *lru.Cache[sui.ObjectID, sui.ObjectReadResult]
	misses           int
	now              func() int64
}

func newOverrideCache(snapshot Snapshot, cacheCap int, fallbackDisabled bool) (*overrideCache, error) {
	c, err := lru.New[sui.ObjectID, sui.ObjectReadResult](cacheCap)
	if err != nil {
		return nil, err
	}
	return &overrideCache{
		snapshot:         snapshot,
		fallbackDisabled: fallbackDisabled,
		overrides:        make(map[sui.ObjectID]sui.ObjectReadResult),
		versioned:        c,
		now:              nowMillis,
	}, nil
}

func (oc *overrideCache) setOverride(id sui.ObjectID, res sui.ObjectReadResult) {
	oc.overrides[id] = res
}

// read resolves id per spec §4.C3's three-step order.
func (oc *overrideCache) read(ctx context.Context, id sui.ObjectID) (sui.ObjectReadResult, error) {
	if ov, ok := oc.overrides[id]; ok {
		return ov, nil
	}
	if id == sui.ClockObjectID {
		return syntheticClock(oc.now()), nil
	}
	if cached, ok := oc.versioned.Get(id); ok {
		return cached, nil
	}
	oc.misses++
	if oc.fallbackDisabled {
		return sui.NotFound(id), errNotFound(id)
	}
	res, err := oc.snapshot.ReadObject(ctx, id)
	if err != nil {
		return sui.ObjectReadResult{}, err
	}
	oc.versioned.Add(id, res)
	return res, nil
}

// syntheticClock builds a Clock object read result with timestamp_ms set
// to the wall-clock time of the read (spec §4.C3 step 2).
func syntheticClock(nowMs int64) sui.ObjectReadResult {
	b := encodeU64LE(uint64(nowMs))
	return sui.ObjectReadResult{
		ObjectID: sui.ClockObjectID,
		Status:   sui.ObjectStatusExists,
		BCS:      b,
	}
}

type notFoundError struct{ id sui.ObjectID }

func (e notFoundError) Error() string { return "simulator: object not found: " + e.id.Hex() }

func errNotFound(id sui.ObjectID) error { return notFoundError{id: id} }
