package main

import (
	"context"

	"github.com/pittcat/sui-arb-core/sui"
)

// unresolvedSnapshot is the seam a deployment replaces with an RPC-backed
// simulator.Snapshot. Concrete RPC/WebSocket/IPC readers are out of scope
// for this core (spec §1 Non-goals: "external collaborators"); every read
// here reports the object absent so a wiring mistake fails loudly during
// simulation rather than silently trading against fabricated state.
type unresolvedSnapshot struct{}

func (unresolvedSnapshot) ReadObject(ctx context.Context, id sui.ObjectID) (sui.ObjectReadResult, error) {
	return sui.NotFound(id), nil
}
