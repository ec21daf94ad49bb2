package worker

import "context"

// Submitter is the boundary a worker calls to hand off a successfully
// dry-run Action to a signer/broadcaster (spec §6 "Action sink":
// ExecutePublicTx/ShioSubmitBid/NotifyTelegram). Signing and broadcast are
// out of scope for this core; a conformant implementation owns the keypair
// and the RPC/relay client.
type Submitter interface {
	Submit(ctx context.Context, action Action) error
}
