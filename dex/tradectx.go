package dex

import "github.com/pittcat/sui-arb-core/sui"

// TradeCtx is the builder state for one programmable transaction assembly
// (spec §3): an append-only command list plus indexed input arguments. It is
// constructed per transaction build and discarded after Finish.
type TradeCtx struct {
	pt sui.ProgrammableTransaction
}

// NewTradeCtx opens a fresh, empty builder.
func NewTradeCtx() *TradeCtx { return &TradeCtx{} }

// Obj registers an object input and returns an Argument referencing it.
func (tc *TradeCtx) Obj(ref sui.ObjectRef, mutable bool) sui.Argument {
	idx := len(tc.pt.Inputs)
	tc.pt.Inputs = append(tc.pt.Inputs, sui.CallArg{Kind: sui.CallArgObject, Object: ref, Mutable: mutable})
	return sui.Argument{Kind: sui.ArgInput, Index: uint16(idx)}
}

// Pure registers a pure BCS-encoded value input and returns an Argument
// referencing it.
func (tc *TradeCtx) Pure(v []byte) sui.Argument {
	idx := len(tc.pt.Inputs)
	tc.pt.Inputs = append(tc.pt.Inputs, sui.CallArg{Kind: sui.CallArgPure, Pure: v})
	return sui.Argument{Kind: sui.ArgInput, Index: uint16(idx)}
}

// command appends a command and returns an Argument referencing its (sole)
// result.
func (tc *TradeCtx) command(c sui.Command) sui.Argument {
	idx := len(tc.pt.Commands)
	tc.pt.Commands = append(tc.pt.Commands, c)
	return sui.Argument{Kind: sui.ArgResult, Index: uint16(idx)}
}

// LastCommandIdx returns the index of the most recently appended command.
func (tc *TradeCtx) LastCommandIdx() int { return len(tc.pt.Commands) - 1 }

// SplitCoin appends a SplitCoins command splitting `amount` off `coin`,
// returning an Argument for the new coin.
func (tc *TradeCtx) SplitCoin(coin sui.Argument, amount sui.Argument) sui.Argument {
	return tc.command(sui.Command{Kind: sui.CommandSplitCoin, SplitCoin: coin, SplitAmount: amount})
}

// MoveCall appends a MoveCall command and returns an Argument for its
// (primary) result.
func (tc *TradeCtx) MoveCall(pkg sui.ObjectID, module, function string, typeArgs []sui.CoinType, args []sui.Argument) sui.Argument {
	return tc.command(sui.Command{
		Kind: sui.CommandMoveCall,
		MoveCall: sui.MoveCallArgs{
			Package: pkg, Module: module, Function: function, TypeArgs: typeArgs, Args: args,
		},
	})
}

// MoveCallMulti is MoveCall for a Move function that returns multiple
// values; callers index the result with NestedResult(idx, slot).
func (tc *TradeCtx) MoveCallMulti(pkg sui.ObjectID, module, function string, typeArgs []sui.CoinType, args []sui.Argument) int {
	tc.pt.Commands = append(tc.pt.Commands, sui.Command{
		Kind: sui.CommandMoveCall,
		MoveCall: sui.MoveCallArgs{
			Package: pkg, Module: module, Function: function, TypeArgs: typeArgs, Args: args,
		},
	})
	return tc.LastCommandIdx()
}

// NestedResult references result slot `slot` of the command at `cmdIdx`.
func NestedResult(cmdIdx, slot int) sui.Argument {
	return sui.Argument{Kind: sui.ArgNestedResult, Index: uint16(cmdIdx), SubIndex: uint16(slot)}
}

// TransferArg appends a TransferObjects command moving `obj` to `to`.
func (tc *TradeCtx) TransferArg(obj sui.Argument, to sui.Argument) {
	tc.pt.Commands = append(tc.pt.Commands, sui.Command{
		Kind:            sui.CommandTransferObject,
		TransferObjects: []sui.Argument{obj},
		TransferTo:      to,
	})
}

// CoinIntoBalance converts a Coin<T> argument into a Balance<T> argument.
func (tc *TradeCtx) CoinIntoBalance(coin sui.Argument, ct sui.CoinType) sui.Argument {
	return tc.command(sui.Command{Kind: sui.CommandCoinIntoBalance, Operand: coin, CoinType: ct})
}

// BalanceIntoCoin converts a Balance<T> argument into a Coin<T> argument.
func (tc *TradeCtx) BalanceIntoCoin(bal sui.Argument, ct sui.CoinType) sui.Argument {
	return tc.command(sui.Command{Kind: sui.CommandBalanceIntoCoin, Operand: bal, CoinType: ct})
}

// DestroyZeroBalance destroys a zero-value Balance<T> left over from a swap.
func (tc *TradeCtx) DestroyZeroBalance(bal sui.Argument, ct sui.CoinType) {
	tc.pt.Commands = append(tc.pt.Commands, sui.Command{Kind: sui.CommandDestroyZeroBalance, Operand: bal, CoinType: ct})
}

// MergeCoins appends a MergeCoins command merging sources into dest.
func (tc *TradeCtx) MergeCoins(dest sui.Argument, sources []sui.Argument) {
	tc.pt.Commands = append(tc.pt.Commands, sui.Command{Kind: sui.CommandMergeCoins, Operand: dest, MergeSources: sources})
}

// Finish returns the assembled ProgrammableTransaction; tc must not be
// reused afterwards.
func (tc *TradeCtx) Finish() sui.ProgrammableTransaction { return tc.pt }

// PureAddress BCS-encodes an address pure value.
func PureAddress(a sui.Address) []byte {
	b := make([]byte, len(a))
	copy(b, a[:])
	return b
}

// PureU64 BCS-encodes a u64 pure value (little-endian, as Sui's BCS does).
func PureU64(v uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}
