package sui

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// ArgumentKind tags what an Argument references within a programmable
// transaction.
type ArgumentKind uint8

const (
	ArgGasCoin ArgumentKind = iota
	ArgInput
	ArgResult
	ArgNestedResult
)

// Argument is a reference to a transaction input or to the output of a
// previously appended command (spec §3 TradeCtx).
type Argument struct {
	Kind     ArgumentKind
	Index    uint16 // input index, or command index for ArgResult/ArgNestedResult
	SubIndex uint16 // result slot within a multi-return command (ArgNestedResult)
}

// GasCoinArg is the implicit argument referring to the transaction's gas coin.
var GasCoinArg = Argument{Kind: ArgGasCoin}

// CallArgKind distinguishes a pure BCS value from an object reference input.
type CallArgKind uint8

const (
	CallArgPure CallArgKind = iota
	CallArgObject
)

// CallArg is one indexed input argument to a programmable transaction.
type CallArg struct {
	Kind   CallArgKind
	Pure   []byte    // only meaningful when Kind == CallArgPure
	Object ObjectRef // only meaningful when Kind == CallArgObject
	Mutable bool     // whether the object input is passed mutably (shared/owned mut ref)
}

// CommandKind enumerates the atomic command types TradeCtx can append
// (spec §3: "SplitCoin, MoveCall, TransferObject, CoinIntoBalance,
// BalanceIntoCoin, DestroyZeroBalance").
type CommandKind uint8

const (
	CommandSplitCoin CommandKind = iota
	CommandMoveCall
	CommandTransferObject
	CommandCoinIntoBalance
	CommandBalanceIntoCoin
	CommandDestroyZeroBalance
	CommandMergeCoins
)

// MoveCallArgs carries the per-call ABI fields for a MoveCall command.
type MoveCallArgs struct {
	Package  ObjectID
	Module   string
	Function string
	TypeArgs []CoinType
	Args     []Argument
}

// Command is one atomic step of a programmable transaction. Depending on
// Kind, only the relevant fields are populated.
type Command struct {
	Kind CommandKind

	// CommandSplitCoin
	SplitCoin   Argument
	SplitAmount Argument // a Pure(u64) CallArg reference

	// CommandMoveCall
	MoveCall MoveCallArgs

	// CommandTransferObject
	TransferObjects []Argument
	TransferTo      Argument

	// CommandCoinIntoBalance / CommandBalanceIntoCoin / CommandDestroyZeroBalance / CommandMergeCoins
	Operand      Argument
	MergeSources []Argument
	CoinType     CoinType
}

// ProgrammableTransaction is the append-only command list plus indexed
// inputs assembled by a TradeCtx (spec §3).
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []Command
}

// GasData is the gas payment configuration of a TransactionData.
type GasData struct {
	Payment []ObjectRef
	Owner   Address
	Price   uint64
	Budget  uint64
}

// TransactionData is the Sui programmable transaction envelope ready to sign
// (spec §6 "Transaction envelope emitted").
type TransactionData struct {
	Sender Address
	PT     ProgrammableTransaction
	Gas    GasData
}

// canonicalBytes produces a deterministic byte encoding of t sufficient to
// derive a stable digest. This is a simplified stand-in for Sui's real BCS
// encoding (out of scope per spec §1) — it is deterministic and exercises
// every field that participates in the digest-ordering nudge (spec §4.C4),
// which is all the core's digest math requires.
func (t *TransactionData) canonicalBytes() []byte {
	var buf bytes.Buffer
	buf.Write(t.Sender[:])
	for _, in := range t.PT.Inputs {
		buf.WriteByte(byte(in.Kind))
		buf.Write(in.Pure)
		buf.Write(in.Object.ObjectID[:])
		var v [8]byte
		binary.BigEndian.PutUint64(v[:], in.Object.Version)
		buf.Write(v[:])
	}
	for _, c := range t.PT.Commands {
		buf.WriteByte(byte(c.Kind))
		writeArg(&buf, c.SplitCoin)
		writeArg(&buf, c.SplitAmount)
		buf.Write(c.MoveCall.Package[:])
		buf.WriteString(c.MoveCall.Module)
		buf.WriteString(c.MoveCall.Function)
		for _, a := range c.MoveCall.Args {
			writeArg(&buf, a)
		}
		for _, a := range c.TransferObjects {
			writeArg(&buf, a)
		}
		writeArg(&buf, c.TransferTo)
		writeArg(&buf, c.Operand)
		for _, a := range c.MergeSources {
			writeArg(&buf, a)
		}
	}
	for _, ref := range t.Gas.Payment {
		buf.Write(ref.ObjectID[:])
	}
	buf.Write(t.Gas.Owner[:])
	var pb [8]byte
	binary.BigEndian.PutUint64(pb[:], t.Gas.Price)
	buf.Write(pb[:])
	binary.BigEndian.PutUint64(pb[:], t.Gas.Budget)
	buf.Write(pb[:])
	return buf.Bytes()
}

func writeArg(buf *bytes.Buffer, a Argument) {
	buf.WriteByte(byte(a.Kind))
	var b [4]byte
	binary.BigEndian.PutUint16(b[0:2], a.Index)
	binary.BigEndian.PutUint16(b[2:4], a.SubIndex)
	buf.Write(b[:])
}

// Digest computes the Blake2b-256 digest of t, mirroring the hash function
// Sui uses for real transaction digests (spec glossary: BCS + digest).
func (t *TransactionData) Digest() Digest {
	sum := blake2b.Sum256(t.canonicalBytes())
	return Digest(sum)
}
