package dex

import (
	"context"

	"github.com/pittcat/sui-arb-core/internal/utils"
	"github.com/pittcat/sui-arb-core/sui"
)

// NaviExtra carries Navi's lending-pool package/storage handles.
type NaviExtra struct {
	PackageID sui.ObjectID
	StorageID sui.ObjectID
	FeeBps    uint16
}

func (NaviExtra) isPoolExtra() {}

const naviAvailableLiquidityOffset = 8

// FlashProvider is a borrow/repay pair not bound to any particular trade
// direction, used by package trader as the flash-loan source of last resort
// when the chosen path's own hops don't support one (spec §4.C4: Aftermath
// pools frame their own, everything else borrows from Navi instead).
type FlashProvider interface {
	CoinType() sui.CoinType
	ObjectID() sui.ObjectID
	Liquidity() uint64
	ExtendFlashloanTx(ctx context.Context, tc *TradeCtx, amount uint64) (FlashResult, error)
	ExtendRepayTx(ctx context.Context, tc *TradeCtx, repayCoin sui.Argument, fr FlashResult) (sui.Argument, error)
}

type naviFlashProvider struct {
	pool      sui.ObjectID
	ref       sui.ObjectRef
	pkg       sui.ObjectID
	storage   sui.ObjectID
	coinType  sui.CoinType
	available uint64
}

// NewNaviFlashProvider reads a Navi lending-pool reserve object and returns
// a FlashProvider for the coin it holds. Navi pools are single-asset, so
// unlike the swap adapters there is no coinIn/coinOut pair to reason about.
func NewNaviFlashProvider(ctx context.Context, resolver ObjectResolver, pool *Pool) (FlashProvider, error) {
	extra, ok := pool.Extra.(NaviExtra)
	if !ok {
		return nil, utils.Wrap(ErrPoolUnavailable, "dex/navi: missing NaviExtra")
	}
	if len(pool.Tokens) != 1 {
		return nil, ErrPoolIrrelevant
	}
	res, err := resolver.ReadObject(ctx, pool.PoolID)
	if err != nil {
		return nil, utils.Wrap(err, "dex/navi: read reserve object")
	}
	if res.Status != sui.ObjectStatusExists {
		return nil, ErrPoolUnavailable
	}
	avail, ok := decodeU64LE(res.BCS, naviAvailableLiquidityOffset)
	if !ok {
		return nil, ErrPoolUnavailable
	}
	return &naviFlashProvider{
		pool:      pool.PoolID,
		ref:       sui.ObjectRef{ObjectID: pool.PoolID, Version: res.Ref.Version, Digest: res.Ref.Digest},
		pkg:       extra.PackageID,
		storage:   extra.StorageID,
		coinType:  pool.Tokens[0].CoinType,
		available: avail,
	}, nil
}

func (p *naviFlashProvider) CoinType() sui.CoinType { return p.coinType }
func (p *naviFlashProvider) ObjectID() sui.ObjectID { return p.pool }
func (p *naviFlashProvider) Liquidity() uint64      { return p.available }

func (p *naviFlashProvider) ExtendFlashloanTx(ctx context.Context, tc *TradeCtx, amount uint64) (FlashResult, error) {
	storageArg := tc.Obj(sui.ObjectRef{ObjectID: p.storage}, true)
	poolArg := tc.Obj(p.ref, true)
	amountArg := tc.Pure(PureU64(amount))
	cmdIdx := tc.MoveCallMulti(p.pkg, "lending", "flash_loan", []sui.CoinType{p.coinType}, []sui.Argument{storageArg, poolArg, amountArg})
	poolArgCopy := poolArg
	return FlashResult{
		CoinOutArg: NestedResult(cmdIdx, 0),
		ReceiptArg: NestedResult(cmdIdx, 1),
		PoolArg:    &poolArgCopy,
	}, nil
}

func (p *naviFlashProvider) ExtendRepayTx(ctx context.Context, tc *TradeCtx, repayCoin sui.Argument, fr FlashResult) (sui.Argument, error) {
	if fr.PoolArg == nil {
		return sui.Argument{}, utils.Wrap(ErrFlashloanNotSupported, "dex/navi: missing pool handle for repay")
	}
	storageArg := tc.Obj(sui.ObjectRef{ObjectID: p.storage}, true)
	out := tc.MoveCall(p.pkg, "lending", "flash_repay", []sui.CoinType{p.coinType},
		[]sui.Argument{storageArg, *fr.PoolArg, repayCoin, fr.ReceiptArg})
	return out, nil
}
