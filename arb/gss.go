package arb

import (
	"context"
	"math"
)

// goldenSectionMaxIterations and goldenSectionTolerance bound the
// refinement loop (spec §4.C5 step 4 "golden-section refinement"); the
// original bot's arb.rs uses an equivalent fixed iteration/tolerance pair
// rather than an unbounded convergence loop.
const (
	goldenSectionMaxIterations = 40
	goldenSectionTolerance     = 1.0
)

const invPhi = 0.6180339887498949

// goldenSectionSearchMaximize assumes eval(amount_in) is single-peaked
// (unimodal) over [lo, hi] and returns the best TrialResult it finds (spec
// §4.C5 step 4). eval is expected to be trial() bound to a fixed TrialCtx.
func goldenSectionSearchMaximize(ctx context.Context, lo, hi uint64, eval func(context.Context, uint64) (TrialResult, error)) (TrialResult, error) {
	if hi <= lo {
		return eval(ctx, lo)
	}

	a, b := float64(lo), float64(hi)
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)

	fc, err := eval(ctx, uint64(math.Round(c)))
	if err != nil {
		return TrialResult{}, err
	}
	fd, err := eval(ctx, uint64(math.Round(d)))
	if err != nil {
		return TrialResult{}, err
	}

	best := fc
	if fd.Profit > best.Profit {
		best = fd
	}

	for i := 0; i < goldenSectionMaxIterations && (b-a) > goldenSectionTolerance; i++ {
		if fc.Profit > fd.Profit {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc, err = eval(ctx, uint64(math.Round(c)))
			if err != nil {
				return TrialResult{}, err
			}
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd, err = eval(ctx, uint64(math.Round(d)))
			if err != nil {
				return TrialResult{}, err
			}
		}
		if fc.Profit > best.Profit {
			best = fc
		}
		if fd.Profit > best.Profit {
			best = fd
		}
	}
	return best, nil
}
