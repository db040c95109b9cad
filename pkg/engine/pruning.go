package engine

import (
	. "github.com/SH11235/rshogi-sub010/pkg/shogi"
)

// lmrReduction returns the late move reduction in plies. Checking moves
// are never reduced.
func lmrReduction(o *Options, depth, moveIndex int, pvNode, improving, givesCheck bool) int {
	if givesCheck {
		return 0
	}
	var reduction = o.Lmr(depth, moveIndex)
	if pvNode {
		reduction--
	}
	if improving {
		reduction--
	}
	return Max(0, Min(depth-1, reduction))
}

func nullMoveReduction(depth int) int {
	return 2 + depth/4
}

func reverseFutilityMargin(depth int) int {
	return pawnValue * depth
}

func futilityMargin(depth int) int {
	return 100 + pawnValue*depth
}

func razorMargin(depth int) int {
	return 300 * depth
}

func lmpLimit(depth int, improving bool) int {
	var limit = 5 + (depth-1)*depth
	if !improving {
		limit /= 2
	}
	return limit
}

func probcutBeta(beta int) int {
	return Min(valueWin-1, beta+150)
}
