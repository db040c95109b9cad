package engine

import (
	"strings"

	"github.com/samber/lo"

	. "github.com/SH11235/rshogi-sub010/pkg/shogi"
)

const (
	stackSize     = 128
	maxHeight     = stackSize - 1
	valueDraw     = 0
	valueMate     = 32000
	valueInfinity = valueMate + 1
	valueWin      = valueMate - 2*maxHeight
	valueLoss     = -valueWin
)

const pawnValue = 90

func winIn(height int) int {
	return valueMate - height
}

func lossIn(height int) int {
	return -valueMate + height
}

func valueToTT(v, height int) int {
	if v >= valueWin {
		return v + height
	}

	if v <= valueLoss {
		return v - height
	}

	return v
}

func valueFromTT(v, height int) int {
	if v >= valueWin {
		return v - height
	}

	if v <= valueLoss {
		return v + height
	}

	return v
}

// USI reports mate distances in plies and centipawns on a scale where
// a pawn is worth 100.
func newUsiScore(v int) UsiScore {
	if v >= valueWin {
		return UsiScore{Mate: valueMate - v}
	} else if v <= valueLoss {
		return UsiScore{Mate: -valueMate - v}
	} else {
		return UsiScore{Centipawns: v * 100 / pawnValue}
	}
}

func isCaptureOrPromotion(move Move) bool {
	return move.CapturedPiece() != Empty ||
		move.IsPromotion()
}

func pvString(moves []Move) string {
	return strings.Join(lo.Map(moves, func(m Move, _ int) string {
		return m.String()
	}), " ")
}

// hasNonPawnMaterial reports whether side owns anything besides the king
// and pawns, counting pieces in hand.
func hasNonPawnMaterial(p *Position, side int) bool {
	if !p.Colours(side).AndNot(p.Pieces(Pawn)).AndNot(p.Pieces(King)).IsZero() {
		return true
	}
	return !p.Hand(side).OnlyPawns()
}
