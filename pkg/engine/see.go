package engine

import (
	. "github.com/SH11235/rshogi-sub010/pkg/shogi"
)

var pieceValuesSEE = [PieceNb]int{
	Pawn: 1, Lance: 3, Knight: 4, Silver: 5, Gold: 6, Bishop: 8, Rook: 10, King: 120,
	ProPawn: 6, ProLance: 6, ProKnight: 6, ProSilver: 6, Horse: 10, Dragon: 12,
}

var seeOrder = [...]int{
	Pawn, Lance, Knight, Silver, Gold,
	ProPawn, ProLance, ProKnight, ProSilver,
	Bishop, Rook, Horse, Dragon, King,
}

func seeGEZero(p *Position, move Move) bool {
	return SeeGE(p, move, 0)
}

// based on Ethereal
func SeeGE(pos *Position, move Move, threshold int) bool {
	var to = move.To()
	var movingPiece = move.MovingPiece()

	var nextVictim = movingPiece
	if move.IsPromotion() {
		nextVictim = Promote(movingPiece)
	}

	var balance = pieceValuesSEE[move.CapturedPiece()]
	if move.IsPromotion() {
		balance += pieceValuesSEE[nextVictim] - pieceValuesSEE[movingPiece]
	}
	balance -= threshold

	if balance < 0 {
		return false
	}

	balance -= pieceValuesSEE[nextVictim]
	if balance >= 0 {
		return true
	}

	var occupied = pos.AllPieces().Or(SquareMask[to])
	if !move.IsDrop() {
		occupied = occupied.AndNot(SquareMask[move.From()])
	}

	var attackers = pos.AttackersTo(to, occupied).And(occupied)

	var side = pos.Side ^ 1

	for {
		var myAttackers = attackers.And(pos.Colours(side))
		if myAttackers.IsZero() {
			break
		}

		var attackerType, attackerFrom = getLeastValuableAttacker(pos, myAttackers)

		occupied = occupied.AndNot(SquareMask[attackerFrom])
		attackers = attackers.Or(slidingAttackers(pos, to, occupied)).And(occupied)

		side = side ^ 1

		balance = -balance - 1 - pieceValuesSEE[attackerType]
		if balance >= 0 {
			if attackerType == King &&
				!attackers.And(pos.Colours(side)).IsZero() {
				side = side ^ 1
			}
			break
		}
	}

	return side != pos.Side
}

// see returns the exchange value of move on the small piece scale,
// from the point of view of the side to move.
func see(pos *Position, move Move) int {
	var to = move.To()
	var movingPiece = move.MovingPiece()

	var nextVictim = movingPiece
	if move.IsPromotion() {
		nextVictim = Promote(movingPiece)
	}

	var occupied = pos.AllPieces().Or(SquareMask[to])
	if !move.IsDrop() {
		occupied = occupied.AndNot(SquareMask[move.From()])
	}

	var gain [40]int
	var depth = 0
	gain[0] = pieceValuesSEE[move.CapturedPiece()]
	if move.IsPromotion() {
		gain[0] += pieceValuesSEE[nextVictim] - pieceValuesSEE[movingPiece]
	}

	var attackers = pos.AttackersTo(to, occupied).And(occupied)
	var side = pos.Side ^ 1

	for depth+1 < len(gain) {
		var myAttackers = attackers.And(pos.Colours(side))
		if myAttackers.IsZero() {
			break
		}
		var attackerType, attackerFrom = getLeastValuableAttacker(pos, myAttackers)
		// the king cannot recapture a defended piece
		if attackerType == King && !attackers.And(pos.Colours(side^1)).IsZero() {
			break
		}
		depth++
		gain[depth] = pieceValuesSEE[nextVictim] - gain[depth-1]
		nextVictim = attackerType
		occupied = occupied.AndNot(SquareMask[attackerFrom])
		attackers = attackers.Or(slidingAttackers(pos, to, occupied)).And(occupied)
		side = side ^ 1
	}

	for ; depth > 0; depth-- {
		gain[depth-1] = -Max(-gain[depth-1], gain[depth])
	}
	return gain[0]
}

// slidingAttackers rescans the sliders after a piece was lifted off the
// exchange square, picking up anything revealed behind it.
func slidingAttackers(pos *Position, sq int, occ Bitboard) Bitboard {
	var black = pos.Colours(SideBlack)
	var white = pos.Colours(SideWhite)
	return BishopAttacks(sq, occ).And(pos.Pieces(Bishop).Or(pos.Pieces(Horse))).
		Or(RookAttacks(sq, occ).And(pos.Pieces(Rook).Or(pos.Pieces(Dragon)))).
		Or(LanceAttacks(sq, SideWhite, occ).And(pos.Pieces(Lance)).And(black)).
		Or(LanceAttacks(sq, SideBlack, occ).And(pos.Pieces(Lance)).And(white))
}

func getLeastValuableAttacker(p *Position, attackers Bitboard) (attacker, from int) {
	for _, piece := range seeOrder {
		var subset = p.Pieces(piece).And(attackers)
		if !subset.IsZero() {
			return piece, FirstOne(subset)
		}
	}
	return Empty, SquareNone
}
