package shogi

// GenerateMoves fills ml with pseudo-legal moves for the side to move
// and returns the used prefix. Moves that leave the own king attacked
// are only filtered out by MakeMove. While in check the targets of
// non-king moves shrink to the checker and the squares between checker
// and king; king moves stay unrestricted because MakeMove rejects the
// illegal ones.
func (p *Position) GenerateMoves(ml []OrderedMove) []OrderedMove {
	var count = 0
	var side = p.Side
	var own = p.byColor[side]
	var occ = p.AllPieces()
	var promoZone = promoZoneMask[side]
	var target = own.Not()
	var dropTarget = occ.Not()
	if p.IsCheck() {
		var checkSq = FirstOne(p.Checkers)
		var block = betweenMask[checkSq][p.King(side)]
		target = p.Checkers.Or(block)
		dropTarget = block
		if MoreThanOne(p.Checkers) {
			target = Bitboard{}
			dropTarget = Bitboard{}
		}
	}
	for bb := p.byPiece[Pawn].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		var toBB = PawnAttacks(from, side).And(target)
		if toBB.IsZero() {
			continue
		}
		var to = FirstOne(toBB)
		var captured = int(p.board[to])
		if promoZone.Has(to) {
			ml[count].Move = makePromotionMove(from, to, Pawn, captured)
			count++
			if !mustPromote(Pawn, side, to) {
				ml[count].Move = makeMove(from, to, Pawn, captured)
				count++
			}
		} else {
			ml[count].Move = makeMove(from, to, Pawn, captured)
			count++
		}
	}
	for bb := p.byPiece[Lance].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		for toBB := LanceAttacks(from, side, occ).And(target); !toBB.IsZero(); {
			var to = Pop(&toBB)
			var captured = int(p.board[to])
			if promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Lance, captured)
				count++
				if !mustPromote(Lance, side, to) {
					ml[count].Move = makeMove(from, to, Lance, captured)
					count++
				}
			} else {
				ml[count].Move = makeMove(from, to, Lance, captured)
				count++
			}
		}
	}
	for bb := p.byPiece[Knight].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		for toBB := KnightAttacks(from, side).And(target); !toBB.IsZero(); {
			var to = Pop(&toBB)
			var captured = int(p.board[to])
			if promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Knight, captured)
				count++
				if !mustPromote(Knight, side, to) {
					ml[count].Move = makeMove(from, to, Knight, captured)
					count++
				}
			} else {
				ml[count].Move = makeMove(from, to, Knight, captured)
				count++
			}
		}
	}
	for bb := p.byPiece[Silver].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		var fromZone = promoZone.Has(from)
		for toBB := SilverAttacks(from, side).And(target); !toBB.IsZero(); {
			var to = Pop(&toBB)
			var captured = int(p.board[to])
			if fromZone || promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Silver, captured)
				count++
			}
			ml[count].Move = makeMove(from, to, Silver, captured)
			count++
		}
	}
	for bb := p.golds().And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		var piece = int(p.board[from])
		for toBB := GoldAttacks(from, side).And(target); !toBB.IsZero(); {
			var to = Pop(&toBB)
			ml[count].Move = makeMove(from, to, piece, int(p.board[to]))
			count++
		}
	}
	for bb := p.byPiece[Bishop].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		var fromZone = promoZone.Has(from)
		for toBB := BishopAttacks(from, occ).And(target); !toBB.IsZero(); {
			var to = Pop(&toBB)
			var captured = int(p.board[to])
			if fromZone || promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Bishop, captured)
				count++
			}
			ml[count].Move = makeMove(from, to, Bishop, captured)
			count++
		}
	}
	for bb := p.byPiece[Rook].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		var fromZone = promoZone.Has(from)
		for toBB := RookAttacks(from, occ).And(target); !toBB.IsZero(); {
			var to = Pop(&toBB)
			var captured = int(p.board[to])
			if fromZone || promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Rook, captured)
				count++
			}
			ml[count].Move = makeMove(from, to, Rook, captured)
			count++
		}
	}
	for bb := p.byPiece[Horse].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		for toBB := HorseAttacks(from, occ).And(target); !toBB.IsZero(); {
			var to = Pop(&toBB)
			ml[count].Move = makeMove(from, to, Horse, int(p.board[to]))
			count++
		}
	}
	for bb := p.byPiece[Dragon].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		for toBB := DragonAttacks(from, occ).And(target); !toBB.IsZero(); {
			var to = Pop(&toBB)
			ml[count].Move = makeMove(from, to, Dragon, int(p.board[to]))
			count++
		}
	}
	{
		var from = p.King(side)
		for toBB := KingAttacks[from].AndNot(own); !toBB.IsZero(); {
			var to = Pop(&toBB)
			ml[count].Move = makeMove(from, to, King, int(p.board[to]))
			count++
		}
	}
	if !p.hands[side].IsEmpty() {
		for piece := Pawn; piece <= Gold; piece++ {
			if p.hands[side].Count(piece) == 0 {
				continue
			}
			for toBB := p.dropTargets(piece, side).And(dropTarget); !toBB.IsZero(); {
				var to = Pop(&toBB)
				ml[count].Move = makeDropMove(to, piece)
				count++
			}
		}
	}
	return ml[:count]
}

// GenerateCaptures fills ml with captures plus pawn promotion pushes.
// Promotable in-zone captures come out in both forms, so the list is
// the complete noisy subset of GenerateMoves.
func (p *Position) GenerateCaptures(ml []OrderedMove) []OrderedMove {
	var count = 0
	var side = p.Side
	var own = p.byColor[side]
	var enemy = p.byColor[side^1]
	var occ = p.AllPieces()
	var promoZone = promoZoneMask[side]
	for bb := p.byPiece[Pawn].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		var toBB = PawnAttacks(from, side)
		if toBB.IsZero() {
			continue
		}
		var to = FirstOne(toBB)
		if enemy.Has(to) {
			if promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Pawn, int(p.board[to]))
				count++
				if !mustPromote(Pawn, side, to) {
					ml[count].Move = makeMove(from, to, Pawn, int(p.board[to]))
					count++
				}
			} else {
				ml[count].Move = makeMove(from, to, Pawn, int(p.board[to]))
				count++
			}
		} else if !occ.Has(to) && promoZone.Has(to) {
			ml[count].Move = makePromotionMove(from, to, Pawn, Empty)
			count++
		}
	}
	for bb := p.byPiece[Lance].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		for toBB := LanceAttacks(from, side, occ).And(enemy); !toBB.IsZero(); {
			var to = Pop(&toBB)
			if promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Lance, int(p.board[to]))
				count++
				if !mustPromote(Lance, side, to) {
					ml[count].Move = makeMove(from, to, Lance, int(p.board[to]))
					count++
				}
			} else {
				ml[count].Move = makeMove(from, to, Lance, int(p.board[to]))
				count++
			}
		}
	}
	for bb := p.byPiece[Knight].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		for toBB := KnightAttacks(from, side).And(enemy); !toBB.IsZero(); {
			var to = Pop(&toBB)
			if promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Knight, int(p.board[to]))
				count++
				if !mustPromote(Knight, side, to) {
					ml[count].Move = makeMove(from, to, Knight, int(p.board[to]))
					count++
				}
			} else {
				ml[count].Move = makeMove(from, to, Knight, int(p.board[to]))
				count++
			}
		}
	}
	for bb := p.byPiece[Silver].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		var fromZone = promoZone.Has(from)
		for toBB := SilverAttacks(from, side).And(enemy); !toBB.IsZero(); {
			var to = Pop(&toBB)
			if fromZone || promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Silver, int(p.board[to]))
				count++
			}
			ml[count].Move = makeMove(from, to, Silver, int(p.board[to]))
			count++
		}
	}
	for bb := p.golds().And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		var piece = int(p.board[from])
		for toBB := GoldAttacks(from, side).And(enemy); !toBB.IsZero(); {
			var to = Pop(&toBB)
			ml[count].Move = makeMove(from, to, piece, int(p.board[to]))
			count++
		}
	}
	for bb := p.byPiece[Bishop].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		var fromZone = promoZone.Has(from)
		for toBB := BishopAttacks(from, occ).And(enemy); !toBB.IsZero(); {
			var to = Pop(&toBB)
			if fromZone || promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Bishop, int(p.board[to]))
				count++
			}
			ml[count].Move = makeMove(from, to, Bishop, int(p.board[to]))
			count++
		}
	}
	for bb := p.byPiece[Rook].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		var fromZone = promoZone.Has(from)
		for toBB := RookAttacks(from, occ).And(enemy); !toBB.IsZero(); {
			var to = Pop(&toBB)
			if fromZone || promoZone.Has(to) {
				ml[count].Move = makePromotionMove(from, to, Rook, int(p.board[to]))
				count++
			}
			ml[count].Move = makeMove(from, to, Rook, int(p.board[to]))
			count++
		}
	}
	for bb := p.byPiece[Horse].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		for toBB := HorseAttacks(from, occ).And(enemy); !toBB.IsZero(); {
			var to = Pop(&toBB)
			ml[count].Move = makeMove(from, to, Horse, int(p.board[to]))
			count++
		}
	}
	for bb := p.byPiece[Dragon].And(own); !bb.IsZero(); {
		var from = Pop(&bb)
		for toBB := DragonAttacks(from, occ).And(enemy); !toBB.IsZero(); {
			var to = Pop(&toBB)
			ml[count].Move = makeMove(from, to, Dragon, int(p.board[to]))
			count++
		}
	}
	{
		var from = p.King(side)
		for toBB := KingAttacks[from].And(enemy); !toBB.IsZero(); {
			var to = Pop(&toBB)
			ml[count].Move = makeMove(from, to, King, int(p.board[to]))
			count++
		}
	}
	return ml[:count]
}

func (p *Position) GenerateLegalMoves() []Move {
	var result []Move
	var buffer [MaxMoves]OrderedMove
	var child = Position{}
	for _, om := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(om.Move, &child) {
			result = append(result, om.Move)
		}
	}
	return result
}

func (p *Position) HasLegalMove() bool {
	var buffer [MaxMoves]OrderedMove
	var child = Position{}
	for _, om := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(om.Move, &child) {
			return true
		}
	}
	return false
}

// dropTargets returns the squares piece may be dropped on, enforcing
// the dead rank rule, the two-pawn rule and the pawn drop mate rule.
func (p *Position) dropTargets(piece, side int) Bitboard {
	var targets = p.AllPieces().Not()
	switch piece {
	case Pawn:
		targets = targets.AndNot(deadZone(Pawn, side)).AndNot(p.nifuFiles(side))
		var checkBB = PawnAttacks(p.King(side^1), side^1)
		if !checkBB.And(targets).IsZero() && p.isPawnDropMate(FirstOne(checkBB), side) {
			targets = targets.AndNot(checkBB)
		}
	case Lance:
		targets = targets.AndNot(deadZone(Lance, side))
	case Knight:
		targets = targets.AndNot(deadZone(Knight, side))
	}
	return targets
}

// deadZone holds the ranks a piece could never move away from.
func deadZone(piece, side int) Bitboard {
	switch piece {
	case Pawn, Lance:
		if side == SideBlack {
			return rankMask[RankA]
		}
		return rankMask[RankI]
	case Knight:
		if side == SideBlack {
			return rankMask[RankA].Or(rankMask[RankB])
		}
		return rankMask[RankH].Or(rankMask[RankI])
	}
	return Bitboard{}
}

func (p *Position) nifuFiles(side int) Bitboard {
	var result Bitboard
	var pawns = p.byPiece[Pawn].And(p.byColor[side])
	for f := File1; f <= File9; f++ {
		if !pawns.And(fileMask[f]).IsZero() {
			result = result.Or(fileMask[f])
		}
	}
	return result
}

func mustPromote(piece, side, to int) bool {
	switch piece {
	case Pawn, Lance:
		if side == SideBlack {
			return Rank(to) == RankA
		}
		return Rank(to) == RankI
	case Knight:
		if side == SideBlack {
			return Rank(to) <= RankB
		}
		return Rank(to) >= RankH
	}
	return false
}
