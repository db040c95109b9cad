package engine

import . "github.com/SH11235/rshogi-sub010/pkg/shogi"

const (
	stageTTMove = iota
	stageGenCaptures
	stageGoodCaptures
	stageKiller1
	stageKiller2
	stageGenQuiets
	stageQuiets
	stageBadCaptures
	stageEvasionTTMove
	stageEvasionGen
	stageEvasions
	stageQSTTMove
	stageQSGen
	stageQSCaptures
	stageDone
)

// movePicker serves moves in stages so most nodes never pay for
// generating and scoring the quiet moves. Layout of buffer: captures in
// [0:capEnd) sorted by key with the losing ones in [badStart:capEnd),
// quiets appended at [capEnd:quietEnd).
type movePicker struct {
	position   *Position
	buffer     []OrderedMove
	ttMove     Move
	killer1    Move
	killer2    Move
	stage      int
	index      int
	badStart   int
	capEnd     int
	quietEnd   int
	skipQuiets bool
}

func (mp *movePicker) initNormal(p *Position, buffer []OrderedMove, ttMove, killer1, killer2 Move) {
	mp.position = p
	mp.buffer = buffer
	mp.ttMove = ttMove
	mp.killer1 = killer1
	mp.killer2 = killer2
	mp.index = 0
	mp.skipQuiets = false
	if p.IsCheck() {
		mp.stage = stageEvasionTTMove
	} else {
		mp.stage = stageTTMove
	}
}

func (mp *movePicker) initQS(p *Position, buffer []OrderedMove, ttMove Move) {
	mp.position = p
	mp.buffer = buffer
	mp.ttMove = ttMove
	mp.killer1 = MoveEmpty
	mp.killer2 = MoveEmpty
	mp.index = 0
	mp.skipQuiets = false
	if p.IsCheck() {
		mp.stage = stageEvasionTTMove
	} else {
		mp.stage = stageQSTTMove
	}
}

// SkipQuiets drops the remaining quiet moves. Losing captures are still
// served.
func (mp *movePicker) SkipQuiets() {
	mp.skipQuiets = true
}

func (mp *movePicker) Next(hc *historyContext) Move {
	for {
		switch mp.stage {
		case stageTTMove:
			mp.stage = stageGenCaptures
			if mp.ttMove != MoveEmpty {
				return mp.ttMove
			}
		case stageGenCaptures:
			mp.genCaptures(hc)
			mp.stage = stageGoodCaptures
		case stageGoodCaptures:
			for mp.index < mp.badStart {
				var move = mp.buffer[mp.index].Move
				mp.index++
				if move != mp.ttMove {
					return move
				}
			}
			mp.stage = stageKiller1
		case stageKiller1:
			mp.stage = stageKiller2
			var killer = mp.killer1
			if killer != MoveEmpty && killer != mp.ttMove && mp.validKiller(killer) {
				return killer
			}
		case stageKiller2:
			mp.stage = stageGenQuiets
			var killer = mp.killer2
			if killer != MoveEmpty && killer != mp.ttMove && killer != mp.killer1 &&
				mp.validKiller(killer) {
				return killer
			}
		case stageGenQuiets:
			if mp.skipQuiets {
				mp.stage = stageBadCaptures
				mp.index = mp.badStart
				break
			}
			mp.genQuiets(hc)
			mp.stage = stageQuiets
		case stageQuiets:
			if mp.skipQuiets || mp.index >= mp.quietEnd {
				mp.stage = stageBadCaptures
				mp.index = mp.badStart
				break
			}
			if mp.index == mp.capEnd {
				moveToTop(mp.buffer[mp.index:mp.quietEnd])
			} else if mp.index == mp.capEnd+1 {
				sortMoves(mp.buffer[mp.index:mp.quietEnd])
			}
			var move = mp.buffer[mp.index].Move
			mp.index++
			if move != mp.ttMove && move != mp.killer1 && move != mp.killer2 {
				return move
			}
		case stageBadCaptures:
			for mp.index < mp.capEnd {
				var move = mp.buffer[mp.index].Move
				mp.index++
				if move != mp.ttMove {
					return move
				}
			}
			mp.stage = stageDone
		case stageEvasionTTMove:
			mp.stage = stageEvasionGen
			if mp.ttMove != MoveEmpty {
				return mp.ttMove
			}
		case stageEvasionGen:
			mp.genEvasions(hc)
			mp.stage = stageEvasions
		case stageEvasions:
			for mp.index < mp.quietEnd {
				var move = mp.buffer[mp.index].Move
				mp.index++
				if move != mp.ttMove {
					return move
				}
			}
			mp.stage = stageDone
		case stageQSTTMove:
			mp.stage = stageQSGen
			if mp.ttMove != MoveEmpty && isCaptureOrPromotion(mp.ttMove) {
				return mp.ttMove
			}
		case stageQSGen:
			mp.genCaptures(hc)
			mp.stage = stageQSCaptures
		case stageQSCaptures:
			for mp.index < mp.capEnd {
				var move = mp.buffer[mp.index].Move
				mp.index++
				if move != mp.ttMove {
					return move
				}
			}
			mp.stage = stageDone
		default:
			return MoveEmpty
		}
	}
}

// Captures order by exchange value first, so the key keeps the sign of
// see: 1024 recenters the sub-pawn adjustments from the promotion flag
// and the capture history.
func (mp *movePicker) genCaptures(hc *historyContext) {
	var ml = mp.position.GenerateCaptures(mp.buffer)
	for i := range ml {
		var move = ml[i].Move
		var key = see(mp.position, move)*2048 + 1024
		if move.IsPromotion() {
			key += 64
		}
		key += hc.ReadCapture(move) / 32
		ml[i].Key = int32(key)
	}
	sortMoves(ml)
	mp.capEnd = len(ml)
	mp.badStart = len(ml)
	for i := range ml {
		if ml[i].Key < 0 {
			mp.badStart = i
			break
		}
	}
	mp.index = 0
}

func (mp *movePicker) genQuiets(hc *historyContext) {
	var generated = mp.position.GenerateMoves(mp.buffer[mp.capEnd:])
	var count = 0
	for i := range generated {
		var move = generated[i].Move
		if isCaptureOrPromotion(move) {
			continue
		}
		generated[count] = OrderedMove{Move: move, Key: int32(hc.ReadTotal(move))}
		count++
	}
	mp.quietEnd = mp.capEnd + count
	mp.index = mp.capEnd
}

func (mp *movePicker) genEvasions(hc *historyContext) {
	var ml = mp.position.GenerateMoves(mp.buffer)
	for i := range ml {
		var move = ml[i].Move
		if isCaptureOrPromotion(move) {
			ml[i].Key = int32(1<<20 + mvvlva(move))
		} else {
			ml[i].Key = int32(hc.ReadTotal(move))
		}
	}
	sortMoves(ml)
	mp.quietEnd = len(ml)
	mp.index = 0
}

// validKiller screens killers from sibling nodes against the current
// position before they are tried without generation.
func (mp *movePicker) validKiller(killer Move) bool {
	return !isCaptureOrPromotion(killer) &&
		mp.position.UnpackMove(killer.Pack()) == killer
}

var sortPieceValues = [PieceNb]int{
	Empty: 0, Pawn: 1, Lance: 2, Knight: 2, Silver: 3, Gold: 4, Bishop: 5, Rook: 6, King: 8,
	ProPawn: 4, ProLance: 4, ProKnight: 4, ProSilver: 4, Horse: 7, Dragon: 9,
}

func mvvlva(move Move) int {
	var victim = sortPieceValues[move.CapturedPiece()]
	if move.IsPromotion() {
		victim += sortPieceValues[Promote(move.MovingPiece())] -
			sortPieceValues[move.MovingPiece()]
	}
	return 8*victim - sortPieceValues[move.MovingPiece()]
}

func sortMoves(moves []OrderedMove) {
	for i := 1; i < len(moves); i++ {
		j, t := i, moves[i]
		for ; j > 0 && moves[j-1].Key < t.Key; j-- {
			moves[j] = moves[j-1]
		}
		moves[j] = t
	}
}

func isSorted(moves []OrderedMove) bool {
	for i := 1; i < len(moves); i++ {
		if moves[i-1].Key < moves[i].Key {
			return false
		}
	}
	return true
}

func moveToTop(ml []OrderedMove) {
	var bestIndex = 0
	for i := 1; i < len(ml); i++ {
		if ml[i].Key > ml[bestIndex].Key {
			bestIndex = i
		}
	}
	if bestIndex != 0 {
		ml[0], ml[bestIndex] = ml[bestIndex], ml[0]
	}
}
