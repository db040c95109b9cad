package engine

import . "github.com/SH11235/rshogi-sub010/pkg/shogi"

const historyMax = 1 << 14

const (
	// drops use the virtual from squares 81..87
	fromToNb  = (SquareNb + 7) * SquareNb
	pieceToNb = SideNb * PieceNb * SquareNb
	// row 0 of the continuation tables stays zero and serves as the
	// "no previous move" slot
	contNb       = pieceToNb + 1
	pawnHistNb   = 512
	lowPlyNb     = 5
	counterBonus = 2000
)

type historyContext struct {
	thread    *thread
	side      int
	cont1     int
	cont2     int
	pawnIndex int
	counter   Move
	height    int
}

func (h *historyContext) ReadTotal(m Move) int {
	var t = h.thread
	var score int
	score += int(t.mainHistory[sideFromToIndex(h.side, m)])
	var pieceToIndex = pieceSquareIndex(h.side, m)
	score += int(t.continuationHistory[h.cont1][pieceToIndex])
	score += int(t.continuationHistory[h.cont2][pieceToIndex])
	score += int(t.pawnHistory[h.pawnIndex][pieceToIndex])
	if h.height < lowPlyNb {
		score += int(t.lowPlyHistory[h.height][fromToIndex(m)])
	}
	if m == h.counter {
		score += counterBonus
	}
	return score
}

func (h *historyContext) Update(quietsSearched []Move, bestMove Move, depth int) {
	var bonus = Min(depth*depth, 400)
	var t = h.thread

	for _, m := range quietsSearched {
		var good = m == bestMove

		updateHistory(&t.mainHistory[sideFromToIndex(h.side, m)], bonus, good)
		var pieceToIndex = pieceSquareIndex(h.side, m)
		if h.cont1 != 0 {
			updateHistory(&t.continuationHistory[h.cont1][pieceToIndex], bonus, good)
		}
		if h.cont2 != 0 {
			updateHistory(&t.continuationHistory[h.cont2][pieceToIndex], bonus, good)
		}
		updateHistory(&t.pawnHistory[h.pawnIndex][pieceToIndex], bonus, good)
		if h.height < lowPlyNb {
			updateHistory(&t.lowPlyHistory[h.height][fromToIndex(m)], bonus, good)
		}

		if good {
			break
		}
	}

	if h.cont1 != 0 && bestMove != MoveEmpty && !isCaptureOrPromotion(bestMove) {
		t.counterMoves[h.cont1] = bestMove
	}
}

func (h *historyContext) UpdateCaptures(capturesSearched []Move, bestMove Move, depth int) {
	var bonus = Min(depth*depth, 400)
	var t = h.thread
	for _, m := range capturesSearched {
		var victim = Unpromote(m.CapturedPiece())
		updateHistory(&t.captureHistory[m.MovingPiece()][m.To()][victim], bonus, m == bestMove)
	}
}

func (h *historyContext) ReadCapture(m Move) int {
	return int(h.thread.captureHistory[m.MovingPiece()][m.To()][Unpromote(m.CapturedPiece())])
}

// Exponential moving average
func updateHistory(v *int16, bonus int, good bool) {
	var newVal int
	if good {
		newVal = historyMax
	} else {
		newVal = -historyMax
	}
	*v += int16((newVal - int(*v)) * bonus / 512)
}

func (t *thread) clearHistory() {
	for i := range t.mainHistory {
		t.mainHistory[i] = 0
	}
	for i := range t.continuationHistory {
		for j := range t.continuationHistory[i] {
			t.continuationHistory[i][j] = 0
		}
	}
	for i := range t.captureHistory {
		for j := range t.captureHistory[i] {
			for k := range t.captureHistory[i][j] {
				t.captureHistory[i][j][k] = 0
			}
		}
	}
	for i := range t.pawnHistory {
		for j := range t.pawnHistory[i] {
			t.pawnHistory[i][j] = 0
		}
	}
	for i := range t.lowPlyHistory {
		for j := range t.lowPlyHistory[i] {
			t.lowPlyHistory[i][j] = 0
		}
	}
	for i := range t.counterMoves {
		t.counterMoves[i] = MoveEmpty
	}
	t.ttMoveHistory = 0
}

// dimHistory decays the tables between searches instead of clearing
// them, so move ordering from the previous turn carries over.
func (t *thread) dimHistory() {
	for i := range t.mainHistory {
		t.mainHistory[i] /= 2
	}
	for i := range t.continuationHistory {
		for j := range t.continuationHistory[i] {
			t.continuationHistory[i][j] /= 2
		}
	}
	for i := range t.captureHistory {
		for j := range t.captureHistory[i] {
			for k := range t.captureHistory[i][j] {
				t.captureHistory[i][j][k] /= 2
			}
		}
	}
	for i := range t.pawnHistory {
		for j := range t.pawnHistory[i] {
			t.pawnHistory[i][j] /= 2
		}
	}
	// plies are counted from the new root, old entries do not apply
	for i := range t.lowPlyHistory {
		for j := range t.lowPlyHistory[i] {
			t.lowPlyHistory[i][j] = 0
		}
	}
	t.ttMoveHistory /= 2
}

func (t *thread) getHistoryContext(height int) historyContext {
	var position = &t.stack[height].position
	var side = position.Side
	var cont1 = 0
	var counter = MoveEmpty
	{
		var prev1 = position.LastMove
		if prev1 != MoveEmpty {
			cont1 = 1 + pieceSquareIndex(side^1, prev1)
			counter = t.counterMoves[cont1]
		}
	}
	var cont2 = 0
	if height > 0 {
		var prev2 = t.stack[height-1].position.LastMove
		if prev2 != MoveEmpty {
			cont2 = 1 + pieceSquareIndex(side, prev2)
		}
	}
	return historyContext{
		thread:    t,
		side:      side,
		cont1:     cont1,
		cont2:     cont2,
		pawnIndex: int(position.PawnKey % pawnHistNb),
		counter:   counter,
		height:    height,
	}
}

func pieceSquareIndex(side int, move Move) int {
	return (side*PieceNb+move.MovingPiece())*SquareNb + move.To()
}

func fromToIndex(move Move) int {
	return move.From()*SquareNb + move.To()
}

func sideFromToIndex(side int, move Move) int {
	return side*fromToNb + fromToIndex(move)
}
