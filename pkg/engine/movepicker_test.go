package engine

import (
	"testing"

	"github.com/matryer/is"

	. "github.com/SH11235/rshogi-sub010/pkg/shogi"
)

// Black can win a pawn on 2e and lose the rook on 5e, where a white
// silver recaptures.
const pickerSFEN = "4k4/9/9/5s3/4p2p1/7P1/9/9/4R3K b - 1"

func drainPicker(mp *movePicker, hc *historyContext) []Move {
	var result []Move
	for {
		var move = mp.Next(hc)
		if move == MoveEmpty {
			break
		}
		result = append(result, move)
	}
	return result
}

func pseudoLegalSet(p *Position, buffer []OrderedMove) map[Move]bool {
	var result = make(map[Move]bool)
	for _, om := range p.GenerateMoves(buffer) {
		result[om.Move] = true
	}
	return result
}

func findCaptureBy(p *Position, buffer []OrderedMove, attacker int) Move {
	for _, om := range p.GenerateCaptures(buffer) {
		if om.Move.MovingPiece() == attacker && !om.Move.IsPromotion() {
			return om.Move
		}
	}
	return MoveEmpty
}

func TestMovePickerServesEveryMoveOnce(t *testing.T) {
	var is = is.New(t)
	for _, sfen := range []string{InitialPositionSFEN, pickerSFEN} {
		var th = historyTestThread(t, sfen)
		var p = &th.stack[0].position
		var hc = th.getHistoryContext(0)

		var all = pseudoLegalSet(p, th.stack[1].moveList[:])

		var mp movePicker
		mp.initNormal(p, th.stack[0].moveList[:], MoveEmpty, MoveEmpty, MoveEmpty)
		var served = drainPicker(&mp, &hc)

		is.Equal(len(served), len(all))
		var seen = make(map[Move]bool)
		for _, move := range served {
			is.True(all[move])
			is.True(!seen[move])
			seen[move] = true
		}
	}
}

func TestMovePickerStageOrder(t *testing.T) {
	var is = is.New(t)
	var th = historyTestThread(t, pickerSFEN)
	var p = &th.stack[0].position
	var hc = th.getHistoryContext(0)

	var goodCapture = findCaptureBy(p, th.stack[1].moveList[:], Pawn)
	var badCapture = findCaptureBy(p, th.stack[1].moveList[:], Rook)
	is.True(goodCapture != MoveEmpty)
	is.True(badCapture != MoveEmpty)

	var quiets []Move
	for _, om := range p.GenerateMoves(th.stack[1].moveList[:]) {
		if !isCaptureOrPromotion(om.Move) {
			quiets = append(quiets, om.Move)
		}
	}
	var ttMove = quiets[0]
	var killer1 = quiets[1]
	var killer2 = quiets[2]

	var mp movePicker
	mp.initNormal(p, th.stack[0].moveList[:], ttMove, killer1, killer2)
	var served = drainPicker(&mp, &hc)

	var at = make(map[Move]int)
	for i, move := range served {
		at[move] = i
	}

	is.Equal(at[ttMove], 0)
	is.Equal(at[goodCapture], 1)
	is.Equal(at[killer1], 2)
	is.Equal(at[killer2], 3)
	is.Equal(at[badCapture], len(served)-1)
}

func TestMovePickerSkipQuiets(t *testing.T) {
	var is = is.New(t)
	var th = historyTestThread(t, pickerSFEN)
	var p = &th.stack[0].position
	var hc = th.getHistoryContext(0)

	var mp movePicker
	mp.initNormal(p, th.stack[0].moveList[:], MoveEmpty, MoveEmpty, MoveEmpty)

	var first = mp.Next(&hc)
	is.True(isCaptureOrPromotion(first))
	mp.SkipQuiets()

	for {
		var move = mp.Next(&hc)
		if move == MoveEmpty {
			break
		}
		// after SkipQuiets only captures may come out
		is.True(isCaptureOrPromotion(move))
	}
}

func TestMovePickerQS(t *testing.T) {
	var is = is.New(t)
	var th = historyTestThread(t, pickerSFEN)
	var p = &th.stack[0].position
	var hc = th.getHistoryContext(0)

	var mp movePicker
	mp.initQS(p, th.stack[0].moveList[:], MoveEmpty)
	var served = drainPicker(&mp, &hc)

	is.True(len(served) > 0)
	for _, move := range served {
		is.True(isCaptureOrPromotion(move))
	}
	is.True(isSorted(th.stack[0].moveList[:mp.capEnd]))
}

func TestMovePickerEvasions(t *testing.T) {
	var is = is.New(t)
	var th = historyTestThread(t, "4k4/9/9/9/9/9/9/4r4/4K4 b - 1")
	var p = &th.stack[0].position
	var hc = th.getHistoryContext(0)
	is.True(p.IsCheck())

	var all = pseudoLegalSet(p, th.stack[1].moveList[:])

	var mp movePicker
	mp.initNormal(p, th.stack[0].moveList[:], MoveEmpty, MoveEmpty, MoveEmpty)
	var served = drainPicker(&mp, &hc)

	is.Equal(len(served), len(all))
	// the rook capture is the only noisy move and must come first
	is.True(isCaptureOrPromotion(served[0]))
	is.Equal(served[0].CapturedPiece(), Rook)
}

func TestMovePickerQSTTMoveGate(t *testing.T) {
	var is = is.New(t)
	var th = historyTestThread(t, pickerSFEN)
	var p = &th.stack[0].position
	var hc = th.getHistoryContext(0)

	// a quiet tt move must not leak into the quiescence picker
	var quietTT = MoveEmpty
	for _, om := range p.GenerateMoves(th.stack[1].moveList[:]) {
		if !isCaptureOrPromotion(om.Move) {
			quietTT = om.Move
			break
		}
	}
	var mp movePicker
	mp.initQS(p, th.stack[0].moveList[:], quietTT)
	for _, move := range drainPicker(&mp, &hc) {
		is.True(move != quietTT)
	}
}
