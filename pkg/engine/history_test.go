package engine

import (
	"testing"

	"github.com/matryer/is"

	. "github.com/SH11235/rshogi-sub010/pkg/shogi"
)

func historyTestThread(t *testing.T, sfen string) *thread {
	t.Helper()
	var p, err = NewPositionFromSFEN(sfen)
	if err != nil {
		t.Fatal(err)
	}
	var e = NewEngine(func() Evaluator { return evalStub{} })
	e.Prepare()
	var th = &e.threads[0]
	th.stack[0].position = p
	return th
}

type evalStub struct{}

func (evalStub) Evaluate(p *Position) int { return 0 }

func TestUpdateHistoryBounds(t *testing.T) {
	var v int16
	for i := 0; i < 10000; i++ {
		updateHistory(&v, 400, true)
	}
	if !(v > 0 && int(v) <= historyMax) {
		t.Fatal("reward run left history out of range", v)
	}
	for i := 0; i < 10000; i++ {
		updateHistory(&v, 400, false)
	}
	if !(v < 0 && int(v) >= -historyMax) {
		t.Fatal("penalty run left history out of range", v)
	}
}

func TestHistoryUpdateAndRead(t *testing.T) {
	var is = is.New(t)
	var th = historyTestThread(t, InitialPositionSFEN)
	var hc = th.getHistoryContext(0)

	var moves = th.stack[0].position.GenerateLegalMoves()
	var best = moves[0]
	var others = moves[1:4]

	var quiets = append(cloneMoves(others), best)
	hc.Update(quiets, best, 10)

	is.True(hc.ReadTotal(best) > 0)
	for _, m := range others {
		is.True(hc.ReadTotal(m) < 0)
	}
}

func TestHistoryCounterMove(t *testing.T) {
	var is = is.New(t)
	var th = historyTestThread(t, InitialPositionSFEN)

	var p = &th.stack[0].position
	var child = &th.stack[1].position

	var first = p.GenerateLegalMoves()[0]
	is.True(p.MakeMove(first, child))
	var answer = child.GenerateLegalMoves()[0]

	var hc = th.getHistoryContext(1)
	hc.Update([]Move{answer}, answer, 8)

	// the same preceding move now suggests the stored counter
	var again = th.getHistoryContext(1)
	is.Equal(again.counter, answer)
	is.True(again.ReadTotal(answer) >= counterBonus)
}

func TestDimHistoryHalves(t *testing.T) {
	var is = is.New(t)
	var th = historyTestThread(t, InitialPositionSFEN)
	var hc = th.getHistoryContext(0)

	var moves = th.stack[0].position.GenerateLegalMoves()
	var best = moves[0]
	hc.Update([]Move{best}, best, 12)

	var before = hc.ReadTotal(best)
	is.True(before > 0)

	th.dimHistory()
	var dimmed = th.getHistoryContext(0)
	var after = dimmed.ReadTotal(best)
	is.True(after > 0)
	is.True(after < before)

	th.clearHistory()
	var cleared = th.getHistoryContext(0)
	is.Equal(cleared.ReadTotal(best), 0)
}

func TestContinuationSlotZeroStaysEmpty(t *testing.T) {
	var th = historyTestThread(t, InitialPositionSFEN)
	var hc = th.getHistoryContext(0)

	// no previous move: cont rows must stay on the reserved empty slot
	if hc.cont1 != 0 || hc.cont2 != 0 {
		t.Fatal("fresh root produced continuation rows", hc.cont1, hc.cont2)
	}
	var moves = th.stack[0].position.GenerateLegalMoves()
	hc.Update(moves[:3], moves[0], 10)
	for i := range th.continuationHistory[0] {
		if th.continuationHistory[0][i] != 0 {
			t.Fatal("reserved continuation row written at", i)
		}
	}
}

func TestCaptureHistory(t *testing.T) {
	var is = is.New(t)
	// rook takes the defended pawn in front of it
	var th = historyTestThread(t, "4k4/9/9/9/9/9/4p4/9/4R3K b - 1")
	var hc = th.getHistoryContext(0)

	var p = &th.stack[0].position
	var capture = MoveEmpty
	for _, om := range p.GenerateCaptures(th.stack[0].moveList[:]) {
		if om.Move.CapturedPiece() == Pawn {
			capture = om.Move
			break
		}
	}
	is.True(capture != MoveEmpty)

	hc.UpdateCaptures([]Move{capture}, capture, 9)
	is.True(hc.ReadCapture(capture) > 0)

	// the same capture failing to be best eats the reward back
	hc.UpdateCaptures([]Move{capture}, MoveEmpty, 9)
	is.True(hc.ReadCapture(capture) < 0)
}
