package engine

import (
	"testing"

	. "github.com/SH11235/rshogi-sub010/pkg/shogi"
)

func seeTestPosition(t *testing.T, sfen string) *Position {
	t.Helper()
	var p, err = NewPositionFromSFEN(sfen)
	if err != nil {
		t.Fatal(err)
	}
	return &p
}

func captureBy(t *testing.T, p *Position, attacker int, promotion bool) Move {
	t.Helper()
	var buffer [MaxMoves]OrderedMove
	for _, om := range p.GenerateCaptures(buffer[:]) {
		if om.Move.MovingPiece() == attacker && om.Move.IsPromotion() == promotion {
			return om.Move
		}
	}
	t.Fatal("capture not found", attacker, promotion)
	return MoveEmpty
}

func TestSeeSimpleExchanges(t *testing.T) {
	// pawn takes a free pawn, rook takes a pawn the silver defends
	var p = seeTestPosition(t, pickerSFEN)

	var good = captureBy(t, p, Pawn, false)
	if v := see(p, good); v != 1 {
		t.Error("free pawn", v)
	}
	if !SeeGE(p, good, 0) || !SeeGE(p, good, 1) || SeeGE(p, good, 2) {
		t.Error("SeeGE thresholds disagree with see")
	}

	var bad = captureBy(t, p, Rook, false)
	if v := see(p, bad); v != -9 {
		t.Error("rook for defended pawn", v)
	}
	if SeeGE(p, bad, 0) {
		t.Error("losing capture passed threshold 0")
	}
}

func TestSeeLanceXray(t *testing.T) {
	// the lance behind the rook joins the exchange once the rook moves
	var p = seeTestPosition(t, "4k4/9/9/5s3/4p4/4R4/9/9/4L3K b - 1")
	var move = captureBy(t, p, Rook, false)
	if v := see(p, move); v != -4 {
		t.Error("TestSeeLanceXray", v)
	}
}

func TestSeePromotionGain(t *testing.T) {
	var p = seeTestPosition(t, "4k4/9/7p1/7P1/9/9/9/9/4K4 b - 1")
	var promo = captureBy(t, p, Pawn, true)
	var plain = captureBy(t, p, Pawn, false)
	if v := see(p, promo); v != 6 {
		t.Error("promoting capture", v)
	}
	if v := see(p, plain); v != 1 {
		t.Error("plain capture", v)
	}
}

func TestSeeGEDrops(t *testing.T) {
	var p = seeTestPosition(t, "4k4/9/9/9/4p4/9/9/9/4K4 b R 1")

	var buffer [MaxMoves]OrderedMove
	var hanging, safe = MoveEmpty, MoveEmpty
	for _, om := range p.GenerateMoves(buffer[:]) {
		var m = om.Move
		if !m.IsDrop() || m.MovingPiece() != Rook {
			continue
		}
		switch m.To() {
		case MakeSquare(File5, RankF):
			hanging = m
		case MakeSquare(File1, RankE):
			safe = m
		}
	}
	if hanging == MoveEmpty || safe == MoveEmpty {
		t.Fatal("rook drops not generated")
	}
	// the pawn on 5e eats a rook dropped in front of it
	if SeeGE(p, hanging, 0) {
		t.Error("hanging drop passed")
	}
	if !SeeGE(p, safe, 0) {
		t.Error("safe drop failed")
	}
}

func TestSeeKingRecapture(t *testing.T) {
	// lone attacker: the king recaptures and the silver is lost
	var p = seeTestPosition(t, "4k4/4p4/5S3/9/9/9/9/9/4K4 b - 1")
	var move = captureBy(t, p, Silver, true)
	if v := see(p, move); v != -4 {
		t.Error("king recapture not counted", v)
	}

	// with a gold backing up the silver the king has to pass
	p = seeTestPosition(t, "4k4/4p4/4GS3/9/9/9/9/9/4K4 b - 1")
	move = captureBy(t, p, Silver, true)
	if v := see(p, move); v != 2 {
		t.Error("king joined a covered exchange", v)
	}
}
