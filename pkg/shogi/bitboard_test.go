package shogi

import "testing"

func TestSquareMask(t *testing.T) {
	for sq := 0; sq < SquareNb; sq++ {
		var b = SquareMask[sq]
		if FirstOne(b) != sq || LastOne(b) != sq || PopCount(b) != 1 {
			t.Error("TestSquareMask", sq)
		}
		if !b.Has(sq) {
			t.Error("TestSquareMask Has", sq)
		}
	}
}

func TestShifts(t *testing.T) {
	var tests = []struct {
		name string
		got  Bitboard
		want Bitboard
	}{
		{"up", Up(SquareMask[Square5E]), SquareMask[Square5D]},
		{"down", Down(SquareMask[Square5E]), SquareMask[Square5F]},
		{"left", Left(SquareMask[Square5E]), SquareMask[Square6E]},
		{"right", Right(SquareMask[Square5E]), SquareMask[Square4E]},
		{"left across words", Left(SquareMask[Square7E]), SquareMask[Square8E]},
		{"right across words", Right(SquareMask[Square8E]), SquareMask[Square7E]},
		{"up off board", Up(SquareMask[Square5A]), Bitboard{}},
		{"down off board", Down(SquareMask[Square5I]), Bitboard{}},
		{"left off board", Left(SquareMask[Square9E]), Bitboard{}},
		{"right off board", Right(SquareMask[Square1E]), Bitboard{}},
		{"up left", UpLeft(SquareMask[Square5E]), SquareMask[Square6D]},
		{"down right", DownRight(SquareMask[Square5E]), SquareMask[Square4F]},
	}
	for _, test := range tests {
		if test.got != test.want {
			t.Error("TestShifts", test.name)
		}
	}
}

func TestPop(t *testing.T) {
	var bb = SquareMask[Square1A].Or(SquareMask[Square5E]).Or(SquareMask[Square8E])
	var squares []int
	for !bb.IsZero() {
		squares = append(squares, Pop(&bb))
	}
	if len(squares) != 3 ||
		squares[0] != Square1A ||
		squares[1] != Square5E ||
		squares[2] != Square8E {
		t.Error("TestPop", squares)
	}
	if !MoreThanOne(SquareMask[Square1A].Or(SquareMask[Square8E])) {
		t.Error("TestPop: MoreThanOne across words")
	}
	if MoreThanOne(SquareMask[Square8E]) {
		t.Error("TestPop: MoreThanOne single bit")
	}
}

func TestStepAttacks(t *testing.T) {
	if PawnAttacks(Square5E, SideBlack) != SquareMask[Square5D] {
		t.Error("black pawn attack")
	}
	if PawnAttacks(Square5E, SideWhite) != SquareMask[Square5F] {
		t.Error("white pawn attack")
	}
	if PopCount(KingAttacks[Square5E]) != 8 {
		t.Error("king attacks", PopCount(KingAttacks[Square5E]))
	}
	if PopCount(GoldAttacks(Square5E, SideBlack)) != 6 {
		t.Error("gold attacks", PopCount(GoldAttacks(Square5E, SideBlack)))
	}
	if PopCount(SilverAttacks(Square5E, SideBlack)) != 5 {
		t.Error("silver attacks", PopCount(SilverAttacks(Square5E, SideBlack)))
	}
	var n = KnightAttacks(Square5E, SideBlack)
	if PopCount(n) != 2 || !n.Has(Square4C) || !n.Has(Square6C) {
		t.Error("knight attacks")
	}
	// the board edge trims the knight to one target
	if PopCount(KnightAttacks(Square1I, SideBlack)) != 1 {
		t.Error("knight attacks at the edge")
	}
	if PopCount(KnightAttacks(Square5H, SideWhite)) != 0 {
		t.Error("white knight pointing off the board")
	}
}

func TestSlideAttacks(t *testing.T) {
	var empty = Bitboard{}
	if PopCount(RookAttacks(Square5E, empty)) != 16 {
		t.Error("rook attacks", PopCount(RookAttacks(Square5E, empty)))
	}
	if PopCount(BishopAttacks(Square5E, empty)) != 16 {
		t.Error("bishop attacks", PopCount(BishopAttacks(Square5E, empty)))
	}
	if PopCount(HorseAttacks(Square5E, empty)) != 20 {
		t.Error("horse attacks")
	}
	if PopCount(DragonAttacks(Square5E, empty)) != 20 {
		t.Error("dragon attacks")
	}
	if PopCount(LanceAttacks(Square5I, SideBlack, empty)) != 8 {
		t.Error("lance attacks")
	}
	var blocked = RookAttacks(Square5E, SquareMask[Square5C])
	if !blocked.Has(Square5C) || blocked.Has(Square5B) || blocked.Has(Square5A) {
		t.Error("rook attacks with blocker")
	}
	var lance = LanceAttacks(Square2I, SideBlack, SquareMask[Square2C])
	if !lance.Has(Square2C) || lance.Has(Square2B) {
		t.Error("lance attacks with blocker")
	}
	var diag = BishopAttacks(Square1A, empty)
	if PopCount(diag) != 8 || !diag.Has(Square9I) {
		t.Error("bishop attacks from the corner")
	}
}

func TestBetween(t *testing.T) {
	var b = betweenMask[Square1A][Square1E]
	if PopCount(b) != 3 || !b.Has(Square1C) {
		t.Error("between on a file")
	}
	b = betweenMask[Square1A][Square5E]
	if PopCount(b) != 3 || !b.Has(Square3C) {
		t.Error("between on a diagonal")
	}
	if !betweenMask[Square1A][Square2C].IsZero() {
		t.Error("between of unaligned squares")
	}
	if betweenMask[Square5E][Square9I] != betweenMask[Square9I][Square5E] {
		t.Error("between not symmetric")
	}
}
