package shogi

import "testing"

func TestSFENRoundTrip(t *testing.T) {
	var tests = []string{
		InitialPositionSFEN,
		"l6nl/5+P1gk/2np1S3/p1p4Pp/3P2Sp1/1PPb2P1P/P5GS1/R8/LN4bKL w RGgsn5p 1",
		"8k/6G2/7S1/9/9/9/9/9/K8 b GP 1",
		"4k4/9/9/9/9/9/9/9/4K4 b 2L2P 1",
		"4k4/9/9/9/4r4/9/2b6/9/4K4 b - 1",
	}
	for _, test := range tests {
		var p, err = NewPositionFromSFEN(test)
		if err != nil {
			t.Error(err)
			continue
		}
		if p.String() != test {
			t.Error("TestSFENRoundTrip", test, p.String())
		}
	}
}

func TestBadSFEN(t *testing.T) {
	var tests = []string{
		"",
		"4k4/9/9/9/9/9/9/9/4K4",
		"lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL x - 1",
		"9/9/9/9/9/9/9/9/9 b - 1",
		"lnsgkgsnl/1r5b1/ppppppppp/8/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1",
	}
	for _, test := range tests {
		if _, err := NewPositionFromSFEN(test); err == nil {
			t.Error("TestBadSFEN accepted", test)
		}
	}
}

func TestMakeMoveKeys(t *testing.T) {
	var p, err = NewPositionFromSFEN(InitialPositionSFEN)
	if err != nil {
		t.Fatal(err)
	}
	// bishop trade fills both hands and exercises promotion
	for _, s := range []string{"7g7f", "3c3d", "8h2b+", "3a2b"} {
		var move, ok = p.ParseMove(s)
		if !ok {
			t.Fatal("TestMakeMoveKeys: bad move", s)
		}
		var child = Position{}
		if !p.MakeMove(move, &child) {
			t.Fatal("TestMakeMoveKeys: illegal move", s)
		}
		var reparsed, err = NewPositionFromSFEN(child.String())
		if err != nil {
			t.Fatal(err)
		}
		if reparsed.Key != child.Key {
			t.Error("TestMakeMoveKeys: key mismatch after", s)
		}
		if reparsed.PawnKey != child.PawnKey {
			t.Error("TestMakeMoveKeys: pawn key mismatch after", s)
		}
		p = child
	}
	if p.Hand(SideBlack).Count(Bishop) != 1 || p.Hand(SideWhite).Count(Bishop) != 1 {
		t.Error("TestMakeMoveKeys: hands after bishop trade", p.String())
	}
}

func TestNullMove(t *testing.T) {
	var p, err = NewPositionFromSFEN(InitialPositionSFEN)
	if err != nil {
		t.Fatal(err)
	}
	var null = Position{}
	p.MakeNullMove(&null)
	if null.Side == p.Side || null.Key == p.Key {
		t.Error("TestNullMove: side or key unchanged")
	}
	var back = Position{}
	null.MakeNullMove(&back)
	if back.Key != p.Key {
		t.Error("TestNullMove: key not restored")
	}
}

func TestHandCounts(t *testing.T) {
	var h Hand
	h = h.Inc(Pawn).Inc(Pawn).Inc(Rook)
	if h.Count(Pawn) != 2 || h.Count(Rook) != 1 || h.Count(Gold) != 0 {
		t.Error("TestHandCounts", h)
	}
	if h.OnlyPawns() {
		t.Error("TestHandCounts: rook in hand")
	}
	h = h.Dec(Rook)
	if !h.OnlyPawns() || h.IsEmpty() {
		t.Error("TestHandCounts after Dec", h)
	}
	for i := 0; i < 16; i++ {
		h = h.Inc(Pawn)
	}
	if h.Count(Pawn) != 18 {
		t.Error("TestHandCounts at max pawns", h.Count(Pawn))
	}
}

func TestUnpackMove(t *testing.T) {
	var tests = []string{
		InitialPositionSFEN,
		"l6nl/5+P1gk/2np1S3/p1p4Pp/3P2Sp1/1PPb2P1P/P5GS1/R8/LN4bKL w RGgsn5p 1",
		"8k/6G2/7S1/9/9/9/9/9/K8 b GP 1",
	}
	for _, test := range tests {
		var p, err = NewPositionFromSFEN(test)
		if err != nil {
			t.Fatal(err)
		}
		for _, move := range p.GenerateLegalMoves() {
			if p.UnpackMove(move.Pack()) != move {
				t.Error("TestUnpackMove round trip", test, move)
			}
		}
		// arbitrary packed values must never panic and never produce
		// a move the position cannot hold
		for packed := 0; packed < 1<<15; packed++ {
			var move = p.UnpackMove(uint16(packed))
			if move == MoveEmpty || move.IsDrop() {
				continue
			}
			if p.WhatPiece(move.From()) != move.MovingPiece() {
				t.Fatal("TestUnpackMove: piece mismatch", test, move)
			}
		}
	}
}
