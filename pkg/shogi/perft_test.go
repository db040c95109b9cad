package shogi

import "testing"

func Perft(p *Position, depth int) int {
	var result = 0
	var buffer [MaxMoves]OrderedMove
	var child = Position{}
	for _, om := range p.GenerateMoves(buffer[:]) {
		if p.MakeMove(om.Move, &child) {
			if depth <= 1 {
				result++
			} else {
				result += Perft(&child, depth-1)
			}
		}
	}
	return result
}

func TestPerft(t *testing.T) {
	var tests = []struct {
		sfen  string
		depth int
		nodes int
	}{
		{InitialPositionSFEN, 1, 30},
		{InitialPositionSFEN, 2, 900},
		{InitialPositionSFEN, 3, 25470},
		{InitialPositionSFEN, 4, 719731},
		{"4k4/9/9/9/9/9/9/9/4K4 b P 1", 1, 76},
		{"4k4/9/9/9/9/9/9/9/4K4 b L 1", 1, 76},
		{"4k4/9/9/9/9/9/9/9/4K4 b N 1", 1, 67},
	}
	for _, test := range tests {
		var p, err = NewPositionFromSFEN(test.sfen)
		if err != nil {
			t.Error(err)
			continue
		}
		var nodes = Perft(&p, test.depth)
		if nodes != test.nodes {
			t.Error("TestPerft", test, nodes)
		}
	}
}

func TestPerftDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	var p, err = NewPositionFromSFEN(InitialPositionSFEN)
	if err != nil {
		t.Fatal(err)
	}
	var nodes = Perft(&p, 5)
	if nodes != 19861490 {
		t.Error("TestPerftDeep", nodes)
	}
}

func BenchmarkPerft(b *testing.B) {
	var p, err = NewPositionFromSFEN(InitialPositionSFEN)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Perft(&p, 3)
	}
}
