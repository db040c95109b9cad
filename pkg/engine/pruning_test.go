package engine

import "testing"

func TestLmrReduction(t *testing.T) {
	var options = NewOptions()

	for depth := 3; depth <= 30; depth++ {
		for moveIndex := 3; moveIndex <= 60; moveIndex++ {
			var base = lmrReduction(&options, depth, moveIndex, false, false, false)
			if base < 0 || base > depth-1 {
				t.Fatal("reduction outside [0, depth-1]", depth, moveIndex, base)
			}
			var pv = lmrReduction(&options, depth, moveIndex, true, false, false)
			if pv > base {
				t.Fatal("pv node reduced more than a cut node", depth, moveIndex)
			}
			var improving = lmrReduction(&options, depth, moveIndex, false, true, false)
			if improving > base {
				t.Fatal("improving node reduced more", depth, moveIndex)
			}
			if lmrReduction(&options, depth, moveIndex, false, false, true) != 0 {
				t.Fatal("checking move reduced", depth, moveIndex)
			}
		}
	}

	// deeper and later means reduced at least as much
	if lmrReduction(&options, 20, 30, false, false, false) <
		lmrReduction(&options, 10, 10, false, false, false) {
		t.Error("reduction not monotone in depth and move index")
	}
	if lmrReduction(&options, 30, 60, false, false, false) == 0 {
		t.Error("late move at high depth not reduced at all")
	}
}

func TestPruningMargins(t *testing.T) {
	for depth := 1; depth <= 8; depth++ {
		if reverseFutilityMargin(depth) != pawnValue*depth {
			t.Error("reverse futility margin", depth)
		}
		if futilityMargin(depth) <= reverseFutilityMargin(depth)-pawnValue {
			t.Error("futility margin below static bar", depth)
		}
		if razorMargin(depth) <= reverseFutilityMargin(depth) {
			t.Error("razor margin not above the static margin", depth)
		}
	}
	if nullMoveReduction(2) != 2 || nullMoveReduction(8) != 4 || nullMoveReduction(16) != 6 {
		t.Error("null move reduction schedule changed")
	}
}

func TestLmpLimit(t *testing.T) {
	for depth := 1; depth <= 8; depth++ {
		var improving = lmpLimit(depth, true)
		var worsening = lmpLimit(depth, false)
		if worsening >= improving {
			t.Error("worsening limit not tighter", depth, improving, worsening)
		}
		if depth > 1 && improving <= lmpLimit(depth-1, true) {
			t.Error("limit did not grow with depth", depth)
		}
	}
	if lmpLimit(1, true) != 5 || lmpLimit(3, true) != 11 {
		t.Error("late move pruning base counts changed")
	}
}

func TestProbcutBeta(t *testing.T) {
	if probcutBeta(100) != 250 {
		t.Error("probcut margin", probcutBeta(100))
	}
	if probcutBeta(valueMate) >= valueWin {
		t.Error("probcut beta reached the mate band")
	}
}
