package engine

import (
	"math"

	"github.com/SH11235/rshogi-sub010/pkg/shogi"
)

type Options struct {
	Hash               int
	Threads            int
	ExperimentSettings bool
	ProgressMinNodes   int
	AspirationWindows  bool
	ReverseFutility    bool
	Razoring           bool
	NullMovePruning    bool
	Probcut            bool
	SingularExt        bool
	CheckExt           bool
	Lmp                bool
	Futility           bool
	See                bool
	reductions         [64][64]int
}

func NewOptions() Options {
	var result = Options{
		Hash:               16,
		Threads:            1,
		ExperimentSettings: false,
		ProgressMinNodes:   1_000_000,
		AspirationWindows:  true,
		ReverseFutility:    true,
		Razoring:           true,
		NullMovePruning:    true,
		Probcut:            true,
		SingularExt:        true,
		CheckExt:           true,
		Lmp:                true,
		Futility:           true,
		See:                true,
	}
	result.InitLmr(LmrMult)
	return result
}

func (o *Options) Lmr(d, m int) int {
	return o.reductions[shogi.Min(d, 63)][shogi.Min(m, 63)]
}

func (o *Options) InitLmr(f func(d, m float64) float64) {
	initLmr(&o.reductions, f)
}

func initLmr(reductions *[64][64]int,
	f func(d, m float64) float64) {
	for d := 1; d < 64; d++ {
		for m := 1; m < 64; m++ {
			var r = f(float64(d), float64(m))
			reductions[d][m] = int(r)
		}
	}
}

func LmrMult(d, m float64) float64 {
	return math.Log(d) * math.Log(m) / 2
}
