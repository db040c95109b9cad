package engine

import (
	"time"

	. "github.com/SH11235/rshogi-sub010/pkg/shogi"
)

type TimeManager interface {
	ShouldStop(nodes int64) bool
	ElapsedMilliseconds() int64
}

const (
	moveOverhead = 100
	minMoveTime  = 1
)

// fixedTimeManager enforces the explicit per-move limits. Byoyomi makes
// the budget per move explicit, so no allocation from the main clock is
// attempted here.
type fixedTimeManager struct {
	start    time.Time
	moveTime int64
	nodes    int64
}

func newTimeManager(start time.Time, limits LimitsType) *fixedTimeManager {
	var tm = &fixedTimeManager{start: start}
	if limits.Infinite || limits.Ponder {
		return tm
	}
	if limits.MoveTime > 0 {
		tm.moveTime = int64(limits.MoveTime)
	} else if limits.Byoyomi > 0 {
		tm.moveTime = int64(Max(minMoveTime, limits.Byoyomi-moveOverhead))
	}
	if limits.Nodes > 0 {
		tm.nodes = int64(limits.Nodes)
	}
	return tm
}

func (tm *fixedTimeManager) ElapsedMilliseconds() int64 {
	return time.Since(tm.start).Milliseconds()
}

func (tm *fixedTimeManager) ShouldStop(nodes int64) bool {
	if tm.nodes > 0 && nodes >= tm.nodes {
		return true
	}
	if tm.moveTime > 0 && tm.ElapsedMilliseconds() >= tm.moveTime {
		return true
	}
	return false
}

// hardLimitMilliseconds reports the fixed budget, zero when unbounded.
func (tm *fixedTimeManager) hardLimitMilliseconds() int64 {
	return tm.moveTime
}
