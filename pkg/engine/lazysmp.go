package engine

import (
	"context"
	"sync/atomic"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	. "github.com/SH11235/rshogi-sub010/pkg/shogi"
)

func lazySmp(ctx context.Context, e *Engine) {
	var done = make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			e.stop.Store(true)
		case <-done:
		}
	}()

	var g errgroup.Group
	for i := range e.threads {
		var t = &e.threads[i]
		g.Go(func() error {
			e.iterateWorker(t)
			return nil
		})
	}
	g.Wait()
}

// iterateWorker runs iterative deepening on its own thread. Workers
// share only the transposition table and the best line so far, odd
// workers start one ply deeper so the pool is spread across depths.
func (e *Engine) iterateWorker(t *thread) {
	for h := 0; h <= 2; h++ {
		t.stack[h].killer1 = MoveEmpty
		t.stack[h].killer2 = MoveEmpty
	}

	var ml = cloneMoves(e.rootMoves)
	var prevScore = 0
	var startDepth = 1
	if t.id&1 == 1 && len(e.threads) > 1 {
		startDepth = 2
	}

	for depth := startDepth; depth <= maxHeight; depth++ {
		if t.stopped || e.stop.Load() {
			break
		}

		e.mu.Lock()
		var globalBest = MoveEmpty
		if len(e.mainLine.moves) != 0 {
			globalBest = e.mainLine.moves[0]
		}
		e.mu.Unlock()

		if t.id > 0 && len(ml) > 2 {
			// helpers explore a different root order each round
			frand.Shuffle(len(ml)-1, func(i, j int) {
				ml[i+1], ml[j+1] = ml[j+1], ml[i+1]
			})
		}
		if index := findMoveIndex(ml, globalBest); index > 0 {
			moveToBegin(ml, index)
		}
		if t.id > 0 {
			e.deprioritizeBusyMoves(t, ml)
		}

		var score = t.aspirationWindow(ml, depth, prevScore)
		if t.stopped {
			break
		}
		prevScore = score

		var line = t.stack[0].pv.toSlice()
		if len(line) == 0 {
			continue
		}
		e.onIterationComplete(t, depth, score, line)

		if e.limits.Depth > 0 && depth >= e.limits.Depth {
			e.stop.Store(true)
			break
		}
		if !e.limits.Infinite &&
			(score >= winIn(depth-5) || score <= lossIn(depth-5)) {
			e.stop.Store(true)
			break
		}
		if e.timeManager.ShouldStop(e.totalNodes()) {
			e.stop.Store(true)
			break
		}
	}
	atomic.StoreInt64(&t.sharedNodes, t.nodes)
}

// deprioritizeBusyMoves pushes root moves another thread is already
// searching to the back of the list, keeping the relative order of the
// rest.
func (e *Engine) deprioritizeBusyMoves(t *thread, ml []Move) {
	var pos = &t.stack[0].position
	var child = &t.stack[1].position
	var front, back = lo.FilterReject(ml, func(move Move, _ int) bool {
		if pos.MakeMove(move, child) {
			if entry, found := e.transTable.Read(child.Key); found && entry.exactCut {
				return false
			}
		}
		return true
	})
	copy(ml, front)
	copy(ml[len(front):], back)
}

// onIterationComplete merges a finished iteration into the shared best
// line. Deeper iterations win, equal depth is tie-broken by node count.
func (e *Engine) onIterationComplete(t *thread, depth, score int, moves []Move) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var nodes = e.totalNodes()
	if depth < e.mainLine.depth ||
		depth == e.mainLine.depth && nodes <= e.mainLine.nodes {
		return
	}
	var deeper = depth > e.mainLine.depth
	e.mainLine = mainLine{
		moves: moves,
		score: score,
		depth: depth,
		nodes: nodes,
	}
	e.logger.Debug().
		Str("search", e.searchID).
		Int("thread", t.id).
		Int("depth", depth).
		Int("score", score).
		Int64("nodes", nodes).
		Str("pv", pvString(moves)).
		Msg("iteration complete")
	if deeper && e.progress != nil && nodes >= int64(e.Options.ProgressMinNodes) {
		e.progress(e.currentSearchResult())
	}
}
