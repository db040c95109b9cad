package engine

import (
	"sync/atomic"

	. "github.com/SH11235/rshogi-sub010/pkg/shogi"
)

func (t *thread) aspirationWindow(ml []Move, depth, prevScore int) int {
	if t.engine.Options.AspirationWindows &&
		depth >= 5 && !(prevScore <= valueLoss || prevScore >= valueWin) {
		var delta = 25
		var alpha = Max(-valueInfinity, prevScore-delta)
		var beta = Min(valueInfinity, prevScore+delta)
		for {
			var score = t.searchRoot(ml, alpha, beta, depth)
			if t.stopped {
				return score
			}
			if score > alpha && score < beta {
				return score
			}
			if score <= alpha {
				alpha = Max(-valueInfinity, score-delta)
			} else {
				beta = Min(valueInfinity, score+delta)
			}
			delta *= 2
		}
	}
	return t.searchRoot(ml, -valueInfinity, valueInfinity, depth)
}

// searchRoot drives the move loop at height 0. Root moves arrive
// ordered by the caller, the previous best first.
func (t *thread) searchRoot(ml []Move, alpha, beta, depth int) int {
	const height = 0
	t.clearPV(height)
	var position = &t.stack[height].position
	var child = &t.stack[height+1].position
	var isCheck = position.IsCheck()
	var oldAlpha = alpha

	t.evaluator.Init(position)
	t.stack[height].staticEval = t.evaluator.QuickEvaluate(position)
	t.stack[height+2].killer1 = MoveEmpty
	t.stack[height+2].killer2 = MoveEmpty

	var options = &t.engine.Options
	var hc = t.getHistoryContext(height)
	var quietsSearched = t.stack[height].quietsSearched[:0]
	var capturesSearched = t.stack[height].capturesSearched[:0]
	var best = -valueInfinity
	var bestMove Move
	var movesSearched = 0

	for i := range ml {
		var move = ml[i]
		if !t.MakeMove(move, height) {
			continue
		}
		movesSearched++
		if movesSearched == 1 && options.Threads > 1 {
			// let the other threads see that this line is taken
			t.engine.transTable.MarkExactCut(child.Key)
		}
		var isNoisy = isCaptureOrPromotion(move)
		var givesCheck = child.IsCheck()

		var extension = 0
		if options.CheckExt && givesCheck && depth >= 3 {
			extension = 1
		}
		var newDepth = depth - 1 + extension

		var reduction = 0
		if depth >= 3 && movesSearched >= 3 && !isNoisy {
			reduction = lmrReduction(options, depth, movesSearched, true, true, givesCheck)
		}

		if !isNoisy {
			quietsSearched = append(quietsSearched, move)
		} else if len(capturesSearched) < cap(capturesSearched) {
			capturesSearched = append(capturesSearched, move)
		}

		var score int
		if movesSearched == 1 {
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1, MoveEmpty)
		} else {
			score = alpha + 1
			if reduction > 0 {
				score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1, MoveEmpty)
			}
			if score > alpha {
				score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1, MoveEmpty)
				if score > alpha && score < beta {
					score = -t.alphaBeta(-beta, -alpha, newDepth, height+1, MoveEmpty)
				}
			}
		}
		t.UnmakeMove()

		if t.stopped {
			return best
		}

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if movesSearched == 0 {
		if isCheck {
			return lossIn(height)
		}
		return valueDraw
	}

	if alpha > oldAlpha && bestMove != MoveEmpty {
		hc.UpdateCaptures(capturesSearched, bestMove, depth)
		if !isCaptureOrPromotion(bestMove) {
			hc.Update(quietsSearched, bestMove, depth)
			t.updateKiller(bestMove, height)
		}
	}

	var ttBound = 0
	if best > oldAlpha {
		ttBound |= boundLower
	}
	if best < beta {
		ttBound |= boundUpper
	}
	// a root fail low carries no usable move, do not overwrite the entry
	if ttBound != boundUpper {
		t.engine.transTable.Update(position.Key, depth, valueToTT(best, height),
			t.stack[height].staticEval, ttBound, bestMove.Pack(), true)
	}

	return best
}

// main search method
func (t *thread) alphaBeta(alpha, beta, depth, height int, skipMove Move) int {
	if depth <= 0 {
		return t.quiescence(alpha, beta, height)
	}
	t.clearPV(height)

	if t.stopped {
		return alpha
	}

	var pvNode = beta != alpha+1
	var position = &t.stack[height].position
	var isCheck = position.IsCheck()
	var ttMoveIsSingular = false

	if height >= maxHeight {
		return valueDraw
	}
	if t.isRepeat(height) {
		return valueDraw
	}
	// mate distance pruning
	if winIn(height+1) <= alpha {
		return alpha
	}
	if lossIn(height+2) >= beta && !isCheck {
		return beta
	}

	var entry ttEntry
	var ttHit bool
	var ttMove = MoveEmpty
	var ttValue = 0
	if skipMove == MoveEmpty {
		entry, ttHit = t.engine.transTable.Read(position.Key)
	}
	if ttHit {
		ttValue = valueFromTT(entry.score, height)
		ttMove = position.UnpackMove(entry.move16)
		if entry.depth >= depth && !pvNode && position.LastMove != MoveEmpty {
			if ttValue >= beta && entry.bound&boundLower != 0 {
				if ttMove != MoveEmpty && !isCaptureOrPromotion(ttMove) {
					t.updateKiller(ttMove, height)
				}
				return ttValue
			}
			if ttValue <= alpha && entry.bound&boundUpper != 0 {
				return ttValue
			}
		}
	}

	var staticEval int
	if ttHit && entry.bound != 0 {
		staticEval = entry.eval
	} else {
		staticEval = t.evaluator.QuickEvaluate(position)
	}
	t.stack[height].staticEval = staticEval
	var improving = height < 2 || staticEval > t.stack[height-2].staticEval

	var options = &t.engine.Options
	if height+2 <= maxHeight {
		t.stack[height+2].killer1 = MoveEmpty
		t.stack[height+2].killer2 = MoveEmpty
	}
	var child = &t.stack[height+1].position

	if skipMove == MoveEmpty {

		// razoring
		if options.Razoring && !pvNode && depth <= 2 && !isCheck &&
			alpha > valueLoss && alpha < valueWin &&
			staticEval+razorMargin(depth) <= alpha {
			var score = t.quiescence(alpha, alpha+1, height)
			if score <= alpha {
				return score
			}
		}

		// reverse futility pruning
		if options.ReverseFutility && !pvNode && depth <= 8 && !isCheck &&
			beta < valueWin &&
			staticEval-reverseFutilityMargin(depth) >= beta {
			return staticEval
		}

		// null-move pruning
		if options.NullMovePruning && !pvNode && depth >= 2 && !isCheck &&
			position.LastMove != MoveEmpty &&
			(height <= 1 || t.stack[height-1].position.LastMove != MoveEmpty) &&
			beta < valueWin &&
			!(ttHit && ttValue < beta && entry.bound&boundUpper != 0) &&
			hasNonPawnMaterial(position, position.Side) &&
			staticEval >= beta {
			var reduction = nullMoveReduction(depth)
			t.MakeMove(MoveEmpty, height)
			var score = -t.alphaBeta(-beta, -(beta - 1), depth-reduction, height+1, MoveEmpty)
			t.UnmakeMove()
			if score >= beta && !t.stopped {
				if score >= valueWin {
					score = beta
				}
				return score
			}
		}

		var pcBeta = probcutBeta(beta)
		if options.Probcut && !pvNode && depth >= 5 && !isCheck &&
			beta > valueLoss && beta < valueWin &&
			!(ttHit && entry.depth >= depth-4 && ttValue < pcBeta && entry.bound&boundUpper != 0) {

			var pcHistory = t.getHistoryContext(height)
			var mp movePicker
			mp.initQS(position, t.stack[height].moveList[:], MoveEmpty)

			for {
				var move = mp.Next(&pcHistory)
				if move == MoveEmpty {
					break
				}
				if !seeGEZero(position, move) {
					continue
				}
				if !t.MakeMove(move, height) {
					continue
				}
				var score = -t.quiescence(-pcBeta, -pcBeta+1, height+1)
				if score >= pcBeta {
					score = -t.alphaBeta(-pcBeta, -pcBeta+1, depth-4, height+1, MoveEmpty)
				}
				t.UnmakeMove()
				if score >= pcBeta && !t.stopped {
					return score
				}
			}
		}

		// singular extension
		if options.SingularExt && depth >= 8 &&
			ttHit && ttMove != MoveEmpty &&
			entry.bound&boundLower != 0 && entry.depth >= depth-3 &&
			ttValue > valueLoss && ttValue < valueWin &&
			t.ttMoveHistory > -historyMax/2 {
			var singularBeta = Max(-valueInfinity, ttValue-depth)
			var score = t.alphaBeta(singularBeta-1, singularBeta, depth/2, height, ttMove)
			ttMoveIsSingular = score < singularBeta
		}
	}

	var hc = t.getHistoryContext(height)
	var mp movePicker
	mp.initNormal(position, t.stack[height].moveList[:], ttMove,
		t.stack[height].killer1, t.stack[height].killer2)
	var killer1 = t.stack[height].killer1
	var killer2 = t.stack[height].killer2

	var movesSearched = 0
	var quietsSeen = 0
	var quietsSearched = t.stack[height].quietsSearched[:0]
	var capturesSearched = t.stack[height].capturesSearched[:0]
	var bestMove Move
	var best = -valueInfinity
	var oldAlpha = alpha

	for {
		var move = mp.Next(&hc)
		if move == MoveEmpty {
			break
		}
		if move == skipMove {
			continue
		}
		var isNoisy = isCaptureOrPromotion(move)
		if !isNoisy {
			quietsSeen++
		}

		if depth <= 8 && best > valueLoss && movesSearched > 0 && !isCheck {
			// late-move pruning
			if options.Lmp && !isNoisy &&
				move != killer1 && move != killer2 &&
				quietsSeen > lmpLimit(depth, improving) {
				mp.SkipQuiets()
				continue
			}

			// futility pruning
			if options.Futility && !isNoisy &&
				move != killer1 && move != killer2 &&
				staticEval+futilityMargin(depth) <= alpha {
				mp.SkipQuiets()
				continue
			}

			// SEE pruning
			if options.See {
				var seeMargin int
				if isNoisy {
					seeMargin = Max(depth, (staticEval+pawnValue-alpha)/pawnValue)
				} else {
					seeMargin = depth / 2
				}
				if !SeeGE(position, move, -seeMargin) {
					continue
				}
			}
		}

		if !t.MakeMove(move, height) {
			continue
		}
		movesSearched++

		var givesCheck = child.IsCheck()
		var extension = 0
		if options.CheckExt && givesCheck && depth >= 3 {
			extension = 1
		}
		if move == ttMove && ttMoveIsSingular {
			extension = 1
		}

		var reduction = 0
		if depth >= 3 && movesSearched >= 3 && !isNoisy {
			reduction = lmrReduction(options, depth, movesSearched, pvNode, improving, givesCheck)
		}

		if !isNoisy {
			quietsSearched = append(quietsSearched, move)
		} else if len(capturesSearched) < cap(capturesSearched) {
			capturesSearched = append(capturesSearched, move)
		}

		var newDepth = depth - 1 + extension

		var score int
		if movesSearched == 1 {
			score = -t.alphaBeta(-beta, -alpha, newDepth, height+1, MoveEmpty)
		} else {
			score = alpha + 1
			if reduction > 0 {
				score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth-reduction, height+1, MoveEmpty)
			}
			if score > alpha {
				score = -t.alphaBeta(-(alpha + 1), -alpha, newDepth, height+1, MoveEmpty)
				if score > alpha && score < beta {
					score = -t.alphaBeta(-beta, -alpha, newDepth, height+1, MoveEmpty)
				}
			}
		}
		t.UnmakeMove()

		if t.stopped {
			return alpha
		}

		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}

	if movesSearched == 0 {
		if skipMove != MoveEmpty {
			return alpha
		}
		if isCheck {
			return lossIn(height)
		}
		return valueDraw
	}

	if alpha > oldAlpha && bestMove != MoveEmpty {
		hc.UpdateCaptures(capturesSearched, bestMove, depth)
		if !isCaptureOrPromotion(bestMove) {
			hc.Update(quietsSearched, bestMove, depth)
			t.updateKiller(bestMove, height)
		}
	}
	if ttMove != MoveEmpty && skipMove == MoveEmpty {
		updateHistory(&t.ttMoveHistory, Min(depth*depth, 400), bestMove == ttMove)
	}

	if skipMove == MoveEmpty && !t.stopped {
		var ttBound = 0
		if best > oldAlpha {
			ttBound |= boundLower
		}
		if best < beta {
			ttBound |= boundUpper
		}
		t.engine.transTable.Update(position.Key, depth, valueToTT(best, height),
			staticEval, ttBound, bestMove.Pack(), pvNode)
	}

	return best
}

func (t *thread) quiescence(alpha, beta, height int) int {
	t.clearPV(height)
	if t.stopped {
		return alpha
	}
	var pvNode = beta != alpha+1
	var position = &t.stack[height].position
	if height >= maxHeight {
		return valueDraw
	}
	if t.isRepeat(height) {
		return valueDraw
	}

	var entry, ttHit = t.engine.transTable.Read(position.Key)
	var ttMove = MoveEmpty
	if ttHit {
		var ttValue = valueFromTT(entry.score, height)
		ttMove = position.UnpackMove(entry.move16)
		if entry.bound == boundExact ||
			entry.bound == boundLower && ttValue >= beta ||
			entry.bound == boundUpper && ttValue <= alpha {
			return ttValue
		}
	}

	var isCheck = position.IsCheck()
	var alphaOrig = alpha
	var staticEval int
	if ttHit && entry.bound != 0 {
		staticEval = entry.eval
	} else {
		staticEval = t.evaluator.QuickEvaluate(position)
	}

	var best = -valueInfinity
	if !isCheck {
		best = Max(best, staticEval)
		if staticEval > alpha {
			alpha = staticEval
			if alpha >= beta {
				return alpha
			}
		}
	}

	var hc = t.getHistoryContext(height)
	var mp movePicker
	mp.initQS(position, t.stack[height].moveList[:], ttMove)
	var movesSearched = 0
	var bestMove Move
	for {
		var move = mp.Next(&hc)
		if move == MoveEmpty {
			break
		}
		if !isCheck && !seeGEZero(position, move) {
			continue
		}
		if !t.MakeMove(move, height) {
			continue
		}
		movesSearched++
		var score = -t.quiescence(-beta, -alpha, height+1)
		t.UnmakeMove()
		if t.stopped {
			return alpha
		}
		if score > best {
			best = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			t.assignPV(height, move)
			if alpha >= beta {
				break
			}
		}
	}
	if isCheck && movesSearched == 0 {
		return lossIn(height)
	}
	if !t.stopped {
		var ttBound = boundUpper
		if best >= beta {
			ttBound = boundLower
		} else if best > alphaOrig {
			ttBound = boundExact
		}
		t.engine.transTable.Update(position.Key, 0, valueToTT(best, height),
			staticEval, ttBound, bestMove.Pack(), pvNode)
	}
	return best
}

func (t *thread) incNodes() {
	t.nodes++
	if t.nodes&t.pollMask == 0 {
		t.checkStop()
	}
}

// checkStop polls the shared stop conditions. Close to the budget the
// poll mask drops to zero, so an expiring clock is noticed on the very
// next node.
func (t *thread) checkStop() {
	var e = t.engine
	atomic.StoreInt64(&t.sharedNodes, t.nodes)
	if e.stop.Load() {
		t.stopped = true
		return
	}
	var total = e.totalNodes()
	if e.timeManager.ShouldStop(total) {
		e.stop.Store(true)
		t.stopped = true
		return
	}
	if t.pollMask != 0 {
		if e.hardLimit > 0 && e.timeManager.ElapsedMilliseconds()*4 >= e.hardLimit*3 {
			t.pollMask = 0
		} else if e.nodeLimit > 0 && total*4 >= e.nodeLimit*3 {
			t.pollMask = 0
		}
	}
}

// Repetitions scan the whole line: captures and drops do not reset the
// chain the way a pawn move would in other games, a past position can
// always come back.
func (t *thread) isRepeat(height int) bool {
	var p = &t.stack[height].position
	if p.LastMove == MoveEmpty {
		return false
	}
	for i := height - 1; i >= 0; i-- {
		var temp = &t.stack[i].position
		if temp.Key == p.Key {
			return true
		}
		if temp.LastMove == MoveEmpty {
			return false
		}
	}
	return t.engine.historyKeys[p.Key] >= 2
}

func findMoveIndex(ml []Move, move Move) int {
	for i := range ml {
		if ml[i] == move {
			return i
		}
	}
	return -1
}

func moveToBegin(ml []Move, index int) {
	if index == 0 {
		return
	}
	var item = ml[index]
	for i := index; i > 0; i-- {
		ml[i] = ml[i-1]
	}
	ml[0] = item
}

func cloneMoves(ml []Move) []Move {
	var result = make([]Move, len(ml))
	copy(result, ml)
	return result
}

func (e *Engine) genRootMoves() []Move {
	var t = &e.threads[0]
	const height = 0
	var p = &t.stack[height].position
	var result = p.GenerateLegalMoves()
	var entry, ttHit = e.transTable.Read(p.Key)
	if ttHit {
		var ttMove = p.UnpackMove(entry.move16)
		if ttMove != MoveEmpty {
			var index = findMoveIndex(result, ttMove)
			if index > 0 {
				moveToBegin(result, index)
			}
		}
	}
	return result
}

func (t *thread) updateKiller(move Move, height int) {
	if t.stack[height].killer1 != move {
		t.stack[height].killer2 = t.stack[height].killer1
		t.stack[height].killer1 = move
	}
}

func (t *thread) clearPV(height int) {
	t.stack[height].pv.clear()
}

func (t *thread) assignPV(height int, move Move) {
	t.stack[height].pv.assign(move, &t.stack[height+1].pv)
}

func (t *thread) MakeMove(move Move, height int) bool {
	var pos = &t.stack[height].position
	var child = &t.stack[height+1].position
	if move == MoveEmpty {
		pos.MakeNullMove(child)
	} else {
		if !pos.MakeMove(move, child) {
			return false
		}
	}
	t.evaluator.MakeMove(pos, move)
	t.engine.transTable.Prefetch(child.Key)
	t.incNodes()
	return true
}

func (t *thread) UnmakeMove() {
	t.evaluator.UnmakeMove()
}
