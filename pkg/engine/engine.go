package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	. "github.com/SH11235/rshogi-sub010/pkg/shogi"
)

// ErrNoLegalMoves is returned by Search when the side to move is mated
// or stalemated at the root.
var ErrNoLegalMoves = errors.New("no legal moves")

type Engine struct {
	Options     Options
	evalBuilder func() Evaluator
	transTable  *transTable
	timeManager TimeManager
	hardLimit   int64
	nodeLimit   int64
	historyKeys map[uint64]int
	threads     []thread
	progress    func(SearchInfo)
	logger      zerolog.Logger
	searchID    string
	limits      LimitsType
	rootMoves   []Move
	mainLine    mainLine
	start       time.Time
	stop        atomic.Bool
	mu          sync.Mutex
}

type thread struct {
	engine      *Engine
	evaluator   UpdatableEvaluator
	nodes       int64
	sharedNodes int64
	pollMask    int64
	stopped     bool
	id          int
	stack       [stackSize]struct {
		position         Position
		moveList         [2 * MaxMoves]OrderedMove
		quietsSearched   [MaxMoves]Move
		capturesSearched [64]Move
		pv               pv
		staticEval       int
		killer1          Move
		killer2          Move
	}
	mainHistory         [SideNb * fromToNb]int16
	continuationHistory [contNb][pieceToNb]int16
	captureHistory      [PieceNb][SquareNb][8]int16
	pawnHistory         [pawnHistNb][pieceToNb]int16
	lowPlyHistory       [lowPlyNb][fromToNb]int16
	counterMoves        [contNb]Move
	ttMoveHistory       int16
}

type pv struct {
	items [stackSize]Move
	size  int
}

type mainLine struct {
	moves []Move
	score int
	depth int
	nodes int64
}

// Evaluator scores a position from the side to move's point of view.
type Evaluator interface {
	Evaluate(p *Position) int
}

// UpdatableEvaluator is implemented by evaluators that keep incremental
// state. Init seeds the state from a root position, MakeMove and
// UnmakeMove track the search, QuickEvaluate reads the current score.
// The search pairs every make with exactly one unmake.
type UpdatableEvaluator interface {
	Init(p *Position)
	MakeMove(p *Position, m Move)
	UnmakeMove()
	QuickEvaluate(p *Position) int
}

type evaluatorAdapter struct {
	evaluator Evaluator
}

func (a *evaluatorAdapter) Init(p *Position)             {}
func (a *evaluatorAdapter) MakeMove(p *Position, m Move) {}
func (a *evaluatorAdapter) UnmakeMove()                  {}

func (a *evaluatorAdapter) QuickEvaluate(p *Position) int {
	return a.evaluator.Evaluate(p)
}

func buildEvaluator(evalBuilder func() Evaluator) UpdatableEvaluator {
	var evaluationService = evalBuilder()
	if ue, ok := evaluationService.(UpdatableEvaluator); ok {
		return ue
	}
	return &evaluatorAdapter{evaluator: evaluationService}
}

func NewEngine(evalBuilder func() Evaluator) *Engine {
	return &Engine{
		Options:     NewOptions(),
		evalBuilder: evalBuilder,
		logger:      log.With().Str("component", "engine").Logger(),
	}
}

func (e *Engine) Prepare() {
	if e.transTable == nil || e.transTable.Size() != e.Options.Hash {
		if e.transTable != nil {
			e.transTable = nil
			runtime.GC()
		}
		e.transTable = newTransTable(e.Options.Hash)
	}
	if len(e.threads) != e.Options.Threads {
		e.threads = make([]thread, e.Options.Threads)
		for i := range e.threads {
			var t = &e.threads[i]
			t.engine = e
			t.id = i
			t.evaluator = buildEvaluator(e.evalBuilder)
		}
	}
}

func (e *Engine) Search(ctx context.Context, searchParams SearchParams) (SearchInfo, error) {
	e.start = time.Now()
	e.searchID = uuid.NewString()[:8]
	e.Prepare()
	var p = &searchParams.Positions[len(searchParams.Positions)-1]
	e.limits = searchParams.Limits
	var tm = newTimeManager(e.start, searchParams.Limits)
	e.timeManager = tm
	e.hardLimit = tm.hardLimitMilliseconds()
	e.nodeLimit = int64(searchParams.Limits.Nodes)
	e.historyKeys = getHistoryKeys(searchParams.Positions)
	e.progress = searchParams.Progress
	e.stop.Store(false)

	for i := range e.threads {
		var t = &e.threads[i]
		t.nodes = 0
		atomic.StoreInt64(&t.sharedNodes, 0)
		t.stopped = false
		t.pollMask = 1023
		t.stack[0].position = *p
		t.dimHistory()
	}

	e.rootMoves = e.genRootMoves()
	if len(e.rootMoves) == 0 {
		return SearchInfo{}, fmt.Errorf("position %q: %w", p.String(), ErrNoLegalMoves)
	}
	e.mainLine = mainLine{moves: []Move{e.rootMoves[0]}}
	if len(e.rootMoves) == 1 && !e.limits.Infinite {
		return e.currentSearchResult(), nil
	}

	e.transTable.IncDate()
	e.logger.Debug().
		Str("search", e.searchID).
		Int("threads", e.Options.Threads).
		Int("hash", e.Options.Hash).
		Int("moves", len(e.rootMoves)).
		Msg("search begin")

	lazySmp(ctx, e)

	var result = e.currentSearchResult()
	e.logger.Info().
		Str("search", e.searchID).
		Int("depth", result.Depth).
		Int64("nodes", result.Nodes).
		Dur("time", result.Time).
		Str("pv", pvString(result.MainLine)).
		Msg("search done")
	return result, nil
}

// Stop interrupts a running search. The search still returns the best
// line found so far.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// SetThreads takes effect at the next Prepare or Search.
func (e *Engine) SetThreads(n int) {
	e.Options.Threads = Max(1, n)
}

// SetHash sets the transposition table size in megabytes. Takes effect
// at the next Prepare or Search.
func (e *Engine) SetHash(megabytes int) {
	e.Options.Hash = Max(1, megabytes)
}

// SetLogger replaces the default global logger.
func (e *Engine) SetLogger(logger zerolog.Logger) {
	e.logger = logger.With().Str("component", "engine").Logger()
}

// Hashfull estimates the transposition table load in permille.
func (e *Engine) Hashfull() int {
	if e.transTable == nil {
		return 0
	}
	return e.transTable.Hashfull()
}

func getHistoryKeys(positions []Position) map[uint64]int {
	var result = make(map[uint64]int)
	for i := range positions {
		result[positions[i].Key]++
	}
	return result
}

func (e *Engine) Clear() {
	if e.transTable != nil {
		e.transTable.Clear()
	}
	for i := range e.threads {
		e.threads[i].clearHistory()
	}
}

func (e *Engine) totalNodes() int64 {
	var total int64
	for i := range e.threads {
		total += atomic.LoadInt64(&e.threads[i].sharedNodes)
	}
	return total
}

func (e *Engine) currentSearchResult() SearchInfo {
	return SearchInfo{
		Depth:    e.mainLine.depth,
		MainLine: e.mainLine.moves,
		Score:    newUsiScore(e.mainLine.score),
		Nodes:    e.totalNodes(),
		Time:     time.Since(e.start),
	}
}

func (pv *pv) clear() {
	pv.size = 0
}

func (pv *pv) assign(m Move, child *pv) {
	pv.size = 1
	pv.items[0] = m
	if child.size > 0 {
		pv.size += child.size
		copy(pv.items[1:], child.items[:child.size])
	}
}

func (pv *pv) toSlice() []Move {
	var result = make([]Move, pv.size)
	copy(result, pv.items[:pv.size])
	return result
}
