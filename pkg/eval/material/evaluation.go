package eval

import (
	"github.com/SH11235/rshogi-sub010/pkg/shogi"
)

// EvaluationService counts material on the board and in hand. During
// search it keeps an incremental running total, one frame per made
// move, so QuickEvaluate is a stack read.
type EvaluationService struct {
	stack []int
}

func NewEvaluationService() *EvaluationService {
	return &EvaluationService{}
}

var pieceValues = [shogi.PieceNb]int{
	shogi.Pawn:      90,
	shogi.Lance:     315,
	shogi.Knight:    405,
	shogi.Silver:    495,
	shogi.Bishop:    855,
	shogi.Rook:      990,
	shogi.Gold:      540,
	shogi.ProPawn:   540,
	shogi.ProLance:  540,
	shogi.ProKnight: 540,
	shogi.ProSilver: 540,
	shogi.Horse:     945,
	shogi.Dragon:    1395,
}

// Evaluate scores from the side to move's point of view.
func (e *EvaluationService) Evaluate(p *shogi.Position) int {
	var eval = materialBlack(p)
	if p.Side == shogi.SideWhite {
		eval = -eval
	}
	return eval
}

// Init seeds the incremental total from a full scan.
func (e *EvaluationService) Init(p *shogi.Position) {
	e.stack = append(e.stack[:0], materialBlack(p))
}

// MakeMove pushes the total after m. A drop shifts a piece between
// hand and board at equal value, so only captures and promotions move
// the total. A captured promoted piece demotes on its way into hand.
func (e *EvaluationService) MakeMove(p *shogi.Position, m shogi.Move) {
	var delta = 0
	if m != shogi.MoveEmpty && !m.IsDrop() {
		if captured := m.CapturedPiece(); captured != shogi.Empty {
			delta += pieceValues[captured] + pieceValues[shogi.Unpromote(captured)]
		}
		if m.IsPromotion() {
			var piece = m.MovingPiece()
			delta += pieceValues[shogi.Promote(piece)] - pieceValues[piece]
		}
	}
	if p.Side == shogi.SideWhite {
		delta = -delta
	}
	e.stack = append(e.stack, e.stack[len(e.stack)-1]+delta)
}

func (e *EvaluationService) UnmakeMove() {
	e.stack = e.stack[:len(e.stack)-1]
}

// QuickEvaluate reads the incremental total for the current position.
func (e *EvaluationService) QuickEvaluate(p *shogi.Position) int {
	var eval = e.stack[len(e.stack)-1]
	if p.Side == shogi.SideWhite {
		eval = -eval
	}
	return eval
}

// materialBlack sums material from black's point of view.
func materialBlack(p *shogi.Position) int {
	var eval = 0
	for piece := shogi.Pawn; piece < shogi.PieceNb; piece++ {
		if piece == shogi.King {
			continue
		}
		eval += pieceValues[piece] *
			(shogi.PopCount(p.Pieces(piece).And(p.Colours(shogi.SideBlack))) -
				shogi.PopCount(p.Pieces(piece).And(p.Colours(shogi.SideWhite))))
	}
	for piece := shogi.Pawn; piece <= shogi.Gold; piece++ {
		eval += pieceValues[piece] *
			(p.Hand(shogi.SideBlack).Count(piece) - p.Hand(shogi.SideWhite).Count(piece))
	}
	return eval
}
