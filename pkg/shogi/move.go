package shogi

// Move packs from, to, moving piece, captured piece and the promotion
// flag into an int32. Drops encode the piece in the from field as
// SquareNb-1+piece, so drop sources occupy 81..87 and never collide
// with board squares.
type Move int32

const MoveEmpty = Move(0)

const movePromotionFlag Move = 1 << 22

func makeMove(from, to, movingPiece, capturedPiece int) Move {
	return Move(from ^ (to << 7) ^ (movingPiece << 14) ^ (capturedPiece << 18))
}

func makePromotionMove(from, to, movingPiece, capturedPiece int) Move {
	return makeMove(from, to, movingPiece, capturedPiece) ^ movePromotionFlag
}

func makeDropMove(to, piece int) Move {
	return Move((SquareNb - 1 + piece) ^ (to << 7) ^ (piece << 14))
}

func (m Move) From() int {
	return int(m & 127)
}

func (m Move) To() int {
	return int((m >> 7) & 127)
}

func (m Move) MovingPiece() int {
	return int((m >> 14) & 15)
}

func (m Move) CapturedPiece() int {
	return int((m >> 18) & 15)
}

func (m Move) IsPromotion() bool {
	return m&movePromotionFlag != 0
}

func (m Move) IsDrop() bool {
	return m.From() >= SquareNb
}

func (m Move) finalPiece() int {
	if m.IsPromotion() {
		return Promote(m.MovingPiece())
	}
	return m.MovingPiece()
}

const pieceNames = "?PLNSBRGK"

// String renders the move in USI notation: "7g7f", "8h2b+", "P*5e".
func (m Move) String() string {
	if m == MoveEmpty {
		return "0000"
	}
	if m.IsDrop() {
		return string(pieceNames[m.MovingPiece()]) + "*" + SquareName(m.To())
	}
	var s = SquareName(m.From()) + SquareName(m.To())
	if m.IsPromotion() {
		s += "+"
	}
	return s
}

// Pack reduces the move to the 16 bits stored in the transposition
// table: from, to and the promotion flag. The remaining fields are
// reconstructed from the position on unpack.
func (m Move) Pack() uint16 {
	var v = uint16(m & 0x3fff)
	if m.IsPromotion() {
		v |= 1 << 14
	}
	return v
}

func (p *Position) ParseMove(s string) (Move, bool) {
	for _, move := range p.GenerateLegalMoves() {
		if move.String() == s {
			return move, true
		}
	}
	return MoveEmpty, false
}
