package shogi

import "time"

const (
	SideBlack = iota
	SideWhite
	SideNb
)

const (
	Empty = iota
	Pawn
	Lance
	Knight
	Silver
	Bishop
	Rook
	Gold
	King
	ProPawn
	ProLance
	ProKnight
	ProSilver
	Horse
	Dragon
	PieceNb
)

const promoteOffset = 8

func Promote(piece int) int {
	return piece + promoteOffset
}

// Unpromote maps a promoted piece back to its base type. Not valid for King.
func Unpromote(piece int) int {
	if piece > King {
		return piece - promoteOffset
	}
	return piece
}

func CanPromote(piece int) bool {
	return piece >= Pawn && piece <= Rook
}

// Hand packs the seven droppable piece counts of one side into a uint32.
type Hand uint32

var handShift = [8]uint{0, 0, 5, 8, 11, 14, 16, 18}
var handMask = [8]uint32{0, 31, 7, 7, 7, 3, 3, 7}

func (h Hand) Count(piece int) int {
	return int((h >> handShift[piece]) & Hand(handMask[piece]))
}

func (h Hand) Inc(piece int) Hand {
	return h + Hand(1)<<handShift[piece]
}

func (h Hand) Dec(piece int) Hand {
	return h - Hand(1)<<handShift[piece]
}

func (h Hand) IsEmpty() bool {
	return h == 0
}

func (h Hand) OnlyPawns() bool {
	return h>>handShift[Lance] == 0
}

const MaxMoves = 600

type OrderedMove struct {
	Move Move
	Key  int32
}

const InitialPositionSFEN = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"

type LimitsType struct {
	Ponder         bool
	Infinite       bool
	BlackTime      int
	WhiteTime      int
	BlackIncrement int
	WhiteIncrement int
	Byoyomi        int
	MoveTime       int
	MovesToGo      int
	Depth          int
	Nodes          int
	Mate           int
}

type SearchParams struct {
	Positions []Position
	Limits    LimitsType
	Progress  func(si SearchInfo)
}

type SearchInfo struct {
	Score    UsiScore
	Depth    int
	Nodes    int64
	Time     time.Duration
	MainLine []Move
}

type UsiScore struct {
	Centipawns int
	Mate       int
}
