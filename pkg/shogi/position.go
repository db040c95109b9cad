package shogi

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"unicode"
)

type Position struct {
	byPiece    [PieceNb]Bitboard
	byColor    [SideNb]Bitboard
	board      [SquareNb]int8
	hands      [SideNb]Hand
	Side       int
	MoveNumber int
	Key        uint64
	PawnKey    uint64
	Checkers   Bitboard
	LastMove   Move
}

type coloredPiece struct {
	Type int
	Side int
}

func (p *Position) Pieces(piece int) Bitboard {
	return p.byPiece[piece]
}

func (p *Position) Colours(side int) Bitboard {
	return p.byColor[side]
}

func (p *Position) AllPieces() Bitboard {
	return p.byColor[SideBlack].Or(p.byColor[SideWhite])
}

func (p *Position) Hand(side int) Hand {
	return p.hands[side]
}

func (p *Position) WhatPiece(sq int) int {
	return int(p.board[sq])
}

func (p *Position) King(side int) int {
	return FirstOne(p.byPiece[King].And(p.byColor[side]))
}

func (p *Position) IsCheck() bool {
	return !p.Checkers.IsZero()
}

// golds returns every piece that moves like a gold.
func (p *Position) golds() Bitboard {
	return p.byPiece[Gold].
		Or(p.byPiece[ProPawn]).
		Or(p.byPiece[ProLance]).
		Or(p.byPiece[ProKnight]).
		Or(p.byPiece[ProSilver])
}

func createPosition(board [SquareNb]coloredPiece, side int, hands [SideNb]Hand, moveNumber int) (Position, bool) {
	var p = Position{}
	for sq := 0; sq < SquareNb; sq++ {
		if board[sq].Type != Empty {
			xorPiece(&p, board[sq].Type, board[sq].Side, sq)
		}
	}
	if PopCount(p.byPiece[King].And(p.byColor[SideBlack])) != 1 ||
		PopCount(p.byPiece[King].And(p.byColor[SideWhite])) != 1 {
		return Position{}, false
	}
	p.hands = hands
	p.Side = side
	if moveNumber < 1 {
		moveNumber = 1
	}
	p.MoveNumber = moveNumber
	if p.Side == SideWhite {
		p.Key ^= sideKey
	}
	for s := 0; s < SideNb; s++ {
		for piece := Pawn; piece <= Gold; piece++ {
			p.Key ^= handKey[s][piece][hands[s].Count(piece)]
		}
	}
	if !p.isLegal() {
		return Position{}, false
	}
	p.Checkers = p.computeCheckers()
	return p, true
}

func NewPositionFromSFEN(sfen string) (Position, error) {
	var tokens = strings.Fields(sfen)
	if len(tokens) < 3 {
		return Position{}, fmt.Errorf("bad sfen: %s", sfen)
	}
	var board [SquareNb]coloredPiece
	var ranks = strings.Split(tokens[0], "/")
	if len(ranks) != 9 {
		return Position{}, fmt.Errorf("bad sfen board: %s", sfen)
	}
	for r, rankStr := range ranks {
		var f = File9
		var promoted = false
		for _, ch := range rankStr {
			if ch == '+' {
				promoted = true
				continue
			}
			if ch >= '1' && ch <= '9' {
				if promoted {
					return Position{}, fmt.Errorf("bad sfen board: %s", sfen)
				}
				f -= int(ch - '0')
				continue
			}
			if f < File1 {
				return Position{}, fmt.Errorf("bad sfen board: %s", sfen)
			}
			var cp, ok = parsePiece(ch, promoted)
			if !ok {
				return Position{}, fmt.Errorf("bad sfen piece: %s", sfen)
			}
			board[MakeSquare(f, r)] = cp
			promoted = false
			f--
		}
	}
	var side int
	switch tokens[1] {
	case "b":
		side = SideBlack
	case "w":
		side = SideWhite
	default:
		return Position{}, fmt.Errorf("bad sfen side: %s", sfen)
	}
	var hands [SideNb]Hand
	if tokens[2] != "-" {
		var count = 0
		for _, ch := range tokens[2] {
			if ch >= '0' && ch <= '9' {
				count = count*10 + int(ch-'0')
				continue
			}
			var cp, ok = parsePiece(ch, false)
			if !ok || cp.Type > Gold {
				return Position{}, fmt.Errorf("bad sfen hand: %s", sfen)
			}
			if count == 0 {
				count = 1
			}
			for ; count > 0; count-- {
				hands[cp.Side] = hands[cp.Side].Inc(cp.Type)
			}
		}
	}
	var moveNumber = 1
	if len(tokens) >= 4 {
		var n, err = strconv.Atoi(tokens[3])
		if err != nil {
			return Position{}, fmt.Errorf("bad sfen move number: %s", sfen)
		}
		moveNumber = n
	}
	var p, ok = createPosition(board, side, hands, moveNumber)
	if !ok {
		return Position{}, fmt.Errorf("bad sfen position: %s", sfen)
	}
	return p, nil
}

const lowerPieceNames = "?plnsbrgk"

func parsePiece(ch rune, promoted bool) (coloredPiece, bool) {
	var side = SideWhite
	if unicode.IsUpper(ch) {
		side = SideBlack
	}
	var piece = strings.IndexRune(lowerPieceNames, unicode.ToLower(ch))
	if piece < Pawn || piece > King {
		return coloredPiece{}, false
	}
	if promoted {
		if !CanPromote(piece) {
			return coloredPiece{}, false
		}
		piece = Promote(piece)
	}
	return coloredPiece{Type: piece, Side: side}, true
}

func pieceSFEN(piece, side int) string {
	var prefix = ""
	if piece > King {
		prefix = "+"
		piece = Unpromote(piece)
	}
	var ch = string(lowerPieceNames[piece])
	if side == SideBlack {
		return prefix + strings.ToUpper(ch)
	}
	return prefix + ch
}

var handOrder = [...]int{Rook, Bishop, Gold, Silver, Knight, Lance, Pawn}

// String renders the position as an SFEN record.
func (p *Position) String() string {
	var sb strings.Builder
	for r := RankA; r <= RankI; r++ {
		if r != RankA {
			sb.WriteString("/")
		}
		var empty = 0
		for f := File9; f >= File1; f-- {
			var sq = MakeSquare(f, r)
			if p.board[sq] == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			var side = SideWhite
			if p.byColor[SideBlack].Has(sq) {
				side = SideBlack
			}
			sb.WriteString(pieceSFEN(int(p.board[sq]), side))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	if p.Side == SideBlack {
		sb.WriteString(" b ")
	} else {
		sb.WriteString(" w ")
	}
	if p.hands[SideBlack].IsEmpty() && p.hands[SideWhite].IsEmpty() {
		sb.WriteString("-")
	} else {
		for side := SideBlack; side < SideNb; side++ {
			for _, piece := range handOrder {
				var count = p.hands[side].Count(piece)
				if count == 0 {
					continue
				}
				if count > 1 {
					sb.WriteString(strconv.Itoa(count))
				}
				sb.WriteString(pieceSFEN(piece, side))
			}
		}
	}
	sb.WriteString(" ")
	sb.WriteString(strconv.Itoa(p.MoveNumber))
	return sb.String()
}

func xorPiece(p *Position, piece, side, square int) {
	var b = SquareMask[square]
	p.byPiece[piece] = p.byPiece[piece].Xor(b)
	p.byColor[side] = p.byColor[side].Xor(b)
	if p.board[square] == int8(piece) {
		p.board[square] = Empty
	} else {
		p.board[square] = int8(piece)
	}
	p.Key ^= pieceSquareKey[side][piece][square]
	if piece == Pawn {
		p.PawnKey ^= pieceSquareKey[side][piece][square]
	}
}

func movePiece(p *Position, piece, side, from, to int) {
	var b = SquareMask[from].Or(SquareMask[to])
	p.byPiece[piece] = p.byPiece[piece].Xor(b)
	p.byColor[side] = p.byColor[side].Xor(b)
	p.board[from] = Empty
	p.board[to] = int8(piece)
	p.Key ^= pieceSquareKey[side][piece][from] ^ pieceSquareKey[side][piece][to]
	if piece == Pawn {
		p.PawnKey ^= pieceSquareKey[side][piece][from] ^ pieceSquareKey[side][piece][to]
	}
}

// MakeMove fills result with the position after move. It returns false
// when the move leaves the mover's own king attacked; result is not
// usable in that case.
func (src *Position) MakeMove(move Move, result *Position) bool {
	*result = *src
	var side = src.Side
	var opp = side ^ 1
	result.Side = opp
	result.Key ^= sideKey
	result.MoveNumber = src.MoveNumber + 1
	var to = move.To()
	if move.IsDrop() {
		var piece = move.MovingPiece()
		var count = src.hands[side].Count(piece)
		result.hands[side] = src.hands[side].Dec(piece)
		result.Key ^= handKey[side][piece][count] ^ handKey[side][piece][count-1]
		xorPiece(result, piece, side, to)
	} else {
		var from = move.From()
		var piece = move.MovingPiece()
		var captured = move.CapturedPiece()
		if captured != Empty {
			xorPiece(result, captured, opp, to)
			var handPiece = Unpromote(captured)
			var count = src.hands[side].Count(handPiece)
			result.hands[side] = src.hands[side].Inc(handPiece)
			result.Key ^= handKey[side][handPiece][count] ^ handKey[side][handPiece][count+1]
		}
		if move.IsPromotion() {
			xorPiece(result, piece, side, from)
			xorPiece(result, Promote(piece), side, to)
		} else {
			movePiece(result, piece, side, from, to)
		}
	}
	if !result.isLegal() {
		return false
	}
	result.Checkers = result.computeCheckers()
	result.LastMove = move
	return true
}

func (src *Position) MakeNullMove(result *Position) {
	*result = *src
	result.Side = src.Side ^ 1
	result.Key ^= sideKey
	result.MoveNumber = src.MoveNumber + 1
	result.Checkers = Bitboard{}
	result.LastMove = MoveEmpty
}

// isLegal reports whether the side that just moved left its king safe.
func (p *Position) isLegal() bool {
	return !p.isAttackedBySide(p.King(p.Side^1), p.Side)
}

func (p *Position) isAttackedBySide(sq, side int) bool {
	var own = p.byColor[side]
	var occ = p.AllPieces()
	var def = side ^ 1
	if !PawnAttacks(sq, def).And(own).And(p.byPiece[Pawn]).IsZero() {
		return true
	}
	if !KnightAttacks(sq, def).And(own).And(p.byPiece[Knight]).IsZero() {
		return true
	}
	if !SilverAttacks(sq, def).And(own).And(p.byPiece[Silver]).IsZero() {
		return true
	}
	if !GoldAttacks(sq, def).And(own).And(p.golds()).IsZero() {
		return true
	}
	if !KingAttacks[sq].And(own).
		And(p.byPiece[King].Or(p.byPiece[Horse]).Or(p.byPiece[Dragon])).IsZero() {
		return true
	}
	if !LanceAttacks(sq, def, occ).And(own).And(p.byPiece[Lance]).IsZero() {
		return true
	}
	if !BishopAttacks(sq, occ).And(own).
		And(p.byPiece[Bishop].Or(p.byPiece[Horse])).IsZero() {
		return true
	}
	if !RookAttacks(sq, occ).And(own).
		And(p.byPiece[Rook].Or(p.byPiece[Dragon])).IsZero() {
		return true
	}
	return false
}

// AttackersTo collects the pieces of both sides attacking sq under the
// given occupancy. Stepper attacks are looked up from the defender's
// side of the table.
func (p *Position) AttackersTo(sq int, occ Bitboard) Bitboard {
	var black = p.byColor[SideBlack]
	var white = p.byColor[SideWhite]
	return PawnAttacks(sq, SideWhite).And(p.byPiece[Pawn]).And(black).
		Or(PawnAttacks(sq, SideBlack).And(p.byPiece[Pawn]).And(white)).
		Or(KnightAttacks(sq, SideWhite).And(p.byPiece[Knight]).And(black)).
		Or(KnightAttacks(sq, SideBlack).And(p.byPiece[Knight]).And(white)).
		Or(SilverAttacks(sq, SideWhite).And(p.byPiece[Silver]).And(black)).
		Or(SilverAttacks(sq, SideBlack).And(p.byPiece[Silver]).And(white)).
		Or(GoldAttacks(sq, SideWhite).And(p.golds()).And(black)).
		Or(GoldAttacks(sq, SideBlack).And(p.golds()).And(white)).
		Or(LanceAttacks(sq, SideWhite, occ).And(p.byPiece[Lance]).And(black)).
		Or(LanceAttacks(sq, SideBlack, occ).And(p.byPiece[Lance]).And(white)).
		Or(BishopAttacks(sq, occ).And(p.byPiece[Bishop].Or(p.byPiece[Horse]))).
		Or(RookAttacks(sq, occ).And(p.byPiece[Rook].Or(p.byPiece[Dragon]))).
		Or(KingAttacks[sq].And(p.byPiece[King].Or(p.byPiece[Horse]).Or(p.byPiece[Dragon])))
}

func (p *Position) computeCheckers() Bitboard {
	return p.AttackersTo(p.King(p.Side), p.AllPieces()).And(p.byColor[p.Side^1])
}

// UnpackMove rebuilds a full move from its 16-bit packed form,
// validating it against the current position. It returns MoveEmpty when
// the packed move cannot be a pseudo-legal move here.
func (p *Position) UnpackMove(packed uint16) Move {
	if packed == 0 {
		return MoveEmpty
	}
	var from = int(packed & 127)
	var to = int((packed >> 7) & 127)
	var promotion = packed&(1<<14) != 0
	if to >= SquareNb {
		return MoveEmpty
	}
	var side = p.Side
	if from >= SquareNb {
		if promotion {
			return MoveEmpty
		}
		var piece = from - (SquareNb - 1)
		if piece < Pawn || piece > Gold {
			return MoveEmpty
		}
		if p.hands[side].Count(piece) == 0 || p.board[to] != Empty {
			return MoveEmpty
		}
		if !p.dropTargets(piece, side).Has(to) {
			return MoveEmpty
		}
		return makeDropMove(to, piece)
	}
	var piece = int(p.board[from])
	if piece == Empty || !p.byColor[side].Has(from) {
		return MoveEmpty
	}
	var captured = int(p.board[to])
	if captured != Empty {
		if p.byColor[side].Has(to) || captured == King {
			return MoveEmpty
		}
	}
	if !PieceAttacks(piece, from, side, p.AllPieces()).Has(to) {
		return MoveEmpty
	}
	if promotion {
		if !CanPromote(piece) {
			return MoveEmpty
		}
		if !promoZoneMask[side].Has(from) && !promoZoneMask[side].Has(to) {
			return MoveEmpty
		}
		return makePromotionMove(from, to, piece, captured)
	}
	if mustPromote(piece, side, to) {
		return MoveEmpty
	}
	return makeMove(from, to, piece, captured)
}

// isPawnDropMate reports whether dropping a pawn of side on to would
// checkmate on the spot, which the drop rules forbid. The pawn is not
// on the board yet; it only takes part through the occupancy.
func (p *Position) isPawnDropMate(to, side int) bool {
	var opp = side ^ 1
	var kingSq = p.King(opp)
	var occ = p.AllPieces().Or(SquareMask[to])
	for defenders := p.AttackersTo(to, occ).And(p.byColor[opp]).AndNot(p.byPiece[King]); !defenders.IsZero(); {
		var d = Pop(&defenders)
		if p.AttackersTo(kingSq, occ.AndNot(SquareMask[d])).And(p.byColor[side]).IsZero() {
			return false
		}
	}
	var occWithoutKing = occ.AndNot(SquareMask[kingSq])
	if p.AttackersTo(to, occWithoutKing).And(p.byColor[side]).IsZero() {
		return false
	}
	for escapes := KingAttacks[kingSq].AndNot(p.byColor[opp]).AndNot(SquareMask[to]); !escapes.IsZero(); {
		var e = Pop(&escapes)
		if p.AttackersTo(e, occWithoutKing).And(p.byColor[side]).IsZero() {
			return false
		}
	}
	return true
}

var (
	sideKey        uint64
	pieceSquareKey [SideNb][PieceNb][SquareNb]uint64
	handKey        [SideNb][8][19]uint64
)

func initKeys() {
	var r = rand.New(rand.NewSource(0))
	sideKey = r.Uint64()
	for side := 0; side < SideNb; side++ {
		for piece := Pawn; piece < PieceNb; piece++ {
			for sq := 0; sq < SquareNb; sq++ {
				pieceSquareKey[side][piece][sq] = r.Uint64()
			}
		}
		for piece := Pawn; piece <= Gold; piece++ {
			for count := 0; count < 19; count++ {
				handKey[side][piece][count] = r.Uint64()
			}
		}
	}
}

func init() {
	initKeys()
}
