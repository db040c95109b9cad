package shogi

import "math/bits"

// Bitboard holds one bit per board square in two words. The low word
// covers squares 0..62 (files 1-7), the high word squares 63..80
// (files 8-9). The split keeps every file inside a single word, so the
// vertical shifts never cross words.
type Bitboard struct {
	lo, hi uint64
}

const lowSquareNb = 63

const (
	lowWordMask  uint64 = (1 << lowSquareNb) - 1
	highWordMask uint64 = (1 << (SquareNb - lowSquareNb)) - 1
)

func (b Bitboard) And(other Bitboard) Bitboard {
	return Bitboard{b.lo & other.lo, b.hi & other.hi}
}

func (b Bitboard) Or(other Bitboard) Bitboard {
	return Bitboard{b.lo | other.lo, b.hi | other.hi}
}

func (b Bitboard) Xor(other Bitboard) Bitboard {
	return Bitboard{b.lo ^ other.lo, b.hi ^ other.hi}
}

func (b Bitboard) AndNot(other Bitboard) Bitboard {
	return Bitboard{b.lo &^ other.lo, b.hi &^ other.hi}
}

func (b Bitboard) Not() Bitboard {
	return Bitboard{^b.lo & lowWordMask, ^b.hi & highWordMask}
}

func (b Bitboard) IsZero() bool {
	return (b.lo | b.hi) == 0
}

func (b Bitboard) Has(sq int) bool {
	if sq < lowSquareNb {
		return b.lo&(1<<uint(sq)) != 0
	}
	return b.hi&(1<<uint(sq-lowSquareNb)) != 0
}

func FirstOne(b Bitboard) int {
	if b.lo != 0 {
		return bits.TrailingZeros64(b.lo)
	}
	return lowSquareNb + bits.TrailingZeros64(b.hi)
}

func LastOne(b Bitboard) int {
	if b.hi != 0 {
		return lowSquareNb + bits.Len64(b.hi) - 1
	}
	return bits.Len64(b.lo) - 1
}

func Pop(b *Bitboard) int {
	if b.lo != 0 {
		var sq = bits.TrailingZeros64(b.lo)
		b.lo &= b.lo - 1
		return sq
	}
	var sq = lowSquareNb + bits.TrailingZeros64(b.hi)
	b.hi &= b.hi - 1
	return sq
}

func PopCount(b Bitboard) int {
	return bits.OnesCount64(b.lo) + bits.OnesCount64(b.hi)
}

func MoreThanOne(b Bitboard) bool {
	if b.lo != 0 && b.hi != 0 {
		return true
	}
	var w = b.lo | b.hi
	return w&(w-1) != 0
}

// Up shifts toward rank a, the direction black pawns move.
func Up(b Bitboard) Bitboard {
	b = b.AndNot(rankMask[RankA])
	return Bitboard{b.lo >> 1, b.hi >> 1}
}

func Down(b Bitboard) Bitboard {
	b = b.AndNot(rankMask[RankI])
	return Bitboard{b.lo << 1, b.hi << 1}
}

// Left shifts toward file 9, the left edge of the printed board.
func Left(b Bitboard) Bitboard {
	return Bitboard{
		(b.lo << 9) & lowWordMask,
		((b.hi << 9) | (b.lo >> (lowSquareNb - 9))) & highWordMask,
	}
}

func Right(b Bitboard) Bitboard {
	return Bitboard{
		(b.lo >> 9) | ((b.hi & 0x1ff) << (lowSquareNb - 9)),
		b.hi >> 9,
	}
}

func UpLeft(b Bitboard) Bitboard {
	return Up(Left(b))
}

func UpRight(b Bitboard) Bitboard {
	return Up(Right(b))
}

func DownLeft(b Bitboard) Bitboard {
	return Down(Left(b))
}

func DownRight(b Bitboard) Bitboard {
	return Down(Right(b))
}

const (
	dirUp = iota
	dirDown
	dirLeft
	dirRight
	dirUpLeft
	dirUpRight
	dirDownLeft
	dirDownRight
	dirNb
)

var (
	SquareMask    [SquareNb]Bitboard
	fileMask      [9]Bitboard
	rankMask      [9]Bitboard
	promoZoneMask [SideNb]Bitboard

	pawnAttacks   [SideNb][SquareNb]Bitboard
	knightAttacks [SideNb][SquareNb]Bitboard
	silverAttacks [SideNb][SquareNb]Bitboard
	goldAttacks   [SideNb][SquareNb]Bitboard
	KingAttacks   [SquareNb]Bitboard
	orthoSteps    [SquareNb]Bitboard
	diagSteps     [SquareNb]Bitboard

	rays        [dirNb][SquareNb]Bitboard
	betweenMask [SquareNb][SquareNb]Bitboard
)

var rayShifts = [dirNb]func(Bitboard) Bitboard{
	dirUp:        Up,
	dirDown:      Down,
	dirLeft:      Left,
	dirRight:     Right,
	dirUpLeft:    UpLeft,
	dirUpRight:   UpRight,
	dirDownLeft:  DownLeft,
	dirDownRight: DownRight,
}

// rayScan picks the blocker nearest to the ray origin: rays running
// toward higher square numbers scan from the low end and vice versa.
var rayScan = [dirNb]func(Bitboard) int{
	dirUp:        LastOne,
	dirDown:      FirstOne,
	dirLeft:      FirstOne,
	dirRight:     LastOne,
	dirUpLeft:    FirstOne,
	dirUpRight:   LastOne,
	dirDownLeft:  FirstOne,
	dirDownRight: LastOne,
}

func rayAttacks(dir, from int, occ Bitboard) Bitboard {
	var attacks = rays[dir][from]
	var blockers = attacks.And(occ)
	if blockers.IsZero() {
		return attacks
	}
	var blockSq = rayScan[dir](blockers)
	return attacks.AndNot(rays[dir][blockSq])
}

func PawnAttacks(from, side int) Bitboard {
	return pawnAttacks[side][from]
}

func KnightAttacks(from, side int) Bitboard {
	return knightAttacks[side][from]
}

func SilverAttacks(from, side int) Bitboard {
	return silverAttacks[side][from]
}

func GoldAttacks(from, side int) Bitboard {
	return goldAttacks[side][from]
}

func LanceAttacks(from, side int, occ Bitboard) Bitboard {
	if side == SideBlack {
		return rayAttacks(dirUp, from, occ)
	}
	return rayAttacks(dirDown, from, occ)
}

func BishopAttacks(from int, occ Bitboard) Bitboard {
	return rayAttacks(dirUpLeft, from, occ).
		Or(rayAttacks(dirUpRight, from, occ)).
		Or(rayAttacks(dirDownLeft, from, occ)).
		Or(rayAttacks(dirDownRight, from, occ))
}

func RookAttacks(from int, occ Bitboard) Bitboard {
	return rayAttacks(dirUp, from, occ).
		Or(rayAttacks(dirDown, from, occ)).
		Or(rayAttacks(dirLeft, from, occ)).
		Or(rayAttacks(dirRight, from, occ))
}

func HorseAttacks(from int, occ Bitboard) Bitboard {
	return BishopAttacks(from, occ).Or(orthoSteps[from])
}

func DragonAttacks(from int, occ Bitboard) Bitboard {
	return RookAttacks(from, occ).Or(diagSteps[from])
}

func PieceAttacks(piece, from, side int, occ Bitboard) Bitboard {
	switch piece {
	case Pawn:
		return PawnAttacks(from, side)
	case Lance:
		return LanceAttacks(from, side, occ)
	case Knight:
		return KnightAttacks(from, side)
	case Silver:
		return SilverAttacks(from, side)
	case Gold, ProPawn, ProLance, ProKnight, ProSilver:
		return GoldAttacks(from, side)
	case Bishop:
		return BishopAttacks(from, occ)
	case Rook:
		return RookAttacks(from, occ)
	case King:
		return KingAttacks[from]
	case Horse:
		return HorseAttacks(from, occ)
	case Dragon:
		return DragonAttacks(from, occ)
	}
	return Bitboard{}
}

func init() {
	for sq := 0; sq < SquareNb; sq++ {
		if sq < lowSquareNb {
			SquareMask[sq] = Bitboard{lo: 1 << uint(sq)}
		} else {
			SquareMask[sq] = Bitboard{hi: 1 << uint(sq-lowSquareNb)}
		}
	}
	for f := File1; f <= File9; f++ {
		for r := RankA; r <= RankI; r++ {
			fileMask[f] = fileMask[f].Or(SquareMask[MakeSquare(f, r)])
			rankMask[r] = rankMask[r].Or(SquareMask[MakeSquare(f, r)])
		}
	}
	promoZoneMask[SideBlack] = rankMask[RankA].Or(rankMask[RankB]).Or(rankMask[RankC])
	promoZoneMask[SideWhite] = rankMask[RankG].Or(rankMask[RankH]).Or(rankMask[RankI])
	for sq := 0; sq < SquareNb; sq++ {
		var b = SquareMask[sq]
		pawnAttacks[SideBlack][sq] = Up(b)
		pawnAttacks[SideWhite][sq] = Down(b)
		knightAttacks[SideBlack][sq] = Left(Up(Up(b))).Or(Right(Up(Up(b))))
		knightAttacks[SideWhite][sq] = Left(Down(Down(b))).Or(Right(Down(Down(b))))
		silverAttacks[SideBlack][sq] = Up(b).Or(UpLeft(b)).Or(UpRight(b)).Or(DownLeft(b)).Or(DownRight(b))
		silverAttacks[SideWhite][sq] = Down(b).Or(DownLeft(b)).Or(DownRight(b)).Or(UpLeft(b)).Or(UpRight(b))
		goldAttacks[SideBlack][sq] = Up(b).Or(UpLeft(b)).Or(UpRight(b)).Or(Left(b)).Or(Right(b)).Or(Down(b))
		goldAttacks[SideWhite][sq] = Down(b).Or(DownLeft(b)).Or(DownRight(b)).Or(Left(b)).Or(Right(b)).Or(Up(b))
		orthoSteps[sq] = Up(b).Or(Down(b)).Or(Left(b)).Or(Right(b))
		diagSteps[sq] = UpLeft(b).Or(UpRight(b)).Or(DownLeft(b)).Or(DownRight(b))
		KingAttacks[sq] = orthoSteps[sq].Or(diagSteps[sq])
		for dir := 0; dir < dirNb; dir++ {
			var shift = rayShifts[dir]
			for x := shift(b); !x.IsZero(); x = shift(x) {
				rays[dir][sq] = rays[dir][sq].Or(x)
			}
		}
	}
	for s1 := 0; s1 < SquareNb; s1++ {
		for dir := 0; dir < dirNb; dir++ {
			for ray := rays[dir][s1]; !ray.IsZero(); {
				var s2 = Pop(&ray)
				betweenMask[s1][s2] = rays[dir][s1].
					AndNot(rays[dir][s2]).
					AndNot(SquareMask[s2])
			}
		}
	}
}
