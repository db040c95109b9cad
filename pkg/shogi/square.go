package shogi

import "strings"

const (
	File1 = iota
	File2
	File3
	File4
	File5
	File6
	File7
	File8
	File9
)

const (
	RankA = iota
	RankB
	RankC
	RankD
	RankE
	RankF
	RankG
	RankH
	RankI
)

const (
	Square1A = iota
	Square1B
	Square1C
	Square1D
	Square1E
	Square1F
	Square1G
	Square1H
	Square1I
	Square2A
	Square2B
	Square2C
	Square2D
	Square2E
	Square2F
	Square2G
	Square2H
	Square2I
	Square3A
	Square3B
	Square3C
	Square3D
	Square3E
	Square3F
	Square3G
	Square3H
	Square3I
	Square4A
	Square4B
	Square4C
	Square4D
	Square4E
	Square4F
	Square4G
	Square4H
	Square4I
	Square5A
	Square5B
	Square5C
	Square5D
	Square5E
	Square5F
	Square5G
	Square5H
	Square5I
	Square6A
	Square6B
	Square6C
	Square6D
	Square6E
	Square6F
	Square6G
	Square6H
	Square6I
	Square7A
	Square7B
	Square7C
	Square7D
	Square7E
	Square7F
	Square7G
	Square7H
	Square7I
	Square8A
	Square8B
	Square8C
	Square8D
	Square8E
	Square8F
	Square8G
	Square8H
	Square8I
	Square9A
	Square9B
	Square9C
	Square9D
	Square9E
	Square9F
	Square9G
	Square9H
	Square9I
	SquareNb
)

const SquareNone = -1

const fileNames = "123456789"
const rankNames = "abcdefghi"

func File(sq int) int {
	return sq / 9
}

func Rank(sq int) int {
	return sq % 9
}

func MakeSquare(file, rank int) int {
	return file*9 + rank
}

func FlipSquare(sq int) int {
	return SquareNb - 1 - sq
}

func SquareName(sq int) string {
	var file = fileNames[File(sq)]
	var rank = rankNames[Rank(sq)]
	return string(file) + string(rank)
}

func ParseSquare(s string) int {
	if len(s) != 2 {
		return SquareNone
	}
	var file = strings.Index(fileNames, s[0:1])
	var rank = strings.Index(rankNames, s[1:2])
	if file < 0 || rank < 0 {
		return SquareNone
	}
	return MakeSquare(file, rank)
}
