package board

import (
	"strconv"
	"strings"
)

const (
	Ranks = 8
	Files = 8

	// StartingPlacement is the piece-placement field of the standard starting position
	StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"
	StartingFEN       = StartingPlacement + " w KQkq - 0 1"
)

// Board is a static 8x8 snapshot indexed [rank][file]. Rank 0 is the first rank
// descriptor of a FEN string, which is rank 8 in chess numbering.
type Board struct {
	squares [Ranks][Files]Piece
}

var backRank = [Files]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Start returns the standard starting layout without parsing
func Start() Board {
	var b Board
	for f := 0; f < Files; f++ {
		b.squares[0][f] = Piece{Color: Black, Kind: backRank[f]}
		b.squares[1][f] = Piece{Color: Black, Kind: Pawn}
		b.squares[6][f] = Piece{Color: White, Kind: Pawn}
		b.squares[7][f] = Piece{Color: White, Kind: backRank[f]}
	}
	return b
}

// At returns the piece at the square and whether the square is occupied.
// Out of range coordinates report an empty square.
func (b Board) At(rank, file int) (Piece, bool) {
	if rank < 0 || rank >= Ranks || file < 0 || file >= Files {
		return NoPiece, false
	}
	p := b.squares[rank][file]
	return p, !p.IsEmpty()
}

// Rank returns a copy of one row of the board
func (b Board) Rank(rank int) [Files]Piece {
	if rank < 0 || rank >= Ranks {
		return [Files]Piece{}
	}
	return b.squares[rank]
}

// Count returns the number of occupied squares
func (b Board) Count() int {
	n := 0
	for r := 0; r < Ranks; r++ {
		for f := 0; f < Files; f++ {
			if !b.squares[r][f].IsEmpty() {
				n++
			}
		}
	}
	return n
}

// Placement encodes the board back into a FEN piece-placement field
func (b Board) Placement() string {
	var sb strings.Builder
	for r := 0; r < Ranks; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for f := 0; f < Files; f++ {
			p := b.squares[r][f]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	return sb.String()
}

// ToASCII creates a plain representation of the board with file and rank labels
func (b Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < Ranks; r++ {
		sb.WriteString(strconv.Itoa(8-r) + " ")
		for f := 0; f < Files; f++ {
			p := b.squares[r][f]
			if p.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteByte(p.Letter())
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(" " + strconv.Itoa(8-r) + "\n")
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
