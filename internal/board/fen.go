package board

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmpty         = errors.New("empty FEN")
	ErrRankCount     = errors.New("expected 8 ranks")
	ErrUnknownPiece  = errors.New("unknown piece character")
	ErrRankOverflow  = errors.New("rank describes more than 8 files")
	ErrRankUnderflow = errors.New("rank describes fewer than 8 files")
)

// ParseError locates a FEN decoding failure. Rank is 1-based in FEN order (the first
// descriptor is rank 1 here, not chess rank 8); Column is the 0-based byte offset in the rank
// and Char the character found there.
type ParseError struct {
	Rank   int
	Column int
	Char   rune
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Rank == 0:
		return fmt.Sprintf("invalid FEN: %v", e.Err)
	case e.Char != 0:
		return fmt.Sprintf("invalid FEN: rank %d, column %d: %v %q", e.Rank, e.Column, e.Err, e.Char)
	default:
		return fmt.Sprintf("invalid FEN: rank %d: %v", e.Rank, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFEN decodes the piece-placement field of a FEN record. Any trailing fields
// (side to move, castling, en passant, clocks) are accepted and ignored.
func ParseFEN(fen string) (Board, error) {
	var b Board

	parts := strings.Fields(fen)
	if len(parts) == 0 {
		return b, &ParseError{Err: ErrEmpty}
	}

	ranks := strings.Split(parts[0], "/")
	if len(ranks) != Ranks {
		return b, &ParseError{Err: fmt.Errorf("%w, got %d", ErrRankCount, len(ranks))}
	}

	for r, desc := range ranks {
		if err := parseRank(&b.squares[r], desc, r+1); err != nil {
			return Board{}, err
		}
	}

	return b, nil
}

func parseRank(row *[Files]Piece, desc string, rank int) error {
	file := 0
	for i := 0; i < len(desc); i++ {
		ch := desc[i]
		if ch >= '1' && ch <= '8' {
			file += int(ch - '0')
			if file > Files {
				return &ParseError{Rank: rank, Column: i, Char: rune(ch), Err: ErrRankOverflow}
			}
			continue
		}

		p, ok := PieceFromLetter(ch)
		if !ok {
			r, _ := utf8.DecodeRuneInString(desc[i:])
			return &ParseError{Rank: rank, Column: i, Char: r, Err: ErrUnknownPiece}
		}
		if file >= Files {
			return &ParseError{Rank: rank, Column: i, Char: rune(ch), Err: ErrRankOverflow}
		}
		row[file] = p
		file++
	}

	if file != Files {
		return &ParseError{Rank: rank, Err: fmt.Errorf("%w (%d)", ErrRankUnderflow, file)}
	}
	return nil
}

// MustParseFEN is like ParseFEN but panics on malformed input. Intended for
// hardcoded positions where a bad string is a programming error.
func MustParseFEN(fen string) Board {
	b, err := ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return b
}
