package board

// Color is the side a piece belongs to
type Color byte

const (
	White Color = 'w'
	Black Color = 'b'
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// Kind is the type of a piece independent of its color
type Kind int

const (
	NoKind Kind = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

func (k Kind) String() string {
	switch k {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return "none"
	}
}

// Piece is a (color, kind) pair. The zero value is NoPiece and marks an empty square.
type Piece struct {
	Color Color
	Kind  Kind
}

// NoPiece is the content of an empty square
var NoPiece = Piece{}

// NewPiece returns the piece of the given color and kind
func NewPiece(c Color, k Kind) Piece {
	return Piece{Color: c, Kind: k}
}

// IsEmpty reports whether p stands for an empty square
func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

// Letter returns the FEN letter, uppercase for White and lowercase for Black
func (p Piece) Letter() byte {
	l, ok := kindLetters[p.Kind]
	if !ok {
		return 0
	}
	if p.Color == Black {
		return l + ('a' - 'A')
	}
	return l
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return p.Color.String() + " " + p.Kind.String()
}

var letterKinds = map[byte]Kind{
	'P': Pawn,
	'N': Knight,
	'B': Bishop,
	'R': Rook,
	'Q': Queen,
	'K': King,
}

var kindLetters = map[Kind]byte{
	Pawn:   'P',
	Knight: 'N',
	Bishop: 'B',
	Rook:   'R',
	Queen:  'Q',
	King:   'K',
}

// PieceFromLetter decodes a single FEN piece letter
func PieceFromLetter(ch byte) (Piece, bool) {
	color := White
	upper := ch
	if ch >= 'a' && ch <= 'z' {
		color = Black
		upper = ch - ('a' - 'A')
	}
	kind, ok := letterKinds[upper]
	if !ok {
		return NoPiece, false
	}
	return Piece{Color: color, Kind: kind}, true
}
