package display

import (
	"bytes"
	"io"

	"fenview/internal/board"
)

// Height is the number of lines a rendered board occupies
const Height = board.Ranks

var glyphs = map[board.Kind]string{
	board.King:   "♚",
	board.Queen:  "♛",
	board.Knight: "♞",
	board.Bishop: "♝",
	board.Rook:   "♜",
	board.Pawn:   "♟",
}

// Glyph returns the Unicode symbol for a piece kind. The glyph does not depend on color.
func Glyph(k board.Kind) string {
	if g, ok := glyphs[k]; ok {
		return g
	}
	return " "
}

// Renderer draws boards as ANSI-colored terminal lines
type Renderer struct {
	theme Theme
}

func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

func (r *Renderer) Theme() Theme {
	return r.theme
}

// Render writes one line per rank. Each cell is two columns wide: glyph (or blank) and a space.
func (r *Renderer) Render(w io.Writer, b board.Board) error {
	var buf bytes.Buffer
	r.write(&buf, b)
	_, err := w.Write(buf.Bytes())
	return err
}

// String returns exactly the bytes Render would write
func (r *Renderer) String(b board.Board) string {
	var buf bytes.Buffer
	r.write(&buf, b)
	return buf.String()
}

func (r *Renderer) write(buf *bytes.Buffer, b board.Board) {
	if r.theme.Plain() {
		r.writePlain(buf, b)
		return
	}

	colAlt := false
	rankAlt := true
	for rank := 0; rank < board.Ranks; rank++ {
		for _, p := range b.Rank(rank) {
			fg := r.theme.BlackFg
			if !p.IsEmpty() && p.Color == board.White {
				fg = r.theme.WhiteFg
			}

			bg := r.theme.Dark
			if colAlt != rankAlt {
				bg = r.theme.Light
			}
			colAlt = !colAlt

			buf.WriteString("\033[0;" + fg + ";" + bg + "m")
			buf.WriteString(Glyph(p.Kind))
			buf.WriteByte(' ')
		}
		rankAlt = !rankAlt
		buf.WriteString(cellReset)
		buf.WriteByte('\n')
	}
}

// writePlain keeps the two-column cell layout but uses FEN letters, since color
// is the only thing telling the glyphs apart.
func (r *Renderer) writePlain(buf *bytes.Buffer, b board.Board) {
	for rank := 0; rank < board.Ranks; rank++ {
		for _, p := range b.Rank(rank) {
			if p.IsEmpty() {
				buf.WriteByte('.')
			} else {
				buf.WriteByte(p.Letter())
			}
			buf.WriteByte(' ')
		}
		buf.WriteByte('\n')
	}
}
