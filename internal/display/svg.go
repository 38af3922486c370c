package display

import (
	"fmt"
	"io"

	"fenview/internal/board"

	svg "github.com/ajstarks/svgo"
)

const DefaultSquareSize = 48

// ImageOptions controls the image renderers
type ImageOptions struct {
	Square int   // edge of one square in pixels
	Theme  Theme // only LightFill and DarkFill are used
	Glyphs bool  // draw Unicode glyphs as SVG text
}

func (o ImageOptions) withDefaults() ImageOptions {
	if o.Square <= 0 {
		o.Square = DefaultSquareSize
	}
	if o.Theme.LightFill == "" || o.Theme.DarkFill == "" {
		o.Theme = DefaultTheme()
	}
	return o
}

// SVG writes the board as an SVG document. Pieces are discs filled with their
// color so the image stays readable where text is not rendered.
func SVG(w io.Writer, b board.Board, opts ImageOptions) {
	opts = opts.withDefaults()
	size := opts.Square * board.Files

	canvas := svg.New(w)
	canvas.Start(size, size, fmt.Sprintf(`viewBox="0 0 %d %d"`, size, size))

	for rank := 0; rank < board.Ranks; rank++ {
		for file := 0; file < board.Files; file++ {
			fill := opts.Theme.DarkFill
			if (rank+file)%2 == 0 {
				fill = opts.Theme.LightFill
			}
			x, y := file*opts.Square, rank*opts.Square
			canvas.Rect(x, y, opts.Square, opts.Square, "fill:"+fill)

			p, ok := b.At(rank, file)
			if !ok {
				continue
			}
			cx, cy := x+opts.Square/2, y+opts.Square/2
			canvas.Circle(cx, cy, opts.Square*2/5, discStyle(p.Color))
			if opts.Glyphs {
				canvas.Text(cx, cy+opts.Square/5, Glyph(p.Kind),
					fmt.Sprintf("text-anchor:middle;font-size:%dpx;fill:%s", opts.Square/2, glyphFill(p.Color)))
			}
		}
	}

	canvas.End()
}

func discStyle(c board.Color) string {
	if c == board.White {
		return "fill:#ffffff;stroke:#000000;stroke-width:2"
	}
	return "fill:#202020;stroke:#000000;stroke-width:2"
}

func glyphFill(c board.Color) string {
	if c == board.White {
		return "#000000"
	}
	return "#ffffff"
}
