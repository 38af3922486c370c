package display

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"fenview/internal/board"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PNG rasterizes the SVG rendering and labels each disc with its FEN letter
func PNG(w io.Writer, b board.Board, opts ImageOptions) error {
	opts = opts.withDefaults()
	opts.Glyphs = false
	size := opts.Square * board.Files

	var doc bytes.Buffer
	SVG(&doc, b, opts)

	icon, err := oksvg.ReadIconStream(&doc)
	if err != nil {
		return fmt.Errorf("failed to parse board SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	face := basicfont.Face7x13
	for rank := 0; rank < board.Ranks; rank++ {
		for file := 0; file < board.Files; file++ {
			p, ok := b.At(rank, file)
			if !ok {
				continue
			}
			label := string(rune(p.Letter() &^ ('a' - 'A')))
			ink := color.Black
			if p.Color == board.Black {
				ink = color.White
			}
			d := &font.Drawer{
				Dst:  rgba,
				Src:  image.NewUniform(ink),
				Face: face,
				Dot: fixed.P(
					file*opts.Square+(opts.Square-face.Advance)/2,
					rank*opts.Square+(opts.Square+face.Ascent)/2,
				),
			}
			d.DrawString(label)
		}
	}

	if err := png.Encode(w, rgba); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
