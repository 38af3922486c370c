package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"fenview/internal/board"
	"fenview/internal/cache"
	"fenview/internal/core"
	"fenview/internal/display"
	"fenview/internal/storage"
)

type Format string

const (
	FormatANSI Format = "ansi"
	FormatText Format = "text"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJSON Format = "json"
)

var contentTypes = map[Format]string{
	FormatANSI: "text/plain; charset=utf-8",
	FormatText: "text/plain; charset=utf-8",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatJSON: "application/json",
}

// RenderRequest selects what to draw and how. Empty Format means ansi, empty Theme the default.
type RenderRequest struct {
	FEN    string
	Format Format
	Theme  string
	Size   int
}

type Rendered struct {
	Body        []byte
	ContentType string
	Placement   string
	Cached      bool
}

// Render decodes the FEN and renders it. Results are served from the cache when available.
func (s *Service) Render(req RenderRequest) (*Rendered, error) {
	if req.Format == "" {
		req.Format = FormatANSI
	}
	contentType, ok := contentTypes[req.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
	}

	theme, err := display.LookupTheme(req.Theme)
	if err != nil {
		return nil, err
	}

	b, err := board.ParseFEN(req.FEN)
	if err != nil {
		return nil, err
	}
	placement := b.Placement()

	key := cache.Key(fmt.Sprintf("%s:%d", req.Format, req.Size), string(theme.Name), placement)
	if s.cache != nil {
		if body, ok := s.cache.Get(key); ok {
			s.logRender(placement, req.Format, theme)
			return &Rendered{Body: body, ContentType: contentType, Placement: placement, Cached: true}, nil
		}
	}

	body, err := renderFormat(b, req.Format, theme, req.Size)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(key, body); err != nil {
			log.Printf("Cache write failed: %v", err)
		}
	}
	s.logRender(placement, req.Format, theme)

	return &Rendered{Body: body, ContentType: contentType, Placement: placement}, nil
}

// logRender appends a served render, cached or not, to the render log
func (s *Service) logRender(placement string, format Format, theme display.Theme) {
	if s.store == nil {
		return
	}
	s.store.RecordRender(storage.RenderRecord{
		Placement:  placement,
		Format:     string(format),
		Theme:      string(theme.Name),
		RenderedAt: time.Now().UTC(),
	})
}

func renderFormat(b board.Board, format Format, theme display.Theme, size int) ([]byte, error) {
	var buf bytes.Buffer
	opts := display.ImageOptions{Square: size, Theme: theme, Glyphs: true}

	switch format {
	case FormatANSI:
		if err := display.NewRenderer(theme).Render(&buf, b); err != nil {
			return nil, err
		}
	case FormatText:
		buf.WriteString(b.ToASCII())
		buf.WriteByte('\n')
	case FormatSVG:
		display.SVG(&buf, b, opts)
	case FormatPNG:
		if err := display.PNG(&buf, b, opts); err != nil {
			return nil, err
		}
	case FormatJSON:
		data, err := json.Marshal(BoardResponse(b))
		if err != nil {
			return nil, fmt.Errorf("failed to encode board: %w", err)
		}
		buf.Write(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return buf.Bytes(), nil
}

// BoardResponse converts a board into its API representation
func BoardResponse(b board.Board) core.BoardResponse {
	squares := make([][]*core.Square, board.Ranks)
	for r := 0; r < board.Ranks; r++ {
		squares[r] = make([]*core.Square, board.Files)
		for f := 0; f < board.Files; f++ {
			if p, ok := b.At(r, f); ok {
				squares[r][f] = &core.Square{Color: p.Color.String(), Kind: p.Kind.String()}
			}
		}
	}
	return core.BoardResponse{
		FEN:     b.Placement(),
		Squares: squares,
		Pieces:  b.Count(),
		Board:   b.ToASCII(),
	}
}
