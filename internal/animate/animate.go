// Package animate replays a fixed list of positions in place on a terminal.
package animate

import (
	"context"
	"fmt"
	"io"
	"time"

	"fenview/internal/board"
	"fenview/internal/display"
)

const DefaultDelay = 350 * time.Millisecond

// SicilianFrames is the opening sequence 1.e4 c5 2.Nf3 used by the demo
var SicilianFrames = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
	"rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2",
	"rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2",
}

// Player renders frames one after another, moving the cursor back up after
// each frame so the next one overwrites it.
type Player struct {
	frames   []board.Board
	delay    time.Duration
	out      io.Writer
	renderer *display.Renderer
}

// New decodes all frames up front so a malformed frame fails before anything is drawn
func New(fens []string, delay time.Duration, out io.Writer, renderer *display.Renderer) (*Player, error) {
	if len(fens) == 0 {
		return nil, fmt.Errorf("no frames to play")
	}
	frames := make([]board.Board, 0, len(fens))
	for i, fen := range fens {
		b, err := board.ParseFEN(fen)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i+1, err)
		}
		frames = append(frames, b)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Player{
		frames:   frames,
		delay:    delay,
		out:      out,
		renderer: renderer,
	}, nil
}

// Run loops over the frames until ctx is done. Returns nil on cancellation.
func (p *Player) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		if err := p.play(ctx, true); err != nil {
			return err
		}
	}
	return nil
}

// Once plays every frame a single time and leaves the last one on screen
func (p *Player) Once(ctx context.Context) error {
	return p.play(ctx, false)
}

func (p *Player) play(ctx context.Context, loop bool) error {
	for i, b := range p.frames {
		last := i == len(p.frames)-1
		if err := p.step(ctx, b, loop || !last); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
	return nil
}

// step draws one frame. When more frames follow it pauses and, on terminals,
// moves the cursor back to the top of the board.
func (p *Player) step(ctx context.Context, b board.Board, more bool) error {
	if err := p.renderer.Render(p.out, b); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if !more {
		return nil
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	// plain output has no cursor control, frames follow each other
	if p.renderer.Theme().Plain() {
		return nil
	}
	if _, err := io.WriteString(p.out, display.CursorUp(display.Height)); err != nil {
		return fmt.Errorf("cursor reposition failed: %w", err)
	}
	return nil
}
