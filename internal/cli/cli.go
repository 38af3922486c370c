// Package cli implements the fenview command line: rendering FEN strings to the
// terminal, writing SVG/PNG images, and the looping demo.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fenview/internal/animate"
	"fenview/internal/board"
	"fenview/internal/display"
)

// ErrUsage marks errors caused by bad arguments
var ErrUsage = errors.New("usage error")

type CLI struct {
	output   io.Writer
	errOut   io.Writer
	terminal bool // output is an ANSI-capable terminal
}

func New(output, errOut io.Writer, terminal bool) *CLI {
	return &CLI{
		output:   output,
		errOut:   errOut,
		terminal: terminal,
	}
}

// Run dispatches a subcommand. Without a known subcommand the arguments are
// treated as FEN strings to render.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "render":
			return c.runRender(args[1:])
		case "demo":
			return c.runDemo(ctx, args[1:])
		case "svg":
			return c.runImage("svg", args[1:])
		case "png":
			return c.runImage("png", args[1:])
		case "themes":
			return c.runThemes()
		case "help", "-h", "--help":
			c.ShowHelp()
			return nil
		}
	}
	return c.runRender(args)
}

func (c *CLI) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

// themeFor applies -plain and terminal detection on top of the requested theme
func (c *CLI) themeFor(name string, plain bool) (display.Theme, error) {
	if plain || (!c.terminal && name == "") {
		name = string(display.ThemeOff)
	}
	theme, err := display.LookupTheme(name)
	if err != nil {
		return display.Theme{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return theme, nil
}

func (c *CLI) runRender(args []string) error {
	fs := c.newFlagSet("render")
	themeName := fs.String("theme", "", "Color theme ("+strings.Join(display.ThemeNames(), ", ")+")")
	plain := fs.Bool("plain", false, "Disable colors and use FEN letters")
	coords := fs.Bool("coords", false, "Show file letters and rank numbers")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	theme, err := c.themeFor(*themeName, *plain)
	if err != nil {
		return err
	}
	r := display.NewRenderer(theme)

	fens := fs.Args()
	if len(fens) == 0 {
		fens = []string{board.StartingFEN}
	}

	for i, fen := range fens {
		b, err := board.ParseFEN(fen)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(c.output)
		}
		if *coords {
			c.writeWithCoords(r, b)
			continue
		}
		if err := r.Render(c.output, b); err != nil {
			return err
		}
	}
	return nil
}

// writeWithCoords frames the rendered rows with rank numbers and file letters
func (c *CLI) writeWithCoords(r *display.Renderer, b board.Board) {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	lines := strings.Split(strings.TrimSuffix(r.String(b), "\n"), "\n")
	for i, line := range lines {
		rank := strconv.Itoa(board.Ranks - i)
		sb.WriteString(rank + " " + line + " " + rank + "\n")
	}

	sb.WriteString("  a b c d e f g h\n")
	fmt.Fprint(c.output, sb.String())
}

func (c *CLI) runDemo(ctx context.Context, args []string) error {
	fs := c.newFlagSet("demo")
	themeName := fs.String("theme", "", "Color theme")
	delay := fs.Duration("delay", animate.DefaultDelay, "Pause between frames")
	once := fs.Bool("once", false, "Play the frames a single time instead of looping")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	theme, err := c.themeFor(*themeName, false)
	if err != nil {
		return err
	}

	frames := animate.SicilianFrames
	if fs.NArg() > 0 {
		frames = fs.Args()
	}

	player, err := animate.New(frames, *delay, c.output, display.NewRenderer(theme))
	if err != nil {
		return err
	}

	if *once {
		return player.Once(ctx)
	}
	return player.Run(ctx)
}

func (c *CLI) runImage(format string, args []string) error {
	fs := c.newFlagSet(format)
	out := fs.String("o", "", "Output file (default stdout)")
	size := fs.Int("size", display.DefaultSquareSize, "Square edge in pixels")
	themeName := fs.String("theme", "", "Color theme")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("%w: %s takes a single FEN", ErrUsage, format)
	}
	if *size <= 0 {
		return fmt.Errorf("%w: size must be positive", ErrUsage)
	}

	theme, err := display.LookupTheme(*themeName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	fen := board.StartingFEN
	if fs.NArg() == 1 {
		fen = fs.Arg(0)
	}
	b, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}

	opts := display.ImageOptions{Square: *size, Theme: theme, Glyphs: true}
	if *out == "" {
		return writeImage(c.output, format, b, opts)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	if err := writeImage(f, format, b, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write output file: %w", err)
	}
	fmt.Fprintf(c.errOut, "Wrote %s\n", *out)
	return nil
}

func writeImage(w io.Writer, format string, b board.Board, opts display.ImageOptions) error {
	if format == "svg" {
		display.SVG(w, b, opts)
		return nil
	}
	return display.PNG(w, b, opts)
}

func (c *CLI) runThemes() error {
	def := string(display.DefaultTheme().Name)
	sample := board.MustParseFEN("rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R")

	for _, name := range display.ThemeNames() {
		label := name
		if name == def {
			label += " (default)"
		}
		fmt.Fprintln(c.output, label)

		if c.terminal {
			theme, _ := display.LookupTheme(name)
			if err := display.NewRenderer(theme).Render(c.output, sample); err != nil {
				return err
			}
			fmt.Fprintln(c.output)
		}
	}
	return nil
}

func (c *CLI) ShowHelp() {
	help := `Usage:
  fenview [render] [-theme name] [-plain] [-coords] [FEN...]
                         Render positions (default: starting position)
  fenview demo [-delay 350ms] [-once] [-theme name] [FEN...]
                         Replay positions in place, looping until interrupted
  fenview svg|png [-o file] [-size 48] [-theme name] [FEN]
                         Write the board as an image
  fenview themes         List color themes
  fenview help           Show this help message

Quote full FEN records: fenview "rnbqkbnr/pp1ppppp/8/2p5/4P3/8/PPPP1PPP/RNBQKBNR w KQkq c6 0 2"`

	fmt.Fprintln(c.output, help)
}
