package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fenview/internal/board"
)

func newTestCLI(terminal bool) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(&out, &errOut, terminal), &out, &errOut
}

func TestRenderDefaultsToStartPosition(t *testing.T) {
	c, out, _ := newTestCLI(true)
	if err := c.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "\033[0;30;47m♜ ") {
		t.Fatalf("unexpected output start: %q", out.String()[:24])
	}
	if n := strings.Count(out.String(), "\n"); n != board.Ranks {
		t.Errorf("printed %d lines, want %d", n, board.Ranks)
	}
}

func TestRenderPlainWhenNotTerminal(t *testing.T) {
	c, out, _ := newTestCLI(false)
	if err := c.Run(context.Background(), []string{"4k3/8/8/8/8/8/8/4K3 w - - 0 1"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := ". . . . k . . . \n" + strings.Repeat(". . . . . . . . \n", 6) + ". . . . K . . . \n"
	if out.String() != want {
		t.Fatalf("output =\n%s\nwant\n%s", out.String(), want)
	}
}

func TestRenderExplicitThemeOverridesDetection(t *testing.T) {
	c, out, _ := newTestCLI(false)
	if err := c.Run(context.Background(), []string{"render", "-theme", "brown", board.StartingPlacement}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "48;5;230m") {
		t.Fatalf("brown theme not applied")
	}
}

func TestRenderCoords(t *testing.T) {
	c, out, _ := newTestCLI(true)
	if err := c.Run(context.Background(), []string{"-plain", "-coords"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	if lines[1] != "8 r n b q k b n r  8" {
		t.Errorf("rank 8 line = %q", lines[1])
	}
	if lines[9] != "  a b c d e f g h" {
		t.Errorf("footer = %q", lines[9])
	}
}

func TestRenderMultiple(t *testing.T) {
	c, out, _ := newTestCLI(false)
	if err := c.Run(context.Background(), []string{board.StartingPlacement, "8/8/8/8/8/8/8/8"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := strings.Count(out.String(), "\n"); n != 2*board.Ranks+1 {
		t.Errorf("printed %d lines", n)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		args []string
		want error
	}{
		{[]string{"8/8/8/8/8/8/8"}, board.ErrRankCount},
		{[]string{"pppppppx/8/8/8/8/8/8/8"}, board.ErrUnknownPiece},
		{[]string{"-theme", "neon"}, ErrUsage},
		{[]string{"-bogus"}, ErrUsage},
		{[]string{"svg", "a", "b"}, ErrUsage},
		{[]string{"png", "-size", "0"}, ErrUsage},
	}

	for _, tt := range tests {
		c, _, _ := newTestCLI(true)
		err := c.Run(context.Background(), tt.args)
		if !errors.Is(err, tt.want) {
			t.Errorf("Run(%q) = %v, want %v", tt.args, err, tt.want)
		}
	}
}

func TestImageToFile(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{"svg", "png"} {
		path := filepath.Join(dir, "board."+format)
		c, out, errOut := newTestCLI(true)
		if err := c.Run(context.Background(), []string{format, "-o", path, "-size", "12", board.StartingFEN}); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if out.Len() != 0 {
			t.Errorf("%s: wrote %d bytes to stdout", format, out.Len())
		}
		if !strings.Contains(errOut.String(), path) {
			t.Errorf("%s: no confirmation message", format)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if format == "svg" && !bytes.Contains(data, []byte("<svg")) {
			t.Errorf("svg file lacks <svg")
		}
		if format == "png" && !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Errorf("png file lacks signature")
		}
	}
}

func TestSVGToStdout(t *testing.T) {
	c, out, _ := newTestCLI(false)
	if err := c.Run(context.Background(), []string{"svg"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "♚") {
		t.Fatalf("svg output has no king glyph")
	}
}

func TestDemoOnce(t *testing.T) {
	c, out, _ := newTestCLI(true)
	err := c.Run(context.Background(), []string{"demo", "-once", "-delay", "1ms"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := strings.Count(out.String(), "\033[8A"); n != 3 {
		t.Fatalf("demo moved the cursor %d times, want 3", n)
	}
}

func TestDemoPipedHasNoEscapes(t *testing.T) {
	c, out, _ := newTestCLI(false)
	if err := c.Run(context.Background(), []string{"demo", "-once", "-delay", "1ms"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(out.String(), "\033") {
		t.Fatalf("non-terminal demo wrote escape codes: %q", out.String())
	}
}

func TestDemoLoopsUntilCancelled(t *testing.T) {
	c, _, _ := newTestCLI(true)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	if err := c.Run(ctx, []string{"demo", "-delay", "2ms"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestDemoRejectsBadFrame(t *testing.T) {
	c, _, _ := newTestCLI(true)
	err := c.Run(context.Background(), []string{"demo", "-once", board.StartingFEN, "8/8"})
	if !errors.Is(err, board.ErrRankCount) {
		t.Fatalf("Run = %v", err)
	}
}

func TestThemesAndHelp(t *testing.T) {
	c, out, _ := newTestCLI(false)
	if err := c.Run(context.Background(), []string{"themes"}); err != nil {
		t.Fatalf("themes: %v", err)
	}
	if !strings.Contains(out.String(), "classic (default)") {
		t.Errorf("themes output = %q", out.String())
	}

	out.Reset()
	if err := c.Run(context.Background(), []string{"help"}); err != nil {
		t.Fatalf("help: %v", err)
	}
	if !strings.Contains(out.String(), "fenview demo") {
		t.Errorf("help output = %q", out.String())
	}
}
