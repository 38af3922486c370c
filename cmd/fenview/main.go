// Package main renders FEN positions to the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fenview/internal/cli"
	"fenview/internal/display"

	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tty := term.IsTerminal(int(os.Stdout.Fd()))
	c := cli.New(os.Stdout, os.Stderr, tty)

	if err := c.Run(ctx, os.Args[1:]); err != nil {
		if tty {
			fmt.Fprintln(os.Stderr, display.Error(err.Error()))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
