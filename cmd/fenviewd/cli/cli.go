// Package cli implements the fenviewd db administration subcommands.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"fenview/internal/board"
	"fenview/internal/service"
	"fenview/internal/storage"

	"golang.org/x/term"
)

const (
	// SecretEnv names the environment variable holding the token secret
	SecretEnv       = "FENVIEW_JWT_SECRET"
	MinSecretLength = 32
)

var stdout io.Writer = os.Stdout

// Run is the entry point for the db mini-app
func Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, add, query, renders, token")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:])
	case "delete":
		return runDelete(args[1:])
	case "add":
		return runAdd(args[1:])
	case "query":
		return runQuery(args[1:])
	case "renders":
		return runRenders(args[1:])
	case "token":
		return runToken(args[1:])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// openStore parses the shared -path flag and opens the database
func openStore(fs *flag.FlagSet, args []string) (*storage.Store, error) {
	path := fs.String("path", "", "Database file path (required)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path == "" {
		return nil, fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(stdout, "Database initialized at: %s\n", fs.Lookup("path").Value)
	return nil
}

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(stdout, "Database deleted: %s\n", fs.Lookup("path").Value)
	return nil
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name := fs.String("name", "", "Position name (required)")
	fen := fs.String("fen", "", "FEN string (required)")
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *name == "" || *fen == "" {
		return fmt.Errorf("-name and -fen are required")
	}

	svc := service.New(store, nil, nil)
	pos, err := svc.SavePosition(*name, *fen)
	if err != nil {
		return fmt.Errorf("failed to add position: %w", err)
	}

	fmt.Fprintf(stdout, "Position added: %s\n", pos.PositionID)
	return nil
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	name := fs.String("name", "", "Position name to filter (optional, * for all)")
	show := fs.Bool("board", false, "Print each board below its row")
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	positions, err := store.QueryPositions(*name)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(positions) == 0 {
		fmt.Fprintln(stdout, "No positions found")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Position ID\tName\tPlacement\tCreated")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, p := range positions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.PositionID[:8]+"...",
			p.Name,
			p.Placement,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	if *show {
		for _, p := range positions {
			b, err := board.ParseFEN(p.Placement)
			if err != nil {
				return fmt.Errorf("stored position %s is corrupt: %w", p.PositionID, err)
			}
			fmt.Fprintf(stdout, "\n%s\n%s\n", p.Name, b.ToASCII())
		}
	}

	fmt.Fprintf(stdout, "\nFound %d position(s)\n", len(positions))
	return nil
}

func runRenders(args []string) error {
	fs := flag.NewFlagSet("renders", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "Number of entries to show")
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	renders, err := store.RecentRenders(*limit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(renders) == 0 {
		fmt.Fprintln(stdout, "No renders recorded")
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Time\tFormat\tTheme\tPlacement")
	for _, r := range renders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.RenderedAt.Format("2006-01-02 15:04:05"), r.Format, r.Theme, r.Placement)
	}
	return w.Flush()
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("subject", "admin", "Token subject")
	ttl := fs.Duration("ttl", service.TokenTTL, "Token lifetime")
	secretFlag := fs.String("secret", "", "Signing secret (default $"+SecretEnv+", prompted if unset)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	secret, err := resolveSecret(*secretFlag)
	if err != nil {
		return err
	}

	svc := service.New(nil, nil, secret)
	token, expires, err := svc.IssueToken(*subject, *ttl)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, token)
	fmt.Fprintf(os.Stderr, "Expires: %s\n", expires.Format(time.RFC3339))
	return nil
}

// resolveSecret picks the flag, then the environment, then an interactive prompt
func resolveSecret(flagValue string) ([]byte, error) {
	secret := flagValue
	if secret == "" {
		secret = os.Getenv(SecretEnv)
	}

	if secret == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, fmt.Errorf("no secret: pass -secret or set %s", SecretEnv)
		}
		fmt.Fprint(os.Stderr, "Signing secret: ")
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read secret: %w", err)
		}
		secret = string(b)
	}

	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("secret must be at least %d bytes", MinSecretLength)
	}
	return []byte(secret), nil
}
