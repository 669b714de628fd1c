package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"lumina/internal/catalog"
	"lumina/internal/database"
)

const (
	// Default timeout for database operations
	defaultTimeout = 30 * time.Second
	// Default database directory path
	defaultDatabaseDir = "/database"
)

var errAborted = errors.New("aborted")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	databaseDir := os.Getenv("DATABASE_DIR")
	if databaseDir == "" {
		databaseDir = defaultDatabaseDir
	}
	dbPath := filepath.Join(databaseDir, "lumina.db")

	db, err := database.New(ctx, dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open database: %v\n", err)
		fmt.Fprintf(os.Stderr, "Make sure DATABASE_DIR is set correctly (current: %s)\n", databaseDir)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}()

	ctx, cancelOp := context.WithTimeout(ctx, defaultTimeout)
	defer cancelOp()

	args := os.Args[2:]
	switch command {
	case "status":
		err = showStatus(ctx, db, os.Stdout)
	case "export":
		err = runExport(ctx, db, args)
	case "import":
		err = runImport(ctx, db, args)
	case "vacuum":
		if err = db.Vacuum(); err == nil {
			fmt.Println("Database vacuumed.")
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(command))
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// sanitizeCommand returns a safe representation of a command string for display.
// Any character that is not alphanumeric, a hyphen, or an underscore becomes '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage() {
	fmt.Println("Lumina Snapshot Tool")
	fmt.Println("")
	fmt.Println("Usage: lumina-snapshot <command> [arguments]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  status              - Show the stored snapshot blobs and catalog counts")
	fmt.Println("  export [file]       - Write the snapshot as JSON to file or stdout")
	fmt.Println("  import <file> [-y]  - Replace the stored snapshot with a JSON export")
	fmt.Println("  vacuum              - Compact the database file")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Printf("  DATABASE_DIR - Path to database directory (default: %s)\n", defaultDatabaseDir)
}

func showStatus(ctx context.Context, db *database.Database, w io.Writer) error {
	blobs, err := db.ListBlobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list blobs: %w", err)
	}
	schema, err := db.SchemaVersionOf(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	last, err := db.LastSnapshotAt(ctx)
	if err != nil {
		return fmt.Errorf("failed to read snapshot time: %w", err)
	}

	state := catalog.New(db, nil)
	if err := state.Load(ctx); err != nil {
		return err
	}
	stats := state.GetStats()

	fmt.Fprintf(w, "Database:       %s\n", db.Path())
	fmt.Fprintf(w, "Schema version: %s\n", schema)
	if last.IsZero() {
		fmt.Fprintln(w, "Last snapshot:  never")
	} else {
		fmt.Fprintf(w, "Last snapshot:  %s\n", last.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(w, "Blobs:")
	if len(blobs) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, b := range blobs {
		fmt.Fprintf(w, "  %-16s %8d bytes  %s\n", b.Key, b.Size, b.UpdatedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(w, "Items:          %d (%d imported)\n", len(state.Items()), stats.UserItems)
	fmt.Fprintf(w, "Described:      %d\n", stats.Described)
	fmt.Fprintf(w, "Albums:         %d\n", stats.Albums)
	fmt.Fprintf(w, "Sources:        %d\n", len(state.Sources()))
	return nil
}

func runExport(ctx context.Context, db *database.Database, args []string) error {
	if len(args) == 0 || args[0] == "-" {
		return exportSnapshot(ctx, db, os.Stdout)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := exportSnapshot(ctx, db, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Snapshot written to %s\n", args[0])
	return nil
}

// exportSnapshot writes the stored state as one indented JSON document.
func exportSnapshot(ctx context.Context, db *database.Database, w io.Writer) error {
	state := catalog.New(db, nil)
	if err := state.Load(ctx); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state.Snapshot())
}

func runImport(ctx context.Context, db *database.Database, args []string) error {
	var path string
	yes := false
	for _, a := range args {
		switch a {
		case "-y", "--yes":
			yes = true
		default:
			path = a
		}
	}
	if path == "" {
		return errors.New("import needs a file")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	confirm := func(string) bool { return true }
	if !yes {
		confirm = terminalConfirm
	}
	snap, err := importSnapshot(ctx, db, f, confirm)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d items, %d albums and %d sources.\n", len(snap.Media), len(snap.Albums), len(snap.Sources))
	return nil
}

// importSnapshot decodes an export and, once confirmed, replaces the stored
// state with it.
func importSnapshot(ctx context.Context, db *database.Database, r io.Reader, confirm func(prompt string) bool) (catalog.Snapshot, error) {
	var snap catalog.Snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return catalog.Snapshot{}, fmt.Errorf("invalid snapshot file: %w", err)
	}

	prompt := fmt.Sprintf("Replace the stored catalog with %d items, %d albums and %d sources?",
		len(snap.Media), len(snap.Albums), len(snap.Sources))
	if !confirm(prompt) {
		return catalog.Snapshot{}, errAborted
	}

	state := catalog.New(db, nil)
	if err := state.Replace(ctx, snap); err != nil {
		return catalog.Snapshot{}, err
	}
	return snap, nil
}

// terminalConfirm asks a yes/no question on an interactive stdin. Without a
// terminal it refuses, so scripts must pass -y.
func terminalConfirm(prompt string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdin is not a terminal; pass -y to confirm")
		return false
	}
	return askYesNo(os.Stdin, os.Stdout, prompt)
}

func askYesNo(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
