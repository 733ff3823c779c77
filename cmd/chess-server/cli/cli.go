// Package cli implements the "db" maintenance commands of the server binary.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"chessrules/internal/storage"

	"go.uber.org/zap"
)

// Run is the entry point for the CLI mini-app
func Run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, moves or redis")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "query":
		return runQuery(args[1:], out)
	case "moves":
		return runMoves(args[1:], out)
	case "redis":
		return runRedis(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func openStore(fs *flag.FlagSet, args []string, extra ...func()) (*storage.Store, error) {
	path := fs.String("path", "", "Database file path (required)")
	for _, register := range extra {
		register()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path == "" {
		return nil, fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", fs.Lookup("path").Value)
	return nil
}

func runDelete(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	store, err := openStore(fs, args)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", fs.Lookup("path").Value)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	var gameID, playerID *string
	store, err := openStore(fs, args, func() {
		gameID = fs.String("gameId", "", "Game ID to filter (optional, * for all)")
		playerID = fs.String("playerId", "", "Player ID to filter (optional, * for all)")
	})
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(*gameID, *playerID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	printGames(out, games)
	return nil
}

func runMoves(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("moves", flag.ContinueOnError)
	var gameID *string
	store, err := openStore(fs, args, func() {
		gameID = fs.String("gameId", "", "Game ID (required)")
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	moves, err := store.QueryMoves(*gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	printMoves(out, moves)
	return nil
}

// runRedis shows one game recorded in redis
func runRedis(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("redis", flag.ContinueOnError)
	url := fs.String("url", "redis://localhost:6379/0", "Redis URL")
	gameID := fs.String("gameId", "", "Game ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *gameID == "" {
		return fmt.Errorf("game ID required")
	}

	store, err := storage.NewRedisStore(*url, 0, zap.NewNop())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record, err := store.LoadGame(ctx, *gameID)
	if errors.Is(err, storage.ErrRecordNotFound) {
		fmt.Fprintln(out, "No games found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load game: %w", err)
	}
	moves, err := store.LoadMoves(ctx, *gameID)
	if err != nil {
		return fmt.Errorf("load moves: %w", err)
	}

	printGames(out, []storage.GameRecord{*record})
	fmt.Fprintln(out)
	printMoves(out, moves)
	return nil
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8] + "..."
	}
	return id
}

func printGames(out io.Writer, games []storage.GameRecord) {
	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return
	}

	// Print results in tabular format
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tWhite Player\tBlack Player\tTurn\tResult\tStart Time")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			g.GameID,
			short(g.WhitePlayerID),
			short(g.BlackPlayerID),
			g.StartingTurn,
			g.Result,
			g.StartTimeUTC.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nFound %d game(s)\n", len(games))
}

func printMoves(out io.Writer, moves []storage.MoveRecord) {
	if len(moves) == 0 {
		fmt.Fprintln(out, "No moves found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSide\tMove\tCaptured\tPromoted\tPlacement After")
	for _, m := range moves {
		captured := m.Captured
		if captured == "" {
			captured = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\n",
			m.MoveNumber, m.PlayerColor, m.Move, captured, m.Promoted, m.PlacementAfterMove)
	}
	w.Flush()
}
