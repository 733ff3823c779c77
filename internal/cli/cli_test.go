package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
)

func mustMove(t *testing.T, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(s)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

func TestDisplayBoardPlain(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	b := board.NewStandard()
	c.DisplayBoard(b)

	got := out.String()
	if strings.Contains(got, "\x1b[") {
		t.Errorf("plain theme emitted escape codes:\n%q", got)
	}
	if !strings.Contains(got, b.ToASCII()) {
		t.Errorf("board output = %q", got)
	}
}

func TestDisplayBoardThemed(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	if err := c.SetTheme("rainbow"); err == nil {
		t.Error("SetTheme(rainbow) accepted an unknown theme")
	}
	for _, theme := range []ColorTheme{ThemeBrown, ThemeGreen, ThemeGray} {
		out.Reset()
		if err := c.SetTheme(string(theme)); err != nil {
			t.Fatalf("SetTheme(%s): %v", theme, err)
		}
		c.DisplayBoard(board.NewStandard())
		if !strings.Contains(out.String(), "\x1b[") {
			t.Errorf("theme %s emitted no colors", theme)
		}
	}

	if err := c.SetTheme("off"); err != nil || c.Theme() != ThemeOff {
		t.Errorf("SetTheme(off) = %v, theme %s", err, c.Theme())
	}
}

func TestShowGameHistory(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	// black moved first from a resumed position
	history := []game.Ply{
		{Move: mustMove(t, "e7e5"), Mover: core.ColorBlack},
		{Move: mustMove(t, "d2d4"), Mover: core.ColorWhite},
		{Move: mustMove(t, "e5d4"), Mover: core.ColorBlack},
		{Move: mustMove(t, "d1d4"), Mover: core.ColorWhite},
	}
	c.ShowGameHistory(history, "8/8/8/8/3Q4/8/8/8", core.StateOngoing)

	want := "1. ... | e7e5\n2. d2d4 | e5d4\n3. d1d4 | ...\nCurrent placement: 8/8/8/8/3Q4/8/8/8\nGame state: ongoing\n"
	if got := out.String(); got != want {
		t.Errorf("history output:\n%s\nwant:\n%s", got, want)
	}
}

func TestShowMoveVerbose(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	ply := game.Ply{
		Move:     mustMove(t, "b7a8"),
		Mover:    core.ColorWhite,
		Moved:    board.NewPiece(board.Pawn, core.ColorWhite),
		Captured: board.NewPiece(board.Rook, core.ColorBlack),
		Promoted: true,
	}
	c.ShowMove(ply)
	if !c.ToggleVerbose() || !c.IsVerbose() {
		t.Fatal("ToggleVerbose did not enable verbose mode")
	}
	c.ShowMove(ply)

	want := "White: b7a8\nWhite: b7a8 (Pawn), captures Rook, promoted to Queen\n"
	if got := out.String(); got != want {
		t.Errorf("move output = %q, want %q", got, want)
	}
}

func TestShowStatus(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	c.ShowStatus("e2e4", game.StatusOK)
	c.ShowStatus("e1e3", game.StatusPatternInvalid)
	c.ToggleVerbose()
	c.ShowStatus("e2d3", game.StatusMovedIntoCheck)

	want := "e2e4 is legal\n" +
		"e1e3 is illegal: pattern_invalid\n" +
		"e2d3 is illegal: moved_into_check (move places own king in check)\n"
	if got := out.String(); got != want {
		t.Errorf("status output = %q, want %q", got, want)
	}
}

func TestPrompt(t *testing.T) {
	c := New(io.Discard)
	if got := c.Prompt(nil); got != "> " {
		t.Errorf("Prompt(nil) = %q", got)
	}
	g, err := game.FromPlacement(board.StartingPlacement, core.ColorBlack)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Prompt(g); got != "[b]> " {
		t.Errorf("Prompt(black to move) = %q", got)
	}
}

func TestScannerReader(t *testing.T) {
	var out bytes.Buffer
	r := NewScannerReader(strings.NewReader("e2e4\nquit\n"), &out)
	defer r.Close()

	for _, want := range []string{"e2e4", "quit"} {
		line, err := r.ReadLine("> ")
		if err != nil || line != want {
			t.Fatalf("ReadLine() = %q, %v, want %q", line, err, want)
		}
	}
	if _, err := r.ReadLine("> "); err != io.EOF {
		t.Errorf("ReadLine at end = %v, want io.EOF", err)
	}
	if out.String() != "> > > " {
		t.Errorf("prompts written = %q", out.String())
	}
}
