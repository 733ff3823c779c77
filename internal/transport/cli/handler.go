// Package cli drives an interactive game from terminal commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"chessrules/internal/board"
	"chessrules/internal/cli"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/service"
	"chessrules/internal/transport"
)

type CLIHandler struct {
	svc    *service.Service
	view   transport.View
	input  cli.LineReader
	gameID string
}

func New(svc *service.Service, view transport.View, input cli.LineReader) *CLIHandler {
	return &CLIHandler{
		svc:   svc,
		view:  view,
		input: input,
	}
}

// Run reads and executes commands until quit or end of input
func (h *CLIHandler) Run() error {
	for {
		line, err := h.input.ReadLine(h.view.Prompt(h.current()))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if !h.ProcessCommand(ParseCommand(line)) {
			return nil
		}
	}
}

// current returns the active game or nil
func (h *CLIHandler) current() *game.Game {
	if h.gameID == "" {
		return nil
	}
	g, err := h.svc.GetGame(h.gameID)
	if err != nil {
		return nil
	}
	return g
}

func (h *CLIHandler) requireGame() (*game.Game, bool) {
	g := h.current()
	if g == nil {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <placement>'.")
		return nil, false
	}
	return g, true
}

// ProcessCommand handles one command and returns false to exit
func (h *CLIHandler) ProcessCommand(cmd Command) bool {
	switch cmd.Type {
	case CmdQuit:
		return false

	case CmdNone:

	case CmdNew:
		h.startGame("", core.ColorWhite)

	case CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <placement> [w|b]")
			return true
		}
		turn := core.ColorWhite
		if len(cmd.Args) > 1 {
			parsed, err := core.ParseColor(cmd.Args[1])
			if err != nil {
				h.view.ShowError(err)
				return true
			}
			turn = parsed
		}
		h.startGame(cmd.Args[0], turn)

	case CmdMove:
		h.makeMove(cmd.Args[0])

	case CmdCheck:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: check <move>")
			return true
		}
		h.checkMove(cmd.Args[0])

	case CmdMoves:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: moves <square>")
			return true
		}
		h.legalMoves(cmd.Args[0])

	case CmdUndo:
		h.undo(cmd.Args)

	case CmdBoard:
		if g, ok := h.requireGame(); ok {
			h.view.DisplayBoard(g.Board())
		}

	case CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}
		if err := h.view.SetTheme(cmd.Args[0]); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", cmd.Args[0]))
		if g := h.current(); g != nil {
			h.view.DisplayBoard(g.Board())
		}

	case CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	case CmdHistory:
		if g, ok := h.requireGame(); ok {
			b := g.Board()
			h.view.ShowGameHistory(g.History(), b.Placement(), g.State())
		}

	case CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

// startGame replaces the active game with one built from placement
func (h *CLIHandler) startGame(placement string, turn core.Color) {
	gameID := h.svc.GenerateGameID()
	g, err := h.svc.CreateGame(gameID, placement, turn)
	if err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %w", err))
		return
	}

	if h.gameID != "" {
		_ = h.svc.DeleteGame(h.gameID)
	}
	h.gameID = gameID

	h.view.ShowMessage("Game started.")
	h.view.DisplayBoard(g.Board())
	h.announce(g)
}

func (h *CLIHandler) makeMove(input string) {
	g, ok := h.requireGame()
	if !ok {
		return
	}

	m, err := board.ParseMove(input)
	if err != nil {
		h.view.ShowStatus(input, game.StatusInvalidCoordinate)
		return
	}

	ply, _, err := h.svc.MakeMove(h.gameID, "", m)
	switch {
	case errors.Is(err, game.ErrGameOver):
		h.view.ShowGameOver(g.State())
		return
	case err != nil:
		h.view.ShowError(fmt.Errorf("invalid move: %w", err))
		return
	}

	h.view.ShowMove(ply)
	h.view.DisplayBoard(g.Board())
	h.announce(g)
}

// announce reports checkmate or check for the side to move
func (h *CLIHandler) announce(g *game.Game) {
	if state := g.State(); state.IsOver() {
		h.view.ShowGameOver(state)
		return
	}
	if turn := g.CurrentPlayer(); g.IsInCheck(turn) {
		h.view.ShowCheck(turn)
	}
}

func (h *CLIHandler) checkMove(input string) {
	if _, ok := h.requireGame(); !ok {
		return
	}

	m, err := board.ParseMove(input)
	if err != nil {
		h.view.ShowStatus(input, game.StatusInvalidCoordinate)
		return
	}

	status, err := h.svc.CheckMove(h.gameID, m)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.ShowStatus(m.String(), status)
}

func (h *CLIHandler) legalMoves(square string) {
	if _, ok := h.requireGame(); !ok {
		return
	}

	from, err := board.ParseSquare(square)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	moves, err := h.svc.LegalMoves(h.gameID, from)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.ShowLegalMoves(from, moves)
}

func (h *CLIHandler) undo(args []string) {
	g, ok := h.requireGame()
	if !ok {
		return
	}

	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
			return
		}
		count = n
	}

	if _, _, err := h.svc.Undo(h.gameID, count); err != nil {
		h.view.ShowError(err)
		return
	}

	if count == 1 {
		h.view.ShowMessage("Move undone")
	} else {
		h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
	}
	h.view.DisplayBoard(g.Board())
}
