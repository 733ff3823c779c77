// Package cli renders games to a terminal and reads player input.
package cli

import (
	"fmt"
	"io"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/game"
	"chessrules/internal/transport"

	"github.com/fatih/color"
)

var _ transport.View = (*CLI)(nil)

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg color.Attribute
	darkBg  color.Attribute
	white   color.Attribute
	black   color.Attribute
}

var themes = map[ColorTheme]themeColors{
	ThemeBrown: {
		lightBg: color.BgHiYellow,
		darkBg:  color.BgYellow,
		white:   color.FgHiWhite,
		black:   color.FgBlack,
	},
	ThemeGreen: {
		lightBg: color.BgHiGreen,
		darkBg:  color.BgGreen,
		white:   color.FgHiWhite,
		black:   color.FgBlack,
	},
	ThemeGray: {
		lightBg: color.BgWhite,
		darkBg:  color.BgHiBlack,
		white:   color.FgHiWhite,
		black:   color.FgBlack,
	},
}

// CLI is the terminal view. With ThemeOff it writes plain text only.
type CLI struct {
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

func New(output io.Writer) *CLI {
	return &CLI{
		output: output,
		theme:  ThemeOff,
	}
}

// paint colors s unless the theme is off. Colors are forced on so a chosen
// theme also applies when output is not a terminal.
func (c *CLI) paint(s string, attrs ...color.Attribute) string {
	if c.theme == ThemeOff {
		return s
	}
	p := color.New(attrs...)
	p.EnableColor()
	return p.Sprint(s)
}

func (c *CLI) SetTheme(name string) error {
	theme := ColorTheme(name)
	if _, ok := themes[theme]; !ok && theme != ThemeOff {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", name)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(c.paint(fmt.Sprintf("Error: %v", err), color.FgRed))
}

func (c *CLI) Prompt(g *game.Game) string {
	if g == nil {
		return "> "
	}
	turn := g.CurrentPlayer()
	label := fmt.Sprintf("[%s]", turn)
	if turn == core.ColorWhite {
		label = c.paint(label, color.FgBlue)
	} else {
		label = c.paint(label, color.FgRed)
	}
	return label + "> "
}

func (c *CLI) DisplayBoard(b board.Board) {
	if c.theme == ThemeOff {
		c.ShowMessage("\n" + b.ToASCII() + "\n")
		return
	}

	theme := themes[c.theme]
	var sb strings.Builder

	sb.WriteString("\n  a b c d e f g h\n")
	for r := 0; r < board.Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", board.Size-r))
		for f := 0; f < board.Size; f++ {
			bg := theme.darkBg
			if (r+f)%2 == 0 {
				bg = theme.lightBg
			}

			piece := b.Cell(r, f)
			if piece.IsEmpty() {
				sb.WriteString(c.paint("  ", bg))
				continue
			}
			fg := theme.black
			if piece.Owner == core.ColorWhite {
				fg = theme.white
			}
			sb.WriteString(c.paint(fmt.Sprintf("%c ", piece.Letter()), bg, fg))
		}
		sb.WriteString(fmt.Sprintf(" %d\n", board.Size-r))
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowMove(ply game.Ply) {
	msg := fmt.Sprintf("%s: %s", ply.Mover.Name(), ply.Move)
	if c.verbose {
		msg += fmt.Sprintf(" (%s)", ply.Moved.Kind)
		if !ply.Captured.IsEmpty() {
			msg += fmt.Sprintf(", captures %s", ply.Captured.Kind)
		}
		if ply.Promoted {
			msg += ", promoted to Queen"
		}
	}
	c.ShowMessage(msg)
}

func (c *CLI) ShowCheck(side core.Color) {
	c.ShowMessage(c.paint(fmt.Sprintf("%s is in check!", side.Name()), color.FgYellow, color.Bold))
}

// ShowStatus reports the verdict of a legality query
func (c *CLI) ShowStatus(move string, status game.Status) {
	if status == game.StatusOK {
		c.ShowMessage(c.paint(fmt.Sprintf("%s is legal", move), color.FgGreen))
		return
	}
	msg := fmt.Sprintf("%s is illegal: %s", move, status)
	if c.verbose {
		msg += fmt.Sprintf(" (%v)", status.Err())
	}
	c.ShowMessage(c.paint(msg, color.FgRed))
}

func (c *CLI) ShowLegalMoves(from board.Position, moves []board.Move) {
	if len(moves) == 0 {
		c.ShowMessage(fmt.Sprintf("No legal moves from %s", from))
		return
	}
	targets := make([]string, len(moves))
	for i, m := range moves {
		targets[i] = m.String()
	}
	c.ShowMessage(fmt.Sprintf("Legal moves from %s: %s", from, strings.Join(targets, " ")))
}

func (c *CLI) ShowGameHistory(history []game.Ply, placement string, state core.State) {
	num := 1
	for i := 0; i < len(history); num++ {
		white, black := "...", "..."
		if history[i].Mover == core.ColorWhite {
			white = history[i].Move.String()
			i++
		}
		if i < len(history) && history[i].Mover == core.ColorBlack {
			black = history[i].Move.String()
			i++
		}
		c.ShowMessage(fmt.Sprintf("%d. %s | %s", num, white, black))
	}
	if len(history) == 0 {
		c.ShowMessage("No moves yet.")
	}
	c.ShowMessage(fmt.Sprintf("Current placement: %s", placement))
	c.ShowMessage(fmt.Sprintf("Game state: %s", state))
}

func (c *CLI) ShowGameOver(state core.State) {
	c.ShowMessage(c.paint(fmt.Sprintf("\nCheckmate! Game Over: %s", state), color.Bold))
	c.ShowMessage("Use 'undo' to take moves back, or start again with 'new' or 'resume'.")
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new                      - Start a new game from the standard layout
  resume <placement> [w|b] - Start from a FEN piece placement, white to move by default
  <move>                   - Make a move (e.g., e2e4, g1f3)
  check <move>             - Report whether a move is legal without playing it
  moves <square>           - List the legal moves of the piece on a square
  undo [count]             - Undo last move(s), default 1
  board                    - Show the board
  history                  - Show game move history
  color <theme>            - Set board color theme (off|brown|green|gray)
  verbose                  - Toggle detailed move information
  quit/exit                - Exit the program
  help/?                   - Show this help message`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, resume <placement> [w|b], <move>, check, moves, undo, board, history, help/?, quit")
	c.ShowMessage("Example: 'resume R3k3/1R6/8/8/8/8/8/4K3 b' to start from a finished puzzle.")
	c.ShowMessage("")
}
