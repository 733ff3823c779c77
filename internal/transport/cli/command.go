package cli

import "strings"

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdMove
	CmdCheck
	CmdMoves
	CmdUndo
	CmdBoard
	CmdColor
	CmdVerbose
	CmdHistory
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
}

// ParseCommand maps one input line to a command. Anything that is not a
// keyword is taken as a move.
func ParseCommand(input string) Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return Command{Type: CmdNew, Args: args}
	case "resume":
		return Command{Type: CmdResume, Args: args}
	case "check":
		return Command{Type: CmdCheck, Args: args}
	case "moves":
		return Command{Type: CmdMoves, Args: args}
	case "undo":
		return Command{Type: CmdUndo, Args: args}
	case "board":
		return Command{Type: CmdBoard}
	case "color":
		return Command{Type: CmdColor, Args: args}
	case "verbose":
		return Command{Type: CmdVerbose}
	case "history":
		return Command{Type: CmdHistory}
	case "help", "?":
		return Command{Type: CmdHelp}
	case "quit", "exit":
		return Command{Type: CmdQuit}
	default:
		return Command{Type: CmdMove, Args: []string{cmd}}
	}
}
