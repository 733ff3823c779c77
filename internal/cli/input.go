package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
)

// LineReader shows a prompt and reads one line. It returns io.EOF once
// input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

type scannerReader struct {
	input  *bufio.Scanner
	output io.Writer
}

// NewScannerReader reads plain lines, used when input is not a terminal
func NewScannerReader(input io.Reader, output io.Writer) LineReader {
	return &scannerReader{
		input:  bufio.NewScanner(input),
		output: output,
	}
}

func (r *scannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.output, prompt)
	if !r.input.Scan() {
		if err := r.input.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.input.Text(), nil
}

func (r *scannerReader) Close() error { return nil }

type readlineReader struct {
	rl *readline.Instance
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("new"),
	readline.PcItem("resume"),
	readline.PcItem("check"),
	readline.PcItem("moves"),
	readline.PcItem("undo"),
	readline.PcItem("board"),
	readline.PcItem("history"),
	readline.PcItem("color",
		readline.PcItem(string(ThemeOff)),
		readline.PcItem(string(ThemeBrown)),
		readline.PcItem(string(ThemeGreen)),
		readline.PcItem(string(ThemeGray)),
	),
	readline.PcItem("verbose"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
)

// NewReadline gives line editing, completion and history for terminals.
// An empty historyFile disables persistent history.
func NewReadline(historyFile string) (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("readline: %w", err)
	}
	return &readlineReader{rl: rl}, nil
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		// ^C on an empty line quits, otherwise it clears the line
		if line == "" {
			return "", io.EOF
		}
		return "", nil
	}
	return line, err
}

func (r *readlineReader) Close() error {
	return r.rl.Close()
}
