// Package main runs an interactive chess game in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"chessrules/internal/cli"
	"chessrules/internal/logging"
	"chessrules/internal/service"
	"chessrules/internal/storage"
	clitransport "chessrules/internal/transport/cli"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	var (
		theme       = flag.String("theme", "off", "Board color theme (off|brown|green|gray)")
		historyFile = flag.String("history", ".chess_history", "Readline history file, empty to disable")
		storagePath = flag.String("storage-path", "", "Record games to this SQLite database")
		logFile     = flag.String("log-file", "", "Write logs to this file")
		logLevel    = flag.String("log-level", "warn", "Log level (debug|info|warn|error)")
	)
	flag.Parse()

	if err := run(*theme, *historyFile, *storagePath, *logFile, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
}

func run(theme, historyFile, storagePath, logFile, logLevel string) error {
	// the terminal belongs to the game, logs only go to a file
	logger := zap.NewNop()
	if logFile != "" {
		var err error
		logger, err = logging.NewWithWriter(logging.Config{Level: logLevel, File: logFile}, io.Discard)
		if err != nil {
			return err
		}
		defer logger.Sync()
	}
	logging.Set(logger)

	var recorder storage.Recorder
	if storagePath != "" {
		store, err := storage.NewStore(storagePath, false, logger)
		if err != nil {
			return err
		}
		if err := store.InitDB(); err != nil {
			store.Close()
			return err
		}
		recorder = store
	}

	svc := service.New(recorder, logger, service.DefaultWaitTimeout)
	defer func() {
		if err := svc.Shutdown(5 * time.Second); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	view := cli.New(os.Stdout)
	if err := view.SetTheme(theme); err != nil {
		return err
	}

	var input cli.LineReader
	if term.IsTerminal(int(os.Stdin.Fd())) {
		rl, err := cli.NewReadline(historyFile)
		if err != nil {
			return err
		}
		input = rl
	} else {
		input = cli.NewScannerReader(os.Stdin, os.Stdout)
	}
	defer input.Close()

	view.ShowWelcome()
	return clitransport.New(svc, view, input).Run()
}
