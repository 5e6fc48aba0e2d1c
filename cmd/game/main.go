package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/Lam1900/Snakegame/internal/config"
	"github.com/Lam1900/Snakegame/internal/engine"
	"github.com/Lam1900/Snakegame/internal/loop"
	"github.com/Lam1900/Snakegame/internal/score"
)

func main() {
	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	level, err := engine.ParseSpeedLevel(config.GetEnv("SNAKE_LEVEL", engine.DefaultLevel.String()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "SNAKE_LEVEL: %v\n", err)
		os.Exit(1)
	}

	scorePath := config.GetEnv("SNAKE_SCORE_FILE", config.DefaultScoreFile)
	store := score.NewAsync(score.NewFileStore(scorePath, config.HighScoreKey), logger)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	runErr := loop.Run(reader, os.Stdout, loop.Options{
		Store:     store,
		Level:     level,
		TileCount: config.GetEnvInt("SNAKE_TILE_COUNT", config.TileCount),
		Username:  currentUser(),
		Logger:    logger,
	})

	_ = term.Restore(fd, oldState)
	if err := store.Close(); err != nil {
		logger.Warn("closing score store", "err", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", runErr)
		os.Exit(1)
	}
}

// newLogger logs to SNAKE_LOG_FILE when set. The terminal belongs to the
// game, so logs are discarded otherwise.
func newLogger() (*log.Logger, func(), error) {
	var out io.Writer = io.Discard
	closeFn := func() {}
	if path := config.GetEnv("SNAKE_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake",
	})
	if lvl, err := log.ParseLevel(config.GetEnv("SNAKE_LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(lvl)
	}
	return logger, closeFn, nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}
