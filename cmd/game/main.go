package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tomz197/paddles/internal/config"
	"github.com/tomz197/paddles/internal/loop/client"
	"github.com/tomz197/paddles/internal/loop/server"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Logs go to stderr so they don't tear the frame on stdout.
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "paddles", Level: log.WarnLevel})
	if config.GetEnvBool("PADDLES_DEBUG", false) {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(config.GetEnv("PADDLES_CONFIG", ""))
	if err != nil {
		return err
	}
	if config.GetEnvBool("PADDLES_DEMO", false) {
		cfg.Players.BottomAI = true
		cfg.Players.TopAI = true
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	hub := server.NewHub(logger)
	c, err := client.New(hub, bufio.NewReader(os.Stdin), os.Stdout, client.Options{
		Config:   cfg,
		Username: config.GetEnv("USER", ""),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	return c.Run()
}
