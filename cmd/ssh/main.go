package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/muesli/termenv"
	"github.com/tomz197/paddles/internal/config"
	"github.com/tomz197/paddles/internal/draw"
	"github.com/tomz197/paddles/internal/loop/client"
	"github.com/tomz197/paddles/internal/loop/server"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "ssh"})
	if config.GetEnvBool("PADDLES_DEBUG", false) {
		logger.SetLevel(log.DebugLevel)
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	configPath := config.GetEnv("PADDLES_CONFIG", "")
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "config", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	hub := server.NewHub(logger)
	game := &gameHandler{hub: hub, cfg: cfg, log: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			game.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server", "players", hub.Players())

	// Notify players and wait for them to disconnect
	hub.Shutdown(15 * time.Second)
	for _, st := range hub.Standings(5) {
		logger.Info("standing", "user", st.Username, "wins", st.Wins, "losses", st.Losses)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameHandler runs one match per SSH session.
type gameHandler struct {
	hub *server.Hub
	cfg config.Config
	log *log.Logger
}

func (g *gameHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		g.log.Info("new game session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		// The session is not a local TTY, so color support can't be
		// detected from it.
		renderer := lipgloss.NewRenderer(sess)
		renderer.SetColorProfile(termenv.ANSI256)

		c, err := client.New(g.hub, bufio.NewReader(sess), sess, client.Options{
			Config:       g.cfg,
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Logger:       g.log.With("user", sess.User()),
			Renderer:     renderer,
		})
		if err != nil {
			g.log.Error("failed to start session", "user", sess.User(), "err", err)
			return
		}
		if err := c.Run(); err != nil {
			g.log.Error("game error", "user", sess.User(), "err", err)
		}

		g.log.Info("session ended", "user", sess.User())
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
