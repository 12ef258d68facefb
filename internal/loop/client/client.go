// Package client runs one player's match on one terminal: it reads keys,
// ticks the match, and draws the arena and HUD.
package client

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tomz197/paddles/internal/config"
	"github.com/tomz197/paddles/internal/draw"
	"github.com/tomz197/paddles/internal/input"
	"github.com/tomz197/paddles/internal/loop/match"
	"github.com/tomz197/paddles/internal/loop/server"
	"github.com/tomz197/paddles/internal/object"
)

const (
	arenaMargin            = 2.0 // Arena units drawn beyond each wall
	shakeScale             = 0.5 // Arena units per unit of camera offset
	shutdownDisplaySeconds = 5.0
	maxTermWidth           = 160
	maxTermHeight          = 60
)

// Client handles input, simulation and rendering for a single terminal.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	cfg          config.Config
	state        *ClientState
	match        *match.Controller
	keys         *object.KeyState
	fx           *effects
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates a whole frame for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	styles       styles
	log          *log.Logger
	username     string
	human        object.Side
	hasHuman     bool
	termSizeFunc draw.TermSizeFunc
}

// Options configures the client.
type Options struct {
	Config       config.Config
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Rand         object.Random      // nil seeds from the clock
	Logger       *log.Logger        // nil uses the default logger
	Renderer     *lipgloss.Renderer // nil renders for the output writer
}

// New creates a client registered with gs. The config is validated first.
func New(gs server.GameServer, r input.ByteReader, w io.Writer, opts Options) (*Client, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = lipgloss.NewRenderer(w)
	}

	keys := &object.KeyState{}
	fx := newEffects(rng)
	m := match.NewFromConfig(cfg, rng, keys, fx)
	fx.ball = m.Ball()

	c := &Client{
		server:       gs,
		cfg:          cfg,
		state:        NewClientState(),
		match:        m,
		keys:         keys,
		fx:           fx,
		writer:       w,
		inputStream:  input.StartStream(r),
		styles:       newStyles(renderer),
		log:          logger,
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
	}
	switch {
	case !cfg.Players.BottomAI:
		c.human, c.hasHuman = object.SideBottom, true
	case !cfg.Players.TopAI:
		c.human, c.hasHuman = object.SideTop, true
	}

	termWidth, termHeight, _ := termSizeFunc()
	w0, h0 := c.logicalSize()
	renderWidth, renderHeight, offsetCol, offsetRow := fitTermSize(termWidth, termHeight, w0, h0)
	c.canvas = draw.NewScaledCanvas(renderWidth, renderHeight, w0, h0)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter = draw.NewChunkWriter(w, offsetCol, offsetRow)

	c.handle = gs.RegisterClient(opts.Username)
	c.username = c.handle.Username
	c.state.Players = gs.Players()
	return c, nil
}

// Run starts the client loop. Blocks until the player quits, the input
// stream ends or the server stops.
func (c *Client) Run() error {
	defer c.server.UnregisterClient(c.handle.ID)

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	c.log.Info("session started", "user", c.username, "human", c.humanLabel())
	c.log.Debug("config", "config", fmt.Sprintf("%+v", c.cfg))
	frameTime := c.cfg.Loop.FrameTime()
	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.step(input.ReadInput(c.inputStream), frameStart.Sub(lastTime))
		lastTime = frameStart

		if err := c.drawFrame(); err != nil {
			return fmt.Errorf("draw frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	c.log.Info("session ended", "user", c.username, "wins", c.state.Standing.Wins, "losses", c.state.Standing.Losses)
	return nil
}

// step runs the input and update phases of one frame. Long frames are
// capped so the match never resolves more than one wall per axis in a tick.
func (c *Client) step(in input.Input, delta time.Duration) {
	c.state.delta = min(delta, c.cfg.Loop.MaxFrameDelta)

	c.processInput(in)
	c.processServerEvents()
	c.updateScreen()

	switch c.state.Phase {
	case PhasePlaying:
		c.updatePlayingState()
	case PhaseShutdown:
		c.updateShutdownState()
	}
}

// processInput applies this frame's keys.
func (c *Client) processInput(in input.Input) {
	c.state.Input = in
	c.keys.Left = in.Left
	c.keys.Right = in.Right

	if in.Quit || in.Closed {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventPlayersChanged:
				c.state.Players = event.Players
			case server.EventServerShutdown:
				c.state.Phase = PhaseShutdown
				c.state.shutdownTimer = shutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize. On size changes it clears the
// terminal to remove residual cells outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	w, h := c.logicalSize()
	renderWidth, renderHeight, offsetCol, offsetRow := fitTermSize(termWidth, termHeight, w, h)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// logicalSize returns the canvas size in arena units.
func (c *Client) logicalSize() (width, height float64) {
	return 2 * (c.cfg.Match.ArenaX + arenaMargin), 2 * (c.cfg.Match.ArenaY + arenaMargin)
}

// fitTermSize picks the largest render area, up to the max render
// resolution, on which arena units are square (one column per sub-pixel
// row), and the offset that centers it.
func fitTermSize(termWidth, termHeight int, logicalWidth, logicalHeight float64) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, maxTermWidth)
	renderHeight = min(termHeight, maxTermHeight)

	if float64(renderWidth)/logicalWidth > float64(2*renderHeight)/logicalHeight {
		renderWidth = int(float64(2*renderHeight) * logicalWidth / logicalHeight)
	} else {
		renderHeight = int(float64(renderWidth) * logicalHeight / (2 * logicalWidth))
	}
	renderWidth = max(renderWidth, 1)
	renderHeight = max(renderHeight, 1)

	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight)/2, 0)
	return
}

// updatePlayingState ticks the match, the camera spring and the effects.
func (c *Client) updatePlayingState() {
	dt := c.state.delta.Seconds()
	c.match.Tick(c.state.delta)
	c.match.Camera().Advance(dt)
	c.fx.update(dt)

	if c.fx.takeStarted() {
		c.log.Info("match started", "user", c.username, "human", c.humanLabel())
	}
	if c.fx.takeGameOver() {
		c.recordResult()
	}
}

// recordResult reports a finished match to the server.
func (c *Client) recordResult() {
	winner, ok := c.match.Winner()
	if !ok {
		return
	}
	c.log.Info("match over", "user", c.username, "winner", winner,
		"bottom", c.match.Paddle(object.SideBottom).Score(), "top", c.match.Paddle(object.SideTop).Score())
	if !c.hasHuman {
		return
	}
	c.state.Standing = c.server.RecordResult(c.handle.ID, winner == c.human)
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

func (c *Client) humanLabel() string {
	if !c.hasHuman {
		return "none"
	}
	return c.human.String()
}
