// Package match runs the per-frame rules of a two-paddle match: ball
// flight, wall and paddle collisions, scoring and the countdown between
// matches.
package match

import (
	"fmt"
	"math"
	"time"

	"github.com/tomz197/paddles/internal/config"
	"github.com/tomz197/paddles/internal/object"
	"github.com/tomz197/paddles/internal/physics"
)

// State is the phase of the match.
type State int

const (
	StateCountdown State = iota // Waiting to start the next match
	StatePlaying                // Ball in play
)

func (s State) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "countdown"
}

// Controller owns one ball, two paddles and the camera spring, and is their
// only writer. Tick is not safe for concurrent use.
type Controller struct {
	cfg      config.Match
	ball     *object.Ball
	bottom   *object.Paddle
	top      *object.Paddle
	camera   *physics.SecondaryMotion
	notifier object.Notifier

	state     State
	remaining float64 // Countdown seconds left
	shown     int     // Countdown value last sent to the notifier

	winner    object.Side
	hasWinner bool
}

// New creates a controller in the countdown before the first match.
func New(cfg config.Match, ball *object.Ball, bottom, top *object.Paddle,
	camera *physics.SecondaryMotion, notifier object.Notifier) *Controller {
	if notifier == nil {
		notifier = object.NopNotifier{}
	}
	return &Controller{
		cfg:       cfg,
		ball:      ball,
		bottom:    bottom,
		top:       top,
		camera:    camera,
		notifier:  notifier,
		state:     StateCountdown,
		remaining: cfg.NewGameDelay,
		shown:     -1,
	}
}

// Tick advances the match by one frame.
func (c *Controller) Tick(delta time.Duration) {
	dt := delta.Seconds()

	ballX := c.ball.Position().X
	c.bottom.Move(ballX, c.cfg.ArenaX, dt)
	c.top.Move(ballX, c.cfg.ArenaX, dt)

	if c.state == StatePlaying {
		c.updateGame(dt)
	} else {
		c.updateCountdown(dt)
	}
}

func (c *Controller) updateGame(dt float64) {
	c.ball.Move(dt)
	c.bounceYIfNeeded()
	c.bounceXIfNeeded(c.ball.Position().X)
}

func (c *Controller) updateCountdown(dt float64) {
	c.remaining -= dt
	if c.remaining <= 0 {
		c.notifier.CountdownChanged(object.CountdownDisplay{Kind: object.CountdownHidden})
		c.startNewGame()
		return
	}

	value := int(math.Ceil(c.remaining))
	if float64(value) < c.cfg.NewGameDelay && value != c.shown {
		c.shown = value
		c.notifier.CountdownChanged(object.CountdownDisplay{Kind: object.CountdownValue, Value: value})
	}
}

func (c *Controller) startNewGame() {
	c.state = StatePlaying
	c.hasWinner = false
	c.ball.StartNewGame()
	c.bottom.StartNewGame()
	c.top.StartNewGame()
}

func (c *Controller) endGame(winner object.Side) {
	c.state = StateCountdown
	c.remaining = c.cfg.NewGameDelay
	c.shown = -1
	c.winner = winner
	c.hasWinner = true
	c.notifier.CountdownChanged(object.CountdownDisplay{Kind: object.CountdownGameOver})
	c.ball.EndGame()
}

// bounceYIfNeeded resolves a crossing of the bottom or top edge.
func (c *Controller) bounceYIfNeeded() {
	yLimit := c.cfg.ArenaY - c.ball.Extents()
	y := c.ball.Position().Y
	switch {
	case y < -yLimit:
		c.bounceY(-yLimit, c.bottom, c.top)
	case y > yLimit:
		c.bounceY(yLimit, c.top, c.bottom)
	}
}

// bounceXIfNeeded reflects the ball off a side wall if x is beyond it.
// Side walls never score.
func (c *Controller) bounceXIfNeeded(x float64) {
	xLimit := c.cfg.ArenaX - c.ball.Extents()
	switch {
	case x < -xLimit:
		c.camera.Push(c.ball.Velocity())
		c.ball.BounceX(-xLimit)
	case x > xLimit:
		c.camera.Push(c.ball.Velocity())
		c.ball.BounceX(xLimit)
	}
}

// bounceY reflects the ball off the edge at boundary and lets the defender
// try to return it.
//
// The ball has already been moved for the whole frame, so it is past the
// edge by some sub-frame time. That time and the x at the crossing instant
// are recovered from the straight-line trajectory. A side-wall crossing
// before that instant is resolved first. The paddle test and the returned
// ball both use the unreflected crossing x; any overshoot past the wall is
// resolved by the frame's final side check. Only one such nested side
// bounce is resolved per frame; frames are assumed short relative to the
// arena.
func (c *Controller) bounceY(boundary float64, defender, attacker *object.Paddle) {
	pos, vel := c.ball.Position(), c.ball.Velocity()
	if vel.Y == 0 {
		panic(fmt.Sprintf("match: ball crossed y=%g with zero vertical velocity", boundary))
	}
	durationAfterBounce := (pos.Y - boundary) / vel.Y
	bounceX := pos.X - vel.X*durationAfterBounce

	c.camera.Push(vel)
	c.bounceXIfNeeded(bounceX)
	c.ball.BounceY(boundary)

	if hit, hitFactor := defender.HitBall(bounceX, c.ball.Extents()); hit {
		c.ball.SetXPositionAndSpeed(bounceX, hitFactor, durationAfterBounce)
		return
	}

	c.camera.Jostle()
	if attacker.ScorePoint(c.cfg.PointsToWin) {
		c.endGame(attacker.Side())
	}
}

// State returns the current phase.
func (c *Controller) State() State { return c.state }

// Remaining returns the countdown seconds left; zero or less while playing.
func (c *Controller) Remaining() float64 { return c.remaining }

// Winner returns the side that won the last match, until the next starts.
func (c *Controller) Winner() (object.Side, bool) { return c.winner, c.hasWinner }

// Ball returns the ball.
func (c *Controller) Ball() *object.Ball { return c.ball }

// Paddle returns the paddle defending side.
func (c *Controller) Paddle(side object.Side) *object.Paddle {
	if side == object.SideTop {
		return c.top
	}
	return c.bottom
}

// Camera returns the camera spring.
func (c *Controller) Camera() *physics.SecondaryMotion { return c.camera }

// Config returns the match configuration.
func (c *Controller) Config() config.Match { return c.cfg }
