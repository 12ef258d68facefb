package object

import (
	"github.com/tomz197/paddles/internal/config"
	"github.com/tomz197/paddles/internal/physics"
)

// Ball is the single ball bouncing inside the arena.
// Position and velocity are arena-local; the match controller is its
// only writer.
type Ball struct {
	cfg      config.Ball
	rng      Random
	notifier Notifier

	position physics.Vec2
	velocity physics.Vec2
	active   bool
}

// NewBall creates an inactive ball at the origin.
func NewBall(cfg config.Ball, rng Random, notifier Notifier) *Ball {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Ball{cfg: cfg, rng: rng, notifier: notifier}
}

// StartNewGame puts the ball back at the origin and launches it toward
// the bottom paddle with a random horizontal speed.
func (b *Ball) StartNewGame() {
	b.position = physics.Vec2{}
	b.velocity.X = RandomRange(b.rng, -b.cfg.MaxStartXSpeed, b.cfg.MaxStartXSpeed)
	b.velocity.Y = -b.cfg.ConstantYSpeed
	b.active = true
	b.notifier.BallLaunched()
}

// EndGame centers the ball horizontally and takes it out of play.
func (b *Ball) EndGame() {
	b.position.X = 0
	b.active = false
}

// Move integrates the velocity over dt seconds.
func (b *Ball) Move(dt float64) {
	b.position = b.position.Add(b.velocity.Scale(dt))
}

// BounceX reflects the ball off the vertical line at boundary.
func (b *Ball) BounceX(boundary float64) {
	b.position.X = physics.Reflect(b.position.X, boundary)
	b.velocity.X = -b.velocity.X
	if boundary < 0 {
		b.notifier.BallBounced(BounceLeft)
	} else {
		b.notifier.BallBounced(BounceRight)
	}
}

// BounceY reflects the ball off the horizontal line at boundary.
func (b *Ball) BounceY(boundary float64) {
	b.position.Y = physics.Reflect(b.position.Y, boundary)
	b.velocity.Y = -b.velocity.Y
	if boundary < 0 {
		b.notifier.BallBounced(BounceBottom)
	} else {
		b.notifier.BallBounced(BounceTop)
	}
}

// SetXPositionAndSpeed sets the horizontal speed to speedFactor of the
// maximum and places the ball where it would be dt seconds after start.
func (b *Ball) SetXPositionAndSpeed(start, speedFactor, dt float64) {
	b.velocity.X = b.cfg.MaxXSpeed * speedFactor
	b.position.X = start + b.velocity.X*dt
}

// Position returns the ball position.
func (b *Ball) Position() physics.Vec2 { return b.position }

// Velocity returns the ball velocity.
func (b *Ball) Velocity() physics.Vec2 { return b.velocity }

// Extents returns the ball half-width.
func (b *Ball) Extents() float64 { return b.cfg.Extents }

// Active reports whether the ball is in play.
func (b *Ball) Active() bool { return b.active }

// Place sets position and velocity directly, putting the ball in play.
// Used to stage situations (replays, tests).
func (b *Ball) Place(position, velocity physics.Vec2) {
	b.position = position
	b.velocity = velocity
	b.active = true
}

// Draw renders the ball as a filled square.
func (b *Ball) Draw(ctx DrawContext) {
	if !b.active {
		return
	}
	e := b.cfg.Extents
	tl := ctx.ToCanvas(physics.Vec2{X: b.position.X - e, Y: b.position.Y + e})
	br := ctx.ToCanvas(physics.Vec2{X: b.position.X + e, Y: b.position.Y - e})
	ctx.Canvas.FillRect(tl, br)
}
