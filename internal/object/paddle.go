package object

import (
	"github.com/tomz197/paddles/internal/config"
	"github.com/tomz197/paddles/internal/physics"
)

// paddleDepth is how far a paddle is drawn beyond its arena edge.
const paddleDepth = 0.6

// Paddle guards one horizontal edge of the arena.
// It shrinks as its owner scores, from MaxExtents at zero points down to
// MinExtents one point short of winning.
type Paddle struct {
	side     Side
	y        float64 // Arena edge the paddle sits on
	cfg      config.Paddle
	control  Control
	rng      Random
	notifier Notifier

	x       float64
	extents float64
	score   int
}

// NewPaddle creates a centered paddle on the edge at y.
func NewPaddle(side Side, y float64, cfg config.Paddle, control Control, rng Random, notifier Notifier) *Paddle {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Paddle{
		side:     side,
		y:        y,
		cfg:      cfg,
		control:  control,
		rng:      rng,
		notifier: notifier,
		extents:  cfg.MaxExtents,
	}
}

// StartNewGame resets the score and rolls a new targeting bias.
func (p *Paddle) StartNewGame() {
	p.setScore(0, 0)
	p.control.Retarget(p.rng)
}

// ScorePoint adds a point and reports whether the paddle has won.
func (p *Paddle) ScorePoint(pointsToWin int) bool {
	p.setScore(p.score+1, pointsToWin)
	return p.score >= pointsToWin
}

// setScore updates the score and the extents that depend on it.
// A pointsToWin below 2 means no match length is known and the paddle
// stays at full size.
func (p *Paddle) setScore(score, pointsToWin int) {
	p.score = score
	p.extents = ExtentsForScore(p.cfg, score, pointsToWin)
	p.notifier.ScoreChanged(p.side, score)
}

// ExtentsForScore interpolates from MaxExtents at score 0 to MinExtents at
// pointsToWin-1, clamped to that range.
func ExtentsForScore(cfg config.Paddle, score, pointsToWin int) float64 {
	if pointsToWin < 2 {
		return cfg.MaxExtents
	}
	t := float64(score) / float64(pointsToWin-1)
	return physics.Lerp(cfg.MaxExtents, cfg.MinExtents, t)
}

// Move steps the paddle toward its control's target for the ball at
// ballX, never overshooting it, then keeps it inside the arena.
func (p *Paddle) Move(ballX, arenaHalfWidth, dt float64) {
	target := p.control.TargetX(ballX, p)
	x := physics.StepToward(p.x, target, p.cfg.Speed*dt)
	limit := arenaHalfWidth - p.extents
	p.x = physics.Clamp(x, -limit, limit)
}

// HitBall tests whether a ball at ballX lands on the paddle.
// hitFactor is the contact offset normalized to [-1, 1] on a hit; edges
// count as hits. The targeting bias is re-rolled either way.
func (p *Paddle) HitBall(ballX, ballExtents float64) (success bool, hitFactor float64) {
	p.control.Retarget(p.rng)
	hitFactor = (ballX - p.x) / (p.extents + ballExtents)
	success = -1 <= hitFactor && hitFactor <= 1
	if success {
		p.notifier.PaddleHit(p.side)
	}
	return success, hitFactor
}

// Side returns the edge this paddle defends.
func (p *Paddle) Side() Side { return p.side }

// X returns the paddle center.
func (p *Paddle) X() float64 { return p.x }

// SetX places the paddle center without clamping.
func (p *Paddle) SetX(x float64) { p.x = x }

// Extents returns the current half-width.
func (p *Paddle) Extents() float64 { return p.extents }

// Score returns the points scored this match.
func (p *Paddle) Score() int { return p.score }

// Control returns the paddle's control strategy.
func (p *Paddle) Control() Control { return p.control }

// Draw renders the paddle just outside its arena edge.
func (p *Paddle) Draw(ctx DrawContext) {
	outer := p.y + paddleDepth
	if p.y < 0 {
		outer = p.y - paddleDepth
	}
	a := ctx.ToCanvas(physics.Vec2{X: p.x - p.extents, Y: p.y})
	b := ctx.ToCanvas(physics.Vec2{X: p.x + p.extents, Y: outer})
	ctx.Canvas.FillRect(a, b)
}
