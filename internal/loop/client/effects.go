package client

import (
	"github.com/tomz197/paddles/internal/object"
	"github.com/tomz197/paddles/internal/physics"
)

const (
	burstCount   = 6
	burstSpeed   = 14.0
	ringCount    = 12
	ringSpeed    = 10.0
	flashSeconds = 0.15
	goalSeconds  = 0.4
)

// effects turns match notifications into particles and overlay state.
// It only reads the ball; nothing it does feeds back into the match.
type effects struct {
	rng       object.Random
	ball      *object.Ball
	particles []*object.Particle
	flash     [2]float64 // Seconds of paddle flash left, by Side
	goal      [2]float64 // Seconds of goal-line flash left, by conceding Side
	countdown object.CountdownDisplay
	scores    [2]int
	gameOver  bool // A match ended since the last takeGameOver
	started   bool // A match started since the last takeStarted
}

var _ object.Notifier = (*effects)(nil)

func newEffects(rng object.Random) *effects {
	return &effects{rng: rng}
}

func (e *effects) ballPosition() physics.Vec2 {
	if e.ball == nil {
		return physics.Vec2{}
	}
	return e.ball.Position()
}

func (e *effects) BallLaunched() {
	e.particles = append(e.particles, object.SpawnRing(e.ballPosition(), ringCount, ringSpeed, e.rng)...)
}

func (e *effects) BallBounced(kind object.BounceKind) {
	burst := object.SpawnBurst(e.ballPosition(), kind.Angle(), burstCount, burstSpeed, e.rng)
	e.particles = append(e.particles, burst...)
}

func (e *effects) PaddleHit(side object.Side) {
	e.flash[side] = flashSeconds
}

func (e *effects) ScoreChanged(side object.Side, score int) {
	if score > e.scores[side] {
		e.goal[side.Opponent()] = goalSeconds
	}
	e.scores[side] = score
}

func (e *effects) CountdownChanged(display object.CountdownDisplay) {
	e.countdown = display
	switch display.Kind {
	case object.CountdownGameOver:
		e.gameOver = true
	case object.CountdownHidden:
		e.started = true
	}
}

// takeGameOver reports and clears a pending match end.
func (e *effects) takeGameOver() bool {
	over := e.gameOver
	e.gameOver = false
	return over
}

// takeStarted reports and clears a pending match start.
func (e *effects) takeStarted() bool {
	started := e.started
	e.started = false
	return started
}

func (e *effects) flashing(side object.Side) bool {
	return e.flash[side] > 0
}

// conceded reports whether side's goal line is flashing after a point.
func (e *effects) conceded(side object.Side) bool {
	return e.goal[side] > 0
}

// update ages particles and flashes by dt seconds.
func (e *effects) update(dt float64) {
	for i := range e.flash {
		e.flash[i] = max(e.flash[i]-dt, 0)
		e.goal[i] = max(e.goal[i]-dt, 0)
	}

	kept := e.particles[:0]
	for _, p := range e.particles {
		if p.Update(dt) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(e.particles[len(kept):])
	e.particles = kept
}

func (e *effects) Draw(ctx object.DrawContext) {
	for _, p := range e.particles {
		p.Draw(ctx)
	}
}
