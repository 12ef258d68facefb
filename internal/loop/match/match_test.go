package match

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/paddles/internal/config"
	"github.com/tomz197/paddles/internal/object"
	"github.com/tomz197/paddles/internal/physics"
)

// fixedRandom always returns the same value, giving zero AI bias and zero
// launch speed at 0.5.
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

const frame = 100 * time.Millisecond

type fixture struct {
	c      *Controller
	keys   *object.KeyState
	events *object.Recorder
}

// newFixture builds a match with a human bottom paddle and an AI top paddle
// and runs the countdown so the ball is in play.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.Paddle.MinExtents = 2
	cfg.Paddle.MaxExtents = 4

	f := &fixture{keys: &object.KeyState{}, events: &object.Recorder{}}
	f.c = NewFromConfig(cfg, fixedRandom(0.5), f.keys, f.events)

	f.c.Tick(3 * time.Second)
	require.Equal(t, StatePlaying, f.c.State())
	f.events.Reset()
	return f
}

func (f *fixture) place(x, y, vx, vy float64) {
	f.c.Ball().Place(physics.Vec2{X: x, Y: y}, physics.Vec2{X: vx, Y: vy})
}

func bounces(r *object.Recorder) []object.BounceKind {
	var out []object.BounceKind
	for _, e := range r.Filter(object.EventBallBounced) {
		out = append(out, e.Bounce)
	}
	return out
}

func TestSideWallBounce(t *testing.T) {
	f := newFixture(t)
	f.place(9.6, 5, 8, -10)

	f.c.Tick(frame)

	ball := f.c.Ball()
	assert.InDelta(t, 8.6, ball.Position().X, 1e-9)
	assert.InDelta(t, 4.0, ball.Position().Y, 1e-9)
	assert.Equal(t, physics.Vec2{X: -8, Y: -10}, ball.Velocity())
	assert.Equal(t, []object.BounceKind{object.BounceRight}, bounces(f.events))

	v := f.c.Camera().Velocity()
	assert.Equal(t, 8.0, v.X)
	assert.Equal(t, -10.0, v.Z)
	assert.Equal(t, 0.0, v.Y)
}

func TestSideWallsNeverScore(t *testing.T) {
	f := newFixture(t)
	f.place(-9.4, 0, -20, -1)

	f.c.Tick(frame)

	assert.Empty(t, f.events.Filter(object.EventScoreChanged))
	assert.Equal(t, []object.BounceKind{object.BounceLeft}, bounces(f.events))
	assert.Greater(t, f.c.Ball().Velocity().X, 0.0)
}

func TestPaddleHitRedirectsBall(t *testing.T) {
	f := newFixture(t)
	f.place(3.5, -9, 0, -10)

	f.c.Tick(frame)

	factor := 3.5 / 4.5
	ball := f.c.Ball()
	assert.InDelta(t, 20*factor, ball.Velocity().X, 1e-9)
	assert.InDelta(t, 3.5+20*factor*0.05, ball.Position().X, 1e-9)
	assert.InDelta(t, -9.0, ball.Position().Y, 1e-9)
	assert.Equal(t, 10.0, ball.Velocity().Y)

	assert.Equal(t, []object.BounceKind{object.BounceBottom}, bounces(f.events))
	hits := f.events.Filter(object.EventPaddleHit)
	require.Len(t, hits, 1)
	assert.Equal(t, object.SideBottom, hits[0].Side)
	assert.Empty(t, f.events.Filter(object.EventScoreChanged))
	assert.Equal(t, 0.0, f.c.Camera().Velocity().Y, "no jostle on a hit")
}

func TestPaddleEdgeCountsAsHit(t *testing.T) {
	f := newFixture(t)
	f.place(4.5, -9, 0, -10)

	f.c.Tick(frame)

	assert.Len(t, f.events.Filter(object.EventPaddleHit), 1)
	assert.InDelta(t, 20.0, f.c.Ball().Velocity().X, 1e-9)
}

func TestMissScoresForAttacker(t *testing.T) {
	f := newFixture(t)
	f.place(8, -9, 0, -10)

	f.c.Tick(frame)

	assert.Equal(t, StatePlaying, f.c.State())
	assert.Equal(t, 1, f.c.Paddle(object.SideTop).Score())
	assert.Equal(t, 0, f.c.Paddle(object.SideBottom).Score())
	assert.InDelta(t, 3.0, f.c.Paddle(object.SideTop).Extents(), 1e-12)
	assert.Equal(t, 40.0, f.c.Camera().Velocity().Y)
	assert.Equal(t, 10.0, f.c.Ball().Velocity().Y, "ball still bounces back on a miss")
	assert.Empty(t, f.events.Filter(object.EventPaddleHit))

	scores := f.events.Filter(object.EventScoreChanged)
	require.Len(t, scores, 1)
	assert.Equal(t, object.Event{Type: object.EventScoreChanged, Side: object.SideTop, Score: 1}, scores[0])
}

func TestMissAtTopScoresForBottom(t *testing.T) {
	f := newFixture(t)
	top := f.c.Paddle(object.SideTop)
	top.SetX(-5)
	f.place(8, 9, 0, 10)

	f.c.Tick(frame)

	assert.Equal(t, 1, f.c.Paddle(object.SideBottom).Score())
	assert.Equal(t, []object.BounceKind{object.BounceTop}, bounces(f.events))
}

func TestWinningPointEndsMatch(t *testing.T) {
	f := newFixture(t)
	top := f.c.Paddle(object.SideTop)
	top.ScorePoint(3)
	top.ScorePoint(3)
	f.events.Reset()
	f.place(8, -9, 0, -10)

	f.c.Tick(frame)

	assert.Equal(t, StateCountdown, f.c.State())
	assert.Equal(t, 3.0, f.c.Remaining())
	assert.False(t, f.c.Ball().Active())
	assert.Equal(t, 0.0, f.c.Ball().Position().X)

	winner, ok := f.c.Winner()
	assert.True(t, ok)
	assert.Equal(t, object.SideTop, winner)

	countdowns := f.events.Filter(object.EventCountdownChanged)
	require.Len(t, countdowns, 1)
	assert.Equal(t, object.CountdownGameOver, countdowns[0].Countdown.Kind)

	// The frozen ball does not move during the countdown.
	before := f.c.Ball().Position()
	f.c.Tick(frame)
	assert.Equal(t, before, f.c.Ball().Position())
}

func TestScoresPersistUntilNextMatch(t *testing.T) {
	f := newFixture(t)
	top := f.c.Paddle(object.SideTop)
	top.ScorePoint(3)
	top.ScorePoint(3)
	f.place(8, -9, 0, -10)
	f.c.Tick(frame)
	require.Equal(t, StateCountdown, f.c.State())

	f.c.Tick(2 * time.Second)
	assert.Equal(t, 3, top.Score())

	f.c.Tick(time.Second)
	assert.Equal(t, StatePlaying, f.c.State())
	assert.Equal(t, 0, top.Score())
	assert.Equal(t, 4.0, top.Extents())
	_, ok := f.c.Winner()
	assert.False(t, ok)
}

func TestCompoundCornerBounce(t *testing.T) {
	f := newFixture(t)
	f.c.Paddle(object.SideBottom).SetX(6)
	// Ends the frame at (11, -10.2) and reaches the bottom edge at x=9.6,
	// already past the right wall.
	f.place(9, -9.2, 20, -10)

	f.c.Tick(frame)

	// The paddle is tested at the unreflected crossing x 9.6, giving factor
	// 0.8. The ball leaves from 9.6 at 16 for 0.07s, reaches 10.72 and the
	// closing side check reflects it about 9.5.
	ball := f.c.Ball()
	assert.Equal(t, []object.BounceKind{object.BounceRight, object.BounceBottom, object.BounceRight}, bounces(f.events))
	assert.Len(t, f.events.Filter(object.EventPaddleHit), 1)
	assert.InDelta(t, 8.28, ball.Position().X, 1e-9)
	assert.InDelta(t, -16.0, ball.Velocity().X, 1e-9)
	assert.InDelta(t, -8.8, ball.Position().Y, 1e-9)
	assert.Equal(t, 10.0, ball.Velocity().Y)

	// One push per resolved boundary: bottom edge (20,-10), nested right
	// wall (20,-10) and closing right wall (16,10).
	push := config.Default().Motion.PushStrength
	v := f.c.Camera().Velocity()
	assert.InDelta(t, 56*push, v.X, 1e-9)
	assert.InDelta(t, -10*push, v.Z, 1e-9)
	assert.Equal(t, 0.0, v.Y)
}

func TestCompoundCornerMiss(t *testing.T) {
	f := newFixture(t)
	f.place(9, -9.2, 20, -10)

	f.c.Tick(frame)

	ball := f.c.Ball()
	assert.Equal(t, []object.BounceKind{object.BounceRight, object.BounceBottom}, bounces(f.events))
	assert.Equal(t, 1, f.c.Paddle(object.SideTop).Score())
	assert.InDelta(t, 8.0, ball.Position().X, 1e-9)
	assert.Equal(t, physics.Vec2{X: -20, Y: 10}, ball.Velocity())

	// Bottom edge and nested right wall push once each; the miss jostles.
	cfg := config.Default().Motion
	v := f.c.Camera().Velocity()
	assert.InDelta(t, 40*cfg.PushStrength, v.X, 1e-9)
	assert.InDelta(t, -20*cfg.PushStrength, v.Z, 1e-9)
	assert.Equal(t, cfg.JostleStrength, v.Y)
}

// A frame long enough to cross the arena width and the far wall gets one
// reflection per axis; the frame loop caps deltas so this never happens in play.
func TestTickResolvesOneSideBouncePerFrame(t *testing.T) {
	f := newFixture(t)
	f.place(0, 0, 100, -1)

	f.c.Tick(500 * time.Millisecond)

	assert.InDelta(t, -31.0, f.c.Ball().Position().X, 1e-9)
	assert.Len(t, bounces(f.events), 1)
}

func TestZeroVerticalSpeedAtEdgePanics(t *testing.T) {
	f := newFixture(t)
	f.place(0, -9.8, 1, 0)

	assert.Panics(t, func() { f.c.Tick(frame) })
}

func TestCountdownStartsExactlyAtDelay(t *testing.T) {
	events := &object.Recorder{}
	c := NewFromConfig(config.Default(), fixedRandom(0.5), &object.KeyState{}, events)

	step := 250 * time.Millisecond
	for i := 0; i < 11; i++ {
		c.Tick(step)
		require.Equal(t, StateCountdown, c.State(), "tick %d", i+1)
		require.False(t, c.Ball().Active())
	}
	c.Tick(step)
	assert.Equal(t, StatePlaying, c.State())
	assert.True(t, c.Ball().Active())

	var shown []object.CountdownDisplay
	for _, e := range events.Filter(object.EventCountdownChanged) {
		shown = append(shown, e.Countdown)
	}
	assert.Equal(t, []object.CountdownDisplay{
		{Kind: object.CountdownValue, Value: 2},
		{Kind: object.CountdownValue, Value: 1},
		{Kind: object.CountdownHidden},
	}, shown)
	assert.Len(t, events.Filter(object.EventBallLaunched), 1)
}

func TestMatchStartResetsEntities(t *testing.T) {
	events := &object.Recorder{}
	c := NewFromConfig(config.Default(), fixedRandom(0.75), &object.KeyState{}, events)

	c.Tick(3 * time.Second)

	ball := c.Ball()
	assert.Equal(t, physics.Vec2{}, ball.Position())
	assert.InDelta(t, 1.0, ball.Velocity().X, 1e-12)
	assert.Equal(t, -10.0, ball.Velocity().Y)

	scores := events.Filter(object.EventScoreChanged)
	require.Len(t, scores, 2)
	assert.Equal(t, 0, scores[0].Score)
	assert.Equal(t, 0, scores[1].Score)

	ai, ok := c.Paddle(object.SideTop).Control().(*object.AI)
	require.True(t, ok)
	assert.InDelta(t, 0.375, ai.Bias(), 1e-12)
}

func TestPaddlesMoveDuringCountdown(t *testing.T) {
	keys := &object.KeyState{Right: true}
	c := NewFromConfig(config.Default(), fixedRandom(0.5), keys, nil)

	c.Tick(frame)

	assert.Equal(t, StateCountdown, c.State())
	assert.InDelta(t, 1.0, c.Paddle(object.SideBottom).X(), 1e-12)
}

func TestLongRallyKeepsInvariants(t *testing.T) {
	cfg := config.Default()
	cfg.Players.BottomAI = true
	rng := rand.New(rand.NewSource(1))
	c := NewFromConfig(cfg, rng, nil, nil)

	xLimit := cfg.Match.ArenaX - cfg.Ball.Extents
	yLimit := cfg.Match.ArenaY - cfg.Ball.Extents
	for i := 0; i < 20000; i++ {
		c.Tick(time.Second / 60)
		c.Camera().Advance(1.0 / 60)

		// Extents grow back at match start, after that frame's clamp.
		for _, side := range []object.Side{object.SideBottom, object.SideTop} {
			p := c.Paddle(side)
			limit := cfg.Match.ArenaX - cfg.Paddle.MinExtents
			require.LessOrEqual(t, p.X(), limit+1e-9)
			require.GreaterOrEqual(t, p.X(), -limit-1e-9)
		}
		if c.State() == StatePlaying {
			pos := c.Ball().Position()
			require.LessOrEqual(t, pos.X, xLimit+1e-9)
			require.GreaterOrEqual(t, pos.X, -xLimit-1e-9)
			require.LessOrEqual(t, pos.Y, yLimit+1e-9)
			require.GreaterOrEqual(t, pos.Y, -yLimit-1e-9)
			require.Equal(t, cfg.Ball.ConstantYSpeed, abs(c.Ball().Velocity().Y))
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
