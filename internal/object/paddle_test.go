package object

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/paddles/internal/config"
)

func testPaddleConfig() config.Paddle {
	return config.Paddle{Speed: 10, MinExtents: 2, MaxExtents: 4, MaxTargetingBias: 0.75}
}

func newTestAIPaddle(rng Random, rec Notifier) *Paddle {
	return NewPaddle(SideBottom, -10, testPaddleConfig(), NewAI(0.75), rng, rec)
}

func TestPaddleExtentsShrinkWithScore(t *testing.T) {
	cfg := testPaddleConfig()
	tests := []struct {
		score, pointsToWin int
		want               float64
	}{
		{0, 3, 4},
		{1, 3, 3},
		{2, 3, 2},
		{3, 3, 2},
		{1, 2, 2},
		{0, 0, 4},
		{5, 0, 4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ExtentsForScore(cfg, tt.score, tt.pointsToWin), 1e-12,
			"score %d of %d", tt.score, tt.pointsToWin)
	}
}

func TestPaddleScorePoint(t *testing.T) {
	rec := &Recorder{}
	p := newTestAIPaddle(fixedRandom(0.5), rec)

	assert.False(t, p.ScorePoint(3))
	assert.InDelta(t, 3.0, p.Extents(), 1e-12)
	assert.False(t, p.ScorePoint(3))
	assert.True(t, p.ScorePoint(3))
	assert.Equal(t, 3, p.Score())
	assert.InDelta(t, 2.0, p.Extents(), 1e-12)

	scores := rec.Filter(EventScoreChanged)
	require.Len(t, scores, 3)
	assert.Equal(t, 3, scores[2].Score)
	assert.Equal(t, SideBottom, scores[2].Side)
}

func TestPaddleStartNewGameIsIdempotent(t *testing.T) {
	for _, prior := range []int{0, 1, 2, 5} {
		p := newTestAIPaddle(fixedRandom(0.5), nil)
		for i := 0; i < prior; i++ {
			p.ScorePoint(3)
		}

		p.StartNewGame()
		p.StartNewGame()

		assert.Equal(t, 0, p.Score())
		assert.Equal(t, 4.0, p.Extents())
	}
}

func TestPaddleStartNewGameRollsBias(t *testing.T) {
	ai := NewAI(0.75)
	p := NewPaddle(SideTop, 10, testPaddleConfig(), ai, fixedRandom(1), nil)

	p.StartNewGame()

	assert.InDelta(t, 0.75, ai.Bias(), 1e-12)
}

func TestPaddleHitBall(t *testing.T) {
	tests := []struct {
		name       string
		ballX      float64
		wantHit    bool
		wantFactor float64
	}{
		{"center", 0, true, 0},
		{"off center", 3.5, true, 3.5 / 4.5},
		{"right edge", 4.5, true, 1},
		{"left edge", -4.5, true, -1},
		{"just past edge", 4.51, false, 4.51 / 4.5},
		{"far miss", -8, false, -8 / 4.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Recorder{}
			p := newTestAIPaddle(fixedRandom(0.5), rec)

			hit, factor := p.HitBall(tt.ballX, 0.5)

			assert.Equal(t, tt.wantHit, hit)
			assert.InDelta(t, tt.wantFactor, factor, 1e-12)
			assert.Equal(t, tt.wantHit, len(rec.Filter(EventPaddleHit)) == 1)
		})
	}
}

func TestPaddleHitBallRetargets(t *testing.T) {
	ai := NewAI(0.75)
	p := NewPaddle(SideBottom, -10, testPaddleConfig(), ai, fixedRandom(0), nil)

	p.HitBall(100, 0.5)
	assert.InDelta(t, -0.75, ai.Bias(), 1e-12)
}

func TestAIPaddleMovesWithoutOvershoot(t *testing.T) {
	ai := NewAI(0.75)
	p := NewPaddle(SideBottom, -10, testPaddleConfig(), ai, fixedRandom(0.5), nil)
	p.StartNewGame() // bias 0

	p.Move(5, 10, 0.1)
	assert.InDelta(t, 1.0, p.X(), 1e-12)

	p.Move(1.5, 10, 0.1)
	assert.InDelta(t, 1.5, p.X(), 1e-12)

	p.Move(-5, 10, 0.1)
	assert.InDelta(t, 0.5, p.X(), 1e-12)
}

func TestAIPaddleAppliesBias(t *testing.T) {
	ai := NewAI(0.75)
	p := NewPaddle(SideBottom, -10, testPaddleConfig(), ai, fixedRandom(1), nil)
	p.StartNewGame() // bias 0.75, extents 4 -> aims 3 to the right of the ball

	for i := 0; i < 20; i++ {
		p.Move(0, 10, 0.1)
	}
	assert.InDelta(t, 3.0, p.X(), 1e-9)
}

func TestHumanPaddleMoves(t *testing.T) {
	tests := []struct {
		name        string
		left, right bool
		want        float64
	}{
		{"none held", false, false, 0},
		{"both held", true, true, 0},
		{"right", false, true, 1},
		{"left", true, false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := &KeyState{Left: tt.left, Right: tt.right}
			p := NewPaddle(SideBottom, -10, testPaddleConfig(), &Human{Input: keys}, fixedRandom(0.5), nil)

			p.Move(8, 10, 0.1)

			assert.InDelta(t, tt.want, p.X(), 1e-12)
		})
	}
}

func TestPaddleMoveStaysInArena(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	keys := &KeyState{}
	paddles := []*Paddle{
		NewPaddle(SideBottom, -10, testPaddleConfig(), &Human{Input: keys}, rng, nil),
		NewPaddle(SideTop, 10, testPaddleConfig(), NewAI(0.75), rng, nil),
	}

	for i := 0; i < 2000; i++ {
		keys.Left = rng.Intn(2) == 0
		keys.Right = rng.Intn(2) == 0
		ballX := RandomRange(rng, -30, 30)
		dt := RandomRange(rng, 0, 0.5)
		for _, p := range paddles {
			if i%97 == 0 {
				p.ScorePoint(3)
			}
			p.Move(ballX, 10, dt)
			limit := 10 - p.Extents()
			require.GreaterOrEqual(t, p.X(), -limit)
			require.LessOrEqual(t, p.X(), limit)
		}
	}
}
