package object

import "math"

// Control decides where a paddle wants to be each frame.
type Control interface {
	// TargetX returns the x the paddle should move toward this frame.
	TargetX(ballX float64, p *Paddle) float64
	// Retarget is called at match start and after every hit attempt.
	Retarget(rng Random)
}

// InputSource reports which movement keys are held this frame.
type InputSource interface {
	Held() (left, right bool)
}

// Human steers a paddle from held keys.
type Human struct {
	Input InputSource
}

// TargetX returns an unreachable target in the held direction, so the
// paddle moves at full speed, or the paddle's own x when no single
// direction is held.
func (h *Human) TargetX(_ float64, p *Paddle) float64 {
	left, right := h.Input.Held()
	switch {
	case right && !left:
		return math.Inf(1)
	case left && !right:
		return math.Inf(-1)
	default:
		return p.X()
	}
}

// Retarget is a no-op for human players.
func (h *Human) Retarget(Random) {}

// AI follows the ball with a random offset so it occasionally misses.
type AI struct {
	MaxBias float64
	bias    float64
}

// NewAI creates an AI with zero bias. The bias is rolled at match start.
func NewAI(maxBias float64) *AI {
	return &AI{MaxBias: maxBias}
}

// TargetX aims at the ball shifted by bias paddle half-widths.
func (a *AI) TargetX(ballX float64, p *Paddle) float64 {
	return ballX + a.bias*p.Extents()
}

// Retarget rolls a new bias in [-MaxBias, MaxBias).
func (a *AI) Retarget(rng Random) {
	a.bias = RandomRange(rng, -a.MaxBias, a.MaxBias)
}

// Bias returns the current targeting bias.
func (a *AI) Bias() float64 { return a.bias }

// KeyState is an InputSource whose keys are set by the frame loop.
type KeyState struct {
	Left, Right bool
}

// Held implements InputSource.
func (k *KeyState) Held() (bool, bool) { return k.Left, k.Right }
