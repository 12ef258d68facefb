package physics

// MotionParams configures a SecondaryMotion spring.
type MotionParams struct {
	SpringStrength  float64
	DampingStrength float64
	JostleStrength  float64
	PushStrength    float64
	MaxSubstep      float64 // Largest stable integration step in seconds
}

// SecondaryMotion is a damped spring-mass system pulled toward an anchor.
// Collisions kick it through Jostle and Push; Advance lets it settle.
// It only drives presentation and never feeds back into gameplay.
type SecondaryMotion struct {
	params   MotionParams
	anchor   Vec3
	position Vec3
	velocity Vec3

	onStep func(dt float64) // observes every integration step (tests)
}

// NewSecondaryMotion creates a spring at rest on anchor.
func NewSecondaryMotion(anchor Vec3, params MotionParams) *SecondaryMotion {
	return &SecondaryMotion{
		params:   params,
		anchor:   anchor,
		position: anchor,
	}
}

// Jostle kicks the spring vertically.
func (m *SecondaryMotion) Jostle() {
	m.velocity.Y += m.params.JostleStrength
}

// Push kicks the spring in the arena plane, proportional to impulse.
// impulse.X maps to the X axis and impulse.Y to the Z axis.
func (m *SecondaryMotion) Push(impulse Vec2) {
	m.velocity.X += m.params.PushStrength * impulse.X
	m.velocity.Z += m.params.PushStrength * impulse.Y
}

// Advance integrates dt seconds. Frames longer than MaxSubstep are split
// into MaxSubstep slices followed by the remainder, since a single large
// step with stiff constants diverges.
func (m *SecondaryMotion) Advance(dt float64) {
	for dt > m.params.MaxSubstep {
		m.step(m.params.MaxSubstep)
		dt -= m.params.MaxSubstep
	}
	m.step(dt)
}

// step is one semi-implicit Euler step.
func (m *SecondaryMotion) step(dt float64) {
	if m.onStep != nil {
		m.onStep(dt)
	}
	displacement := m.anchor.Sub(m.position)
	acceleration := displacement.Scale(m.params.SpringStrength).Sub(m.velocity.Scale(m.params.DampingStrength))
	m.velocity = m.velocity.Add(acceleration.Scale(dt))
	m.position = m.position.Add(m.velocity.Scale(dt))
}

// SetPosition moves the spring without changing its velocity.
func (m *SecondaryMotion) SetPosition(p Vec3) {
	m.position = p
}

// Position returns the current spring position.
func (m *SecondaryMotion) Position() Vec3 {
	return m.position
}

// Offset returns the displacement from the anchor.
func (m *SecondaryMotion) Offset() Vec3 {
	return m.position.Sub(m.anchor)
}

// Velocity returns the current spring velocity.
func (m *SecondaryMotion) Velocity() Vec3 {
	return m.velocity
}

// Anchor returns the rest position.
func (m *SecondaryMotion) Anchor() Vec3 {
	return m.anchor
}
