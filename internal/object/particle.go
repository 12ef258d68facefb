package object

import (
	"math"
	"sync"

	"github.com/tomz197/paddles/internal/physics"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived spark thrown off by bounces and launches.
type Particle struct {
	Position    physics.Vec2
	Velocity    physics.Vec2
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64
	Drag        float64 // Velocity kept per 1/60 s (1.0 = no drag)
}

// NewParticle takes a particle from the pool.
func NewParticle(position, velocity physics.Vec2, lifetime float64) *Particle {
	p := particlePool.Get().(*Particle)
	p.Position = position
	p.Velocity = velocity
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.9
	return p
}

// Release returns the particle to the pool.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Direction returns the unit vector an effect facing angle degrees points
// along: 0 is up the arena, 90 is right.
func Direction(angle float64) physics.Vec2 {
	rad := angle * math.Pi / 180
	return physics.Vec2{X: math.Sin(rad), Y: math.Cos(rad)}
}

// SpawnBurst throws count particles from position in a 120° cone around
// the direction given by angle.
func SpawnBurst(position physics.Vec2, angle float64, count int, speed float64, rng Random) []*Particle {
	out := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		a := angle + RandomRange(rng, -60, 60)
		spd := speed * (0.5 + rng.Float64())
		life := 0.2 + rng.Float64()*0.3
		out = append(out, NewParticle(position, Direction(a).Scale(spd), life))
	}
	return out
}

// SpawnRing throws count particles evenly in every direction.
func SpawnRing(position physics.Vec2, count int, speed float64, rng Random) []*Particle {
	out := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		a := 360 * float64(i) / float64(count)
		spd := speed * (0.75 + 0.5*rng.Float64())
		out = append(out, NewParticle(position, Direction(a).Scale(spd), 0.6))
	}
	return out
}

// Update advances the particle and reports whether it has expired.
func (p *Particle) Update(dt float64) (expired bool) {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}
	p.Velocity = p.Velocity.Scale(math.Pow(p.Drag, dt*60))
	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	return false
}

// Draw renders the particle as a single pixel until its last quarter of life.
func (p *Particle) Draw(ctx DrawContext) {
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return
	}
	pt := ctx.ToCanvas(p.Position)
	ctx.Canvas.SetFloat(pt.X, pt.Y)
}
