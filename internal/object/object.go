// Package object holds the arena entities: the ball, the paddles and the
// short-lived particles spawned by collisions.
package object

import (
	"github.com/tomz197/paddles/internal/draw"
	"github.com/tomz197/paddles/internal/physics"
)

// Side identifies a paddle by the arena edge it defends.
type Side int

const (
	SideBottom Side = iota
	SideTop
)

func (s Side) String() string {
	if s == SideTop {
		return "top"
	}
	return "bottom"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideTop {
		return SideBottom
	}
	return SideTop
}

// BounceKind identifies which wall the ball bounced off.
type BounceKind int

const (
	BounceBottom BounceKind = iota
	BounceTop
	BounceLeft
	BounceRight
)

func (k BounceKind) String() string {
	switch k {
	case BounceTop:
		return "top"
	case BounceLeft:
		return "left"
	case BounceRight:
		return "right"
	default:
		return "bottom"
	}
}

// Angle returns the direction, in degrees, that bounce effects face.
func (k BounceKind) Angle() float64 {
	switch k {
	case BounceTop:
		return 180
	case BounceLeft:
		return 90
	case BounceRight:
		return 270
	default:
		return 0
	}
}

// CountdownKind selects what the countdown overlay shows.
type CountdownKind int

const (
	CountdownHidden CountdownKind = iota
	CountdownValue
	CountdownGameOver
)

// CountdownDisplay is the state of the countdown overlay.
type CountdownDisplay struct {
	Kind  CountdownKind
	Value int // Seconds remaining, rounded up (CountdownValue only)
}

// Notifier receives fire-and-forget presentation events from the simulation.
// The simulation never depends on what a Notifier does.
type Notifier interface {
	BallLaunched()
	BallBounced(kind BounceKind)
	PaddleHit(side Side)
	ScoreChanged(side Side, score int)
	CountdownChanged(display CountdownDisplay)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) BallLaunched()                     {}
func (NopNotifier) BallBounced(BounceKind)            {}
func (NopNotifier) PaddleHit(Side)                    {}
func (NopNotifier) ScoreChanged(Side, int)            {}
func (NopNotifier) CountdownChanged(CountdownDisplay) {}

var _ Notifier = NopNotifier{}

// EventType identifies a recorded event.
type EventType int

const (
	EventBallLaunched EventType = iota
	EventBallBounced
	EventPaddleHit
	EventScoreChanged
	EventCountdownChanged
)

// Event is one notification captured by a Recorder.
type Event struct {
	Type      EventType
	Bounce    BounceKind       // EventBallBounced
	Side      Side             // EventPaddleHit, EventScoreChanged
	Score     int              // EventScoreChanged
	Countdown CountdownDisplay // EventCountdownChanged
}

// Recorder is a Notifier that keeps every event in order.
type Recorder struct {
	Events []Event
}

var _ Notifier = (*Recorder)(nil)

func (r *Recorder) BallLaunched() {
	r.Events = append(r.Events, Event{Type: EventBallLaunched})
}

func (r *Recorder) BallBounced(kind BounceKind) {
	r.Events = append(r.Events, Event{Type: EventBallBounced, Bounce: kind})
}

func (r *Recorder) PaddleHit(side Side) {
	r.Events = append(r.Events, Event{Type: EventPaddleHit, Side: side})
}

func (r *Recorder) ScoreChanged(side Side, score int) {
	r.Events = append(r.Events, Event{Type: EventScoreChanged, Side: side, Score: score})
}

func (r *Recorder) CountdownChanged(display CountdownDisplay) {
	r.Events = append(r.Events, Event{Type: EventCountdownChanged, Countdown: display})
}

// Filter returns the recorded events of the given type.
func (r *Recorder) Filter(t EventType) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

// Random is the source of randomness for launches and AI targeting.
// *rand.Rand satisfies it; tests inject seeded or scripted sources.
type Random interface {
	Float64() float64
}

// RandomRange returns a value in [lo, hi).
func RandomRange(r Random, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// DrawContext maps arena coordinates onto a canvas.
// The arena is centered on the origin with Y pointing up; the canvas
// has its origin top-left with Y pointing down.
type DrawContext struct {
	Canvas *draw.Canvas
	Origin draw.Point   // Canvas position of the arena origin
	Offset physics.Vec2 // Camera offset in arena units
}

// ToCanvas converts an arena position to logical canvas coordinates.
func (ctx DrawContext) ToCanvas(p physics.Vec2) draw.Point {
	return draw.Point{
		X: ctx.Origin.X + p.X - ctx.Offset.X,
		Y: ctx.Origin.Y - p.Y + ctx.Offset.Y,
	}
}

// Drawable is anything the frame renderer draws onto the canvas.
type Drawable interface {
	Draw(ctx DrawContext)
}
