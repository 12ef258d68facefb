package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds every tunable for one match session.
// Values are fixed once a match is constructed.
type Config struct {
	Ball    Ball    `toml:"ball"`
	Paddle  Paddle  `toml:"paddle"`
	Motion  Motion  `toml:"motion"`
	Match   Match   `toml:"match"`
	Players Players `toml:"players"`
	Loop    Loop    `toml:"loop"`
}

// Ball configures ball speed and size.
type Ball struct {
	MaxXSpeed      float64 `toml:"max_x_speed"`       // Horizontal speed for a paddle edge hit
	MaxStartXSpeed float64 `toml:"max_start_x_speed"` // Bound for the random launch speed
	ConstantYSpeed float64 `toml:"constant_y_speed"`  // Vertical speed, never changes magnitude
	Extents        float64 `toml:"extents"`           // Half-width used for collisions
}

// Paddle configures paddle movement and shrinking.
type Paddle struct {
	Speed            float64 `toml:"speed"`
	MinExtents       float64 `toml:"min_extents"` // Half-width at pointsToWin-1
	MaxExtents       float64 `toml:"max_extents"` // Half-width at score 0
	MaxTargetingBias float64 `toml:"max_targeting_bias"`
}

// Motion configures the camera spring.
type Motion struct {
	SpringStrength  float64 `toml:"spring_strength"`
	DampingStrength float64 `toml:"damping_strength"`
	JostleStrength  float64 `toml:"jostle_strength"`
	PushStrength    float64 `toml:"push_strength"`
	MaxSubstep      float64 `toml:"max_substep"` // Seconds
}

// Match configures arena size and scoring.
type Match struct {
	PointsToWin  int     `toml:"points_to_win"`
	ArenaX       float64 `toml:"arena_x"`        // Arena half-width
	ArenaY       float64 `toml:"arena_y"`        // Arena half-height
	NewGameDelay float64 `toml:"new_game_delay"` // Seconds of countdown before a match
}

// Players selects who controls each paddle.
type Players struct {
	BottomAI bool `toml:"bottom_ai"`
	TopAI    bool `toml:"top_ai"`
}

// Loop configures the frame loop.
type Loop struct {
	FPS           int           `toml:"fps"`
	MaxFrameDelta time.Duration `toml:"max_frame_delta"` // Cap on simulated time per frame
}

// FrameTime returns the target duration of one frame.
func (l Loop) FrameTime() time.Duration {
	return time.Second / time.Duration(l.FPS)
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Ball: Ball{
			MaxXSpeed:      20,
			MaxStartXSpeed: 2,
			ConstantYSpeed: 10,
			Extents:        0.5,
		},
		Paddle: Paddle{
			Speed:            10,
			MinExtents:       2,
			MaxExtents:       4,
			MaxTargetingBias: 0.75,
		},
		Motion: Motion{
			SpringStrength:  100,
			DampingStrength: 10,
			JostleStrength:  40,
			PushStrength:    1,
			MaxSubstep:      1.0 / 60.0,
		},
		Match: Match{
			PointsToWin:  3,
			ArenaX:       10,
			ArenaY:       10,
			NewGameDelay: 3,
		},
		Players: Players{
			BottomAI: false,
			TopAI:    true,
		},
		Loop: Loop{
			FPS:           60,
			MaxFrameDelta: 50 * time.Millisecond,
		},
	}
}

// Load decodes the TOML file at path over the defaults and validates the result.
// An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("%w: unknown keys in %s: %v", ErrInvalidConfig, path, undecoded)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the simulation relies on.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Ball.MaxXSpeed >= 0, "ball.max_x_speed must be >= 0, got %g", c.Ball.MaxXSpeed)
	check(c.Ball.MaxStartXSpeed >= 0, "ball.max_start_x_speed must be >= 0, got %g", c.Ball.MaxStartXSpeed)
	check(c.Ball.ConstantYSpeed > 0, "ball.constant_y_speed must be > 0, got %g", c.Ball.ConstantYSpeed)
	check(c.Ball.Extents >= 0, "ball.extents must be >= 0, got %g", c.Ball.Extents)

	check(c.Paddle.Speed >= 0, "paddle.speed must be >= 0, got %g", c.Paddle.Speed)
	check(c.Paddle.MinExtents >= 0, "paddle.min_extents must be >= 0, got %g", c.Paddle.MinExtents)
	check(c.Paddle.MinExtents <= c.Paddle.MaxExtents,
		"paddle.min_extents (%g) must not exceed paddle.max_extents (%g)", c.Paddle.MinExtents, c.Paddle.MaxExtents)
	check(c.Paddle.MaxTargetingBias >= 0, "paddle.max_targeting_bias must be >= 0, got %g", c.Paddle.MaxTargetingBias)
	check(c.Paddle.MinExtents+c.Ball.Extents > 0, "paddle.min_extents + ball.extents must be > 0")

	check(c.Motion.SpringStrength >= 0, "motion.spring_strength must be >= 0, got %g", c.Motion.SpringStrength)
	check(c.Motion.DampingStrength >= 0, "motion.damping_strength must be >= 0, got %g", c.Motion.DampingStrength)
	check(c.Motion.MaxSubstep > 0, "motion.max_substep must be > 0, got %g", c.Motion.MaxSubstep)

	check(c.Match.PointsToWin >= 2, "match.points_to_win must be >= 2, got %d", c.Match.PointsToWin)
	check(c.Match.ArenaX > 0 && c.Match.ArenaY > 0,
		"match arena extents must be > 0, got (%g, %g)", c.Match.ArenaX, c.Match.ArenaY)
	check(c.Paddle.MaxExtents < c.Match.ArenaX,
		"paddle.max_extents (%g) must be smaller than match.arena_x (%g)", c.Paddle.MaxExtents, c.Match.ArenaX)
	check(c.Ball.Extents < c.Match.ArenaX && c.Ball.Extents < c.Match.ArenaY, "ball.extents must fit inside the arena")
	check(c.Match.NewGameDelay >= 1, "match.new_game_delay must be >= 1, got %g", c.Match.NewGameDelay)

	check(c.Loop.FPS > 0, "loop.fps must be > 0, got %d", c.Loop.FPS)
	check(c.Loop.MaxFrameDelta > 0, "loop.max_frame_delta must be > 0, got %s", c.Loop.MaxFrameDelta)

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
