package match

import (
	"github.com/tomz197/paddles/internal/config"
	"github.com/tomz197/paddles/internal/object"
	"github.com/tomz197/paddles/internal/physics"
)

// NewFromConfig wires a ball, two paddles and a camera spring from cfg.
// input steers every paddle cfg.Players leaves to a human.
func NewFromConfig(cfg config.Config, rng object.Random, input object.InputSource, notifier object.Notifier) *Controller {
	if notifier == nil {
		notifier = object.NopNotifier{}
	}

	control := func(ai bool) object.Control {
		if ai || input == nil {
			return object.NewAI(cfg.Paddle.MaxTargetingBias)
		}
		return &object.Human{Input: input}
	}

	ball := object.NewBall(cfg.Ball, rng, notifier)
	bottom := object.NewPaddle(object.SideBottom, -cfg.Match.ArenaY, cfg.Paddle, control(cfg.Players.BottomAI), rng, notifier)
	top := object.NewPaddle(object.SideTop, cfg.Match.ArenaY, cfg.Paddle, control(cfg.Players.TopAI), rng, notifier)
	camera := physics.NewSecondaryMotion(physics.Vec3{}, physics.MotionParams{
		SpringStrength:  cfg.Motion.SpringStrength,
		DampingStrength: cfg.Motion.DampingStrength,
		JostleStrength:  cfg.Motion.JostleStrength,
		PushStrength:    cfg.Motion.PushStrength,
		MaxSubstep:      cfg.Motion.MaxSubstep,
	})

	return New(cfg.Match, ball, bottom, top, camera, notifier)
}
