// Package vehicle drives a ground vehicle toward a fixed goal from a stream of poses.
package vehicle

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/jetracer/goalnav/control"
	"github.com/jetracer/goalnav/logging"
	"github.com/jetracer/goalnav/navigation"
	"github.com/jetracer/goalnav/spatialmath"
	"github.com/jetracer/goalnav/utils"
)

// Command is the actuator output of one control step.
type Command struct {
	Steering float64 `json:"steering"`
	Throttle float64 `json:"throttle"`
}

// Step records everything computed for one pose.
type Step struct {
	Time        time.Time
	Pose        spatialmath.Pose
	Errors      navigation.Errors
	RawSteering float64
	RawThrottle float64
	Command     Command
}

// Controller owns a heading PID and a distance PID and turns each pose into a Command.
// It has a single operating mode and keeps reacting to poses after reaching the goal.
type Controller struct {
	mu       sync.Mutex
	goal     navigation.Goal
	cfg      Config
	clock    clock.Clock
	heading  *control.PID
	distance *control.PID
	logger   logging.Logger
}

// NewController returns a controller for goal. Both PIDs measure time on clk; nil means
// the wall clock. A nil logger logs through the global logger.
func NewController(goal navigation.Goal, cfg Config, clk clock.Clock, logger logging.Logger) (*Controller, error) {
	if err := cfg.Validate("controller"); err != nil {
		return nil, err
	}
	if _, err := navigation.NewGoal(goal.X, goal.Y); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = logging.Global().Sublogger("controller")
	}

	heading, err := control.NewPID(cfg.HeadingPID, clk)
	if err != nil {
		return nil, err
	}
	distance, err := control.NewPID(cfg.DistancePID, clk)
	if err != nil {
		return nil, err
	}

	return &Controller{
		goal:     goal,
		cfg:      cfg,
		clock:    clk,
		heading:  heading,
		distance: distance,
		logger:   logger,
	}, nil
}

// OnPose runs one control step and returns the command to send.
func (c *Controller) OnPose(pose spatialmath.Pose) Command {
	return c.Step(pose).Command
}

// Step runs one control step and returns the full record of it. Calls are serialized.
func (c *Controller) Step(pose spatialmath.Pose) Step {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !pose.IsFinite() {
		c.logger.Warnw("pose has non-finite components", "pose", pose.String())
	}

	errs := navigation.ComputeErrors(pose, c.goal)

	rawSteering := c.heading.Update(errs.Heading)
	rawThrottle := c.distance.Update(errs.Distance)

	steering := utils.Clamp(rawSteering+c.cfg.HeadingBias, c.cfg.SteeringMin, c.cfg.SteeringMax)
	throttle := 0.0
	if errs.Distance > c.cfg.GoalEpsilon {
		throttle = utils.Clamp(rawThrottle, c.cfg.ThrottleMin, c.cfg.ThrottleMax)
	}

	step := Step{
		Time:        c.clock.Now(),
		Pose:        pose,
		Errors:      errs,
		RawSteering: rawSteering,
		RawThrottle: rawThrottle,
		Command:     Command{Steering: steering, Throttle: throttle},
	}
	c.logger.Debugw("control step",
		"x", pose.Position.X,
		"y", pose.Position.Y,
		"yaw", errs.Yaw,
		"heading_error", errs.Heading,
		"distance_error", errs.Distance,
		"steering", steering,
		"throttle", throttle,
	)
	return step
}

// Reset clears both PIDs. Needed whenever the error signals start over, e.g. after the
// vehicle was repositioned by hand.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.heading.Reset()
	c.distance.Reset()
}

// Goal returns the goal the controller drives toward.
func (c *Controller) Goal() navigation.Goal {
	return c.goal
}

// Config returns the controller configuration.
func (c *Controller) Config() Config {
	return c.cfg
}
