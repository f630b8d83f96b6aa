package vehicle

import (
	"github.com/pkg/errors"

	"github.com/jetracer/goalnav/control"
	"github.com/jetracer/goalnav/utils"
)

// Defaults tuned on the JetRacer.
const (
	DefaultHeadingBias = 0.04
	DefaultGoalEpsilon = 0.2
	DefaultSteeringMin = -1.0
	DefaultSteeringMax = 1.0
	DefaultThrottleMin = 0.0
	DefaultThrottleMax = 0.2
)

// Config holds every tunable of the controller.
type Config struct {
	HeadingPID  control.PIDConfig `json:"heading_pid"`
	DistancePID control.PIDConfig `json:"distance_pid"`

	// HeadingBias is added to the steering output to trim a systematic actuator offset.
	HeadingBias float64 `json:"heading_bias"`
	// GoalEpsilon is the goal deadband in meters: within it throttle is forced to 0.
	GoalEpsilon float64 `json:"goal_epsilon_m"`

	SteeringMin float64 `json:"steering_min"`
	SteeringMax float64 `json:"steering_max"`
	ThrottleMin float64 `json:"throttle_min"`
	ThrottleMax float64 `json:"throttle_max"`
}

// DefaultConfig returns the configuration the controller was tuned with.
func DefaultConfig() Config {
	return Config{
		HeadingPID:  control.PIDConfig{Name: "heading", Kp: 0.3, Ki: 0.0, Kd: 0.02},
		DistancePID: control.PIDConfig{Name: "distance", Kp: 0.25, Ki: 0.0, Kd: 0.4},
		HeadingBias: DefaultHeadingBias,
		GoalEpsilon: DefaultGoalEpsilon,
		SteeringMin: DefaultSteeringMin,
		SteeringMax: DefaultSteeringMax,
		ThrottleMin: DefaultThrottleMin,
		ThrottleMax: DefaultThrottleMax,
	}
}

// Validate checks the gains, deadband and output bounds.
func (conf *Config) Validate(path string) error {
	if err := conf.HeadingPID.Validate(path + ".heading_pid"); err != nil {
		return err
	}
	if err := conf.DistancePID.Validate(path + ".distance_pid"); err != nil {
		return err
	}
	if !utils.IsFinite(conf.HeadingBias, conf.GoalEpsilon,
		conf.SteeringMin, conf.SteeringMax, conf.ThrottleMin, conf.ThrottleMax) {
		return utils.NewConfigValidationError(path, errors.New("all controller values must be finite numbers"))
	}
	if conf.GoalEpsilon < 0 {
		return utils.NewConfigValidationError(path, utils.NewOutOfRangeError("goal_epsilon_m", conf.GoalEpsilon, "non-negative"))
	}
	if conf.SteeringMin > conf.SteeringMax {
		return utils.NewConfigValidationError(path,
			errors.Errorf("steering_min (%v) must not exceed steering_max (%v)", conf.SteeringMin, conf.SteeringMax))
	}
	if conf.ThrottleMin > conf.ThrottleMax {
		return utils.NewConfigValidationError(path,
			errors.Errorf("throttle_min (%v) must not exceed throttle_max (%v)", conf.ThrottleMin, conf.ThrottleMax))
	}
	return nil
}
