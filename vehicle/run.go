package vehicle

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/jetracer/goalnav/logging"
	"github.com/jetracer/goalnav/spatialmath"
)

// PoseSource delivers the vehicle's poses in arrival order. NextPose blocks until a pose is
// available and returns io.EOF once the stream is exhausted.
type PoseSource interface {
	NextPose(ctx context.Context) (spatialmath.Pose, error)
}

// Actuator receives normalized commands. Values fall within the controller's configured
// steering and throttle bounds.
type Actuator interface {
	SetSteering(ctx context.Context, value float64) error
	SetThrottle(ctx context.Context, value float64) error
}

// StepObserver is notified after every control step has been published.
type StepObserver func(Step)

// Run feeds every pose from source through ctrl and publishes the resulting commands,
// steering first. It returns nil when the source is exhausted or ctx is cancelled and the
// first source or actuator error otherwise.
func Run(
	ctx context.Context,
	ctrl *Controller,
	source PoseSource,
	actuator Actuator,
	logger logging.Logger,
	observers ...StepObserver,
) error {
	logger.Infow("driving to goal", "goal", ctrl.Goal().String())
	for {
		if ctx.Err() != nil {
			logger.Info("stopping controller")
			return nil
		}

		pose, err := source.NextPose(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Info("pose stream ended")
				return nil
			}
			if ctx.Err() != nil {
				logger.Info("stopping controller")
				return nil
			}
			return errors.Wrap(err, "failed to read pose")
		}

		step := ctrl.Step(pose)
		if err := actuator.SetSteering(ctx, step.Command.Steering); err != nil {
			return errors.Wrap(err, "failed to publish steering")
		}
		if err := actuator.SetThrottle(ctx, step.Command.Throttle); err != nil {
			return errors.Wrap(err, "failed to publish throttle")
		}
		for _, obs := range observers {
			obs(step)
		}
	}
}

// LogActuator is an Actuator that only logs the commands it receives and remembers the last
// pair. Used for dry runs against recorded data.
type LogActuator struct {
	mu       sync.Mutex
	logger   logging.Logger
	steering float64
	throttle float64
	count    int
}

// NewLogActuator returns a LogActuator writing to logger.
func NewLogActuator(logger logging.Logger) *LogActuator {
	return &LogActuator{logger: logger}
}

// SetSteering records and logs a steering command.
func (a *LogActuator) SetSteering(ctx context.Context, value float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.steering = value
	a.logger.Debugw("steering", "value", value)
	return nil
}

// SetThrottle records and logs a throttle command.
func (a *LogActuator) SetThrottle(ctx context.Context, value float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.throttle = value
	a.count++
	a.logger.Debugw("throttle", "value", value)
	return nil
}

// Last returns the most recent command and how many throttle commands were published.
func (a *LogActuator) Last() (Command, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Command{Steering: a.steering, Throttle: a.throttle}, a.count
}
