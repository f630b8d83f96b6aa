// Package main drives the vehicle to a goal given on the command line.
//
//	goalnav [flags] <x> <y>
//
// Poses come from a websocket client by default, or from a recorded rosbag with --bag.
// Negative coordinates must follow "--", e.g. goalnav -- -1.5 2.
package main

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/jetracer/goalnav/config"
	"github.com/jetracer/goalnav/logging"
	"github.com/jetracer/goalnav/navigation"
	"github.com/jetracer/goalnav/ros"
	"github.com/jetracer/goalnav/vehicle"
	"github.com/jetracer/goalnav/wsbridge"
)

const usage = "usage: goalnav [flags] <x> <y>"

var logger = logging.NewLogger("goalnav")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	GoalX      string `flag:"0,usage=goal x coordinate in meters"`
	GoalY      string `flag:"1,usage=goal y coordinate in meters"`
	ConfigFile string `flag:"config,usage=controller config file"`
	Bag        string `flag:"bag,usage=replay poses from this rosbag instead of listening"`
	Topic      string `flag:"topic,usage=pose topic to replay"`
	Rate       int    `flag:"rate,usage=replay rate in poses per second (0 is as fast as possible)"`
	Listen     string `flag:"listen,usage=websocket bridge address"`
	LogFile    string `flag:"log-file,usage=also write logs to this file"`
	Debug      bool   `flag:"debug"`
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	logging.ReplaceGlobal(logger)
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	goal, err := navigation.ParseGoal(argsParsed.GoalX, argsParsed.GoalY)
	if err != nil {
		return errors.Wrap(err, usage)
	}

	cfg, err := loadConfig(argsParsed, logger)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.LogLevel())
	if cfg.Log.File != "" {
		fileAppender := logging.NewFileAppender(cfg.Log.File)
		logger.AddAppender(fileAppender)
		defer func() {
			utils.UncheckedError(logger.Sync())
			utils.UncheckedError(fileAppender.Close())
		}()
	}

	switch cfg.Source.Type {
	case config.SourceRosbag:
		return replayBag(ctx, goal, cfg, logger)
	default:
		return serveBridge(ctx, goal, cfg, logger)
	}
}

// loadConfig reads the config file if one was given and applies flag overrides on top.
func loadConfig(argsParsed Arguments, logger logging.Logger) (*config.Config, error) {
	cfg := config.Default()
	if argsParsed.ConfigFile != "" {
		read, err := config.Read(argsParsed.ConfigFile, logger)
		if err != nil {
			return nil, err
		}
		cfg = *read
	}

	if argsParsed.Bag != "" {
		cfg.Source.Type = config.SourceRosbag
		cfg.Source.BagPath = argsParsed.Bag
	}
	if argsParsed.Topic != "" {
		cfg.Source.Topic = argsParsed.Topic
	}
	if argsParsed.Rate != 0 {
		cfg.Source.RateHz = float64(argsParsed.Rate)
	}
	if argsParsed.Listen != "" {
		cfg.Source.Type = config.SourceWebsocket
		cfg.Source.Address = argsParsed.Listen
	}
	if argsParsed.LogFile != "" {
		cfg.Log.File = argsParsed.LogFile
	}
	if argsParsed.Debug {
		cfg.Log.Level = logging.DEBUG.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func replayBag(ctx context.Context, goal navigation.Goal, cfg *config.Config, logger logging.Logger) error {
	rb, err := ros.ReadBag(cfg.Source.BagPath)
	if err != nil {
		return err
	}
	msgs, err := ros.PoseMessagesForTopic(rb, cfg.Source.Topic, ros.TimeRange{})
	if err != nil {
		return err
	}

	// Controller time follows the recorded timestamps.
	replay := clock.NewMock()
	source, err := ros.NewBagPoseSource(msgs, replay)
	if err != nil {
		return err
	}
	source.Pace(clock.New(), cfg.Source.RateHz)
	defer source.Close()

	ctrl, err := vehicle.NewController(goal, cfg.Controller, replay, logger.Sublogger("controller"))
	if err != nil {
		return err
	}
	var recorder vehicle.Recorder
	actuator := vehicle.NewLogActuator(logger.Sublogger("actuator"))

	utils.ContextMainReadyFunc(ctx)()
	logger.Infow("replaying bag", "path", cfg.Source.BagPath, "topic", cfg.Source.Topic, "poses", len(msgs))
	if err := vehicle.Run(ctx, ctrl, source, actuator, logger, recorder.Record); err != nil {
		return err
	}

	summary, err := vehicle.Summarize(recorder.Steps(), cfg.Controller.GoalEpsilon)
	if err != nil {
		return err
	}
	logger.Infow("replay finished",
		"steps", summary.Steps,
		"final_distance_m", summary.FinalDistance,
		"min_distance_m", summary.MinDistance,
		"mean_distance_m", summary.MeanDistance,
		"mean_period_s", summary.MeanPeriod,
		"max_period_s", summary.MaxPeriod,
		"reached_goal", summary.ReachedGoal,
	)
	return nil
}

func serveBridge(ctx context.Context, goal navigation.Goal, cfg *config.Config, logger logging.Logger) (err error) {
	ctrl, err := vehicle.NewController(goal, cfg.Controller, clock.New(), logger.Sublogger("controller"))
	if err != nil {
		return err
	}

	bridge := wsbridge.NewServer(logger.Sublogger("bridge"))
	defer func() {
		err = multierr.Combine(err, bridge.Close())
	}()
	if err := bridge.Listen(cfg.Source.Address); err != nil {
		return err
	}

	utils.ContextMainReadyFunc(ctx)()
	return vehicle.Run(ctx, ctrl, bridge, bridge, logger)
}
