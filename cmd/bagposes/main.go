// Package main dumps the poses recorded in a rosbag as JSON lines, one per message, with
// the roll, pitch and yaw and the errors relative to an optional goal.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/jetracer/goalnav/logging"
	"github.com/jetracer/goalnav/navigation"
	"github.com/jetracer/goalnav/ros"
	"github.com/jetracer/goalnav/spatialmath"
	"github.com/jetracer/goalnav/utils"
)

var logger = logging.NewLogger("bagposes")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	BagFile string `flag:"0,required,usage=rosbag file"`
	Topic   string `flag:"topic,usage=pose topic"`
	GoalX   string `flag:"goal-x,usage=goal x coordinate in meters"`
	GoalY   string `flag:"goal-y,usage=goal y coordinate in meters"`
	Plot    string `flag:"plot,usage=also draw the trajectory to this png or svg file"`
	Degrees bool   `flag:"degrees,usage=write angles in degrees instead of radians"`
}

type poseLine struct {
	Time          time.Time `json:"time"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Roll          float64   `json:"roll"`
	Pitch         float64   `json:"pitch"`
	Yaw           float64   `json:"yaw"`
	HeadingError  *float64  `json:"heading_error,omitempty"`
	DistanceError *float64  `json:"distance_error,omitempty"`
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	logging.ReplaceGlobal(logger)
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Topic == "" {
		argsParsed.Topic = ros.DefaultPoseTopic
	}

	var goal *navigation.Goal
	if argsParsed.GoalX != "" || argsParsed.GoalY != "" {
		g, err := navigation.ParseGoal(argsParsed.GoalX, argsParsed.GoalY)
		if err != nil {
			return err
		}
		goal = &g
	}

	rb, err := ros.ReadBag(argsParsed.BagFile)
	if err != nil {
		return err
	}
	msgs, err := ros.PoseMessagesForTopic(rb, argsParsed.Topic, ros.TimeRange{})
	if err != nil {
		return err
	}
	logger.Debugw("read poses", "topic", argsParsed.Topic, "count", len(msgs))

	if err := writePoses(ctx, os.Stdout, msgs, goal, argsParsed.Degrees); err != nil {
		return err
	}
	if argsParsed.Plot != "" {
		if err := plotTrajectory(argsParsed.Plot, msgs, goal); err != nil {
			return err
		}
		logger.Infow("wrote trajectory plot", "path", argsParsed.Plot)
	}
	return nil
}

// writePoses encodes one poseLine per message. Angles are in radians unless degrees is set;
// the distance error stays in meters.
func writePoses(ctx context.Context, w io.Writer, msgs []ros.PoseStampedMessage, goal *navigation.Goal, degrees bool) error {
	angle := func(radians float64) float64 {
		if degrees {
			return utils.RadToDeg(radians)
		}
		return radians
	}

	enc := json.NewEncoder(w)
	for i := range msgs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		pose := msgs[i].Pose()
		ea := spatialmath.EulerAnglesFromQuaternion(pose.Orientation)
		line := poseLine{
			Time:  msgs[i].Time().UTC(),
			X:     pose.Position.X,
			Y:     pose.Position.Y,
			Roll:  angle(ea.Roll),
			Pitch: angle(ea.Pitch),
			Yaw:   angle(ea.Yaw),
		}
		if goal != nil {
			errs := navigation.ComputeErrors(pose, *goal)
			heading := angle(errs.Heading)
			line.HeadingError = &heading
			line.DistanceError = &errs.Distance
		}
		if err := enc.Encode(line); err != nil {
			return errors.Wrapf(err, "failed to write pose %d", i)
		}
	}
	return nil
}
