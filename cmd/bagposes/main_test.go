package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/jetracer/goalnav/logging"
	"github.com/jetracer/goalnav/navigation"
	"github.com/jetracer/goalnav/ros"
)

func TestWritePoses(t *testing.T) {
	var msg ros.PoseStampedMessage
	msg.Meta = ros.Stamp{Secs: 10}
	msg.Data.Pose.Position.X = 3
	msg.Data.Pose.Position.Y = 4
	msg.Data.Pose.Orientation.W = 1

	var buf bytes.Buffer
	test.That(t, writePoses(context.Background(), &buf, []ros.PoseStampedMessage{msg}, nil, false), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldNotContainSubstring, "distance_error")

	buf.Reset()
	goal := navigation.Goal{}
	test.That(t, writePoses(context.Background(), &buf, []ros.PoseStampedMessage{msg, msg}, &goal, false), test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	test.That(t, len(lines), test.ShouldEqual, 2)

	var line poseLine
	test.That(t, json.Unmarshal([]byte(lines[0]), &line), test.ShouldBeNil)
	test.That(t, line.X, test.ShouldEqual, 3.0)
	test.That(t, *line.DistanceError, test.ShouldAlmostEqual, 5)
}

func TestWritePosesAngles(t *testing.T) {
	// 90 degrees about x, then the same pose yawed 90 degrees about z.
	var rolled ros.PoseStampedMessage
	rolled.Data.Pose.Orientation.X = math.Sqrt2 / 2
	rolled.Data.Pose.Orientation.W = math.Sqrt2 / 2
	var yawed ros.PoseStampedMessage
	yawed.Data.Pose.Position.X = 1
	yawed.Data.Pose.Orientation.Z = math.Sqrt2 / 2
	yawed.Data.Pose.Orientation.W = math.Sqrt2 / 2
	msgs := []ros.PoseStampedMessage{rolled, yawed}
	goal := navigation.Goal{X: 1, Y: 1}

	decode := func(degrees bool) []poseLine {
		var buf bytes.Buffer
		test.That(t, writePoses(context.Background(), &buf, msgs, &goal, degrees), test.ShouldBeNil)
		var lines []poseLine
		dec := json.NewDecoder(&buf)
		for dec.More() {
			var line poseLine
			test.That(t, dec.Decode(&line), test.ShouldBeNil)
			lines = append(lines, line)
		}
		test.That(t, lines, test.ShouldHaveLength, 2)
		return lines
	}

	lines := decode(false)
	test.That(t, lines[0].Roll, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, lines[0].Pitch, test.ShouldAlmostEqual, 0)
	test.That(t, lines[0].Yaw, test.ShouldAlmostEqual, 0)
	test.That(t, lines[1].Roll, test.ShouldAlmostEqual, 0)
	test.That(t, lines[1].Yaw, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, *lines[1].HeadingError, test.ShouldAlmostEqual, 0)

	lines = decode(true)
	test.That(t, lines[0].Roll, test.ShouldAlmostEqual, 90)
	test.That(t, lines[1].Yaw, test.ShouldAlmostEqual, 90)
	test.That(t, *lines[0].HeadingError, test.ShouldAlmostEqual, 45)
	test.That(t, *lines[1].DistanceError, test.ShouldAlmostEqual, 1)
}

func TestMainWithArgsErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)

	err := mainWithArgs(context.Background(), []string{"bagposes", "--goal-x=1", "run.bag"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "goal y coordinate is required")

	err = mainWithArgs(context.Background(), []string{"bagposes", "/nonexistent.bag"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unable to open input file")
}

func TestPlotTrajectory(t *testing.T) {
	test.That(t, plotTrajectory(filepath.Join(t.TempDir(), "empty.png"), nil, nil), test.ShouldNotBeNil)

	msgs := make([]ros.PoseStampedMessage, 3)
	for i := range msgs {
		msgs[i].Data.Pose.Position.X = float64(i) * 0.5
		msgs[i].Data.Pose.Orientation.W = 1
	}
	goal := navigation.Goal{X: 1.5, Y: 0.5}
	path := filepath.Join(t.TempDir(), "trajectory.png")
	test.That(t, plotTrajectory(path, msgs, &goal), test.ShouldBeNil)

	info, err := os.Stat(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)
}
