package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/jetracer/goalnav/config"
	"github.com/jetracer/goalnav/logging"
)

func TestMainWithArgsGoalErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)
	for _, tc := range []struct {
		name string
		args []string
		err  string
	}{
		{"no goal", nil, "goal x coordinate is required"},
		{"missing y", []string{"1.0"}, "goal y coordinate is required"},
		{"bad x", []string{"abc", "2"}, `invalid goal x coordinate "abc"`},
		{"infinite", []string{"inf", "2"}, "goal coordinates must be finite"},
		// The goal is checked before anything else is opened.
		{"bad goal with missing config", []string{"--config=/nonexistent.json", "x", "1"}, "invalid goal x coordinate"},
		{"unknown flag", []string{"--unknown", "1", "2"}, "not defined"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := mainWithArgs(context.Background(), append([]string{"goalnav"}, tc.args...), logger)
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
		})
	}
}

func TestMainWithArgsConfigErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)

	err := mainWithArgs(context.Background(), []string{"goalnav", "--config=/nonexistent.json", "1", "2"}, logger)
	test.That(t, err, test.ShouldNotBeNil)

	path := filepath.Join(t.TempDir(), "bad.json")
	test.That(t, os.WriteFile(path, []byte(`{"controller": {"goal_epsilon_m": -1}}`), 0o600), test.ShouldBeNil)
	err = mainWithArgs(context.Background(), []string{"goalnav", "--config=" + path, "1", "2"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"goal_epsilon_m" must be non-negative`)

	err = mainWithArgs(context.Background(), []string{"goalnav", "--bag=/nonexistent.bag", "1", "2"}, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unable to open input file")
}

func TestLoadConfigOverrides(t *testing.T) {
	logger := logging.NewTestLogger(t)

	cfg, err := loadConfig(Arguments{Bag: "run.bag", Topic: "car/pose", Rate: 50, Debug: true}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Source.Type, test.ShouldEqual, config.SourceRosbag)
	test.That(t, cfg.Source.BagPath, test.ShouldEqual, "run.bag")
	test.That(t, cfg.Source.Topic, test.ShouldEqual, "car/pose")
	test.That(t, cfg.Source.RateHz, test.ShouldEqual, 50.0)
	test.That(t, cfg.LogLevel(), test.ShouldEqual, logging.DEBUG)

	path := filepath.Join(t.TempDir(), "goalnav.json")
	test.That(t, os.WriteFile(path, []byte(`{"source": {"type": "rosbag", "bag_path": "a.bag"}}`), 0o600), test.ShouldBeNil)
	cfg, err = loadConfig(Arguments{ConfigFile: path, Listen: "localhost:9999"}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Source.Type, test.ShouldEqual, config.SourceWebsocket)
	test.That(t, cfg.Source.Address, test.ShouldEqual, "localhost:9999")
	test.That(t, cfg.LogLevel(), test.ShouldEqual, logging.INFO)
}

func TestMainWithArgsBridgeStopsOnCancel(t *testing.T) {
	logger := logging.NewTestLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := mainWithArgs(ctx, []string{"goalnav", "--listen=localhost:0", "1", "0"}, logger)
	test.That(t, err, test.ShouldBeNil)
}
