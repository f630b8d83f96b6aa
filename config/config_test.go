package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/jetracer/goalnav/logging"
	"github.com/jetracer/goalnav/ros"
	"github.com/jetracer/goalnav/vehicle"
)

func TestDefaultIsValid(t *testing.T) {
	conf := Default()
	test.That(t, conf.Validate(), test.ShouldBeNil)
	test.That(t, conf.Controller, test.ShouldResemble, vehicle.DefaultConfig())
	test.That(t, conf.Source.Topic, test.ShouldEqual, ros.DefaultPoseTopic)
	test.That(t, conf.LogLevel(), test.ShouldEqual, logging.INFO)
}

func TestSourceValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		conf SourceConfig
		err  string
	}{
		{"no type", SourceConfig{}, `error validating "source": "type" is required`},
		{"unknown type", SourceConfig{Type: "serial"}, `unknown source type "serial"`},
		{"bag without path", SourceConfig{Type: SourceRosbag, Topic: "t"}, `"bag_path" is required`},
		{"bag without topic", SourceConfig{Type: SourceRosbag, BagPath: "run.bag"}, `"topic" is required`},
		{"negative rate", SourceConfig{Type: SourceRosbag, BagPath: "run.bag", Topic: "t", RateHz: -1}, `"rate_hz" must be`},
		{"websocket without address", SourceConfig{Type: SourceWebsocket}, `"address" is required`},
		{"bag", SourceConfig{Type: SourceRosbag, BagPath: "run.bag", Topic: "t", RateHz: 120}, ""},
		{"websocket", SourceConfig{Type: SourceWebsocket, Address: ":9000"}, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.conf.Validate("source")
			if tc.err == "" {
				test.That(t, err, test.ShouldBeNil)
				return
			}
			test.That(t, err, test.ShouldNotBeNil)
			test.That(t, err.Error(), test.ShouldContainSubstring, tc.err)
		})
	}
}

func TestFromReaderKeepsDefaults(t *testing.T) {
	logger := logging.NewTestLogger(t)
	conf, err := FromReader("inline", strings.NewReader(`{
		"controller": {"heading_pid": {"kp": 0.5}, "goal_epsilon_m": 0.1},
		"log": {"level": "debug"}
	}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.ConfigFilePath, test.ShouldEqual, "inline")

	defaults := vehicle.DefaultConfig()
	test.That(t, conf.Controller.HeadingPID.Kp, test.ShouldEqual, 0.5)
	test.That(t, conf.Controller.HeadingPID.Kd, test.ShouldEqual, defaults.HeadingPID.Kd)
	test.That(t, conf.Controller.DistancePID, test.ShouldResemble, defaults.DistancePID)
	test.That(t, conf.Controller.GoalEpsilon, test.ShouldEqual, 0.1)
	test.That(t, conf.Controller.HeadingBias, test.ShouldEqual, defaults.HeadingBias)
	test.That(t, conf.Source.Type, test.ShouldEqual, SourceWebsocket)
	test.That(t, conf.LogLevel(), test.ShouldEqual, logging.DEBUG)
}

func TestFromReaderErrors(t *testing.T) {
	logger := logging.NewTestLogger(t)

	_, err := FromReader("bad", strings.NewReader(`{"controller":`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to decode Config from json")

	_, err = FromReader("bad", strings.NewReader(`{"controller": {"throttle_max": -1}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `error validating "controller"`)

	_, err = FromReader("bad", strings.NewReader(`{"log": {"level": "loud"}}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `error validating "log"`)
}

func TestReadExpandsEnvironment(t *testing.T) {
	t.Setenv("GOALNAV_BAG", "/data/run3.bag")
	path := filepath.Join(t.TempDir(), "goalnav.json")
	test.That(t, os.WriteFile(path, []byte(`{
		"source": {"type": "rosbag", "bag_path": "${GOALNAV_BAG}", "rate_hz": 100}
	}`), 0o600), test.ShouldBeNil)

	conf, err := Read(path, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.Source.BagPath, test.ShouldEqual, "/data/run3.bag")
	test.That(t, conf.Source.Topic, test.ShouldEqual, ros.DefaultPoseTopic)
	test.That(t, conf.Source.RateHz, test.ShouldEqual, 100.0)
	test.That(t, conf.ConfigFilePath, test.ShouldEqual, path)

	_, err = Read(filepath.Join(t.TempDir(), "missing.json"), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}
