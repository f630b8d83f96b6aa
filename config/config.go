// Package config defines the structures to configure a goal navigation run.
package config

import (
	"github.com/pkg/errors"

	"github.com/jetracer/goalnav/logging"
	"github.com/jetracer/goalnav/ros"
	"github.com/jetracer/goalnav/utils"
	"github.com/jetracer/goalnav/vehicle"
)

// Source types.
const (
	SourceRosbag    = "rosbag"
	SourceWebsocket = "websocket"
)

// DefaultWebsocketAddress is where the bridge listens when no address is configured.
const DefaultWebsocketAddress = "localhost:8765"

// Config is the top level configuration of a run.
type Config struct {
	ConfigFilePath string `json:"-"`

	Controller vehicle.Config `json:"controller"`
	Source     SourceConfig   `json:"source"`
	Log        LogConfig      `json:"log"`
}

// SourceConfig selects where poses come from and where commands go.
type SourceConfig struct {
	Type string `json:"type"`

	// rosbag
	BagPath string `json:"bag_path,omitempty"`
	Topic   string `json:"topic,omitempty"`
	// RateHz paces bag replay in poses per second; 0 replays as fast as possible.
	RateHz float64 `json:"rate_hz,omitempty"`

	// websocket
	Address string `json:"address,omitempty"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level string `json:"level"`
	// File additionally writes logs to this path, rotated by size.
	File string `json:"file,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Controller: vehicle.DefaultConfig(),
		Source: SourceConfig{
			Type:    SourceWebsocket,
			Topic:   ros.DefaultPoseTopic,
			Address: DefaultWebsocketAddress,
		},
		Log: LogConfig{Level: logging.INFO.String()},
	}
}

// Validate returns an error if the source is not fully specified.
func (conf *SourceConfig) Validate(path string) error {
	switch conf.Type {
	case SourceRosbag:
		if conf.BagPath == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "bag_path")
		}
		if conf.Topic == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "topic")
		}
		if !utils.IsFinite(conf.RateHz) || conf.RateHz < 0 {
			return utils.NewConfigValidationError(path, utils.NewOutOfRangeError("rate_hz", conf.RateHz, "a non-negative number"))
		}
	case SourceWebsocket:
		if conf.Address == "" {
			return utils.NewConfigValidationFieldRequiredError(path, "address")
		}
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "type")
	default:
		return utils.NewConfigValidationError(path,
			errors.Errorf("unknown source type %q, expected %q or %q", conf.Type, SourceRosbag, SourceWebsocket))
	}
	return nil
}

// Validate checks the whole configuration.
func (conf *Config) Validate() error {
	if err := conf.Controller.Validate("controller"); err != nil {
		return err
	}
	if err := conf.Source.Validate("source"); err != nil {
		return err
	}
	if _, err := logging.LevelFromString(conf.Log.Level); err != nil {
		return utils.NewConfigValidationError("log", err)
	}
	return nil
}

// LogLevel returns the configured level. Only valid after Validate.
func (conf *Config) LogLevel() logging.Level {
	level, err := logging.LevelFromString(conf.Log.Level)
	if err != nil {
		return logging.INFO
	}
	return level
}
