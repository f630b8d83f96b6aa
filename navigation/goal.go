// Package navigation computes how far, and in which direction, the vehicle is from its goal.
package navigation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/jetracer/goalnav/utils"
)

// Goal is a fixed target point in the planar frame, in meters. It is a value type: once a
// controller is built around a Goal, the controller's goal never changes.
type Goal struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewGoal returns a goal at (x, y). Non-finite coordinates are rejected.
func NewGoal(x, y float64) (Goal, error) {
	if !utils.IsFinite(x, y) {
		return Goal{}, errors.Errorf("goal coordinates must be finite, got (%v, %v)", x, y)
	}
	return Goal{X: x, Y: y}, nil
}

// ParseGoal parses decimal x and y coordinates, as given on the command line.
func ParseGoal(xStr, yStr string) (Goal, error) {
	x, err := parseCoordinate("x", xStr)
	if err != nil {
		return Goal{}, err
	}
	y, err := parseCoordinate("y", yStr)
	if err != nil {
		return Goal{}, err
	}
	return NewGoal(x, y)
}

func parseCoordinate(axis, value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errors.Errorf("goal %s coordinate is required", axis)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid goal %s coordinate %q", axis, value)
	}
	return v, nil
}

func (g Goal) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", g.X, g.Y)
}
