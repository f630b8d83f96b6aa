// Package control implements the feedback controllers used to steer the vehicle.
package control

import (
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/jetracer/goalnav/utils"
)

// PIDConfig is the gain set of one PID axis.
type PIDConfig struct {
	Name string  `json:"name,omitempty"`
	Kp   float64 `json:"kp"`
	Ki   float64 `json:"ki"`
	Kd   float64 `json:"kd"`
}

// Validate checks that every gain is a finite, non-negative number.
func (conf PIDConfig) Validate(path string) error {
	for _, g := range []struct {
		name  string
		value float64
	}{
		{"kp", conf.Kp},
		{"ki", conf.Ki},
		{"kd", conf.Kd},
	} {
		if !utils.IsFinite(g.value) {
			return utils.NewConfigValidationError(path, errors.Errorf("%q must be a finite number", g.name))
		}
		if g.value < 0 {
			return utils.NewConfigValidationError(path, utils.NewOutOfRangeError(g.name, g.value, "non-negative"))
		}
	}
	return nil
}

// PIDState is the internal state of a PID between two updates.
type PIDState struct {
	Integral  float64
	LastError float64
	LastTime  time.Time
}

// PID is a proportional-integral-derivative controller over a single error signal. Time
// between updates is measured on the injected clock, so irregular update intervals feed
// directly into the integral and derivative terms.
//
// The output is neither clamped nor biased; that is up to the caller.
type PID struct {
	mu    sync.Mutex
	cfg   PIDConfig
	clock clock.Clock
	state PIDState
}

// NewPID returns a PID with the given gains. A nil clock means wall-clock time.
func NewPID(cfg PIDConfig, clk clock.Clock) (*PID, error) {
	if err := cfg.Validate(cfg.Name); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	p := &PID{cfg: cfg, clock: clk}
	p.reset()
	return p, nil
}

// Update feeds a new error sample and returns kp*e + ki*∫e dt + kd*de/dt.
//
// The derivative is 0 when no time has passed since the previous update. A clock that
// went backwards counts as no time passing and the stored timestamp is kept, so the
// timestamp never decreases. A non-finite error is ignored and 0 is returned, leaving
// the integral and last error untouched. The integral, derivative and output saturate
// at ±math.MaxFloat64 instead of overflowing.
func (p *PID) Update(e float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !utils.IsFinite(e) {
		return 0
	}

	now := p.clock.Now()
	dt := now.Sub(p.state.LastTime).Seconds()
	if dt < 0 {
		dt = 0
		now = p.state.LastTime
	}

	p.state.Integral = saturate(p.state.Integral + e*dt)
	derivative := 0.0
	if dt > 0 {
		derivative = saturate((e - p.state.LastError) / dt)
	}

	output := saturate(p.cfg.Kp*e + p.cfg.Ki*p.state.Integral + p.cfg.Kd*derivative)

	p.state.LastError = e
	p.state.LastTime = now
	return output
}

// saturate pins infinities to the largest finite value of the same sign. NaN, which only
// arises from opposite infinities cancelling, becomes 0.
func saturate(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	default:
		return v
	}
}

func (p *PID) reset() {
	p.state = PIDState{LastTime: p.clock.Now()}
}

// Reset zeroes the integral and last error and restarts the time base at now. Call it
// whenever the error signal starts tracking a new target.
func (p *PID) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

// State returns a copy of the internal state.
func (p *PID) State() PIDState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Config returns the gains the PID was built with.
func (p *PID) Config() PIDConfig {
	return p.cfg
}
