package lights

import (
	"errors"
	"fmt"
)

// Selection names an emitter selection strategy
type Selection string

const (
	SelectionUniform Selection = "uniform" // every emitter equally likely
	SelectionPower   Selection = "power"   // proportional to emitted power
)

var ErrUnknownSelection = errors.New("lights: unknown emitter selection")

// NewLightSampler builds the sampler for the named selection strategy
func NewLightSampler(selection Selection, lights []Light) (LightSampler, error) {
	switch selection {
	case SelectionUniform, "":
		return NewUniformLightSampler(lights), nil
	case SelectionPower:
		return NewPowerLightSampler(lights), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSelection, selection)
	}
}
