// Package sink implements the per-measurement-kind good/bad
// classifiers of spec.md's C6 ("DataSink"), and the placeholders each
// kind contributes from its raw value.
package sink

import (
	"fmt"

	"github.com/flo-at/minmon/internal/measurement"
	"github.com/flo-at/minmon/internal/placeholder"
)

// Decision is a sink's good/bad classification of one measurement.
type Decision int

const (
	Good Decision = iota
	Bad
)

// Sink classifies measurements of type T and contributes placeholders
// describing the raw value.
type Sink[T any] interface {
	Classify(data T) Decision
	AddPlaceholders(data T, p placeholder.Map) placeholder.Map
}

// Level alarms when the observed percentage is at or above a threshold.
type Level struct {
	Threshold measurement.Level
}

func (s Level) Classify(data measurement.Level) Decision {
	if data.Data() >= s.Threshold.Data() {
		return Bad
	}
	return Good
}

func (s Level) AddPlaceholders(data measurement.Level, p placeholder.Map) placeholder.Map {
	return p.With("level", data.String())
}

// StatusCode alarms unless the observed code is in the configured
// allow-list (default: just 0, "success").
type StatusCode struct {
	Allowed []uint8
}

func (s StatusCode) Classify(data measurement.StatusCode) Decision {
	for _, v := range s.Allowed {
		if v == data.Data() {
			return Good
		}
	}
	return Bad
}

func (s StatusCode) AddPlaceholders(data measurement.StatusCode, p placeholder.Map) placeholder.Map {
	return p.With("status_code", data.String())
}

// Temperature alarms when the observed reading exceeds the threshold.
type Temperature struct {
	Threshold measurement.Temperature
}

func (s Temperature) Classify(data measurement.Temperature) Decision {
	if data.Data() > s.Threshold.Data() {
		return Bad
	}
	return Good
}

func (s Temperature) AddPlaceholders(data measurement.Temperature, p placeholder.Map) placeholder.Map {
	return p.With("temperature", data.String())
}

// BinaryState alarms when the observed state is false.
type BinaryState struct{}

func (s BinaryState) Classify(data measurement.BinaryState) Decision {
	if data.Data() {
		return Good
	}
	return Bad
}

func (s BinaryState) AddPlaceholders(data measurement.BinaryState, p placeholder.Map) placeholder.Map {
	return p.With("state", data.String())
}

// DataSize alarms when the observed size exceeds a configured ceiling.
type DataSize struct {
	Max measurement.DataSize
}

func (s DataSize) Classify(data measurement.DataSize) Decision {
	if data.Data() > s.Max.Data() {
		return Bad
	}
	return Good
}

func (s DataSize) AddPlaceholders(data measurement.DataSize, p placeholder.Map) placeholder.Map {
	p = p.With("data_size", data.String())
	p = p.With("data_size_bin", data.AsStringBinary())
	p = p.With("data_size_dec", data.AsStringDecimal())
	return p
}

// Integer alarms when the observed value falls outside [Min, Max]
// (whichever bounds are set; at least one must be).
type Integer struct {
	Min    *measurement.Integer
	Max    *measurement.Integer
}

// NewInteger validates that at least one bound is set.
func NewInteger(min, max *measurement.Integer) (Integer, error) {
	if min == nil && max == nil {
		return Integer{}, fmt.Errorf("at least one of 'min' or 'max' needs to be set")
	}
	return Integer{Min: min, Max: max}, nil
}

func (s Integer) Classify(data measurement.Integer) Decision {
	if s.Min != nil && data.Data() < s.Min.Data() {
		return Bad
	}
	if s.Max != nil && data.Data() > s.Max.Data() {
		return Bad
	}
	return Good
}

func (s Integer) AddPlaceholders(data measurement.Integer, p placeholder.Map) placeholder.Map {
	return p.With("integer", data.String())
}
