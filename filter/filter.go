// Package filter implements the signal-conditioning chain shared by the
// analog input devices: exponential smoothing, linear range remap to
// 12 bits, and joystick/rotary centering. Uses x/mathx's Clamp for the
// final scale-and-clamp step.
package filter

import (
	"math"

	"archon/x/mathx"

	"golang.org/x/exp/constraints"
)

// Stage is a filter step, iterated in order by a device's filter
// chain.
type Stage interface {
	Apply(v uint16) uint16
}

// NoFilter passes its input through unchanged.
type NoFilter struct{}

func (NoFilter) Apply(v uint16) uint16 { return v }

// EMA is an exponential moving average over unsigned integer samples.
// The first sample seeds the average verbatim; every subsequent update
// rounds half-away-from-zero before narrowing back to the sample type.
type EMA[T constraints.Unsigned] struct {
	alpha float64
	value T
	seeded bool
}

// NewEMA constructs an EMA with an explicit smoothing factor in [0,1].
func NewEMA[T constraints.Unsigned](alpha float64) *EMA[T] {
	if alpha < 0 || alpha > 1 {
		panic("filter: EMA alpha must be in [0,1]")
	}
	return &EMA[T]{alpha: alpha}
}

// EMAFromPeriod derives alpha = 2/(period+1), the conventional EMA
// period-to-smoothing-factor conversion.
func EMAFromPeriod[T constraints.Unsigned](period int) *EMA[T] {
	if period <= 0 {
		panic("filter: EMA period must be greater than 0")
	}
	return NewEMA[T](2.0 / (float64(period) + 1.0))
}

// Update folds in one sample and returns the new average.
func (e *EMA[T]) Update(x T) T {
	if !e.seeded {
		e.value = x
		e.seeded = true
		return x
	}
	next := e.alpha*float64(x) + (1-e.alpha)*float64(e.value)
	e.value = T(math.Round(next))
	return e.value
}

// Value returns the current average without folding in a new sample.
func (e *EMA[T]) Value() T { return e.value }

func (e *EMA[T]) Apply(v uint16) uint16 { return uint16(e.Update(T(v))) }

// LinearRemap12 rescales [min,max] onto [0,4095], clamping outside the
// range. It deliberately evaluates integer-divide-first —
// (x-min)*(4095/(max-min)) — rather than the more precise
// (x-min)*4095/(max-min); this loses precision for spans that don't
// divide 4095 evenly but keeps every intermediate value within the
// 16-bit range the rest of the chain assumes.
type LinearRemap12 struct {
	Min, Max uint16
}

func NewLinearRemap12(min, max uint16) LinearRemap12 {
	return LinearRemap12{Min: min, Max: max}
}

func (l LinearRemap12) Apply(v uint16) uint16 {
	if v < l.Min {
		return 0
	}
	if v > l.Max {
		return 4095
	}
	span := l.Max - l.Min
	if span == 0 {
		return 0
	}
	return (v - l.Min) * (4095 / span)
}

// Chain applies a sequence of Stages in order.
func Chain(v uint16, stages ...Stage) uint16 {
	for _, s := range stages {
		v = s.Apply(v)
	}
	return v
}

// Center maps a single axis onto [0,10000] around a measured center:
// values at or above center scale onto [5000,10000]; values below
// scale onto [0,5000). v and center are 12-bit (0..4095) filter-stage
// values; the result is the final wire-ready value.
func Center(v, center uint16) uint16 {
	var scaled float64
	if v >= center {
		pRange := 4095.0 - float64(center)
		vRange := float64(v) - float64(center)
		ratio := 0.5
		if pRange > 0 {
			ratio = (vRange/pRange)/2.0 + 0.5
		}
		scaled = ratio * 10000.0
	} else {
		pRange := float64(center)
		vRange := float64(v)
		ratio := 0.0
		if pRange > 0 {
			ratio = (vRange / pRange) / 2.0
		}
		scaled = ratio * 10000.0
	}
	return uint16(mathx.Clamp(math.Round(scaled), 0, 10000))
}

// ScaleU12To10000 rescales a post-filter 12-bit sample onto [0,10000],
// the final range rotary devices emit on the wire.
func ScaleU12To10000(v uint16) uint16 {
	scaled := (float64(v) / 4095.0) * 10000.0
	return uint16(mathx.Clamp(math.Round(scaled), 0, 10000))
}
