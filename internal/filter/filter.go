// Package filter implements the Average/Peak/Sum window reducers of
// spec.md §4.2. Average uses math/big for the running sum, mirroring
// the BigInt-backed accumulator of the upstream Rust implementation
// (filter/average.rs) so that summing many large DataSize samples
// cannot silently overflow before the division happens.
package filter

import (
	"math/big"

	"github.com/flo-at/minmon/internal/measurement"
	"github.com/flo-at/minmon/internal/window"
)

// Filter reduces a stream of measurements of type T into a windowed
// derived value of the same type.
type Filter[T any] interface {
	// Filter pushes data into the window and returns the reduced value.
	Filter(data T) T
	// Error records a tick that produced no data (a gap in the window).
	Error()
}

// Average computes the window's rounded mean using an exact big.Int
// sum and a truncating QuoRem, rounding up only when the (possibly
// negative) remainder is >= ceil(n/2) — matching scenario 6 of
// spec.md §8. A negative remainder never rounds up, since it's always
// less than the non-negative half threshold.
type Average[T any] struct {
	buf     *window.Buffer[T]
	toBig   func(T) *big.Int
	fromBig func(*big.Int) T
}

// NewAverage builds an Average filter over a window of the given size.
func NewAverage[T any](size int, toBig func(T) *big.Int, fromBig func(*big.Int) T) (*Average[T], error) {
	buf, err := window.New[T](size)
	if err != nil {
		return nil, err
	}
	return &Average[T]{buf: buf, toBig: toBig, fromBig: fromBig}, nil
}

func (a *Average[T]) Filter(data T) T {
	a.buf.Push(data)
	values := a.buf.Values()
	n := len(values)
	sum := big.NewInt(0)
	for _, v := range values {
		sum.Add(sum, a.toBig(v))
	}
	quotient, remainder := new(big.Int), new(big.Int)
	quotient.QuoRem(sum, big.NewInt(int64(n)), remainder)
	half := big.NewInt(int64((n + 1) / 2))
	if remainder.Cmp(half) >= 0 {
		quotient.Add(quotient, big.NewInt(1))
	}
	return a.fromBig(quotient)
}

func (a *Average[T]) Error() { a.buf.PushEmpty() }

// Peak returns the window's maximum value.
type Peak[T any] struct {
	buf  *window.Buffer[T]
	less func(a, b T) bool
}

// NewPeak builds a Peak filter over a window of the given size.
func NewPeak[T any](size int, less func(a, b T) bool) (*Peak[T], error) {
	buf, err := window.New[T](size)
	if err != nil {
		return nil, err
	}
	return &Peak[T]{buf: buf, less: less}, nil
}

func (p *Peak[T]) Filter(data T) T {
	p.buf.Push(data)
	values := p.buf.Values()
	max := values[0]
	for _, v := range values[1:] {
		if p.less(max, v) {
			max = v
		}
	}
	return max
}

func (p *Peak[T]) Error() { p.buf.PushEmpty() }

// Sum returns the window's running total.
type Sum[T any] struct {
	buf  *window.Buffer[T]
	zero T
	add  func(a, b T) T
}

// NewSum builds a Sum filter over a window of the given size.
func NewSum[T any](size int, zero T, add func(a, b T) T) (*Sum[T], error) {
	buf, err := window.New[T](size)
	if err != nil {
		return nil, err
	}
	return &Sum[T]{buf: buf, zero: zero, add: add}, nil
}

func (s *Sum[T]) Filter(data T) T {
	s.buf.Push(data)
	total := s.zero
	for _, v := range s.buf.Values() {
		total = s.add(total, v)
	}
	return total
}

func (s *Sum[T]) Error() { s.buf.PushEmpty() }

// The factory helpers below bind the generic filters to MinMon's
// concrete measurement kinds, and encode the per-kind availability
// table of spec.md §4.2: Level gets Average/Peak, DataSize/Integer get
// all three, Temperature gets Average/Peak, BinaryState/StatusCode get
// none.

func NewLevelAverage(size int) (Filter[measurement.Level], error) {
	return NewAverage(size,
		func(l measurement.Level) *big.Int { return big.NewInt(int64(l.Data())) },
		func(b *big.Int) measurement.Level {
			l, _ := measurement.NewLevel(uint8(b.Int64()))
			return l
		})
}

func NewLevelPeak(size int) (Filter[measurement.Level], error) {
	return NewPeak(size, func(a, b measurement.Level) bool { return a.Data() < b.Data() })
}

func NewDataSizeAverage(size int) (Filter[measurement.DataSize], error) {
	return NewAverage(size,
		func(d measurement.DataSize) *big.Int { return new(big.Int).SetUint64(d.Data()) },
		func(b *big.Int) measurement.DataSize { return measurement.NewDataSize(b.Uint64()) })
}

func NewDataSizePeak(size int) (Filter[measurement.DataSize], error) {
	return NewPeak(size, func(a, b measurement.DataSize) bool { return a.Data() < b.Data() })
}

func NewDataSizeSum(size int) (Filter[measurement.DataSize], error) {
	return NewSum(size, measurement.NewDataSize(0), func(a, b measurement.DataSize) measurement.DataSize { return a.Add(b) })
}

func NewIntegerAverage(size int) (Filter[measurement.Integer], error) {
	return NewAverage(size,
		func(i measurement.Integer) *big.Int { return big.NewInt(i.Data()) },
		func(b *big.Int) measurement.Integer { return measurement.NewInteger(b.Int64()) })
}

func NewIntegerPeak(size int) (Filter[measurement.Integer], error) {
	return NewPeak(size, func(a, b measurement.Integer) bool { return a.Data() < b.Data() })
}

func NewIntegerSum(size int) (Filter[measurement.Integer], error) {
	return NewSum(size, measurement.NewInteger(0), func(a, b measurement.Integer) measurement.Integer { return a.Add(b) })
}

func NewTemperatureAverage(size int) (Filter[measurement.Temperature], error) {
	return NewAverage(size,
		func(t measurement.Temperature) *big.Int { return big.NewInt(int64(t.Data())) },
		func(b *big.Int) measurement.Temperature {
			t, _ := measurement.NewTemperature(int16(b.Int64()))
			return t
		})
}

func NewTemperaturePeak(size int) (Filter[measurement.Temperature], error) {
	return NewPeak(size, func(a, b measurement.Temperature) bool { return a.Data() < b.Data() })
}
