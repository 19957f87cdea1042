// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package outcome provides a three-way result type for computations that
// can fail, succeed, or succeed partially.
//
// Outcome[E, A] has exactly three shapes:
//
//   - [Fail]: a definite failure carrying an error of type E
//   - [OK]: a definite success carrying a value of type A
//   - [Both]: a recoverable error alongside a usable value, e.g. a
//     validation message together with the previously submitted form
//     values so the caller can re-render them
//
// [Match] is the only sanctioned way to take an Outcome apart: it forces
// all three cases to be handled. Both commonly needs handling distinct
// from OK, so there is deliberately no two-arm fold.
//
// Outcomes serialize to the tagged JSON envelope
// {"_tag":"Left"|"Right"|"Both","left":...,"right":...} used by response
// bodies.
package outcome

import "encoding/json"

type tag uint8

const (
	tagFail tag = iota
	tagOK
	tagBoth
)

// Outcome represents the result of a computation: Fail, OK, or Both.
// The zero value is Fail with zero error; construct values with [Fail],
// [OK], or [Both].
type Outcome[E, A any] struct {
	tag tag
	err E
	val A
}

// Fail creates a definite failure carrying err.
func Fail[E, A any](err E) Outcome[E, A] {
	return Outcome[E, A]{tag: tagFail, err: err}
}

// OK creates a definite success carrying val.
func OK[E, A any](val A) Outcome[E, A] {
	return Outcome[E, A]{tag: tagOK, val: val}
}

// Both creates a partial success: a recoverable error alongside a usable
// value.
func Both[E, A any](err E, val A) Outcome[E, A] {
	return Outcome[E, A]{tag: tagBoth, err: err, val: val}
}

// IsFail returns true if this is a Fail value.
func (o Outcome[E, A]) IsFail() bool {
	return o.tag == tagFail
}

// IsOK returns true if this is an OK value.
func (o Outcome[E, A]) IsOK() bool {
	return o.tag == tagOK
}

// IsBoth returns true if this is a Both value.
func (o Outcome[E, A]) IsBoth() bool {
	return o.tag == tagBoth
}

// Err returns the error and true for Fail and Both, or zero and false
// for OK.
func (o Outcome[E, A]) Err() (E, bool) {
	if o.tag == tagOK {
		var zero E
		return zero, false
	}
	return o.err, true
}

// Value returns the value and true for OK and Both, or zero and false
// for Fail.
func (o Outcome[E, A]) Value() (A, bool) {
	if o.tag == tagFail {
		var zero A
		return zero, false
	}
	return o.val, true
}

// Match folds the Outcome, calling exactly one of onFail, onOK, or
// onBoth. This is the total eliminator: all three shapes must be handled.
func Match[E, A, T any](o Outcome[E, A], onFail func(E) T, onOK func(A) T, onBoth func(E, A) T) T {
	switch o.tag {
	case tagOK:
		return onOK(o.val)
	case tagBoth:
		return onBoth(o.err, o.val)
	default:
		return onFail(o.err)
	}
}

// MapValue applies f to the value, preserving the variant shape.
// Fail passes through untouched; Both keeps its error.
func MapValue[E, A, B any](o Outcome[E, A], f func(A) B) Outcome[E, B] {
	switch o.tag {
	case tagOK:
		return OK[E](f(o.val))
	case tagBoth:
		return Both(o.err, f(o.val))
	default:
		return Fail[E, B](o.err)
	}
}

// MapError applies f to the error, preserving the variant shape.
// OK passes through untouched; Both keeps its value.
func MapError[E, F, A any](o Outcome[E, A], f func(E) F) Outcome[F, A] {
	switch o.tag {
	case tagOK:
		return OK[F](o.val)
	case tagBoth:
		return Both(f(o.err), o.val)
	default:
		return Fail[F, A](f(o.err))
	}
}

// FlatMap sequences two computations. On OK the value feeds f; Fail
// short-circuits. On Both, f runs on the value and the carried error is
// kept unless f itself fails, in which case the later failure wins.
func FlatMap[E, A, B any](o Outcome[E, A], f func(A) Outcome[E, B]) Outcome[E, B] {
	switch o.tag {
	case tagOK:
		return f(o.val)
	case tagBoth:
		next := f(o.val)
		if next.tag == tagOK {
			return Both(o.err, next.val)
		}
		return next
	default:
		return Fail[E, B](o.err)
	}
}

// OrElse recovers from a definite failure by invoking f with the error.
// OK and Both pass through unchanged; only Fail is replaced.
func OrElse[E, A any](o Outcome[E, A], f func(E) Outcome[E, A]) Outcome[E, A] {
	if o.tag == tagFail {
		return f(o.err)
	}
	return o
}

type leftEnvelope[E any] struct {
	Tag  string `json:"_tag"`
	Left E      `json:"left"`
}

type rightEnvelope[A any] struct {
	Tag   string `json:"_tag"`
	Right A      `json:"right"`
}

type bothEnvelope[E, A any] struct {
	Tag   string `json:"_tag"`
	Left  E      `json:"left"`
	Right A      `json:"right"`
}

// MarshalJSON encodes the Outcome as the tagged envelope
// {"_tag":"Left"|"Right"|"Both",...}.
func (o Outcome[E, A]) MarshalJSON() ([]byte, error) {
	switch o.tag {
	case tagOK:
		return json.Marshal(rightEnvelope[A]{Tag: "Right", Right: o.val})
	case tagBoth:
		return json.Marshal(bothEnvelope[E, A]{Tag: "Both", Left: o.err, Right: o.val})
	default:
		return json.Marshal(leftEnvelope[E]{Tag: "Left", Left: o.err})
	}
}
