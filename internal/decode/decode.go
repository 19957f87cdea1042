// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package decode provides composable decoders: pure functions that
// validate untyped input into typed values or a structured [Error] tree.
//
// A [Decoder] either succeeds or fails outright; it never produces a
// partial result. Struct decoders are built applicatively from [At] and
// [Map2]/[Map3], which wrap failures in [Key] nodes naming the exact
// offending field. Alternations ([Alt]) try left to right and join both
// errors in a [Union] when every branch fails.
package decode

import (
	"regexp"
	"strings"

	"code.hybscloud.com/shoplist/internal/outcome"
)

// Decoder validates untyped input into a value of type A, or fails with
// a structured [Error]. Decoders never produce outcome.Both.
type Decoder[A any] func(input any) outcome.Outcome[Error, A]

// Succeed creates a decoder that ignores its input and yields a.
func Succeed[A any](a A) Decoder[A] {
	return func(any) outcome.Outcome[Error, A] {
		return outcome.OK[Error](a)
	}
}

// Map transforms the decoded value with a pure function.
func Map[A, B any](d Decoder[A], f func(A) B) Decoder[B] {
	return func(input any) outcome.Outcome[Error, B] {
		return outcome.MapValue(d(input), f)
	}
}

// Refine wraps a decoder with an extra predicate. When the predicate
// rejects the decoded value, the decoder fails with msg.
func Refine[A any](d Decoder[A], pred func(A) bool, msg string) Decoder[A] {
	return func(input any) outcome.Outcome[Error, A] {
		return outcome.FlatMap(d(input), func(a A) outcome.Outcome[Error, A] {
			if !pred(a) {
				return outcome.Fail[Error, A](Leaf{Message: msg})
			}
			return outcome.OK[Error](a)
		})
	}
}

// Alt tries d first and falls back to alt on failure. When both fail,
// the errors are joined in a [Union] with d's error on the left.
func Alt[A any](d, alt Decoder[A]) Decoder[A] {
	return func(input any) outcome.Outcome[Error, A] {
		first := d(input)
		if !first.IsFail() {
			return first
		}
		second := alt(input)
		if !second.IsFail() {
			return second
		}
		e1, _ := first.Err()
		e2, _ := second.Err()
		return outcome.Fail[Error, A](Union{Left: e1, Right: e2})
	}
}

// WithFallback makes a decoder total: on failure it yields a instead.
func WithFallback[A any](d Decoder[A], a A) Decoder[A] {
	return func(input any) outcome.Outcome[Error, A] {
		return outcome.OrElse(d(input), func(Error) outcome.Outcome[Error, A] {
			return outcome.OK[Error](a)
		})
	}
}

// At decodes the named field of a map-shaped input. A missing field, a
// non-map input, or a failing field decode all surface as a [Key] error
// naming the field.
func At[A any](name string, d Decoder[A]) Decoder[A] {
	return func(input any) outcome.Outcome[Error, A] {
		v, ok := lookup(input, name)
		if !ok {
			return outcome.Fail[Error, A](Key{Name: name, Err: Leaf{Message: "required"}})
		}
		return outcome.MapError(d(v), func(e Error) Error {
			return Key{Name: name, Err: e}
		})
	}
}

// Optional decodes the named field when present and yields nil when
// absent. A present field that fails to decode is still an error; only
// absence is permitted.
func Optional[A any](name string, d Decoder[A]) Decoder[*A] {
	return func(input any) outcome.Outcome[Error, *A] {
		v, ok := lookup(input, name)
		if !ok {
			return outcome.OK[Error, *A](nil)
		}
		return outcome.Match(d(v),
			func(e Error) outcome.Outcome[Error, *A] {
				return outcome.Fail[Error, *A](Key{Name: name, Err: e})
			},
			func(a A) outcome.Outcome[Error, *A] {
				return outcome.OK[Error](&a)
			},
			func(e Error, _ A) outcome.Outcome[Error, *A] {
				return outcome.Fail[Error, *A](Key{Name: name, Err: e})
			},
		)
	}
}

// Slice decodes every element of a slice-shaped input, wrapping element
// failures in [Index] nodes. All failing elements are reported, joined
// left to right.
func Slice[A any](d Decoder[A]) Decoder[[]A] {
	return func(input any) outcome.Outcome[Error, []A] {
		items, ok := input.([]any)
		if !ok {
			return outcome.Fail[Error, []A](leaff("cannot decode %v, expected an array", input))
		}
		var decoded []A
		var errs Error
		for i, item := range items {
			o := d(item)
			if e, failed := o.Err(); failed {
				errs = join(errs, Index{Pos: i, Err: e})
				continue
			}
			a, _ := o.Value()
			decoded = append(decoded, a)
		}
		if errs != nil {
			return outcome.Fail[Error, []A](errs)
		}
		return outcome.OK[Error](decoded)
	}
}

// Map2 combines two decoders over the same input applicatively. Both run
// regardless of the other's result so that every failing field is
// reported; two failures join in a [Union] with da's error on the left.
func Map2[A, B, C any](da Decoder[A], db Decoder[B], f func(A, B) C) Decoder[C] {
	return func(input any) outcome.Outcome[Error, C] {
		oa := da(input)
		ob := db(input)
		ea, aFailed := oa.Err()
		eb, bFailed := ob.Err()
		switch {
		case aFailed && bFailed:
			return outcome.Fail[Error, C](Union{Left: ea, Right: eb})
		case aFailed:
			return outcome.Fail[Error, C](ea)
		case bFailed:
			return outcome.Fail[Error, C](eb)
		}
		a, _ := oa.Value()
		b, _ := ob.Value()
		return outcome.OK[Error](f(a, b))
	}
}

// Map3 combines three decoders over the same input applicatively, with
// the same error-joining semantics as [Map2].
func Map3[A, B, C, D any](da Decoder[A], db Decoder[B], dc Decoder[C], f func(A, B, C) D) Decoder[D] {
	return Map2(Map2(da, db, func(a A, b B) func(C) D {
		return func(c C) D { return f(a, b, c) }
	}), dc, func(partial func(C) D, c C) D {
		return partial(c)
	})
}

// String decodes a string input.
var String Decoder[string] = func(input any) outcome.Outcome[Error, string] {
	s, ok := input.(string)
	if !ok {
		return outcome.Fail[Error, string](leaff("cannot decode %v, expected a string", input))
	}
	return outcome.OK[Error](s)
}

// BoolFromString decodes the literal strings "true" and "false".
var BoolFromString Decoder[bool] = func(input any) outcome.Outcome[Error, bool] {
	s, ok := input.(string)
	if !ok || (s != "true" && s != "false") {
		return outcome.Fail[Error, bool](leaff("cannot decode %v, expected \"true\" or \"false\"", input))
	}
	return outcome.OK[Error](s == "true")
}

// NonEmpty decodes a string that contains at least one non-whitespace
// character.
var NonEmpty Decoder[string] = Refine(String, func(s string) bool {
	return strings.TrimSpace(s) != ""
}, "required")

var uuidPattern = regexp.MustCompile(
	`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

// UUID decodes an RFC 4122 shaped string.
var UUID Decoder[string] = Refine(String, uuidPattern.MatchString, "not a valid UUID")

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email decodes an email-shaped string.
var Email Decoder[string] = Refine(String, emailPattern.MatchString, "not a valid email")

func join(acc, e Error) Error {
	if acc == nil {
		return e
	}
	return Union{Left: acc, Right: e}
}

func lookup(input any, name string) (any, bool) {
	switch m := input.(type) {
	case map[string]any:
		v, ok := m[name]
		return v, ok
	case map[string]string:
		v, ok := m[name]
		return v, ok
	default:
		return nil, false
	}
}
