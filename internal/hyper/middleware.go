// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hyper

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"code.hybscloud.com/shoplist/internal/decode"
	"code.hybscloud.com/shoplist/internal/outcome"
)

// Unit is the value of middlewares that are run only for their effect
// on the connection.
type Unit = struct{}

// Step pairs a middleware's success value with the successor
// connection.
type Step[A any] struct {
	Value A
	Conn  *Conn
}

// Middleware is an asynchronous state-passing computation over the
// connection, parameterized by a typed error channel E and a success
// value A. Running it yields Fail, OK, or Both over (value, connection).
type Middleware[E, A any] func(ctx context.Context, c *Conn) outcome.Outcome[E, Step[A]]

// ErrMethodNotAllowed is the failure of a method guard whose verb does
// not match the request; callers recover from it by trying the next
// alternative handler.
var ErrMethodNotAllowed = errors.New("method not allowed")

// ErrUnauthorized is the failure of pipelines that require a session
// user; callers recover from it by redirecting to sign-in.
var ErrUnauthorized = errors.New("unauthorized")

// DecodeFailed carries a structural decode error through the error
// channel of a middleware.
type DecodeFailed struct {
	Tree decode.Error
}

func (e *DecodeFailed) Error() string {
	return decode.Render(e.Tree)
}

// Of lifts a pure value into a middleware that leaves the connection
// untouched.
func Of[E, A any](a A) Middleware[E, A] {
	return func(_ context.Context, c *Conn) outcome.Outcome[E, Step[A]] {
		return outcome.OK[E](Step[A]{Value: a, Conn: c})
	}
}

// FailWith lifts an error into a middleware that always fails.
func FailWith[E, A any](e E) Middleware[E, A] {
	return func(context.Context, *Conn) outcome.Outcome[E, Step[A]] {
		return outcome.Fail[E, Step[A]](e)
	}
}

// FromConn lifts a pure read of the connection into a middleware.
func FromConn[E, A any](f func(*Conn) outcome.Outcome[E, A]) Middleware[E, A] {
	return func(_ context.Context, c *Conn) outcome.Outcome[E, Step[A]] {
		return outcome.MapValue(f(c), func(a A) Step[A] {
			return Step[A]{Value: a, Conn: c}
		})
	}
}

// ModifyConn lifts a connection transform into a middleware.
func ModifyConn[E any](f func(*Conn) *Conn) Middleware[E, Unit] {
	return func(_ context.Context, c *Conn) outcome.Outcome[E, Step[Unit]] {
		return outcome.OK[E](Step[Unit]{Conn: f(c)})
	}
}

// Lift runs an effect that does not read or write the connection, such
// as a call to a persistence or search collaborator.
func Lift[E, A any](f func(ctx context.Context) outcome.Outcome[E, A]) Middleware[E, A] {
	return func(ctx context.Context, c *Conn) outcome.Outcome[E, Step[A]] {
		return outcome.MapValue(f(ctx), func(a A) Step[A] {
			return Step[A]{Value: a, Conn: c}
		})
	}
}

// Chain sequences two middlewares: on success, f receives the value and
// runs against the resulting connection. Fail short-circuits without
// calling f. A Both result threads its error alongside; if the
// continuation itself fails, the later failure wins.
func Chain[E, A, B any](m Middleware[E, A], f func(A) Middleware[E, B]) Middleware[E, B] {
	return func(ctx context.Context, c *Conn) outcome.Outcome[E, Step[B]] {
		return outcome.FlatMap(m(ctx, c), func(step Step[A]) outcome.Outcome[E, Step[B]] {
			return f(step.Value)(ctx, step.Conn)
		})
	}
}

// Then sequences two middlewares, discarding the first value.
func Then[E, A, B any](m Middleware[E, A], n Middleware[E, B]) Middleware[E, B] {
	return Chain(m, func(A) Middleware[E, B] { return n })
}

// Map applies a pure function to the middleware's value.
func Map[E, A, B any](m Middleware[E, A], f func(A) B) Middleware[E, B] {
	return func(ctx context.Context, c *Conn) outcome.Outcome[E, Step[B]] {
		return outcome.MapValue(m(ctx, c), func(step Step[A]) Step[B] {
			return Step[B]{Value: f(step.Value), Conn: step.Conn}
		})
	}
}

// MapLeft applies a pure function to the middleware's error.
func MapLeft[E, F, A any](m Middleware[E, A], f func(E) F) Middleware[F, A] {
	return func(ctx context.Context, c *Conn) outcome.Outcome[F, Step[A]] {
		return outcome.MapError(m(ctx, c), f)
	}
}

// Alt tries m and, when it fails, runs fallback against the original
// connection. Actions recorded by the failed attempt are discarded, so
// alternatives never observe each other's partial output.
func Alt[E, A any](m, fallback Middleware[E, A]) Middleware[E, A] {
	return func(ctx context.Context, c *Conn) outcome.Outcome[E, Step[A]] {
		return outcome.OrElse(m(ctx, c), func(E) outcome.Outcome[E, Step[A]] {
			return fallback(ctx, c)
		})
	}
}

// OrElse recovers a failure with an error-aware middleware, possibly
// changing the error type. Fail hands the error to recover, run against
// the original connection. A Both result is also recovered, but against
// its own connection so accumulated re-render state is preserved. OK
// passes through unchanged.
func OrElse[E, F, A any](m Middleware[E, A], recover func(E) Middleware[F, A]) Middleware[F, A] {
	return func(ctx context.Context, c *Conn) outcome.Outcome[F, Step[A]] {
		return outcome.Match(m(ctx, c),
			func(e E) outcome.Outcome[F, Step[A]] {
				return recover(e)(ctx, c)
			},
			func(step Step[A]) outcome.Outcome[F, Step[A]] {
				return outcome.OK[F](step)
			},
			func(e E, step Step[A]) outcome.Outcome[F, Step[A]] {
				return recover(e)(ctx, step.Conn)
			},
		)
	}
}

// Bind accumulates an intermediate named result: it runs f on the
// current scope value and merges the result back via assign. This is
// the sequential let-binding of the algebra; S is the caller's scope
// struct.
func Bind[E, S, A any](m Middleware[E, S], f func(S) Middleware[E, A], assign func(S, A) S) Middleware[E, S] {
	return Chain(m, func(scope S) Middleware[E, S] {
		return Map(f(scope), func(a A) S {
			return assign(scope, a)
		})
	})
}

// BindTo starts a scope by wrapping the middleware's value.
func BindTo[E, A, S any](m Middleware[E, A], wrap func(A) S) Middleware[E, S] {
	return Map(m, wrap)
}

// Method succeeds with the canonical method name when the request
// method matches, ignoring case, and fails with [ErrMethodNotAllowed]
// otherwise.
func Method(method string) Middleware[error, string] {
	canonical := strings.ToUpper(method)
	return FromConn(func(c *Conn) outcome.Outcome[error, string] {
		if !c.methodIs(method) {
			return outcome.Fail[error, string](ErrMethodNotAllowed)
		}
		return outcome.OK[error](canonical)
	})
}

// Method guards for the verbs the application routes on.
var (
	GET    = Method(http.MethodGet)
	POST   = Method(http.MethodPost)
	PUT    = Method(http.MethodPut)
	PATCH  = Method(http.MethodPatch)
	DELETE = Method(http.MethodDelete)
)

// DecodeParam decodes the named path parameter. The decode error is
// wrapped in a Key node naming the parameter.
func DecodeParam[A any](name string, d decode.Decoder[A]) Middleware[error, A] {
	return FromConn(func(c *Conn) outcome.Outcome[error, A] {
		input := map[string]any{}
		if v, ok := c.Param(name); ok {
			input[name] = v
		}
		return runDecoder(decode.At(name, d), input)
	})
}

// DecodeQuery decodes the request query parameters.
func DecodeQuery[A any](d decode.Decoder[A]) Middleware[error, A] {
	return FromConn(func(c *Conn) outcome.Outcome[error, A] {
		return runDecoder(d, c.QueryInput())
	})
}

// DecodeBody decodes the parsed request body.
func DecodeBody[A any](d decode.Decoder[A]) Middleware[error, A] {
	return FromConn(func(c *Conn) outcome.Outcome[error, A] {
		return runDecoder(d, c.BodyInput())
	})
}

// DecodeHeader decodes the named request header.
func DecodeHeader[A any](name string, d decode.Decoder[A]) Middleware[error, A] {
	return FromConn(func(c *Conn) outcome.Outcome[error, A] {
		var input any
		if v := c.Header(name); v != "" {
			input = v
		}
		return runDecoder(d, input)
	})
}

// DecodeSession decodes the named session entry. An absent entry is an
// absent input and fails the decoder; it is never a panic or a thrown
// error.
func DecodeSession[A any](name string, d decode.Decoder[A]) Middleware[error, A] {
	return FromConn(func(c *Conn) outcome.Outcome[error, A] {
		var input any
		if v, ok := c.SessionValue(name); ok {
			input = v
		}
		return runDecoder(d, input)
	})
}

func runDecoder[A any](d decode.Decoder[A], input any) outcome.Outcome[error, A] {
	return outcome.MapError(d(input), func(e decode.Error) error {
		return &DecodeFailed{Tree: e}
	})
}

// SetSession records a session write.
func SetSession[E any](name, value string) Middleware[E, Unit] {
	return ModifyConn[E](func(c *Conn) *Conn {
		return c.SetSession(name, value, false)
	})
}

// FlashSession records a one-shot session write, readable exactly once
// by a subsequent request.
func FlashSession[E any](name, value string) Middleware[E, Unit] {
	return ModifyConn[E](func(c *Conn) *Conn {
		return c.SetSession(name, value, true)
	})
}

// ClearSession records removal of a session entry.
func ClearSession[E any](name string) Middleware[E, Unit] {
	return ModifyConn[E](func(c *Conn) *Conn {
		return c.ClearSession(name)
	})
}
