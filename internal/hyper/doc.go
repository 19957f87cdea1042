// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package hyper provides a typed middleware composition layer over
// net/http: request handlers built as pure, short-circuiting pipelines
// that thread success and failure through a typed result channel
// instead of exceptions or direct writer access.
//
// # Connection
//
// [Conn] is the immutable state of one in-flight request. Reads
// (method, params, query, headers, session) are pure and never fail;
// every write returns a new Conn carrying one more deferred [Action].
// Nothing touches the transport until execution, which is what allows
// trying handler A and, when it cannot handle the request, handler B
// from the original connection with no partial output leaking.
//
// # Middleware
//
// [Middleware] is a connection transformer with a typed error channel:
//
//	func(ctx context.Context, c *Conn) outcome.Outcome[E, Step[A]]
//
// The algebra:
//
//   - [Chain]: sequence; Fail short-circuits
//   - [Map] / [MapLeft]: pure transforms of the value / error channel
//   - [Alt]: left-biased alternation; the fallback re-runs from the
//     original connection
//   - [OrElse]: error-typed recovery, e.g. redirect on auth failure,
//     re-render on validation failure
//   - [Bind] / [BindTo]: accumulate named intermediate results in a
//     caller-defined scope struct
//
// Constraints lift decoders onto the connection: method guards ([GET],
// [POST], ...) fail with [ErrMethodNotAllowed], and [DecodeParam],
// [DecodeBody], [DecodeQuery], [DecodeHeader], [DecodeSession] surface
// structural [DecodeFailed] errors. Terminal middlewares ([Redirect],
// [JSON], [NotFound]) end the response; reaching End is the only
// terminal state of a pipeline.
//
// # Execution
//
// [ToHandler] adapts a pipeline to http.Handler: it folds the recorded
// actions into one concrete response, commits the signed session cookie
// after the body and status are final, and converts unrecovered errors
// into a deterministic 500 with a JSON-encoded error.
package hyper
