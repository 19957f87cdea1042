// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hyper

import (
	"context"
	"encoding/json"
	"net/http"

	"code.hybscloud.com/shoplist/internal/outcome"
)

// Redirect is a terminal middleware: it records the redirect status and
// Location header, then ends the response.
func Redirect[E any](location string) Middleware[E, Unit] {
	return ModifyConn[E](func(c *Conn) *Conn {
		return c.
			SetStatus(http.StatusFound).
			SetHeader("Location", location).
			End()
	})
}

// NotFound is a terminal middleware recording an empty 404 response.
func NotFound[E any]() Middleware[E, Unit] {
	return ModifyConn[E](func(c *Conn) *Conn {
		return c.SetStatus(http.StatusNotFound).End()
	})
}

// JSON is a terminal middleware: it records a 200 response with the
// JSON encoding of v and ends the response. Encoding failures surface
// on the error channel.
func JSON(v any) Middleware[error, Unit] {
	return func(_ context.Context, c *Conn) outcome.Outcome[error, Step[Unit]] {
		body, err := json.Marshal(v)
		if err != nil {
			return outcome.Fail[error, Step[Unit]](err)
		}
		next := c.
			SetStatus(http.StatusOK).
			SetHeader("Content-Type", "application/json; charset=utf-8").
			SetBody(body).
			End()
		return outcome.OK[error](Step[Unit]{Conn: next})
	}
}
