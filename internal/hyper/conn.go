// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hyper

import (
	"net/http"
	"net/url"
	"strings"
)

// Action is one deferred response-construction instruction. Mutating a
// [Conn] never touches the transport; it appends an Action, and the
// whole list is folded into a concrete response only at execution time.
// This is what makes it safe to try one handler and, on failure, retry
// another from the original connection.
type Action interface {
	isAction()
}

// SetStatusAction sets the response status code.
type SetStatusAction struct{ Code int }

// SetHeaderAction sets a response header.
type SetHeaderAction struct{ Name, Value string }

// SetBodyAction sets the response body.
type SetBodyAction struct{ Body []byte }

// SetSessionAction sets a session entry. Flash entries are readable by
// exactly one subsequent request before being cleared.
type SetSessionAction struct {
	Name, Value string
	Flash       bool
}

// ClearSessionAction removes a session entry.
type ClearSessionAction struct{ Name string }

// EndAction marks the response as complete. Reaching it is the only
// terminal state of a pipeline.
type EndAction struct{}

func (SetStatusAction) isAction()    {}
func (SetHeaderAction) isAction()    {}
func (SetBodyAction) isAction()      {}
func (SetSessionAction) isAction()   {}
func (ClearSessionAction) isAction() {}
func (EndAction) isAction()          {}

// Conn is the immutable state of one in-flight request: the received
// request data, the router's path parameters, the session snapshot, and
// the ordered list of accumulated response actions. Every mutation
// returns a new Conn; the original is never changed.
type Conn struct {
	method  string
	url     *url.URL
	header  http.Header
	params  map[string]string
	body    any
	session Session
	actions []Action
	ended   bool
}

// NewConn creates the connection for one incoming request. params holds
// the path parameters already extracted by the router; body is the
// parsed request body (a map for form and JSON object payloads).
func NewConn(r *http.Request, params map[string]string, body any, session Session) *Conn {
	return &Conn{
		method:  r.Method,
		url:     r.URL,
		header:  r.Header,
		params:  params,
		body:    body,
		session: session,
	}
}

// push returns a copy of the connection with one more action. The
// backing array is never shared with the receiver, so earlier Conn
// values stay valid under branching.
func (c *Conn) push(a Action, mutate func(*Conn)) *Conn {
	next := *c
	actions := make([]Action, len(c.actions), len(c.actions)+1)
	copy(actions, c.actions)
	next.actions = append(actions, a)
	if mutate != nil {
		mutate(&next)
	}
	return &next
}

// Method returns the request method as received.
func (c *Conn) Method() string { return c.method }

// URL returns the request URL.
func (c *Conn) URL() *url.URL { return c.url }

// Header returns the named request header, or "" when absent.
func (c *Conn) Header(name string) string { return c.header.Get(name) }

// Param returns the named path parameter.
func (c *Conn) Param(name string) (string, bool) {
	v, ok := c.params[name]
	return v, ok
}

// QueryInput returns the query string as a decoder input: a map of the
// first value of each parameter.
func (c *Conn) QueryInput() any {
	values := c.url.Query()
	m := make(map[string]any, len(values))
	for name := range values {
		m[name] = values.Get(name)
	}
	return m
}

// BodyInput returns the parsed request body as a decoder input.
func (c *Conn) BodyInput() any { return c.body }

// Session returns the current session snapshot, including mutations
// recorded earlier in this pipeline.
func (c *Conn) Session() Session { return c.session }

// SessionValue returns the named session entry.
func (c *Conn) SessionValue(name string) (string, bool) {
	return c.session.Get(name)
}

// Ended reports whether the response has been marked complete.
func (c *Conn) Ended() bool { return c.ended }

// Actions returns the accumulated response actions. The returned slice
// must not be mutated.
func (c *Conn) Actions() []Action { return c.actions }

// SetStatus records the response status code.
func (c *Conn) SetStatus(code int) *Conn {
	return c.push(SetStatusAction{Code: code}, nil)
}

// SetHeader records a response header.
func (c *Conn) SetHeader(name, value string) *Conn {
	return c.push(SetHeaderAction{Name: name, Value: value}, nil)
}

// SetBody records the response body.
func (c *Conn) SetBody(body []byte) *Conn {
	return c.push(SetBodyAction{Body: body}, nil)
}

// SetSession records a session write. The session snapshot is updated
// at the same time so later pipeline steps observe the new value.
func (c *Conn) SetSession(name, value string, flash bool) *Conn {
	return c.push(SetSessionAction{Name: name, Value: value, Flash: flash}, func(next *Conn) {
		if flash {
			next.session = c.session.SetFlash(name, value)
		} else {
			next.session = c.session.Set(name, value)
		}
	})
}

// ClearSession records removal of a session entry.
func (c *Conn) ClearSession(name string) *Conn {
	return c.push(ClearSessionAction{Name: name}, func(next *Conn) {
		next.session = c.session.Unset(name)
	})
}

// End marks the response as complete.
func (c *Conn) End() *Conn {
	next := c.push(EndAction{}, nil)
	next.ended = true
	return next
}

// methodIs reports whether the request method matches, ignoring case.
func (c *Conn) methodIs(method string) bool {
	return strings.EqualFold(c.method, method)
}
