// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hyper

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
)

// Exec folds the accumulated actions left to right into the concrete
// response triple. Session actions are skipped here: the connection's
// session snapshot is authoritative and committed separately.
func Exec(c *Conn) (status int, header http.Header, body []byte) {
	status = http.StatusOK
	header = http.Header{}
	for _, a := range c.Actions() {
		switch action := a.(type) {
		case SetStatusAction:
			status = action.Code
		case SetHeaderAction:
			header.Set(action.Name, action.Value)
		case SetBodyAction:
			body = action.Body
		case SetSessionAction, ClearSessionAction, EndAction:
		default:
			panic("hyper: unknown action")
		}
	}
	return status, header, body
}

// ToHandler adapts a complete pipeline into an http.Handler. It builds
// the initial connection from the transport request (router params,
// parsed body, decoded session), runs the pipeline, folds the resulting
// actions into a response, and commits the session cookie after the
// status and body are final but before anything is written.
//
// A pipeline that fails without recovery, or that completes without
// reaching End, produces a deterministic 500 with a JSON-encoded error;
// it never hangs and never writes a partial response.
func ToHandler[E any](m Middleware[E, Unit], codec *SessionCodec, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn := NewConn(r, mux.Vars(r), parseBody(r), codec.Load(r))
		res := m(r.Context(), conn)

		step, ok := res.Value()
		if !ok {
			e, _ := res.Err()
			log.Error("pipeline failed without recovery",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", e))
			writeError(w, e)
			return
		}
		final := step.Conn
		if !final.Ended() {
			log.Error("pipeline completed without ending the response",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path))
			writeError(w, "incomplete response")
			return
		}

		status, header, body := Exec(final)
		cookie, err := codec.Commit(final.Session())
		if err != nil {
			log.Error("session commit failed", slog.Any("error", err))
			writeError(w, "session commit failed")
			return
		}
		for name, values := range header {
			for _, v := range values {
				w.Header().Add(name, v)
			}
		}
		http.SetCookie(w, cookie)
		w.WriteHeader(status)
		if len(body) > 0 {
			if _, err := w.Write(body); err != nil {
				log.Error("response write failed", slog.Any("error", err))
			}
		}
	})
}

// writeError emits the deterministic failure response for unrecovered
// pipeline errors: a 500 with the JSON-encoded error value.
func writeError(w http.ResponseWriter, e any) {
	msg := "internal error"
	switch v := e.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	body, err := json.Marshal(map[string]string{"error": msg})
	if err != nil {
		body = []byte(`{"error":"internal error"}`)
	}
	_, _ = w.Write(body)
}

// parseBody reads the request body into a decoder input. Form payloads
// become a map of the first value per field, JSON payloads decode into
// their generic shape, anything else is kept as a raw string. GET and
// HEAD requests have no body input.
func parseBody(r *http.Request) any {
	if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil
	}
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch contentType {
	case "application/json":
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil
		}
		return v
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil
		}
		m := make(map[string]any, len(values))
		for name := range values {
			m[name] = values.Get(name)
		}
		return m
	default:
		return string(raw)
	}
}
