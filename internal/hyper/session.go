// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hyper

import (
	"crypto/sha256"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// sessionEntry is one stored session value. Flash entries are readable
// exactly once: they survive commits untouched until a request reads
// them, and are excluded from the commit that follows the read.
type sessionEntry struct {
	Value string `json:"v"`
	Flash bool   `json:"f,omitempty"`

	// loaded marks entries that arrived from the cookie rather than
	// being set during this request. Only a loaded flash entry can have
	// had its one read.
	loaded bool `json:"-"`
}

// Session is an immutable key-value store scoped to one browser. Every
// mutation returns a new Session; reads never fail and never change an
// observable value, though reading a loaded flash entry records its
// consumption so the next commit can drop it.
type Session struct {
	entries map[string]sessionEntry

	// reads is shared by every Session derived from one request, so a
	// flash consumed before a later mutation still counts as read.
	reads map[string]bool
}

// NewSession creates an empty session.
func NewSession() Session {
	return Session{entries: map[string]sessionEntry{}, reads: map[string]bool{}}
}

// Get returns the named entry. Reading a flash entry that arrived from
// the cookie marks it consumed; it is dropped at the next commit and an
// unread flash is carried forward instead.
func (s Session) Get(name string) (string, bool) {
	e, ok := s.entries[name]
	if ok && e.Flash && e.loaded && s.reads != nil {
		s.reads[name] = true
	}
	return e.Value, ok
}

// Set returns a session with the named entry set.
func (s Session) Set(name, value string) Session {
	return s.with(name, sessionEntry{Value: value})
}

// SetFlash returns a session with the named entry set as a flash value:
// committed once, readable by the next request, then cleared.
func (s Session) SetFlash(name, value string) Session {
	return s.with(name, sessionEntry{Value: value, Flash: true})
}

// Unset returns a session without the named entry.
func (s Session) Unset(name string) Session {
	next := s.clone()
	delete(next.entries, name)
	return next
}

func (s Session) with(name string, e sessionEntry) Session {
	next := s.clone()
	next.entries[name] = e
	return next
}

func (s Session) clone() Session {
	entries := make(map[string]sessionEntry, len(s.entries))
	for k, v := range s.entries {
		entries[k] = v
	}
	return Session{entries: entries, reads: s.reads}
}

// committable returns the entries that belong in the next cookie: all
// regular entries, flash entries set during this request, and loaded
// flash entries that nothing read yet. A flash whose one read happened
// is dropped.
func (s Session) committable() map[string]sessionEntry {
	out := make(map[string]sessionEntry, len(s.entries))
	for k, e := range s.entries {
		if e.Flash && e.loaded && s.reads[k] {
			continue
		}
		out[k] = e
	}
	return out
}

// CookieConfig describes the session cookie. Secure and Domain are
// expected to be set only in production.
type CookieConfig struct {
	Name   string
	Path   string
	Domain string
	Secure bool
	TTL    time.Duration
}

// SessionCodec signs, encrypts and serializes sessions into the session
// cookie. Keys are derived from a single configured secret.
type SessionCodec struct {
	codec  *securecookie.SecureCookie
	cookie CookieConfig
}

// NewSessionCodec creates a codec from the configured secret. The hash
// and block keys are derived independently so that rotating the secret
// invalidates both signatures and ciphertexts.
func NewSessionCodec(secret []byte, cookie CookieConfig) *SessionCodec {
	if cookie.Name == "" {
		cookie.Name = "__session"
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	if cookie.TTL == 0 {
		cookie.TTL = 365 * 24 * time.Hour
	}
	hashKey := sha256.Sum256(append([]byte("hash:"), secret...))
	blockKey := sha256.Sum256(append([]byte("block:"), secret...))
	codec := securecookie.New(hashKey[:], blockKey[:])
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(cookie.TTL / time.Second))
	return &SessionCodec{codec: codec, cookie: cookie}
}

// Load decodes the session from the request cookie. A missing, expired
// or tampered cookie yields an empty session rather than an error.
func (sc *SessionCodec) Load(r *http.Request) Session {
	cookie, err := r.Cookie(sc.cookie.Name)
	if err != nil {
		return NewSession()
	}
	var entries map[string]sessionEntry
	if err := sc.codec.Decode(sc.cookie.Name, cookie.Value, &entries); err != nil {
		return NewSession()
	}
	for k, e := range entries {
		e.loaded = true
		entries[k] = e
	}
	return Session{entries: entries, reads: map[string]bool{}}
}

// Commit serializes the session into its set-cookie form. Commit runs
// after the response status and body are finalized but before the
// response is written, so the signing cost never races the response.
func (sc *SessionCodec) Commit(s Session) (*http.Cookie, error) {
	value, err := sc.codec.Encode(sc.cookie.Name, s.committable())
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     sc.cookie.Name,
		Value:    value,
		Path:     sc.cookie.Path,
		Domain:   sc.cookie.Domain,
		Expires:  time.Now().Add(sc.cookie.TTL),
		HttpOnly: true,
		Secure:   sc.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}
