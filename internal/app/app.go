// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package app assembles the HTTP surface: every route is a middleware
// pipeline over the typed connection, composed from method guards,
// decoders and collaborator calls, and adapted into plain handlers at
// the router boundary.
//
// Paths that multiplex several verbs are registered once and dispatched
// with [hyper.Alt] chains; each alternative gates on its own method
// guard, so a non-matching verb fails over to the next handler without
// leaking partial output.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"code.hybscloud.com/shoplist/internal/decode"
	"code.hybscloud.com/shoplist/internal/hyper"
	"code.hybscloud.com/shoplist/internal/outcome"
	"code.hybscloud.com/shoplist/internal/password"
	"code.hybscloud.com/shoplist/internal/search"
	"code.hybscloud.com/shoplist/internal/store"
)

// App wires the collaborators behind the HTTP surface.
type App struct {
	Store  store.Store
	Search *search.Index
	Hasher password.Hasher
	Codec  *hyper.SessionCodec
	Log    *slog.Logger

	// SupportedLocales drive the landing-page locale negotiation;
	// DefaultLocale is the final fallback.
	SupportedLocales []string
	DefaultLocale    string
}

// Router builds the application router. Each path is registered once;
// verb dispatch happens inside the pipelines.
func (a *App) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/", a.handle(a.home()))
	r.Handle("/signup", a.handle(a.signUp()))
	r.Handle("/signin", a.handle(a.signIn()))
	r.Handle("/signout", a.handle(a.signOut()))
	r.Handle("/lists", a.handle(a.lists()))
	r.Handle("/lists/{list}", a.handle(a.list()))
	r.Handle("/items", a.handle(a.items()))
	r.Handle("/items/{item}", a.handle(a.item()))
	return r
}

func (a *App) handle(m hyper.Middleware[error, hyper.Unit]) http.Handler {
	return hyper.ToHandler(m, a.Codec, a.Log)
}

// call lifts a collaborator call into a middleware, moving its error
// return onto the typed error channel.
func call[A any](f func(ctx context.Context) (A, error)) hyper.Middleware[error, A] {
	return hyper.Lift(func(ctx context.Context) outcome.Outcome[error, A] {
		a, err := f(ctx)
		if err != nil {
			return outcome.Fail[error, A](err)
		}
		return outcome.OK[error](a)
	})
}

// currentUser resolves the session user. Every failure, whether the
// session entry is absent, malformed, or names a deleted account,
// collapses to [hyper.ErrUnauthorized].
func (a *App) currentUser() hyper.Middleware[error, store.User] {
	withID := hyper.Chain(hyper.DecodeSession("user", decode.UUID),
		func(id string) hyper.Middleware[error, store.User] {
			return call(func(ctx context.Context) (store.User, error) {
				return a.Store.UserByID(ctx, id)
			})
		})
	return hyper.MapLeft(withID, func(error) error { return hyper.ErrUnauthorized })
}

// whenAnonymous redirects authenticated users to their lists and runs m
// for everyone else.
func (a *App) whenAnonymous(m hyper.Middleware[error, hyper.Unit]) hyper.Middleware[error, hyper.Unit] {
	authed := hyper.Then(a.currentUser(), hyper.Redirect[error]("/lists"))
	return hyper.OrElse(authed, func(error) hyper.Middleware[error, hyper.Unit] {
		return m
	})
}

// dispatchErrors is the standard tail of an authenticated pipeline:
// missing authorization redirects to sign-in, a wrong verb or a missing
// record redirects to the safe fallback page, and anything else renders
// a Left-shaped JSON message.
func dispatchErrors(fallback string) func(error) hyper.Middleware[error, hyper.Unit] {
	return func(err error) hyper.Middleware[error, hyper.Unit] {
		switch {
		case errors.Is(err, hyper.ErrUnauthorized):
			return hyper.Redirect[error]("/signin")
		case errors.Is(err, hyper.ErrMethodNotAllowed), errors.Is(err, store.ErrNotFound):
			return hyper.Redirect[error](fallback)
		default:
			return hyper.JSON(outcome.Fail[string, hyper.Unit](errorMessage(err)))
		}
	}
}

// errorMessage renders an error for the response body: decode failures
// keep their field-level path, everything else is generic.
func errorMessage(err error) string {
	var failed *hyper.DecodeFailed
	if errors.As(err, &failed) {
		return decode.Render(failed.Tree)
	}
	return "input error"
}
