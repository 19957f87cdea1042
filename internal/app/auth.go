// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package app

import (
	"context"
	"errors"

	"code.hybscloud.com/shoplist/internal/decode"
	"code.hybscloud.com/shoplist/internal/hyper"
	"code.hybscloud.com/shoplist/internal/outcome"
	"code.hybscloud.com/shoplist/internal/store"
)

// errWrongCredentials covers every sign-in failure. It is deliberately
// indistinct between unknown email and wrong password.
var errWrongCredentials = errors.New("wrong email or password")

type credentials struct {
	Email    string
	Password string
}

var validPassword = decode.Refine(decode.NonEmpty,
	func(s string) bool { return len(s) >= 6 },
	"should be at least 6 characters")

var credentialsBody = decode.Map2(
	decode.At("email", decode.Email),
	decode.At("password", validPassword),
	func(email, password string) credentials {
		return credentials{Email: email, Password: password}
	},
)

// signUp handles GET (form data) and POST (account creation) on
// /signup. Validation and duplicate-email failures render a Both-shaped
// payload carrying the message alongside the submitted values, so the
// form re-renders with the input preserved.
func (a *App) signUp() hyper.Middleware[error, hyper.Unit] {
	action := hyper.Then(hyper.POST, hyper.OrElse(a.createAccount(), func(err error) hyper.Middleware[error, hyper.Unit] {
		return formFailure(signUpMessage(err))
	}))
	loader := hyper.Then(hyper.GET, hyper.JSON(nil))
	m := hyper.Alt(action, hyper.Alt(loader, hyper.Redirect[error]("/")))
	return a.whenAnonymous(m)
}

func (a *App) createAccount() hyper.Middleware[error, hyper.Unit] {
	return hyper.Chain(hyper.DecodeBody(credentialsBody),
		func(cred credentials) hyper.Middleware[error, hyper.Unit] {
			create := call(func(ctx context.Context) (store.User, error) {
				hash, err := a.Hasher.Hash(cred.Password)
				if err != nil {
					return store.User{}, err
				}
				return a.Store.CreateUser(ctx, cred.Email, hash)
			})
			return hyper.Chain(create, a.signedIn)
		})
}

// signIn handles GET (form data plus any flash message) and POST on
// /signin. Every action failure collapses to one generic message.
func (a *App) signIn() hyper.Middleware[error, hyper.Unit] {
	action := hyper.Then(hyper.POST, hyper.OrElse(a.verifyAccount(), func(error) hyper.Middleware[error, hyper.Unit] {
		return formFailure(errWrongCredentials.Error())
	}))
	loader := hyper.Then(hyper.GET, hyper.Chain(sessionMessage, func(msg string) hyper.Middleware[error, hyper.Unit] {
		return hyper.JSON(map[string]string{"message": msg})
	}))
	m := hyper.Alt(action, hyper.Alt(loader, hyper.Redirect[error]("/")))
	return a.whenAnonymous(m)
}

func (a *App) verifyAccount() hyper.Middleware[error, hyper.Unit] {
	return hyper.Chain(hyper.DecodeBody(credentialsBody),
		func(cred credentials) hyper.Middleware[error, hyper.Unit] {
			verify := call(func(ctx context.Context) (store.User, error) {
				user, err := a.Store.UserByEmail(ctx, cred.Email)
				if err != nil {
					return store.User{}, errWrongCredentials
				}
				if !a.Hasher.Verify(user.PasswordHash, cred.Password) {
					return store.User{}, errWrongCredentials
				}
				return user, nil
			})
			return hyper.Chain(verify, a.signedIn)
		})
}

// signOut clears the session user, leaves a one-shot confirmation for
// the sign-in page, and redirects there.
func (a *App) signOut() hyper.Middleware[error, hyper.Unit] {
	flow := hyper.Then(hyper.GET,
		hyper.Then(hyper.ClearSession[error]("user"),
			hyper.Then(hyper.FlashSession[error]("message", "signed out"),
				hyper.Redirect[error]("/signin"))))
	return hyper.OrElse(flow, func(error) hyper.Middleware[error, hyper.Unit] {
		return hyper.Redirect[error]("/")
	})
}

func (a *App) signedIn(user store.User) hyper.Middleware[error, hyper.Unit] {
	return hyper.Then(hyper.SetSession[error]("user", user.ID),
		hyper.Redirect[error]("/lists"))
}

func signUpMessage(err error) string {
	if errors.Is(err, store.ErrDuplicateEmail) {
		return store.ErrDuplicateEmail.Error()
	}
	var failed *hyper.DecodeFailed
	if errors.As(err, &failed) {
		return decode.Render(failed.Tree)
	}
	return "could not create account"
}

// formFailure renders a Both-shaped payload: the message on the left,
// the submitted values (password excluded) on the right for re-render.
func formFailure(msg string) hyper.Middleware[error, hyper.Unit] {
	return hyper.Chain(submittedValues, func(values map[string]string) hyper.Middleware[error, hyper.Unit] {
		return hyper.JSON(outcome.Both(msg, values))
	})
}

var submittedValues = hyper.FromConn(func(c *hyper.Conn) outcome.Outcome[error, map[string]string] {
	values := map[string]string{}
	if body, ok := c.BodyInput().(map[string]any); ok {
		for name, v := range body {
			if name == "password" {
				continue
			}
			if s, ok := v.(string); ok {
				values[name] = s
			}
		}
	}
	return outcome.OK[error](values)
})

var sessionMessage = hyper.FromConn(func(c *hyper.Conn) outcome.Outcome[error, string] {
	msg, _ := c.SessionValue("message")
	return outcome.OK[error](msg)
})
