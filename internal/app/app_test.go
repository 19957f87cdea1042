// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package app_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/shoplist/internal/app"
	"code.hybscloud.com/shoplist/internal/hyper"
	"code.hybscloud.com/shoplist/internal/password"
	"code.hybscloud.com/shoplist/internal/search"
	"code.hybscloud.com/shoplist/internal/store"
)

type fixture struct {
	router http.Handler
	store  *store.Memory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	a := &app.App{
		Store:            mem,
		Search:           search.New(mem, search.FoodSeed),
		Hasher:           password.Bcrypt{Cost: 4},
		Codec:            hyper.NewSessionCodec([]byte("test-secret"), hyper.CookieConfig{TTL: time.Hour}),
		Log:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		SupportedLocales: []string{"en", "fr"},
		DefaultLocale:    "en",
	}
	return &fixture{router: a.Router(), store: mem}
}

func (f *fixture) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "__session" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func (f *fixture) signUp(t *testing.T, email, pass string) *http.Cookie {
	t.Helper()
	w := f.do(http.MethodPost, "/signup", url.Values{"email": {email}, "password": {pass}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/lists", w.Header().Get("Location"))
	return sessionCookie(t, w)
}

func (f *fixture) createList(t *testing.T, cookie *http.Cookie, title string) string {
	t.Helper()
	w := f.do(http.MethodPost, "/lists", url.Values{"title": {title}}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/lists/"), "unexpected location %q", location)
	return strings.TrimPrefix(location, "/lists/")
}

func TestSignUpShortPassword(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/signup", url.Values{"email": {"a@b.com"}, "password": {"short"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `"_tag":"Both"`)
	assert.Contains(t, body, "password")
	assert.Contains(t, body, "a@b.com", "submitted email preserved for re-render")
	assert.NotContains(t, body, "short", "plaintext password never echoed")

	lists := f.do(http.MethodGet, "/lists", nil, sessionCookie(t, w))
	require.Equal(t, http.StatusFound, lists.Code)
	assert.Equal(t, "/signin", lists.Header().Get("Location"), "no session user after failed sign-up")
}

func TestSignUpDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "a@b.com", "secret1")

	w := f.do(http.MethodPost, "/signup", url.Values{"email": {"a@b.com"}, "password": {"secret2"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "email already in use")
}

func TestSignInSuccess(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "a@b.com", "secret1")

	w := f.do(http.MethodPost, "/signin", url.Values{"email": {"a@b.com"}, "password": {"secret1"}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/lists", w.Header().Get("Location"))

	cookie := sessionCookie(t, w)
	lists := f.do(http.MethodGet, "/lists", nil, cookie)
	assert.Equal(t, http.StatusOK, lists.Code)
}

func TestSignInWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "a@b.com", "secret1")

	w := f.do(http.MethodPost, "/signin", url.Values{"email": {"a@b.com"}, "password": {"wrong!"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wrong email or password")

	missing := f.do(http.MethodPost, "/signin", url.Values{"email": {"no@one.com"}, "password": {"secret1"}}, nil)
	var wrongPassword, unknownEmail struct {
		Left string `json:"left"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrongPassword))
	require.NoError(t, json.Unmarshal(missing.Body.Bytes(), &unknownEmail))
	assert.Equal(t, wrongPassword.Left, unknownEmail.Left, "unknown email and wrong password are indistinct")
}

func TestListDeleteOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.signUp(t, "owner@b.com", "secret1")
	member := f.signUp(t, "member@b.com", "secret1")
	listID := f.createList(t, owner, "Groceries")

	view := f.do(http.MethodGet, "/lists/"+listID, nil, member)
	require.Equal(t, http.StatusOK, view.Code, "viewing by id grants membership")

	rejected := f.do(http.MethodDelete, "/lists/"+listID, nil, member)
	assert.Equal(t, http.StatusFound, rejected.Code)
	_, err := f.store.ListWithItems(ctx, listID)
	require.NoError(t, err, "list survives a non-owner delete")

	deleted := f.do(http.MethodDelete, "/lists/"+listID, nil, owner)
	assert.Equal(t, http.StatusFound, deleted.Code)
	assert.Equal(t, "/lists", deleted.Header().Get("Location"))
	_, err = f.store.ListWithItems(ctx, listID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestItemLifecycle(t *testing.T) {
	f := newFixture(t)

	cookie := f.signUp(t, "a@b.com", "secret1")
	listID := f.createList(t, cookie, "Groceries")

	created := f.do(http.MethodPost, "/lists/"+listID, url.Values{"title": {"Oat Milk"}}, cookie)
	require.Equal(t, http.StatusFound, created.Code)

	view := f.do(http.MethodGet, "/lists/"+listID, nil, cookie)
	require.Equal(t, http.StatusOK, view.Code)
	var list store.ListWithItems
	require.NoError(t, json.Unmarshal(view.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	itemID := list.Items[0].ID

	checked := f.do(http.MethodPut, "/items/"+itemID, url.Values{"checked": {"true"}}, cookie)
	require.Equal(t, http.StatusOK, checked.Code)
	assert.Contains(t, checked.Body.String(), `"_tag":"Right"`)

	cleared := f.do(http.MethodDelete, "/items?list="+listID, nil, cookie)
	require.Equal(t, http.StatusOK, cleared.Code)

	view = f.do(http.MethodGet, "/lists/"+listID, nil, cookie)
	require.NoError(t, json.Unmarshal(view.Body.Bytes(), &list))
	assert.Empty(t, list.Items, "checked items cleared")
}

func TestItemUpdateBadChecked(t *testing.T) {
	f := newFixture(t)

	cookie := f.signUp(t, "a@b.com", "secret1")
	listID := f.createList(t, cookie, "Groceries")
	f.do(http.MethodPost, "/lists/"+listID, url.Values{"title": {"Oat Milk"}}, cookie)

	view := f.do(http.MethodGet, "/lists/"+listID, nil, cookie)
	var list store.ListWithItems
	require.NoError(t, json.Unmarshal(view.Body.Bytes(), &list))
	itemID := list.Items[0].ID

	w := f.do(http.MethodPut, "/items/"+itemID, url.Values{"checked": {"yes"}}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"_tag":"Left"`)
	assert.Contains(t, w.Body.String(), "checked")
}

func TestAutocompleteRankedSuggestions(t *testing.T) {
	f := newFixture(t)

	cookie := f.signUp(t, "a@b.com", "secret1")
	listID := f.createList(t, cookie, "Groceries")
	for _, title := range []string{"Apple", "Apple Juice"} {
		w := f.do(http.MethodPost, "/lists/"+listID, url.Values{"title": {title}}, cookie)
		require.Equal(t, http.StatusFound, w.Code)
	}

	w := f.do(http.MethodGet, "/items?term=app", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var terms []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &terms))
	assert.Contains(t, terms, "Apple")
	assert.Contains(t, terms, "Apple Juice")
	assert.LessOrEqual(t, len(terms), search.DefaultLimit)
}

func TestSignOutFlashMessage(t *testing.T) {
	f := newFixture(t)

	cookie := f.signUp(t, "a@b.com", "secret1")
	out := f.do(http.MethodGet, "/signout", nil, cookie)
	require.Equal(t, http.StatusFound, out.Code)
	require.Equal(t, "/signin", out.Header().Get("Location"))

	first := f.do(http.MethodGet, "/signin", nil, sessionCookie(t, out))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), "signed out")

	second := f.do(http.MethodGet, "/signin", nil, sessionCookie(t, first))
	require.Equal(t, http.StatusOK, second.Code)
	assert.NotContains(t, second.Body.String(), "signed out", "flash is readable exactly once")
}

func TestHomeLocaleNegotiation(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.5")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"locale":"fr"`)

	// q=0 marks a language as not acceptable; it must not win over the
	// default.
	rejected := httptest.NewRequest(http.MethodGet, "/", nil)
	rejected.Header.Set("Accept-Language", "fr;q=0")
	wr := httptest.NewRecorder()
	f.router.ServeHTTP(wr, rejected)
	require.Equal(t, http.StatusOK, wr.Code)
	assert.Contains(t, wr.Body.String(), `"locale":"en"`)

	cookie := f.signUp(t, "a@b.com", "secret1")
	authed := f.do(http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusFound, authed.Code)
	assert.Equal(t, "/lists", authed.Header().Get("Location"))
}

func TestUnauthenticatedRedirects(t *testing.T) {
	f := newFixture(t)

	for _, target := range []string{"/lists", "/items?term=app"} {
		w := f.do(http.MethodGet, target, nil, nil)
		require.Equal(t, http.StatusFound, w.Code, target)
		assert.Equal(t, "/signin", w.Header().Get("Location"), target)
	}
}
