// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package app

import (
	"strconv"
	"strings"

	"code.hybscloud.com/shoplist/internal/decode"
	"code.hybscloud.com/shoplist/internal/hyper"
)

// home serves the landing page data: authenticated users are redirected
// to their lists, everyone else receives the negotiated locale.
func (a *App) home() hyper.Middleware[error, hyper.Unit] {
	landing := hyper.Then(hyper.GET,
		hyper.Chain(a.locale(), func(locale string) hyper.Middleware[error, hyper.Unit] {
			return hyper.JSON(map[string]string{"locale": locale})
		}))
	m := a.whenAnonymous(landing)
	return hyper.OrElse(m, func(error) hyper.Middleware[error, hyper.Unit] {
		return hyper.NotFound[error]()
	})
}

// locale resolves the UI locale: a session override wins, then the
// Accept-Language header negotiated against the supported set, then the
// default. The middleware is total.
func (a *App) locale() hyper.Middleware[error, string] {
	session := hyper.DecodeSession("locale", decode.String)
	header := hyper.Chain(hyper.DecodeHeader("Accept-Language", decode.String),
		func(accept string) hyper.Middleware[error, string] {
			return hyper.Of[error](negotiateLocale(accept, a.SupportedLocales, a.DefaultLocale))
		})
	return hyper.Alt(session, hyper.Alt(header, hyper.Of[error](a.DefaultLocale)))
}

// negotiateLocale picks the supported locale with the highest quality
// in the Accept-Language header. Tags match case-insensitively, with a
// base-language fallback ("en-GB" matches supported "en"). A range with
// q=0 means "not acceptable" and never becomes a candidate.
func negotiateLocale(accept string, supported []string, fallback string) string {
	best, bestQ := fallback, 0.0
	for _, part := range strings.Split(accept, ",") {
		tag, q := parseLanguageRange(part)
		if tag == "" || q <= 0 || q <= bestQ {
			continue
		}
		if match, ok := matchLocale(tag, supported); ok {
			best, bestQ = match, q
		}
	}
	return best
}

func parseLanguageRange(part string) (tag string, q float64) {
	q = 1.0
	fields := strings.Split(part, ";")
	tag = strings.TrimSpace(fields[0])
	for _, f := range fields[1:] {
		f = strings.TrimSpace(f)
		if v, ok := strings.CutPrefix(f, "q="); ok {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return "", 0
			}
			q = parsed
		}
	}
	return tag, q
}

func matchLocale(tag string, supported []string) (string, bool) {
	base, _, _ := strings.Cut(tag, "-")
	for _, s := range supported {
		if strings.EqualFold(tag, s) {
			return s, true
		}
	}
	for _, s := range supported {
		sBase, _, _ := strings.Cut(s, "-")
		if strings.EqualFold(base, sBase) {
			return s, true
		}
	}
	return "", false
}
