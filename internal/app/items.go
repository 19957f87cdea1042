// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package app

import (
	"context"

	"code.hybscloud.com/shoplist/internal/decode"
	"code.hybscloud.com/shoplist/internal/hyper"
	"code.hybscloud.com/shoplist/internal/outcome"
	"code.hybscloud.com/shoplist/internal/store"
)

var itemPatchBody = decode.Map3(
	decode.Optional("title", decode.NonEmpty),
	decode.Optional("note", decode.String),
	decode.Optional("checked", decode.BoolFromString),
	func(title, note *string, checked *bool) store.ItemPatch {
		return store.ItemPatch{Title: title, Note: note, Checked: checked}
	},
)

var termQuery = decode.WithFallback(decode.At("term", decode.String), "")
var listQuery = decode.At("list", decode.UUID)

// okJSON acknowledges a mutating item action in the Right-shaped
// envelope.
func okJSON() hyper.Middleware[error, hyper.Unit] {
	return hyper.JSON(outcome.OK[string](map[string]bool{"ok": true}))
}

// item handles /items/{item}: PUT applies a partial patch, DELETE
// removes the item.
func (a *App) item() hyper.Middleware[error, hyper.Unit] {
	m := hyper.Chain(a.currentUser(), func(user store.User) hyper.Middleware[error, hyper.Unit] {
		return hyper.Alt(a.updateItem(user), a.deleteItem(user))
	})
	return hyper.OrElse(m, dispatchErrors("/"))
}

// items handles /items: DELETE clears the checked items of the list
// named by the query, GET serves autocomplete suggestions.
func (a *App) items() hyper.Middleware[error, hyper.Unit] {
	m := hyper.Chain(a.currentUser(), func(user store.User) hyper.Middleware[error, hyper.Unit] {
		return hyper.Alt(a.clearChecked(user), a.searchTitles(user))
	})
	return hyper.OrElse(m, dispatchErrors("/"))
}

func (a *App) updateItem(user store.User) hyper.Middleware[error, hyper.Unit] {
	scope := hyper.BindTo(hyper.DecodeParam("item", decode.UUID), func(id string) itemScope {
		return itemScope{user: user, id: id}
	})
	scope = hyper.Bind(scope, func(itemScope) hyper.Middleware[error, store.ItemPatch] {
		return hyper.DecodeBody(itemPatchBody)
	}, func(s itemScope, patch store.ItemPatch) itemScope {
		s.patch = patch
		return s
	})
	flow := hyper.Chain(scope, func(s itemScope) hyper.Middleware[error, hyper.Unit] {
		update := call(func(ctx context.Context) (store.Item, error) {
			return a.Store.UpdateItem(ctx, s.user.ID, s.id, s.patch)
		})
		return hyper.Then(update, okJSON())
	})
	return hyper.Then(hyper.PUT, hyper.OrElse(flow, dispatchErrors("/")))
}

func (a *App) deleteItem(user store.User) hyper.Middleware[error, hyper.Unit] {
	flow := hyper.Chain(hyper.DecodeParam("item", decode.UUID), func(id string) hyper.Middleware[error, hyper.Unit] {
		remove := call(func(ctx context.Context) (hyper.Unit, error) {
			return hyper.Unit{}, a.Store.DeleteItem(ctx, user.ID, id)
		})
		return hyper.Then(remove, okJSON())
	})
	return hyper.Then(hyper.DELETE, hyper.OrElse(flow, dispatchErrors("/")))
}

func (a *App) clearChecked(user store.User) hyper.Middleware[error, hyper.Unit] {
	flow := hyper.Chain(hyper.DecodeQuery(listQuery), func(id string) hyper.Middleware[error, hyper.Unit] {
		remove := call(func(ctx context.Context) (hyper.Unit, error) {
			return hyper.Unit{}, a.Store.DeleteCheckedItems(ctx, user.ID, id)
		})
		return hyper.Then(remove, okJSON())
	})
	return hyper.Then(hyper.DELETE, hyper.OrElse(flow, dispatchErrors("/")))
}

func (a *App) searchTitles(user store.User) hyper.Middleware[error, hyper.Unit] {
	flow := hyper.Chain(hyper.DecodeQuery(termQuery), func(term string) hyper.Middleware[error, hyper.Unit] {
		find := hyper.Lift(func(ctx context.Context) outcome.Outcome[error, []string] {
			terms := a.Search.Search(ctx, user.ID, term)
			if terms == nil {
				terms = []string{}
			}
			return outcome.OK[error](terms)
		})
		return hyper.Chain(find, func(terms []string) hyper.Middleware[error, hyper.Unit] {
			return hyper.JSON(terms)
		})
	})
	return hyper.Then(hyper.GET, hyper.OrElse(flow, dispatchErrors("/")))
}

// itemScope accumulates the named intermediates of a single-item
// pipeline.
type itemScope struct {
	user  store.User
	id    string
	patch store.ItemPatch
}
