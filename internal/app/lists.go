// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package app

import (
	"context"

	"code.hybscloud.com/shoplist/internal/decode"
	"code.hybscloud.com/shoplist/internal/hyper"
	"code.hybscloud.com/shoplist/internal/store"
)

var listTitleBody = decode.At("title", decode.NonEmpty)

// listScope accumulates the named intermediates of a single-list
// pipeline.
type listScope struct {
	user  store.User
	id    string
	title string
}

// lists handles /lists: POST creates a list, GET returns the overview.
func (a *App) lists() hyper.Middleware[error, hyper.Unit] {
	m := hyper.Chain(a.currentUser(), func(user store.User) hyper.Middleware[error, hyper.Unit] {
		return hyper.Alt(a.createList(user), a.listsIndex(user))
	})
	return hyper.OrElse(m, dispatchErrors("/"))
}

// list handles /lists/{list}: POST creates an item, PUT renames,
// DELETE removes (owner only), GET returns the list with its items.
func (a *App) list() hyper.Middleware[error, hyper.Unit] {
	m := hyper.Chain(a.currentUser(), func(user store.User) hyper.Middleware[error, hyper.Unit] {
		return hyper.Alt(a.createItem(user),
			hyper.Alt(a.updateList(user),
				hyper.Alt(a.deleteList(user), a.viewList(user))))
	})
	return hyper.OrElse(m, dispatchErrors("/lists"))
}

func (a *App) createList(user store.User) hyper.Middleware[error, hyper.Unit] {
	flow := hyper.Chain(hyper.DecodeBody(listTitleBody), func(title string) hyper.Middleware[error, hyper.Unit] {
		create := call(func(ctx context.Context) (store.List, error) {
			return a.Store.CreateList(ctx, user.ID, title)
		})
		return hyper.Chain(create, func(list store.List) hyper.Middleware[error, hyper.Unit] {
			return hyper.Redirect[error]("/lists/" + list.ID)
		})
	})
	return hyper.Then(hyper.POST, hyper.OrElse(flow, dispatchErrors("/lists")))
}

func (a *App) listsIndex(user store.User) hyper.Middleware[error, hyper.Unit] {
	flow := hyper.Chain(call(func(ctx context.Context) ([]store.ListSummary, error) {
		return a.Store.Lists(ctx, user.ID)
	}), func(lists []store.ListSummary) hyper.Middleware[error, hyper.Unit] {
		if lists == nil {
			lists = []store.ListSummary{}
		}
		return hyper.JSON(lists)
	})
	return hyper.Then(hyper.GET, hyper.OrElse(flow, dispatchErrors("/")))
}

// viewList returns the list with its items. Any authenticated user who
// knows the id is granted membership on first view; that is the sharing
// mechanism.
func (a *App) viewList(user store.User) hyper.Middleware[error, hyper.Unit] {
	flow := hyper.Chain(hyper.DecodeParam("list", decode.UUID), func(id string) hyper.Middleware[error, hyper.Unit] {
		fetch := call(func(ctx context.Context) (store.ListWithItems, error) {
			if err := a.Store.EnsureMember(ctx, user.ID, id); err != nil {
				return store.ListWithItems{}, err
			}
			return a.Store.ListWithItems(ctx, id)
		})
		return hyper.Chain(fetch, func(list store.ListWithItems) hyper.Middleware[error, hyper.Unit] {
			return hyper.JSON(list)
		})
	})
	return hyper.Then(hyper.GET, hyper.OrElse(flow, dispatchErrors("/lists")))
}

func (a *App) updateList(user store.User) hyper.Middleware[error, hyper.Unit] {
	scope := hyper.BindTo(hyper.DecodeParam("list", decode.UUID), func(id string) listScope {
		return listScope{user: user, id: id}
	})
	scope = hyper.Bind(scope, func(listScope) hyper.Middleware[error, string] {
		return hyper.DecodeBody(listTitleBody)
	}, func(s listScope, title string) listScope {
		s.title = title
		return s
	})
	flow := hyper.Chain(scope, func(s listScope) hyper.Middleware[error, hyper.Unit] {
		update := call(func(ctx context.Context) (hyper.Unit, error) {
			return hyper.Unit{}, a.Store.UpdateListTitle(ctx, s.user.ID, s.id, s.title)
		})
		return hyper.Then(update, hyper.Redirect[error]("/lists/"+s.id))
	})
	return hyper.Then(hyper.PUT, hyper.OrElse(flow, dispatchErrors("/lists")))
}

func (a *App) deleteList(user store.User) hyper.Middleware[error, hyper.Unit] {
	flow := hyper.Chain(hyper.DecodeParam("list", decode.UUID), func(id string) hyper.Middleware[error, hyper.Unit] {
		remove := call(func(ctx context.Context) (hyper.Unit, error) {
			return hyper.Unit{}, a.Store.DeleteList(ctx, user.ID, id)
		})
		return hyper.Then(remove, hyper.Redirect[error]("/lists"))
	})
	return hyper.Then(hyper.DELETE, hyper.OrElse(flow, dispatchErrors("/lists")))
}

// createItem adds an item to the list and feeds the title into the
// autocomplete vocabulary of every member.
func (a *App) createItem(user store.User) hyper.Middleware[error, hyper.Unit] {
	scope := hyper.BindTo(hyper.DecodeParam("list", decode.UUID), func(id string) listScope {
		return listScope{user: user, id: id}
	})
	scope = hyper.Bind(scope, func(listScope) hyper.Middleware[error, string] {
		return hyper.DecodeBody(listTitleBody)
	}, func(s listScope, title string) listScope {
		s.title = title
		return s
	})
	flow := hyper.Chain(scope, func(s listScope) hyper.Middleware[error, hyper.Unit] {
		create := call(func(ctx context.Context) (store.Item, error) {
			item, err := a.Store.CreateItem(ctx, s.user.ID, s.id, s.title)
			if err != nil {
				return store.Item{}, err
			}
			members, err := a.Store.ListMembers(ctx, s.id)
			if err != nil {
				return store.Item{}, err
			}
			for _, member := range members {
				a.Search.Add(ctx, member, item.Title)
			}
			return item, nil
		})
		return hyper.Then(create, hyper.Redirect[error]("/lists/"+s.id))
	})
	return hyper.Then(hyper.POST, hyper.OrElse(flow, dispatchErrors("/lists")))
}
