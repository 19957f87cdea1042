// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package store persists users, lists, items and list memberships.
//
// A list is visible to a user iff a membership row exists for the pair;
// the owner's membership is created atomically with the list. Multi-step
// writes (list creation, cascading deletion) run inside one transaction
// in the database-backed implementation.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound reports that a lookup matched nothing the caller is
// allowed to see. Visibility failures are deliberately indistinct from
// absence.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail reports a sign-up against an email that already has
// an account.
var ErrDuplicateEmail = errors.New("email already in use")

// User is an account. PasswordHash is opaque to the store.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// List is a shopping list owned by one user and visible to its members.
type List struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Item is one entry of a list.
type Item struct {
	ID        string    `json:"id"`
	ListID    string    `json:"listId"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	Checked   bool      `json:"checked"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListSummary annotates a list for the lists overview: whether it is
// shared into the user's account and how many unchecked items it holds.
type ListSummary struct {
	List
	IsShared   bool `json:"isShared"`
	ItemsCount int  `json:"itemsCount"`
}

// ListWithItems is a list with its items, newest first, and the ids of
// every member user.
type ListWithItems struct {
	List
	Items     []Item   `json:"items"`
	MemberIDs []string `json:"memberIds"`
}

// ItemPatch is a partial item update; nil fields stay untouched.
type ItemPatch struct {
	Title   *string
	Note    *string
	Checked *bool
}

// Store is the persistence collaborator. Every operation that takes a
// userID enforces visibility: operations on lists and items the user is
// not a member of fail with [ErrNotFound].
type Store interface {
	// CreateUser creates an account, failing with [ErrDuplicateEmail]
	// when the email is taken.
	CreateUser(ctx context.Context, email, passwordHash string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UserByID(ctx context.Context, id string) (User, error)

	// CreateList creates a list and the owner's membership row
	// atomically.
	CreateList(ctx context.Context, ownerID, title string) (List, error)
	// Lists returns every list the user is a member of, newest first.
	Lists(ctx context.Context, userID string) ([]ListSummary, error)
	// ListWithItems returns a list regardless of membership; callers
	// grant membership with [Store.EnsureMember] (link sharing).
	ListWithItems(ctx context.Context, listID string) (ListWithItems, error)
	// EnsureMember grants the user visibility into the list; granting
	// an existing membership is a no-op.
	EnsureMember(ctx context.Context, userID, listID string) error
	// UpdateListTitle renames a list; any member may rename.
	UpdateListTitle(ctx context.Context, userID, listID, title string) error
	// DeleteList deletes memberships, items, then the list, in one
	// transaction. Only the owner may delete; a non-owner member gets
	// [ErrNotFound].
	DeleteList(ctx context.Context, ownerID, listID string) error
	// ListMembers returns the user ids of every member of the list.
	ListMembers(ctx context.Context, listID string) ([]string, error)

	CreateItem(ctx context.Context, userID, listID, title string) (Item, error)
	UpdateItem(ctx context.Context, userID, itemID string, patch ItemPatch) (Item, error)
	DeleteItem(ctx context.Context, userID, itemID string) error
	// DeleteCheckedItems removes every checked item of the list.
	DeleteCheckedItems(ctx context.Context, userID, listID string) error
	// ItemTitles returns the distinct item titles across every list
	// the user is a member of.
	ItemTitles(ctx context.Context, userID string) ([]string, error)
}
