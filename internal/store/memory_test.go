// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/shoplist/internal/store"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	_, err := s.CreateUser(ctx, "a@b.com", "hash")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "A@B.com", "hash")
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestListVisibilityAndSharing(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	owner, err := s.CreateUser(ctx, "owner@x.com", "h")
	require.NoError(t, err)
	guest, err := s.CreateUser(ctx, "guest@x.com", "h")
	require.NoError(t, err)

	list, err := s.CreateList(ctx, owner.ID, "Groceries")
	require.NoError(t, err)

	// Owner membership is created with the list.
	ownerLists, err := s.Lists(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, ownerLists, 1)
	assert.False(t, ownerLists[0].IsShared)

	// The guest sees nothing until granted membership.
	guestLists, err := s.Lists(ctx, guest.ID)
	require.NoError(t, err)
	assert.Empty(t, guestLists)

	require.NoError(t, s.EnsureMember(ctx, guest.ID, list.ID))
	guestLists, err = s.Lists(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, guestLists, 1)
	assert.True(t, guestLists[0].IsShared)
}

func TestItemsCountExcludesChecked(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	u, err := s.CreateUser(ctx, "a@b.com", "h")
	require.NoError(t, err)
	list, err := s.CreateList(ctx, u.ID, "L")
	require.NoError(t, err)

	_, err = s.CreateItem(ctx, u.ID, list.ID, "Milk")
	require.NoError(t, err)
	item, err := s.CreateItem(ctx, u.ID, list.ID, "Eggs")
	require.NoError(t, err)
	_, err = s.UpdateItem(ctx, u.ID, item.ID, store.ItemPatch{Checked: boolp(true)})
	require.NoError(t, err)

	lists, err := s.Lists(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, 1, lists[0].ItemsCount)
}

func TestDeleteListOwnerOnlyCascades(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	owner, err := s.CreateUser(ctx, "owner@x.com", "h")
	require.NoError(t, err)
	member, err := s.CreateUser(ctx, "member@x.com", "h")
	require.NoError(t, err)

	list, err := s.CreateList(ctx, owner.ID, "Shared")
	require.NoError(t, err)
	require.NoError(t, s.EnsureMember(ctx, member.ID, list.ID))
	_, err = s.CreateItem(ctx, owner.ID, list.ID, "Bread")
	require.NoError(t, err)

	// A non-owner member cannot delete.
	err = s.DeleteList(ctx, member.ID, list.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ListWithItems(ctx, list.ID)
	require.NoError(t, err, "the list must survive a non-owner delete")

	// The owner's delete removes items and memberships with the list.
	require.NoError(t, s.DeleteList(ctx, owner.ID, list.ID))
	_, err = s.ListWithItems(ctx, list.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	titles, err := s.ItemTitles(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestUpdateItemPartialPatch(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	u, err := s.CreateUser(ctx, "a@b.com", "h")
	require.NoError(t, err)
	list, err := s.CreateList(ctx, u.ID, "L")
	require.NoError(t, err)
	item, err := s.CreateItem(ctx, u.ID, list.ID, "Milk")
	require.NoError(t, err)

	updated, err := s.UpdateItem(ctx, u.ID, item.ID, store.ItemPatch{Note: strp("2 liters")})
	require.NoError(t, err)
	assert.Equal(t, "Milk", updated.Title)
	assert.Equal(t, "2 liters", updated.Note)
	assert.False(t, updated.Checked)
}

func TestUpdateItemRequiresMembership(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	owner, err := s.CreateUser(ctx, "owner@x.com", "h")
	require.NoError(t, err)
	stranger, err := s.CreateUser(ctx, "stranger@x.com", "h")
	require.NoError(t, err)
	list, err := s.CreateList(ctx, owner.ID, "L")
	require.NoError(t, err)
	item, err := s.CreateItem(ctx, owner.ID, list.ID, "Milk")
	require.NoError(t, err)

	_, err = s.UpdateItem(ctx, stranger.ID, item.ID, store.ItemPatch{Checked: boolp(true)})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteCheckedItems(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	u, err := s.CreateUser(ctx, "a@b.com", "h")
	require.NoError(t, err)
	list, err := s.CreateList(ctx, u.ID, "L")
	require.NoError(t, err)

	keep, err := s.CreateItem(ctx, u.ID, list.ID, "Keep")
	require.NoError(t, err)
	done, err := s.CreateItem(ctx, u.ID, list.ID, "Done")
	require.NoError(t, err)
	_, err = s.UpdateItem(ctx, u.ID, done.ID, store.ItemPatch{Checked: boolp(true)})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCheckedItems(ctx, u.ID, list.ID))

	remaining, err := s.ListWithItems(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, remaining.Items, 1)
	assert.Equal(t, keep.ID, remaining.Items[0].ID)
}

func TestItemTitlesDistinctAcrossLists(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()

	u, err := s.CreateUser(ctx, "a@b.com", "h")
	require.NoError(t, err)
	l1, err := s.CreateList(ctx, u.ID, "L1")
	require.NoError(t, err)
	l2, err := s.CreateList(ctx, u.ID, "L2")
	require.NoError(t, err)

	_, err = s.CreateItem(ctx, u.ID, l1.ID, "Apple")
	require.NoError(t, err)
	_, err = s.CreateItem(ctx, u.ID, l2.ID, "Apple")
	require.NoError(t, err)
	_, err = s.CreateItem(ctx, u.ID, l2.ID, "Banana")
	require.NoError(t, err)

	titles, err := s.ItemTitles(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Banana"}, titles)
}
