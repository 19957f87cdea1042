// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests and local development.
// It mirrors the visibility and ownership semantics of the database
// implementation.
type Memory struct {
	mu      sync.Mutex
	users   map[string]User
	lists   map[string]List
	items   map[string]Item
	members map[string]map[string]bool // listID -> userID set
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:   map[string]User{},
		lists:   map[string]List{},
		items:   map[string]Item{},
		members: map[string]map[string]bool{},
		now:     time.Now,
	}
}

func newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	hexed := hex.EncodeToString(b[:])
	return hexed[0:8] + "-" + hexed[8:12] + "-" + hexed[12:16] + "-" + hexed[16:20] + "-" + hexed[20:32]
}

func (m *Memory) CreateUser(_ context.Context, email, passwordHash string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return User{}, ErrDuplicateEmail
		}
	}
	u := User{ID: newID(), Email: email, PasswordHash: passwordHash, CreatedAt: m.now()}
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *Memory) UserByID(_ context.Context, id string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) CreateList(_ context.Context, ownerID, title string) (List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[ownerID]; !ok {
		return List{}, ErrNotFound
	}
	l := List{ID: newID(), OwnerID: ownerID, Title: title, CreatedAt: m.now()}
	m.lists[l.ID] = l
	m.members[l.ID] = map[string]bool{ownerID: true}
	return l, nil
}

func (m *Memory) Lists(_ context.Context, userID string) ([]ListSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ListSummary
	for id, l := range m.lists {
		if !m.members[id][userID] {
			continue
		}
		count := 0
		for _, item := range m.items {
			if item.ListID == id && !item.Checked {
				count++
			}
		}
		out = append(out, ListSummary{List: l, IsShared: l.OwnerID != userID, ItemsCount: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) ListWithItems(_ context.Context, listID string) (ListWithItems, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[listID]
	if !ok {
		return ListWithItems{}, ErrNotFound
	}
	out := ListWithItems{List: l}
	for _, item := range m.items {
		if item.ListID == listID {
			out.Items = append(out.Items, item)
		}
	}
	sort.Slice(out.Items, func(i, j int) bool {
		return out.Items[i].CreatedAt.After(out.Items[j].CreatedAt)
	})
	for userID := range m.members[listID] {
		out.MemberIDs = append(out.MemberIDs, userID)
	}
	sort.Strings(out.MemberIDs)
	return out, nil
}

func (m *Memory) EnsureMember(_ context.Context, userID, listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[listID]; !ok {
		return ErrNotFound
	}
	if m.members[listID] == nil {
		m.members[listID] = map[string]bool{}
	}
	m.members[listID][userID] = true
	return nil
}

func (m *Memory) UpdateListTitle(_ context.Context, userID, listID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[listID]
	if !ok || !m.members[listID][userID] {
		return ErrNotFound
	}
	l.Title = title
	m.lists[listID] = l
	return nil
}

func (m *Memory) DeleteList(_ context.Context, ownerID, listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[listID]
	if !ok || l.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(m.members, listID)
	for id, item := range m.items {
		if item.ListID == listID {
			delete(m.items, id)
		}
	}
	delete(m.lists, listID)
	return nil
}

func (m *Memory) ListMembers(_ context.Context, listID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[listID]; !ok {
		return nil, ErrNotFound
	}
	var out []string
	for userID := range m.members[listID] {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) CreateItem(_ context.Context, userID, listID, title string) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[listID]; !ok || !m.members[listID][userID] {
		return Item{}, ErrNotFound
	}
	item := Item{ID: newID(), ListID: listID, Title: title, CreatedAt: m.now()}
	m.items[item.ID] = item
	return item, nil
}

func (m *Memory) UpdateItem(_ context.Context, userID, itemID string, patch ItemPatch) (Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok || !m.members[item.ListID][userID] {
		return Item{}, ErrNotFound
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Note != nil {
		item.Note = *patch.Note
	}
	if patch.Checked != nil {
		item.Checked = *patch.Checked
	}
	m.items[itemID] = item
	return item, nil
}

func (m *Memory) DeleteItem(_ context.Context, userID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemID]
	if !ok || !m.members[item.ListID][userID] {
		return ErrNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *Memory) DeleteCheckedItems(_ context.Context, userID, listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[listID]; !ok || !m.members[listID][userID] {
		return ErrNotFound
	}
	for id, item := range m.items {
		if item.ListID == listID && item.Checked {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *Memory) ItemTitles(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, item := range m.items {
		if !m.members[item.ListID][userID] || seen[item.Title] {
			continue
		}
		seen[item.Title] = true
		out = append(out, item.Title)
	}
	sort.Strings(out)
	return out, nil
}

var _ Store = (*Memory)(nil)
