// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package search provides per-user fuzzy autocompletion of item titles.
//
// Each user's term set is populated lazily on first use: a built-in
// food vocabulary plus the distinct item titles already stored for the
// user. Titles of newly created items are fed in with [Index.Add] for
// every member of the item's list, so sharing a list also shares its
// suggestion vocabulary.
package search

import (
	"context"
	"sort"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultLimit caps the number of returned suggestions.
const DefaultLimit = 8

// TitleSource supplies a user's historical item titles for the lazy
// warm-up. The persistence collaborator satisfies this.
type TitleSource interface {
	ItemTitles(ctx context.Context, userID string) ([]string, error)
}

// Index is an in-process autocomplete index. Safe for concurrent use.
type Index struct {
	mu     sync.Mutex
	users  map[string]map[string]bool
	titles TitleSource
	seed   []string
	limit  int
}

// New creates an index warmed from titles; seed terms are added to
// every user's vocabulary. A nil titles source skips warm-up.
func New(titles TitleSource, seed []string) *Index {
	return &Index{
		users:  map[string]map[string]bool{},
		titles: titles,
		seed:   seed,
		limit:  DefaultLimit,
	}
}

// Add records a term for the user.
func (ix *Index) Add(ctx context.Context, userID, term string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.userTerms(ctx, userID)[term] = true
}

// Search returns up to [DefaultLimit] terms of the user's vocabulary
// fuzzy-matching the query, best match first. An empty query matches
// nothing.
func (ix *Index) Search(ctx context.Context, userID, query string) []string {
	if query == "" {
		return nil
	}
	ix.mu.Lock()
	terms := ix.userTerms(ctx, userID)
	candidates := make([]string, 0, len(terms))
	for term := range terms {
		candidates = append(candidates, term)
	}
	ix.mu.Unlock()

	ranks := fuzzy.RankFindNormalizedFold(query, candidates)
	sort.Stable(ranks)
	out := make([]string, 0, ix.limit)
	for _, r := range ranks {
		if len(out) == ix.limit {
			break
		}
		out = append(out, r.Target)
	}
	return out
}

// userTerms returns the user's term set, warming it up on first use.
// Callers must hold mu.
func (ix *Index) userTerms(ctx context.Context, userID string) map[string]bool {
	if terms, ok := ix.users[userID]; ok {
		return terms
	}
	terms := make(map[string]bool, len(ix.seed))
	for _, term := range ix.seed {
		terms[term] = true
	}
	if ix.titles != nil {
		// Warm-up failures are not fatal; the seed vocabulary still
		// serves.
		if titles, err := ix.titles.ItemTitles(ctx, userID); err == nil {
			for _, title := range titles {
				terms[title] = true
			}
		}
	}
	ix.users[userID] = terms
	return terms
}
