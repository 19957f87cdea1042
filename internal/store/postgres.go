// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// Postgres is the database-backed Store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (p *Postgres) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	var u User
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, email, password_hash, created_at`,
		email, passwordHash,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if isUniqueViolation(err) {
		return User{}, ErrDuplicateEmail
	}
	if err != nil {
		return User{}, errors.Wrap(err, "create user")
	}
	return u, nil
}

func (p *Postgres) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := p.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, errors.Wrap(err, "user by email")
	}
	return u, nil
}

func (p *Postgres) UserByID(ctx context.Context, id string) (User, error) {
	var u User
	err := p.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, errors.Wrap(err, "user by id")
	}
	return u, nil
}

func (p *Postgres) CreateList(ctx context.Context, ownerID, title string) (List, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return List{}, errors.Wrap(err, "begin create list")
	}
	defer func() { _ = tx.Rollback() }()

	var l List
	err = tx.QueryRowContext(ctx,
		`INSERT INTO lists (owner_id, title)
		 VALUES ($1, $2)
		 RETURNING id, owner_id, title, created_at`,
		ownerID, title,
	).Scan(&l.ID, &l.OwnerID, &l.Title, &l.CreatedAt)
	if err != nil {
		return List{}, errors.Wrap(err, "create list")
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_lists (user_id, list_id) VALUES ($1, $2)`,
		ownerID, l.ID,
	); err != nil {
		return List{}, errors.Wrap(err, "create owner membership")
	}
	if err := tx.Commit(); err != nil {
		return List{}, errors.Wrap(err, "commit create list")
	}
	return l, nil
}

func (p *Postgres) Lists(ctx context.Context, userID string) ([]ListSummary, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT l.id, l.owner_id, l.title, l.created_at,
		        l.owner_id <> $1 AS is_shared,
		        count(i.id) FILTER (WHERE NOT i.checked) AS items_count
		   FROM lists l
		   JOIN user_lists ul ON ul.list_id = l.id AND ul.user_id = $1
		   LEFT JOIN items i ON i.list_id = l.id
		  GROUP BY l.id
		  ORDER BY l.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "lists")
	}
	defer rows.Close()

	var out []ListSummary
	for rows.Next() {
		var s ListSummary
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.Title, &s.CreatedAt, &s.IsShared, &s.ItemsCount); err != nil {
			return nil, errors.Wrap(err, "scan list summary")
		}
		out = append(out, s)
	}
	return out, errors.Wrap(rows.Err(), "lists")
}

func (p *Postgres) ListWithItems(ctx context.Context, listID string) (ListWithItems, error) {
	var l ListWithItems
	err := p.db.QueryRowContext(ctx,
		`SELECT id, owner_id, title, created_at FROM lists WHERE id = $1`,
		listID,
	).Scan(&l.ID, &l.OwnerID, &l.Title, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ListWithItems{}, ErrNotFound
	}
	if err != nil {
		return ListWithItems{}, errors.Wrap(err, "list by id")
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT id, list_id, title, note, checked, created_at
		   FROM items WHERE list_id = $1 ORDER BY created_at DESC`,
		listID,
	)
	if err != nil {
		return ListWithItems{}, errors.Wrap(err, "list items")
	}
	defer rows.Close()
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.ListID, &item.Title, &item.Note, &item.Checked, &item.CreatedAt); err != nil {
			return ListWithItems{}, errors.Wrap(err, "scan item")
		}
		l.Items = append(l.Items, item)
	}
	if err := rows.Err(); err != nil {
		return ListWithItems{}, errors.Wrap(err, "list items")
	}

	members, err := p.ListMembers(ctx, listID)
	if err != nil {
		return ListWithItems{}, err
	}
	l.MemberIDs = members
	return l, nil
}

func (p *Postgres) EnsureMember(ctx context.Context, userID, listID string) error {
	res, err := p.db.ExecContext(ctx,
		`INSERT INTO user_lists (user_id, list_id)
		 SELECT $1, id FROM lists WHERE id = $2
		 ON CONFLICT (user_id, list_id) DO NOTHING`,
		userID, listID,
	)
	if err != nil {
		return errors.Wrap(err, "ensure member")
	}
	// Zero rows with no conflict means the list does not exist.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		if err := p.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM user_lists WHERE user_id = $1 AND list_id = $2)`,
			userID, listID,
		).Scan(&exists); err != nil {
			return errors.Wrap(err, "ensure member")
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

func (p *Postgres) UpdateListTitle(ctx context.Context, userID, listID, title string) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE lists SET title = $1
		  WHERE id = $2
		    AND EXISTS (SELECT 1 FROM user_lists WHERE user_id = $3 AND list_id = $2)`,
		title, listID, userID,
	)
	if err != nil {
		return errors.Wrap(err, "update list title")
	}
	return noneIsNotFound(res)
}

func (p *Postgres) DeleteList(ctx context.Context, ownerID, listID string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin delete list")
	}
	defer func() { _ = tx.Rollback() }()

	var isOwner bool
	err = tx.QueryRowContext(ctx,
		`SELECT owner_id = $1 FROM lists WHERE id = $2`,
		ownerID, listID,
	).Scan(&isOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "delete list")
	}
	if !isOwner {
		return ErrNotFound
	}

	// Cascade order: memberships, items, then the list.
	for _, q := range []string{
		`DELETE FROM user_lists WHERE list_id = $1`,
		`DELETE FROM items WHERE list_id = $1`,
		`DELETE FROM lists WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, q, listID); err != nil {
			return errors.Wrap(err, "delete list cascade")
		}
	}
	return errors.Wrap(tx.Commit(), "commit delete list")
}

func (p *Postgres) ListMembers(ctx context.Context, listID string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT user_id FROM user_lists WHERE list_id = $1 ORDER BY user_id`,
		listID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list members")
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan member")
		}
		out = append(out, id)
	}
	return out, errors.Wrap(rows.Err(), "list members")
}

func (p *Postgres) CreateItem(ctx context.Context, userID, listID, title string) (Item, error) {
	var item Item
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO items (list_id, title)
		 SELECT id, $1 FROM lists
		  WHERE id = $2
		    AND EXISTS (SELECT 1 FROM user_lists WHERE user_id = $3 AND list_id = $2)
		 RETURNING id, list_id, title, note, checked, created_at`,
		title, listID, userID,
	).Scan(&item.ID, &item.ListID, &item.Title, &item.Note, &item.Checked, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, errors.Wrap(err, "create item")
	}
	return item, nil
}

func (p *Postgres) UpdateItem(ctx context.Context, userID, itemID string, patch ItemPatch) (Item, error) {
	var item Item
	err := p.db.QueryRowContext(ctx,
		`UPDATE items i
		    SET title   = COALESCE($1, i.title),
		        note    = COALESCE($2, i.note),
		        checked = COALESCE($3, i.checked)
		  WHERE i.id = $4
		    AND EXISTS (SELECT 1 FROM user_lists
		                 WHERE user_id = $5 AND list_id = i.list_id)
		 RETURNING i.id, i.list_id, i.title, i.note, i.checked, i.created_at`,
		patch.Title, patch.Note, patch.Checked, itemID, userID,
	).Scan(&item.ID, &item.ListID, &item.Title, &item.Note, &item.Checked, &item.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, errors.Wrap(err, "update item")
	}
	return item, nil
}

func (p *Postgres) DeleteItem(ctx context.Context, userID, itemID string) error {
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM items i
		  WHERE i.id = $1
		    AND EXISTS (SELECT 1 FROM user_lists
		                 WHERE user_id = $2 AND list_id = i.list_id)`,
		itemID, userID,
	)
	if err != nil {
		return errors.Wrap(err, "delete item")
	}
	return noneIsNotFound(res)
}

func (p *Postgres) DeleteCheckedItems(ctx context.Context, userID, listID string) error {
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM items
		  WHERE list_id = $1
		    AND checked
		    AND EXISTS (SELECT 1 FROM user_lists
		                 WHERE user_id = $2 AND list_id = $1)`,
		listID, userID,
	)
	return errors.Wrap(err, "delete checked items")
}

func (p *Postgres) ItemTitles(ctx context.Context, userID string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT DISTINCT i.title
		   FROM items i
		   JOIN user_lists ul ON ul.list_id = i.list_id
		  WHERE ul.user_id = $1
		  ORDER BY i.title`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "item titles")
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, errors.Wrap(err, "scan title")
		}
		out = append(out, title)
	}
	return out, errors.Wrap(rows.Err(), "item titles")
}

func noneIsNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*Postgres)(nil)
