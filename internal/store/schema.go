// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// schema is the idempotent database schema. Foreign keys follow the
// cascade order used by DeleteList: memberships and items reference
// lists, memberships reference users.
const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	email         text NOT NULL,
	password_hash text NOT NULL,
	created_at    timestamptz NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email));

CREATE TABLE IF NOT EXISTS lists (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	owner_id   uuid NOT NULL REFERENCES users (id),
	title      text NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS items (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	list_id    uuid NOT NULL REFERENCES lists (id),
	title      text NOT NULL,
	note       text NOT NULL DEFAULT '',
	checked    boolean NOT NULL DEFAULT false,
	created_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS items_list_id_idx ON items (list_id);

CREATE TABLE IF NOT EXISTS user_lists (
	user_id    uuid NOT NULL REFERENCES users (id),
	list_id    uuid NOT NULL REFERENCES lists (id),
	created_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, list_id)
);
CREATE INDEX IF NOT EXISTS user_lists_list_id_idx ON user_lists (list_id);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return errors.Wrap(err, "migrate")
}
