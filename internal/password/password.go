// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package password provides the one-way hash/verify collaborator used
// for account credentials.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher hashes and verifies passwords. The hash is opaque to callers.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// Bcrypt is the production Hasher.
type Bcrypt struct {
	// Cost overrides the bcrypt work factor when non-zero.
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b Bcrypt) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
