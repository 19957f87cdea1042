// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package password_test

import (
	"testing"

	"code.hybscloud.com/shoplist/internal/password"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	h := password.Bcrypt{Cost: 4} // minimum cost keeps the test fast

	hash, err := h.Hash("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not be the plaintext")
	}
	if !h.Verify(hash, "hunter22") {
		t.Fatal("expected the original password to verify")
	}
	if h.Verify(hash, "hunter23") {
		t.Fatal("expected a wrong password to fail verification")
	}
}
