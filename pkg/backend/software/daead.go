// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-keyring.
//
// go-keyring is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package software

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"github.com/jeremyhahn/go-keyring/pkg/backend"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

// sivEngine implements a deterministic AEAD in SIV mode: a synthetic IV is
// derived with HMAC-SHA256 over the associated data and plaintext, then
// used as the AES-CTR nonce. The IV doubles as the authentication tag and
// is recomputed and compared in constant time on open. Equal inputs yield
// equal ciphertexts, which is the point: deterministic encryption for
// lookups and dedup at the cost of revealing plaintext equality.
//
// Material is 64 bytes: 32 for the MAC subkey, 32 for the cipher subkey.
type sivEngine struct{ symmetric }

func newSIV() sivEngine { return sivEngine{symmetric{64}} }

const sivLen = 16

func (sivEngine) Algorithm() types.Algorithm { return types.AES256SIV }
func (sivEngine) Name() string               { return "software" }

func (sivEngine) Seal(key, plaintext, aad []byte) ([]byte, error) {
	macKey, encKey, err := splitSIVKey(key)
	if err != nil {
		return nil, err
	}
	siv := syntheticIV(macKey, plaintext, aad)
	out := make([]byte, sivLen+len(plaintext))
	copy(out, siv)
	if err := ctrXOR(encKey, siv, out[sivLen:], plaintext); err != nil {
		return nil, err
	}
	return out, nil
}

func (sivEngine) Open(key, ciphertext, aad []byte) ([]byte, error) {
	macKey, encKey, err := splitSIVKey(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < sivLen {
		return nil, fmt.Errorf("backend: siv ciphertext too short")
	}
	siv := ciphertext[:sivLen]
	plaintext := make([]byte, len(ciphertext)-sivLen)
	if err := ctrXOR(encKey, siv, plaintext, ciphertext[sivLen:]); err != nil {
		return nil, err
	}
	expected := syntheticIV(macKey, plaintext, aad)
	if subtle.ConstantTimeCompare(siv, expected) != 1 {
		zero(plaintext)
		return nil, fmt.Errorf("backend: siv authentication failed")
	}
	return plaintext, nil
}

func splitSIVKey(key []byte) (macKey, encKey []byte, err error) {
	if len(key) != 64 {
		return nil, nil, fmt.Errorf("%w: got %d bytes, want 64",
			backend.ErrInvalidKeyMaterial, len(key))
	}
	return key[:32], key[32:], nil
}

// syntheticIV computes HMAC-SHA256(macKey, len(aad) || aad || plaintext)
// truncated to sivLen. The length prefix keeps (aad, plaintext) framing
// unambiguous.
func syntheticIV(macKey, plaintext, aad []byte) []byte {
	h := hmac.New(sha256.New, macKey)
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(aad)))
	h.Write(n[:])
	h.Write(aad)
	h.Write(plaintext)
	return h.Sum(nil)[:sivLen]
}

func ctrXOR(key, iv, dst, src []byte) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	cipher.NewCTR(block, iv).XORKeyStream(dst, src)
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
