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

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jeremyhahn/go-keyring/pkg/types"
)

type aesGCM struct{ symmetric }

func newAESGCM() aesGCM { return aesGCM{symmetric{32}} }

func (aesGCM) Algorithm() types.Algorithm { return types.AES256GCM }
func (aesGCM) Name() string               { return "software" }
func (aesGCM) NonceSize() int             { return 12 }

func (aesGCM) New(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

type chacha20 struct{ symmetric }

func newChaCha20() chacha20 { return chacha20{symmetric{chacha20poly1305.KeySize}} }

func (chacha20) Algorithm() types.Algorithm { return types.ChaCha20Poly1305 }
func (chacha20) Name() string               { return "software" }
func (chacha20) NonceSize() int             { return chacha20poly1305.NonceSize }

func (chacha20) New(key []byte) (cipher.AEAD, error) {
	return chacha20poly1305.New(key)
}

type xchacha20 struct{ symmetric }

func newXChaCha20() xchacha20 { return xchacha20{symmetric{chacha20poly1305.KeySize}} }

func (xchacha20) Algorithm() types.Algorithm { return types.XChaCha20Poly1305 }
func (xchacha20) Name() string               { return "software" }
func (xchacha20) NonceSize() int             { return chacha20poly1305.NonceSizeX }

func (xchacha20) New(key []byte) (cipher.AEAD, error) {
	return chacha20poly1305.NewX(key)
}
