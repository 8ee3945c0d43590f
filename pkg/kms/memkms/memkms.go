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

// Package memkms is an in-memory KMS for tests and examples. Wrapping keys
// exist only in process memory, so anything sealed with it is lost on
// exit.
//
// Never use outside of testing.
package memkms

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
)

// KMS implements envelope.KMS with a per-URI ChaCha20-Poly1305 wrapping
// key. Injectable errors simulate an unreachable or failing KMS.
type KMS struct {
	mu         sync.Mutex
	src        rand.Source
	keys       map[string][]byte
	encryptErr error
	decryptErr error
}

// New returns an empty in-memory KMS drawing wrapping keys from src.
func New(src rand.Source) *KMS {
	if src == nil {
		src = rand.System
	}
	return &KMS{src: src, keys: make(map[string][]byte)}
}

// FailEncrypt makes subsequent Encrypt calls return err (nil clears).
func (k *KMS) FailEncrypt(err error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.encryptErr = err
}

// FailDecrypt makes subsequent Decrypt calls return err (nil clears).
func (k *KMS) FailDecrypt(err error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.decryptErr = err
}

func (k *KMS) wrappingKey(keyURI string) ([]byte, error) {
	if key, ok := k.keys[keyURI]; ok {
		return key, nil
	}
	key, err := k.src.Bytes(chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	k.keys[keyURI] = key
	return key, nil
}

// Encrypt wraps plaintext under the URI's wrapping key, binding aad.
func (k *KMS) Encrypt(_ context.Context, keyURI string, aad, plaintext []byte) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.encryptErr != nil {
		return nil, k.encryptErr
	}
	key, err := k.wrappingKey(keyURI)
	if err != nil {
		return nil, err
	}
	c, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce, err := k.src.Bytes(c.NonceSize())
	if err != nil {
		return nil, err
	}
	return c.Seal(nonce, nonce, plaintext, aad), nil
}

// Decrypt reverses Encrypt for the same URI and aad.
func (k *KMS) Decrypt(_ context.Context, keyURI string, aad, ciphertext []byte) ([]byte, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.decryptErr != nil {
		return nil, k.decryptErr
	}
	key, err := k.wrappingKey(keyURI)
	if err != nil {
		return nil, err
	}
	c, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < c.NonceSize() {
		return nil, errors.New("memkms: ciphertext too short")
	}
	return c.Open(nil, ciphertext[:c.NonceSize()], ciphertext[c.NonceSize():], aad)
}
