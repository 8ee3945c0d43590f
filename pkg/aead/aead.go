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

// Package aead binds a keyring into the authenticated-encryption facade.
// Seal encrypts under the primary key; Open selects the key by ciphertext
// header when present and otherwise tries each enabled key, so ciphertexts
// produced before a rotation keep decrypting until their key is disabled
// or removed.
//
// Wire format: [optional 4-byte big-endian key id] || nonce || ciphertext.
package aead

import (
	"errors"

	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
	"github.com/jeremyhahn/go-keyring/pkg/header"
	"github.com/jeremyhahn/go-keyring/pkg/keyring"
)

// ErrDecryptionFailed is deliberately opaque: it never reveals whether the
// key id was unknown, which candidate failed, or why.
var ErrDecryptionFailed = errors.New("aead: decryption failed")

// AEAD is the authenticated encryption facade over a keyring.
type AEAD struct {
	ring       *keyring.Keyring
	src        rand.Source
	omitHeader bool
}

// Option configures the facade.
type Option func(*AEAD)

// WithRand overrides the nonce randomness source. The default is the
// system CSPRNG.
func WithRand(src rand.Source) Option {
	return func(a *AEAD) { a.src = src }
}

// WithHeaderOmitted drops the key-id prefix from sealed outputs. The
// choice is one-way for each ciphertext: Open must then fan out over the
// enabled keys.
func WithHeaderOmitted() Option {
	return func(a *AEAD) { a.omitHeader = true }
}

// New returns an AEAD facade over ring.
func New(ring *keyring.Keyring, opts ...Option) *AEAD {
	a := &AEAD{ring: ring, src: rand.System}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Seal encrypts plaintext under the primary key, binding aad as associated
// data.
func (a *AEAD) Seal(plaintext, aad []byte) ([]byte, error) {
	key, err := a.ring.Primary()
	if err != nil {
		return nil, err
	}
	engine, err := a.ring.Registry().AEAD(key.Algorithm())
	if err != nil {
		return nil, err
	}
	c, err := engine.New(key.Secret())
	if err != nil {
		return nil, err
	}
	nonce, err := a.src.Bytes(c.NonceSize())
	if err != nil {
		return nil, err
	}
	sealed := c.Seal(nonce, nonce, plaintext, aad)
	if a.omitHeader {
		return sealed, nil
	}
	return header.Encode(key.ID(), sealed), nil
}

// Open decrypts ciphertext. A leading key id selects the key directly;
// otherwise every enabled key is tried in rotation order. All failures
// surface as ErrDecryptionFailed.
func (a *AEAD) Open(ciphertext, aad []byte) ([]byte, error) {
	if id, payload, ok := header.Parse(ciphertext); ok {
		if key, enabled := a.ring.EnabledKey(id); enabled {
			if pt, err := a.open(key, payload, aad); err == nil {
				return pt, nil
			}
			return nil, ErrDecryptionFailed
		}
	}
	for key := range a.ring.EnabledKeys() {
		if pt, err := a.open(key, ciphertext, aad); err == nil {
			return pt, nil
		}
	}
	return nil, ErrDecryptionFailed
}

func (a *AEAD) open(key *keyring.Key, sealed, aad []byte) ([]byte, error) {
	engine, err := a.ring.Registry().AEAD(key.Algorithm())
	if err != nil {
		return nil, err
	}
	c, err := engine.New(key.Secret())
	if err != nil {
		return nil, err
	}
	if len(sealed) < c.NonceSize() {
		return nil, ErrDecryptionFailed
	}
	return c.Open(nil, sealed[:c.NonceSize()], sealed[c.NonceSize():], aad)
}
