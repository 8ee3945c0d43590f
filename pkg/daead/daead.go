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

// Package daead binds a keyring into the deterministic
// authenticated-encryption facade: equal (key, plaintext, aad) triples
// yield equal ciphertexts, which permits encrypted equality lookups at the
// cost of revealing plaintext equality.
//
// Wire format: [optional 4-byte big-endian key id] || ciphertext.
package daead

import (
	"errors"

	"github.com/jeremyhahn/go-keyring/pkg/header"
	"github.com/jeremyhahn/go-keyring/pkg/keyring"
)

// ErrDecryptionFailed is deliberately opaque, for the same anti-oracle
// reasons as the AEAD facade.
var ErrDecryptionFailed = errors.New("daead: decryption failed")

// DAEAD is the deterministic authenticated encryption facade.
type DAEAD struct {
	ring       *keyring.Keyring
	omitHeader bool
}

// Option configures the facade.
type Option func(*DAEAD)

// WithHeaderOmitted drops the key-id prefix from sealed outputs.
func WithHeaderOmitted() Option {
	return func(d *DAEAD) { d.omitHeader = true }
}

// New returns a DAEAD facade over ring.
func New(ring *keyring.Keyring, opts ...Option) *DAEAD {
	d := &DAEAD{ring: ring}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Seal deterministically encrypts plaintext under the primary key.
func (d *DAEAD) Seal(plaintext, aad []byte) ([]byte, error) {
	key, err := d.ring.Primary()
	if err != nil {
		return nil, err
	}
	engine, err := d.ring.Registry().DAEAD(key.Algorithm())
	if err != nil {
		return nil, err
	}
	sealed, err := engine.Seal(key.Secret(), plaintext, aad)
	if err != nil {
		return nil, err
	}
	if d.omitHeader {
		return sealed, nil
	}
	return header.Encode(key.ID(), sealed), nil
}

// Open decrypts ciphertext, selecting the key by header when present and
// fanning out over enabled keys otherwise. All failures surface as
// ErrDecryptionFailed.
func (d *DAEAD) Open(ciphertext, aad []byte) ([]byte, error) {
	if id, payload, ok := header.Parse(ciphertext); ok {
		if key, enabled := d.ring.EnabledKey(id); enabled {
			if pt, err := d.open(key, payload, aad); err == nil {
				return pt, nil
			}
			return nil, ErrDecryptionFailed
		}
	}
	for key := range d.ring.EnabledKeys() {
		if pt, err := d.open(key, ciphertext, aad); err == nil {
			return pt, nil
		}
	}
	return nil, ErrDecryptionFailed
}

func (d *DAEAD) open(key *keyring.Key, sealed, aad []byte) ([]byte, error) {
	engine, err := d.ring.Registry().DAEAD(key.Algorithm())
	if err != nil {
		return nil, err
	}
	return engine.Open(key.Secret(), sealed, aad)
}
