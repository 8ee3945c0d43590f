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

// Package hkdf binds a keyring into the extract-and-expand key derivation
// facade. Derivation is a generation-only operation, so it always uses the
// primary key; there is no verification fan-out. Rotating the keyring
// changes the derived outputs, which is why callers derive per-purpose
// subkeys rather than persisting derived bytes.
package hkdf

import (
	"github.com/jeremyhahn/go-keyring/pkg/keyring"
)

// HKDF is the key derivation facade over a keyring. The key's secret
// material is the input keying material.
type HKDF struct {
	ring *keyring.Keyring
}

// New returns an HKDF facade over ring.
func New(ring *keyring.Keyring) *HKDF {
	return &HKDF{ring: ring}
}

// Extract derives a pseudorandom key from the primary key's material and
// salt.
func (h *HKDF) Extract(salt []byte) ([]byte, error) {
	key, err := h.ring.Primary()
	if err != nil {
		return nil, err
	}
	engine, err := h.ring.Registry().KDF(key.Algorithm())
	if err != nil {
		return nil, err
	}
	return engine.Extract(key.Secret(), salt), nil
}

// Expand stretches a pseudorandom key from Extract into length output
// bytes bound to info.
func (h *HKDF) Expand(prk, info []byte, length int) ([]byte, error) {
	key, err := h.ring.Primary()
	if err != nil {
		return nil, err
	}
	engine, err := h.ring.Registry().KDF(key.Algorithm())
	if err != nil {
		return nil, err
	}
	return engine.Expand(prk, info, length)
}

// Derive is extract-then-expand in one call.
func (h *HKDF) Derive(salt, info []byte, length int) ([]byte, error) {
	prk, err := h.Extract(salt)
	if err != nil {
		return nil, err
	}
	defer func() {
		for i := range prk {
			prk[i] = 0
		}
	}()
	return h.Expand(prk, info, length)
}
