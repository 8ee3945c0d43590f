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

// Package signature binds a keyring into the digital signature facade.
// Sign uses the primary key; Verify selects by signature header when
// present and otherwise tries every enabled key. PublicKeyset exports a
// verification-only view with no secret material, suitable for handing to
// a relying party.
//
// Wire format: [optional 4-byte big-endian key id] || signature.
package signature

import (
	"errors"

	"github.com/jeremyhahn/go-keyring/pkg/header"
	"github.com/jeremyhahn/go-keyring/pkg/keyring"
)

// ErrVerificationFailed is deliberately opaque: it never reveals which
// candidate key was tried or why verification failed.
var ErrVerificationFailed = errors.New("signature: verification failed")

// Signer is the signing facade over a keyring.
type Signer struct {
	ring       *keyring.Keyring
	omitHeader bool
}

// Option configures the facade.
type Option func(*Signer)

// WithHeaderOmitted drops the key-id prefix from signatures.
func WithHeaderOmitted() Option {
	return func(s *Signer) { s.omitHeader = true }
}

// New returns a signing facade over ring.
func New(ring *keyring.Keyring, opts ...Option) *Signer {
	s := &Signer{ring: ring}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sign produces a signature over data with the primary key.
func (s *Signer) Sign(data []byte) ([]byte, error) {
	key, err := s.ring.Primary()
	if err != nil {
		return nil, err
	}
	engine, err := s.ring.Registry().Signer(key.Algorithm())
	if err != nil {
		return nil, err
	}
	sig, err := engine.Sign(key.Secret(), data)
	if err != nil {
		return nil, err
	}
	if s.omitHeader {
		return sig, nil
	}
	return header.Encode(key.ID(), sig), nil
}

// Verify checks sig over data against the keyring's enabled keys.
func (s *Signer) Verify(sig, data []byte) error {
	if id, payload, ok := header.Parse(sig); ok {
		if key, enabled := s.ring.EnabledKey(id); enabled {
			engine, err := s.ring.Registry().Signer(key.Algorithm())
			if err == nil && engine.Verify(key.Public(), data, payload) {
				return nil
			}
			return ErrVerificationFailed
		}
	}
	for key := range s.ring.EnabledKeys() {
		engine, err := s.ring.Registry().Signer(key.Algorithm())
		if err == nil && engine.Verify(key.Public(), data, sig) {
			return nil
		}
	}
	return ErrVerificationFailed
}
