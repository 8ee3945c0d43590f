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

// Package backend maps (primitive, algorithm) pairs to interchangeable
// cryptographic engines. Registration happens at init or configuration
// time, never by runtime probing of ambient state, and every engine
// registered for the same algorithm must be byte-identical in output:
// material generated under one engine must verify under any other.
package backend

import (
	"crypto/cipher"
	"hash"

	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

// Engine is the base contract every cryptographic engine satisfies.
type Engine interface {
	// Algorithm returns the tag this engine serves.
	Algorithm() types.Algorithm

	// Name distinguishes interchangeable engines for the same algorithm,
	// e.g. a portable implementation versus an accelerated one.
	Name() string

	// KeySize returns the secret material length in bytes.
	KeySize() int

	// GenerateKey produces fresh material from the supplied source. For
	// asymmetric algorithms public holds the derivable public component;
	// for symmetric algorithms it is nil.
	GenerateKey(src rand.Source) (secret, public []byte, err error)

	// ValidateKey checks imported material for length and shape,
	// returning ErrInvalidKeyMaterial on mismatch. For asymmetric
	// algorithms it also re-derives the public component.
	ValidateKey(secret []byte) (public []byte, err error)
}

// MAC is a message authentication engine.
type MAC interface {
	Engine

	// TagSize returns the untruncated tag length.
	TagSize() int

	// NewHash returns a keyed hash for incremental computation.
	NewHash(key []byte) (hash.Hash, error)
}

// AEAD is an authenticated encryption engine. The returned cipher.AEAD
// follows the standard library contract.
type AEAD interface {
	Engine
	NonceSize() int
	New(key []byte) (cipher.AEAD, error)
}

// DAEAD is a deterministic authenticated encryption engine: equal
// (key, plaintext, aad) triples produce equal ciphertexts.
type DAEAD interface {
	Engine
	Seal(key, plaintext, aad []byte) ([]byte, error)
	Open(key, ciphertext, aad []byte) ([]byte, error)
}

// KDF is an extract-and-expand key derivation engine.
type KDF interface {
	Engine

	// Extract derives a pseudorandom key from input material and salt.
	Extract(secret, salt []byte) []byte

	// Expand stretches a pseudorandom key into length output bytes
	// bound to info.
	Expand(prk, info []byte, length int) ([]byte, error)
}

// Signer is a digital signature engine.
type Signer interface {
	Engine
	SignatureSize() int
	Sign(secret, data []byte) ([]byte, error)
	Verify(public, data, sig []byte) bool
}
