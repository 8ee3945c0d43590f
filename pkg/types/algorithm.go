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

// Package types defines the shared enumerations and value types used across
// the keyring, backend, and primitive facade packages. It exists as a leaf
// package so that the facades and the backend registry can share these types
// without import cycles.
package types

// Primitive identifies one of the uniform cryptographic facades exposed by
// the library. Every Algorithm belongs to exactly one Primitive.
type Primitive string

const (
	// PrimitiveMAC is the message authentication code facade.
	PrimitiveMAC Primitive = "mac"

	// PrimitiveAEAD is the authenticated encryption facade.
	PrimitiveAEAD Primitive = "aead"

	// PrimitiveDAEAD is the deterministic authenticated encryption facade.
	PrimitiveDAEAD Primitive = "daead"

	// PrimitiveKDF is the HKDF key-derivation facade.
	PrimitiveKDF Primitive = "kdf"

	// PrimitiveSignature is the digital signature facade.
	PrimitiveSignature Primitive = "signature"
)

// Algorithm is the enum tag identifying a primitive plus its parameters.
// The string form is what appears in serialized keyrings, so values are
// stable and must never be renamed.
type Algorithm string

const (
	// MAC algorithms.
	HMACSHA256 Algorithm = "hmac-sha256"
	HMACSHA384 Algorithm = "hmac-sha384"
	HMACSHA512 Algorithm = "hmac-sha512"
	Blake2b256 Algorithm = "blake2b-256"

	// AEAD algorithms.
	AES256GCM         Algorithm = "aes256-gcm"
	ChaCha20Poly1305  Algorithm = "chacha20-poly1305"
	XChaCha20Poly1305 Algorithm = "xchacha20-poly1305"

	// Deterministic AEAD algorithms.
	AES256SIV Algorithm = "aes256-siv"

	// KDF algorithms.
	HKDFSHA256 Algorithm = "hkdf-sha256"
	HKDFSHA512 Algorithm = "hkdf-sha512"

	// Signature algorithms.
	Ed25519 Algorithm = "ed25519"
)

// Primitive returns the facade an algorithm belongs to, or the empty string
// for an unknown algorithm.
func (a Algorithm) Primitive() Primitive {
	switch a {
	case HMACSHA256, HMACSHA384, HMACSHA512, Blake2b256:
		return PrimitiveMAC
	case AES256GCM, ChaCha20Poly1305, XChaCha20Poly1305:
		return PrimitiveAEAD
	case AES256SIV:
		return PrimitiveDAEAD
	case HKDFSHA256, HKDFSHA512:
		return PrimitiveKDF
	case Ed25519:
		return PrimitiveSignature
	}
	return ""
}

// Valid reports whether the algorithm is one the library knows about.
func (a Algorithm) Valid() bool {
	return a.Primitive() != ""
}

// Asymmetric reports whether key material for this algorithm carries a
// derivable public component.
func (a Algorithm) Asymmetric() bool {
	return a.Primitive() == PrimitiveSignature
}

func (a Algorithm) String() string {
	return string(a)
}
