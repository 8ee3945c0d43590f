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

package keyring

import "errors"

// Key management errors. These are returned immediately and are not
// retryable without changing the request.
var (
	// ErrKeyNotFound indicates the requested key id is not in the keyring.
	ErrKeyNotFound = errors.New("keyring: key not found")

	// ErrDuplicateID indicates an id collision on insert. Ids are never
	// reused within a keyring's lifetime, even after deletion.
	ErrDuplicateID = errors.New("keyring: duplicate key id")

	// ErrCannotRemovePrimary indicates an attempt to remove the primary
	// key. Promote another key first.
	ErrCannotRemovePrimary = errors.New("keyring: cannot remove primary key")

	// ErrCannotDisablePrimary indicates an attempt to disable the primary
	// key. Promote another key first.
	ErrCannotDisablePrimary = errors.New("keyring: cannot disable primary key")

	// ErrKeyDisabled indicates the target key is disabled and must be
	// enabled before the requested operation.
	ErrKeyDisabled = errors.New("keyring: key is disabled")

	// ErrEmptyKeyring indicates an operation that requires at least one
	// key was invoked on an empty keyring.
	ErrEmptyKeyring = errors.New("keyring: keyring is empty")
)

// Validation errors. Caller-correctable.
var (
	// ErrInvalidKeyMaterial indicates imported material has the wrong
	// length or shape for its algorithm.
	ErrInvalidKeyMaterial = errors.New("keyring: invalid key material")

	// ErrUnsupportedAlgorithm indicates the algorithm is unknown or has
	// no registered engine.
	ErrUnsupportedAlgorithm = errors.New("keyring: unsupported algorithm")
)

// Serialization errors. Fatal for the load attempt; no partial keyring is
// ever returned.
var (
	// ErrMalformedKeyring indicates a persisted keyring failed structural
	// validation: bad version, duplicate or zero ids, missing or
	// inconsistent primary, disabled primary, or undecodable material.
	ErrMalformedKeyring = errors.New("keyring: malformed serialized keyring")

	// ErrUnsupportedVersion indicates a persisted keyring with a schema
	// version this build does not understand.
	ErrUnsupportedVersion = errors.New("keyring: unsupported keyring version")
)
