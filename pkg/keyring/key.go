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

import (
	"time"

	"github.com/jeremyhahn/go-keyring/pkg/types"
)

// Key is one versioned unit of key material plus metadata. Keys are owned
// exclusively by their Keyring and are only handed out as borrowed
// references for the duration of a single operation.
type Key struct {
	id        uint32
	algorithm types.Algorithm
	status    types.Status
	origin    types.Origin
	secret    []byte
	public    []byte
	metadata  any
	createdAt time.Time

	// insertSeq and promoteSeq order verification fan-out:
	// most-recently-promoted first, insertion order as tie-break.
	insertSeq  uint64
	promoteSeq uint64
}

// ID returns the key's 32-bit identifier, unique within its keyring.
func (k *Key) ID() uint32 { return k.id }

// Algorithm returns the enum tag identifying primitive and parameters.
func (k *Key) Algorithm() types.Algorithm { return k.algorithm }

// Status returns the key's lifecycle status.
func (k *Key) Status() types.Status { return k.status }

// Origin reports whether the material was generated locally or imported.
func (k *Key) Origin() types.Origin { return k.origin }

// CreatedAt returns the key's creation timestamp.
func (k *Key) CreatedAt() time.Time { return k.createdAt }

// Metadata returns the caller-defined opaque metadata value.
func (k *Key) Metadata() any { return k.metadata }

// Secret returns the raw secret material. The slice is the key's single
// owned copy: treat it as sensitive, never retain it past the operation,
// and never mutate it.
func (k *Key) Secret() []byte { return k.secret }

// Public returns the derivable public component for asymmetric algorithms,
// nil for symmetric ones.
func (k *Key) Public() []byte { return k.public }

// Info returns the public view of the key, without material.
func (k *Key) Info() types.KeyInfo {
	return types.KeyInfo{
		ID:        k.id,
		Algorithm: k.algorithm,
		Status:    k.status,
		Origin:    k.origin,
		CreatedAt: k.createdAt,
	}
}

// zeroize clears the secret material in place. Called on removal so that
// deleted keys do not linger in memory.
func (k *Key) zeroize() {
	for i := range k.secret {
		k.secret[i] = 0
	}
	k.secret = nil
}
