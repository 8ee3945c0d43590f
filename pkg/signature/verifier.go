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

package signature

import (
	"encoding/json"
	"fmt"

	"github.com/jeremyhahn/go-keyring/pkg/backend"
	"github.com/jeremyhahn/go-keyring/pkg/header"
	"github.com/jeremyhahn/go-keyring/pkg/keyring"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

// Verifier is a verification-only keyset: public components and metadata,
// no secrets. It is safe to serialize and distribute.
type Verifier struct {
	reg  *backend.Registry
	keys []publicKey
	byID map[uint32]publicKey
}

type publicKey struct {
	ID        uint32          `json:"id"`
	Algorithm types.Algorithm `json:"algorithm"`
	Status    types.Status    `json:"status"`
	Public    []byte          `json:"public"`
}

// PublicKeyset extracts a Verifier from a signing keyring. Disabled keys
// are excluded entirely.
func PublicKeyset(ring *keyring.Keyring) (*Verifier, error) {
	v := &Verifier{reg: ring.Registry(), byID: make(map[uint32]publicKey)}
	for key := range ring.EnabledKeys() {
		if key.Algorithm().Primitive() != types.PrimitiveSignature {
			return nil, fmt.Errorf("signature: key %d is not a signing key", key.ID())
		}
		pk := publicKey{
			ID:        key.ID(),
			Algorithm: key.Algorithm(),
			Status:    key.Status(),
			Public:    append([]byte(nil), key.Public()...),
		}
		v.keys = append(v.keys, pk)
		v.byID[pk.ID] = pk
	}
	if len(v.keys) == 0 {
		return nil, keyring.ErrEmptyKeyring
	}
	return v, nil
}

// Verify checks sig over data against the public keyset.
func (v *Verifier) Verify(sig, data []byte) error {
	if id, payload, ok := header.Parse(sig); ok {
		if pk, found := v.byID[id]; found {
			if v.check(pk, data, payload) {
				return nil
			}
			return ErrVerificationFailed
		}
	}
	for _, pk := range v.keys {
		if v.check(pk, data, sig) {
			return nil
		}
	}
	return ErrVerificationFailed
}

func (v *Verifier) check(pk publicKey, data, sig []byte) bool {
	engine, err := v.reg.Signer(pk.Algorithm)
	if err != nil {
		return false
	}
	return engine.Verify(pk.Public, data, sig)
}

// MarshalJSON serializes the public keyset.
func (v *Verifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.keys)
}

// LoadVerifier deserializes a public keyset produced by MarshalJSON.
func LoadVerifier(data []byte, reg *backend.Registry) (*Verifier, error) {
	var keys []publicKey
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("signature: malformed public keyset: %w", err)
	}
	if reg == nil {
		reg = backend.Default()
	}
	v := &Verifier{reg: reg, keys: keys, byID: make(map[uint32]publicKey, len(keys))}
	for _, pk := range keys {
		v.byID[pk.ID] = pk
	}
	return v, nil
}
