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
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeremyhahn/go-keyring/pkg/types"
)

// Canonical serialized form, consumed and produced by the envelope and by
// persistence tooling:
//
//	{ "version": 0,
//	  "primary_key_id": 123456789,
//	  "keys": [ { "id", "algorithm", "status", "origin",
//	              "material": {"secret": b64, "public": b64?},
//	              "metadata", "created_at" } ] }

type serializedKeyring struct {
	Version      int             `json:"version"`
	PrimaryKeyID uint32          `json:"primary_key_id"`
	Keys         []serializedKey `json:"keys"`
}

type serializedKey struct {
	ID        uint32             `json:"id"`
	Algorithm types.Algorithm    `json:"algorithm"`
	Status    types.Status       `json:"status"`
	Origin    types.Origin       `json:"origin"`
	Material  serializedMaterial `json:"material"`
	Metadata  any                `json:"metadata,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type serializedMaterial struct {
	Secret []byte `json:"secret"`
	Public []byte `json:"public,omitempty"`
}

// Marshal serializes the keyring to its canonical JSON form. The output
// contains raw secret material: it must only ever be written to storage
// through the envelope.
func (r *Keyring) Marshal() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := serializedKeyring{
		Version:      r.version,
		PrimaryKeyID: r.primary,
		Keys:         make([]serializedKey, 0, len(r.order)),
	}
	for _, id := range r.order {
		key := r.keys[id]
		out.Keys = append(out.Keys, serializedKey{
			ID:        key.id,
			Algorithm: key.algorithm,
			Status:    key.status,
			Origin:    key.origin,
			Material:  serializedMaterial{Secret: key.secret, Public: key.public},
			Metadata:  key.metadata,
			CreatedAt: key.createdAt,
		})
	}
	return json.Marshal(out)
}

// Load deserializes a canonical keyring, validating every structural
// invariant before returning. On any failure no keyring is returned: a
// partially loaded keyring is worse than none.
func Load(data []byte, opts ...Option) (*Keyring, error) {
	var in serializedKeyring
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKeyring, err)
	}
	if in.Version != schemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, in.Version)
	}
	if len(in.Keys) == 0 {
		return New(opts...), nil
	}

	r := New(opts...)
	var primaries int
	for _, sk := range in.Keys {
		if sk.ID == 0 {
			return nil, fmt.Errorf("%w: zero key id", ErrMalformedKeyring)
		}
		if _, dup := r.keys[sk.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate key id %d", ErrMalformedKeyring, sk.ID)
		}
		if !sk.Status.Valid() {
			return nil, fmt.Errorf("%w: key %d has invalid status %q", ErrMalformedKeyring, sk.ID, sk.Status)
		}
		if !sk.Algorithm.Valid() {
			return nil, fmt.Errorf("%w: key %d has unknown algorithm %q", ErrMalformedKeyring, sk.ID, sk.Algorithm)
		}
		if sk.Status == types.StatusPrimary {
			primaries++
			if sk.ID != in.PrimaryKeyID {
				return nil, fmt.Errorf("%w: primary status on %d but primary_key_id is %d",
					ErrMalformedKeyring, sk.ID, in.PrimaryKeyID)
			}
		}
		public, err := r.reg.ValidateMaterial(sk.Algorithm, sk.Material.Secret)
		if err != nil {
			return nil, fmt.Errorf("%w: key %d: %v", ErrMalformedKeyring, sk.ID, err)
		}
		r.seq++
		key := &Key{
			id:        sk.ID,
			algorithm: sk.Algorithm,
			status:    sk.Status,
			origin:    sk.Origin,
			secret:    append([]byte(nil), sk.Material.Secret...),
			public:    public,
			metadata:  sk.Metadata,
			createdAt: sk.CreatedAt,
			insertSeq: r.seq,
		}
		r.keys[key.id] = key
		r.order = append(r.order, key.id)
		r.used[key.id] = struct{}{}
	}
	if primaries != 1 {
		return nil, fmt.Errorf("%w: %d primary keys", ErrMalformedKeyring, primaries)
	}
	primary, ok := r.keys[in.PrimaryKeyID]
	if !ok {
		return nil, fmt.Errorf("%w: primary_key_id %d not present", ErrMalformedKeyring, in.PrimaryKeyID)
	}
	r.primary = primary.id
	r.seq++
	primary.promoteSeq = r.seq
	return r, nil
}
