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

// Package keyring implements the versioned key collection at the heart of
// the library: an id-indexed arena of keys with a single-primary invariant,
// atomic lifecycle operations, and a canonical JSON form for persistence.
//
// A keyring is the unit of rotation. Generation operations (compute, seal,
// sign) always use the primary key; verification operations fan out over
// the enabled keys, so outputs produced under a former primary keep
// verifying until that key is explicitly disabled or removed.
package keyring

import (
	"fmt"
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/jeremyhahn/go-keyring/pkg/backend"
	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

// Key ids are random, non-sequential, and floored at 100,000,000 so an id
// can never be confused with an index or a small counter.
const minKeyID = 100_000_000

// schemaVersion is the serialized keyring schema version this build
// produces and accepts.
const schemaVersion = 0

// Keyring is an ordered, id-unique collection of Keys for one primitive
// instance. All mutating operations are serialized by an exclusive lock
// and are atomic with respect to the invariants: an operation either fully
// succeeds or leaves the keyring unchanged. Read operations take a shared
// lock and work against a consistent snapshot.
type Keyring struct {
	mu      sync.RWMutex
	version int
	keys    map[uint32]*Key
	order   []uint32
	primary uint32
	used    map[uint32]struct{}
	seq     uint64
	reg     *backend.Registry
}

// Option configures a Keyring at construction.
type Option func(*Keyring)

// WithRegistry overrides the backend registry used for material generation
// and validation. The default is backend.Default().
func WithRegistry(reg *backend.Registry) Option {
	return func(k *Keyring) { k.reg = reg }
}

// New returns an empty keyring.
func New(opts ...Option) *Keyring {
	k := &Keyring{
		version: schemaVersion,
		keys:    make(map[uint32]*Key),
		used:    make(map[uint32]struct{}),
		reg:     backend.Default(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Generate creates a key with fresh material from src. The first key in an
// empty keyring becomes primary; later keys are inserted as secondary.
// Returns the new key's id.
func (r *Keyring) Generate(src rand.Source, alg types.Algorithm) (uint32, error) {
	if !alg.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	secret, public, err := r.reg.GenerateMaterial(alg, src)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id, err := r.nextID(src)
	if err != nil {
		return 0, err
	}
	key := &Key{
		id:        id,
		algorithm: alg,
		origin:    types.OriginGenerated,
		secret:    secret,
		public:    public,
		createdAt: time.Now().UTC(),
	}
	r.insert(key)
	return id, nil
}

// AddExternalKey imports caller-supplied material. The material is
// validated for the algorithm's length and shape before anything is
// mutated; a mismatch fails with ErrInvalidKeyMaterial. Imported keys are
// inserted as secondary, except into an empty keyring where the
// single-primary invariant forces primary.
func (r *Keyring) AddExternalKey(src rand.Source, material []byte, alg types.Algorithm, metadata any) (uint32, error) {
	if !alg.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	public, err := r.reg.ValidateMaterial(alg, material)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidKeyMaterial, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id, err := r.nextID(src)
	if err != nil {
		return 0, err
	}
	key := &Key{
		id:        id,
		algorithm: alg,
		origin:    types.OriginExternal,
		secret:    append([]byte(nil), material...),
		public:    public,
		metadata:  metadata,
		createdAt: time.Now().UTC(),
	}
	r.insert(key)
	return id, nil
}

// insert adds a validated key under the write lock, maintaining the
// single-primary invariant.
func (r *Keyring) insert(key *Key) {
	r.seq++
	key.insertSeq = r.seq
	if len(r.keys) == 0 {
		key.status = types.StatusPrimary
		key.promoteSeq = r.seq
		r.primary = key.id
	} else {
		key.status = types.StatusSecondary
	}
	r.keys[key.id] = key
	r.order = append(r.order, key.id)
	r.used[key.id] = struct{}{}
}

// Promote makes the referenced key primary and demotes the previous
// primary to secondary. Promoting the current primary is a no-op. A
// disabled key must be enabled before it can be promoted.
func (r *Keyring) Promote(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.keys[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrKeyNotFound, id)
	}
	if key.status == types.StatusDisabled {
		return fmt.Errorf("%w: %d", ErrKeyDisabled, id)
	}
	if key.status == types.StatusPrimary {
		return nil
	}
	prev := r.keys[r.primary]
	prev.status = types.StatusSecondary
	key.status = types.StatusPrimary
	r.seq++
	key.promoteSeq = r.seq
	r.primary = id
	return nil
}

// Disable excludes a key from all operations until re-enabled. The primary
// key cannot be disabled.
func (r *Keyring) Disable(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.keys[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrKeyNotFound, id)
	}
	if id == r.primary {
		return fmt.Errorf("%w: %d", ErrCannotDisablePrimary, id)
	}
	key.status = types.StatusDisabled
	return nil
}

// Enable returns a disabled key to secondary status. Enabling a key that
// is not disabled is a no-op.
func (r *Keyring) Enable(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.keys[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrKeyNotFound, id)
	}
	if key.status == types.StatusDisabled {
		key.status = types.StatusSecondary
	}
	return nil
}

// Remove permanently deletes a key and zeroes its material immediately.
// The primary key cannot be removed. The id is never reused.
func (r *Keyring) Remove(id uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.keys[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrKeyNotFound, id)
	}
	if id == r.primary {
		return fmt.Errorf("%w: %d", ErrCannotRemovePrimary, id)
	}
	key.zeroize()
	delete(r.keys, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// SetMetadata replaces a key's caller-defined metadata.
func (r *Keyring) SetMetadata(id uint32, metadata any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.keys[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrKeyNotFound, id)
	}
	key.metadata = metadata
	return nil
}

// Primary returns the primary key. It errors on an empty keyring and
// panics if a non-empty keyring has lost its primary, which would mean the
// single-primary invariant was broken: that is a bug, not a caller error.
func (r *Keyring) Primary() (*Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.keys) == 0 {
		return nil, ErrEmptyKeyring
	}
	key, ok := r.keys[r.primary]
	if !ok || key.status != types.StatusPrimary {
		panic("keyring: primary key invariant violated")
	}
	return key, nil
}

// EnabledKey returns the key for id if it exists and is not disabled.
// Disabled keys are fully excluded from verification, including the
// header-present O(1) path.
func (r *Keyring) EnabledKey(id uint32) (*Key, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.keys[id]
	if !ok || !key.status.Enabled() {
		return nil, false
	}
	return key, true
}

// Get returns the key for id regardless of status.
func (r *Keyring) Get(id uint32) (*Key, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.keys[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrKeyNotFound, id)
	}
	return key, nil
}

// EnabledKeys returns a restartable sequence over all non-disabled keys,
// most-recently-promoted first with insertion order as tie-break. This is
// the candidate order for verification fan-out: the primary is tried
// first because fresh outputs are the common case.
func (r *Keyring) EnabledKeys() iter.Seq[*Key] {
	snapshot := r.enabledSnapshot()
	return func(yield func(*Key) bool) {
		for _, key := range snapshot {
			if !yield(key) {
				return
			}
		}
	}
}

func (r *Keyring) enabledSnapshot() []*Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]*Key, 0, len(r.order))
	for _, id := range r.order {
		if key := r.keys[id]; key.status.Enabled() {
			keys = append(keys, key)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if keys[i].promoteSeq != keys[j].promoteSeq {
			return keys[i].promoteSeq > keys[j].promoteSeq
		}
		return keys[i].insertSeq < keys[j].insertSeq
	})
	return keys
}

// Keys returns the public view of every key, in insertion order.
func (r *Keyring) Keys() []types.KeyInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]types.KeyInfo, 0, len(r.order))
	for _, id := range r.order {
		infos = append(infos, r.keys[id].Info())
	}
	return infos
}

// Len returns the number of keys in the keyring.
func (r *Keyring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

// Registry returns the backend registry this keyring resolves engines
// against.
func (r *Keyring) Registry() *backend.Registry {
	return r.reg
}

// nextID draws random ids until one clears the floor and has never been
// used by this keyring, deleted keys included.
func (r *Keyring) nextID(src rand.Source) (uint32, error) {
	for {
		id, err := src.Uint32()
		if err != nil {
			return 0, err
		}
		if id < minKeyID {
			continue
		}
		if _, taken := r.used[id]; taken {
			continue
		}
		return id, nil
	}
}
