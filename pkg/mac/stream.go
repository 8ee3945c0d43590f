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

package mac

import (
	"context"
	"crypto/subtle"
	"hash"
	"io"

	"github.com/jeremyhahn/go-keyring/pkg/header"
	"github.com/jeremyhahn/go-keyring/pkg/keyring"
)

// Hasher computes a tag incrementally. Finalize may be called at most
// once; after Finalize or Cancel the hasher rejects all further use.
// Cancel discards partial state without ever exposing a partial tag.
type Hasher struct {
	keyID uint32
	h     hash.Hash
	done  bool
}

// NewHasher starts a streaming computation under the primary key.
func (m *MAC) NewHasher() (*Hasher, error) {
	key, err := m.ring.Primary()
	if err != nil {
		return nil, err
	}
	engine, err := m.ring.Registry().MAC(key.Algorithm())
	if err != nil {
		return nil, err
	}
	h, err := engine.NewHash(key.Secret())
	if err != nil {
		return nil, err
	}
	return &Hasher{keyID: key.ID(), h: h}, nil
}

// Update absorbs the next chunk of input.
func (h *Hasher) Update(p []byte) error {
	if h.done {
		return ErrFinalized
	}
	h.h.Write(p)
	return nil
}

// Finalize produces the tag. It must not be called before the input
// stream has signalled completion.
func (h *Hasher) Finalize() (Tag, error) {
	if h.done {
		return Tag{}, ErrFinalized
	}
	h.done = true
	return Tag{id: h.keyID, payload: h.h.Sum(nil)}, nil
}

// Cancel discards partial state. The hasher is unusable afterwards.
func (h *Hasher) Cancel() {
	h.done = true
	h.h.Reset()
}

// ComputeFrom streams r through a hasher in chunks, honoring ctx. On
// cancellation or read error the partial state is discarded and no tag is
// returned.
func (m *MAC) ComputeFrom(ctx context.Context, r io.Reader) (Tag, error) {
	h, err := m.NewHasher()
	if err != nil {
		return Tag{}, err
	}
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			h.Cancel()
			return Tag{}, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			if uerr := h.Update(buf[:n]); uerr != nil {
				return Tag{}, uerr
			}
		}
		if err == io.EOF {
			return h.Finalize()
		}
		if err != nil {
			h.Cancel()
			return Tag{}, err
		}
	}
}

// Verifier checks a tag against incrementally delivered input. It applies
// the same key-selection algorithm as Verify: a matching header pins a
// single candidate, otherwise every enabled key is hashed in parallel with
// the input and compared at finalize.
type Verifier struct {
	payloads   [][]byte
	candidates []streamCandidate
	done       bool
}

type streamCandidate struct {
	key *keyring.Key
	h   hash.Hash
}

// NewVerifier starts a streaming verification of tag.
func (m *MAC) NewVerifier(tag []byte) (*Verifier, error) {
	v := &Verifier{}
	add := func(key *keyring.Key, payload []byte) error {
		engine, err := m.ring.Registry().MAC(key.Algorithm())
		if err != nil {
			return err
		}
		h, err := engine.NewHash(key.Secret())
		if err != nil {
			return err
		}
		v.candidates = append(v.candidates, streamCandidate{key: key, h: h})
		v.payloads = append(v.payloads, payload)
		return nil
	}

	if id, payload, ok := header.Parse(tag); ok {
		if key, enabled := m.ring.EnabledKey(id); enabled {
			if err := add(key, payload); err != nil {
				return nil, err
			}
			return v, nil
		}
	}
	if len(tag) < header.MinPayloadLen {
		return nil, ErrVerificationFailed
	}
	for key := range m.ring.EnabledKeys() {
		if err := add(key, tag); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Update absorbs the next chunk of input into every candidate.
func (v *Verifier) Update(p []byte) error {
	if v.done {
		return ErrFinalized
	}
	for _, c := range v.candidates {
		c.h.Write(p)
	}
	return nil
}

// Finalize compares every candidate in constant time. The result is
// opaque success or ErrVerificationFailed; it may be called at most once.
func (v *Verifier) Finalize() error {
	if v.done {
		return ErrFinalized
	}
	v.done = true
	matched := 0
	for i, c := range v.candidates {
		sum := c.h.Sum(nil)
		payload := v.payloads[i]
		if len(payload) < header.MinPayloadLen || len(payload) > len(sum) {
			continue
		}
		matched |= subtle.ConstantTimeCompare(sum[:len(payload)], payload)
	}
	if matched == 1 {
		return nil
	}
	return ErrVerificationFailed
}

// Cancel discards all candidate state without producing a result.
func (v *Verifier) Cancel() {
	v.done = true
	for _, c := range v.candidates {
		c.h.Reset()
	}
}

// VerifyFrom streams r through a verifier, honoring ctx. Cancellation
// discards partial state with no result.
func (m *MAC) VerifyFrom(ctx context.Context, tag []byte, r io.Reader) error {
	v, err := m.NewVerifier(tag)
	if err != nil {
		return err
	}
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			v.Cancel()
			return err
		}
		n, rerr := r.Read(buf)
		if n > 0 {
			if uerr := v.Update(buf[:n]); uerr != nil {
				return uerr
			}
		}
		if rerr == io.EOF {
			return v.Finalize()
		}
		if rerr != nil {
			v.Cancel()
			return rerr
		}
	}
}
