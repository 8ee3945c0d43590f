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

// Package mac binds a keyring, the backend registry, and the header codec
// into the message authentication facade. Compute always uses the primary
// key; Verify selects the key by header when one is present and otherwise
// fans out over the enabled keys, so tags produced before a rotation keep
// verifying until their key is disabled or removed.
package mac

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jeremyhahn/go-keyring/pkg/header"
	"github.com/jeremyhahn/go-keyring/pkg/keyring"
	"github.com/jeremyhahn/go-keyring/pkg/logging"
)

// defaultFanout bounds the worker pool for headerless verification.
const defaultFanout = 4

// MAC is the message authentication facade over a keyring. It borrows the
// keyring for the duration of each call and retains no key material.
type MAC struct {
	ring   *keyring.Keyring
	logger *logging.Logger
	fanout int
}

// Option configures the facade.
type Option func(*MAC)

// WithLogger sets the logger. The default logger writes to stderr with
// debug disabled.
func WithLogger(l *logging.Logger) Option {
	return func(m *MAC) { m.logger = l }
}

// WithFanout bounds the parallel candidate checks during headerless
// verification.
func WithFanout(n int) Option {
	return func(m *MAC) {
		if n > 0 {
			m.fanout = n
		}
	}
}

// New returns a MAC facade over ring.
func New(ring *keyring.Keyring, opts ...Option) *MAC {
	m := &MAC{
		ring:   ring,
		logger: logging.DefaultLogger(),
		fanout: defaultFanout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Compute produces a tag over data using the primary key. The tag carries
// the key-id header unless the caller drops it with Tag.OmitHeader.
func (m *MAC) Compute(data []byte) (Tag, error) {
	key, err := m.ring.Primary()
	if err != nil {
		return Tag{}, err
	}
	sum, err := m.sum(key, data)
	if err != nil {
		return Tag{}, err
	}
	m.logger.Debugf("mac: computed tag under key %d", key.ID())
	return Tag{id: key.ID(), payload: sum}, nil
}

// Verify checks tag over data. The result is strictly opaque: any failure,
// including an unknown key id in the header, surfaces as
// ErrVerificationFailed.
func (m *MAC) Verify(tag, data []byte) error {
	return m.VerifyContext(context.Background(), tag, data)
}

// VerifyContext is Verify with caller-controlled cancellation of the
// candidate fan-out.
func (m *MAC) VerifyContext(ctx context.Context, tag, data []byte) error {
	// Header path: an exact, single-candidate check.
	if id, payload, ok := header.Parse(tag); ok {
		if key, enabled := m.ring.EnabledKey(id); enabled {
			if m.matches(key, payload, data) {
				return nil
			}
			return ErrVerificationFailed
		}
	}

	// Headerless path: bounded parallel fan-out over the enabled keys,
	// most-recently-promoted first. The first match cancels outstanding
	// candidates; failure is reported only once all of them finish.
	if len(tag) < header.MinPayloadLen {
		return ErrVerificationFailed
	}
	var matched atomic.Bool
	errMatched := errors.New("matched")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.fanout)
	for key := range m.ring.EnabledKeys() {
		select {
		case <-gctx.Done():
		default:
			g.Go(func() error {
				if m.matches(key, tag, data) {
					matched.Store(true)
					return errMatched
				}
				return nil
			})
		}
	}
	_ = g.Wait()
	if matched.Load() {
		return nil
	}
	return ErrVerificationFailed
}

// matches computes the candidate's full tag and compares the truncated
// prefix in constant time, regardless of candidate or truncation length.
func (m *MAC) matches(key *keyring.Key, payload, data []byte) bool {
	sum, err := m.sum(key, data)
	if err != nil {
		return false
	}
	if len(payload) < header.MinPayloadLen || len(payload) > len(sum) {
		return false
	}
	return subtle.ConstantTimeCompare(sum[:len(payload)], payload) == 1
}

func (m *MAC) sum(key *keyring.Key, data []byte) ([]byte, error) {
	engine, err := m.ring.Registry().MAC(key.Algorithm())
	if err != nil {
		return nil, err
	}
	h, err := engine.NewHash(key.Secret())
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}
