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

package mac_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
	"github.com/jeremyhahn/go-keyring/pkg/mac"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

func TestHasherMatchesOneShot(t *testing.T) {
	ring := newTestRing(t, types.HMACSHA256)
	m := mac.New(ring)
	data := []byte("streamed in pieces, same tag as one shot")

	oneShot, err := m.Compute(data)
	require.NoError(t, err)

	h, err := m.NewHasher()
	require.NoError(t, err)
	require.NoError(t, h.Update(data[:10]))
	require.NoError(t, h.Update(data[10:]))
	streamed, err := h.Finalize()
	require.NoError(t, err)

	assert.Equal(t, oneShot.Bytes(), streamed.Bytes())
}

func TestHasherFinalizeOnce(t *testing.T) {
	ring := newTestRing(t, types.HMACSHA256)
	m := mac.New(ring)

	h, err := m.NewHasher()
	require.NoError(t, err)
	_, err = h.Finalize()
	require.NoError(t, err)

	_, err = h.Finalize()
	assert.ErrorIs(t, err, mac.ErrFinalized)
	assert.ErrorIs(t, h.Update([]byte("late")), mac.ErrFinalized)
}

func TestHasherCancel(t *testing.T) {
	ring := newTestRing(t, types.HMACSHA256)
	m := mac.New(ring)

	h, err := m.NewHasher()
	require.NoError(t, err)
	require.NoError(t, h.Update([]byte("partial")))
	h.Cancel()

	_, err = h.Finalize()
	assert.ErrorIs(t, err, mac.ErrFinalized)
}

func TestComputeFrom(t *testing.T) {
	ring := newTestRing(t, types.HMACSHA256)
	m := mac.New(ring)
	data := bytes.Repeat([]byte("chunked input "), 5000)

	oneShot, err := m.Compute(data)
	require.NoError(t, err)
	streamed, err := m.ComputeFrom(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, oneShot.Bytes(), streamed.Bytes())
}

func TestComputeFromCancelled(t *testing.T) {
	ring := newTestRing(t, types.HMACSHA256)
	m := mac.New(ring)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.ComputeFrom(ctx, bytes.NewReader([]byte("data")))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeFromReadError(t *testing.T) {
	ring := newTestRing(t, types.HMACSHA256)
	m := mac.New(ring)

	readErr := errors.New("disk gone")
	_, err := m.ComputeFrom(context.Background(), &failingReader{err: readErr})
	assert.ErrorIs(t, err, readErr)
}

type failingReader struct {
	err error
}

func (r *failingReader) Read(p []byte) (int, error) {
	return copy(p, "some bytes first"), r.err
}

func TestVerifierMatchesOneShot(t *testing.T) {
	ring := newTestRing(t, types.HMACSHA256)
	m := mac.New(ring)
	data := []byte("verify a stream against a tag")

	tag, err := m.Compute(data)
	require.NoError(t, err)

	v, err := m.NewVerifier(tag.Bytes())
	require.NoError(t, err)
	require.NoError(t, v.Update(data[:5]))
	require.NoError(t, v.Update(data[5:]))
	require.NoError(t, v.Finalize())

	assert.ErrorIs(t, v.Finalize(), mac.ErrFinalized)
}

func TestVerifierMismatch(t *testing.T) {
	ring := newTestRing(t, types.HMACSHA256)
	m := mac.New(ring)

	tag, err := m.Compute([]byte("expected input"))
	require.NoError(t, err)

	v, err := m.NewVerifier(tag.Bytes())
	require.NoError(t, err)
	require.NoError(t, v.Update([]byte("actual input")))
	assert.ErrorIs(t, v.Finalize(), mac.ErrVerificationFailed)
}

func TestVerifierHeaderlessAfterRotation(t *testing.T) {
	ring := newTestRing(t, types.HMACSHA256)
	m := mac.New(ring)
	data := []byte("old stream")

	tag, err := m.Compute(data)
	require.NoError(t, err)
	headerless, err := tag.OmitHeader()
	require.NoError(t, err)

	src := rand.NewDeterministic([]byte("stream-rotate"))
	id2, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	require.NoError(t, ring.Promote(id2))

	v, err := m.NewVerifier(headerless.Bytes())
	require.NoError(t, err)
	require.NoError(t, v.Update(data))
	require.NoError(t, v.Finalize())
}

func TestVerifyFrom(t *testing.T) {
	ring := newTestRing(t, types.HMACSHA256)
	m := mac.New(ring)
	data := bytes.Repeat([]byte("stream verify "), 4000)

	tag, err := m.ComputeFrom(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	require.NoError(t, m.VerifyFrom(context.Background(), tag.Bytes(), bytes.NewReader(data)))
	assert.ErrorIs(t,
		m.VerifyFrom(context.Background(), tag.Bytes(), bytes.NewReader(data[:len(data)-1])),
		mac.ErrVerificationFailed)
}
