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

package aead_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-keyring/pkg/aead"
	_ "github.com/jeremyhahn/go-keyring/pkg/backend/software"
	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
	"github.com/jeremyhahn/go-keyring/pkg/header"
	"github.com/jeremyhahn/go-keyring/pkg/keyring"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

func newTestRing(t *testing.T, algs ...types.Algorithm) *keyring.Keyring {
	t.Helper()
	ring := keyring.New()
	src := rand.NewDeterministic([]byte(t.Name()))
	for _, alg := range algs {
		_, err := ring.Generate(src, alg)
		require.NoError(t, err)
	}
	return ring
}

func TestSealOpenRoundTrip(t *testing.T) {
	for _, alg := range []types.Algorithm{
		types.AES256GCM, types.ChaCha20Poly1305, types.XChaCha20Poly1305,
	} {
		t.Run(string(alg), func(t *testing.T) {
			ring := newTestRing(t, alg)
			a := aead.New(ring)
			plaintext := []byte("secret payload")
			aad := []byte("request-id: 42")

			ct, err := a.Seal(plaintext, aad)
			require.NoError(t, err)

			pt, err := a.Open(ct, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, pt)
		})
	}
}

func TestSealCarriesKeyID(t *testing.T) {
	ring := newTestRing(t, types.AES256GCM)
	a := aead.New(ring)

	ct, err := a.Seal([]byte("payload"), nil)
	require.NoError(t, err)

	primary, err := ring.Primary()
	require.NoError(t, err)
	id, _, ok := header.Parse(ct)
	require.True(t, ok)
	assert.Equal(t, primary.ID(), id)
}

func TestNonceFreshness(t *testing.T) {
	ring := newTestRing(t, types.AES256GCM)
	a := aead.New(ring)

	one, err := a.Seal([]byte("same plaintext"), nil)
	require.NoError(t, err)
	two, err := a.Seal([]byte("same plaintext"), nil)
	require.NoError(t, err)
	assert.NotEqual(t, one, two, "sealing twice must never repeat a nonce")
}

func TestOpenFailures(t *testing.T) {
	ring := newTestRing(t, types.AES256GCM)
	a := aead.New(ring)
	aad := []byte("bound context")

	ct, err := a.Seal([]byte("payload"), aad)
	require.NoError(t, err)

	// Wrong aad.
	_, err = a.Open(ct, []byte("other context"))
	assert.ErrorIs(t, err, aead.ErrDecryptionFailed)

	// Flipped ciphertext bit.
	flipped := append([]byte(nil), ct...)
	flipped[len(flipped)-1] ^= 1
	_, err = a.Open(flipped, aad)
	assert.ErrorIs(t, err, aead.ErrDecryptionFailed)

	// Unknown key id in the header.
	unknown := append([]byte(nil), ct...)
	unknown[0] ^= 0xff
	_, err = a.Open(unknown, aad)
	assert.ErrorIs(t, err, aead.ErrDecryptionFailed)

	// Garbage and empty inputs.
	_, err = a.Open([]byte("short"), aad)
	assert.ErrorIs(t, err, aead.ErrDecryptionFailed)
	_, err = a.Open(nil, aad)
	assert.ErrorIs(t, err, aead.ErrDecryptionFailed)
}

func TestOpenAfterRotation(t *testing.T) {
	ring := newTestRing(t, types.AES256GCM)
	a := aead.New(ring)
	plaintext := []byte("sealed before rotation")

	ct, err := a.Seal(plaintext, nil)
	require.NoError(t, err)

	src := rand.NewDeterministic([]byte("aead-rotate"))
	id2, err := ring.Generate(src, types.AES256GCM)
	require.NoError(t, err)
	require.NoError(t, ring.Promote(id2))

	pt, err := a.Open(ct, nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)

	// Disabling the old key retires its ciphertexts.
	oldID, _, ok := header.Parse(ct)
	require.True(t, ok)
	require.NoError(t, ring.Disable(oldID))
	_, err = a.Open(ct, nil)
	assert.ErrorIs(t, err, aead.ErrDecryptionFailed)
}

func TestHeaderOmitted(t *testing.T) {
	ring := newTestRing(t, types.AES256GCM, types.AES256GCM)
	a := aead.New(ring, aead.WithHeaderOmitted())
	plaintext := []byte("anonymous ciphertext")

	ct, err := a.Seal(plaintext, nil)
	require.NoError(t, err)

	// No parseable key id: Open must fan out and still succeed.
	pt, err := a.Open(ct, nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, pt)
}

func TestSealOnEmptyKeyring(t *testing.T) {
	a := aead.New(keyring.New())
	_, err := a.Seal([]byte("payload"), nil)
	assert.ErrorIs(t, err, keyring.ErrEmptyKeyring)
}

func TestDeterministicNonceSource(t *testing.T) {
	ring := newTestRing(t, types.AES256GCM)

	a1 := aead.New(ring, aead.WithRand(rand.NewDeterministic([]byte("nonce"))))
	a2 := aead.New(ring, aead.WithRand(rand.NewDeterministic([]byte("nonce"))))
	one, err := a1.Seal([]byte("payload"), nil)
	require.NoError(t, err)
	two, err := a2.Seal([]byte("payload"), nil)
	require.NoError(t, err)
	assert.Equal(t, one, two)
}
