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

package keyring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/jeremyhahn/go-keyring/pkg/backend/software"
	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
	"github.com/jeremyhahn/go-keyring/pkg/keyring"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

func testSource(t *testing.T) rand.Source {
	t.Helper()
	return rand.NewDeterministic([]byte(t.Name()))
}

func TestGenerateFirstKeyIsPrimary(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)

	id, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, id, uint32(100_000_000))

	primary, err := ring.Primary()
	require.NoError(t, err)
	assert.Equal(t, id, primary.ID())
	assert.Equal(t, types.StatusPrimary, primary.Status())
	assert.Equal(t, types.OriginGenerated, primary.Origin())
	assert.Len(t, primary.Secret(), 32)

	// Later keys come in as secondary; the primary is unchanged.
	id2, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	key2, err := ring.Get(id2)
	require.NoError(t, err)
	assert.Equal(t, types.StatusSecondary, key2.Status())

	primary, err = ring.Primary()
	require.NoError(t, err)
	assert.Equal(t, id, primary.ID())
}

func TestGenerateUnknownAlgorithm(t *testing.T) {
	ring := keyring.New()
	_, err := ring.Generate(testSource(t), types.Algorithm("des"))
	assert.ErrorIs(t, err, keyring.ErrUnsupportedAlgorithm)
}

func TestPrimaryOnEmptyKeyring(t *testing.T) {
	_, err := keyring.New().Primary()
	assert.ErrorIs(t, err, keyring.ErrEmptyKeyring)
}

func TestPromote(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)
	id1, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	id2, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)

	require.NoError(t, ring.Promote(id2))

	primary, err := ring.Primary()
	require.NoError(t, err)
	assert.Equal(t, id2, primary.ID())

	// The old primary is demoted, not disabled.
	key1, err := ring.Get(id1)
	require.NoError(t, err)
	assert.Equal(t, types.StatusSecondary, key1.Status())

	// Promoting the current primary is a no-op.
	require.NoError(t, ring.Promote(id2))
	primary, err = ring.Primary()
	require.NoError(t, err)
	assert.Equal(t, id2, primary.ID())

	assert.ErrorIs(t, ring.Promote(999), keyring.ErrKeyNotFound)
}

func TestPromoteDisabledKey(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)
	_, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	id2, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)

	require.NoError(t, ring.Disable(id2))
	assert.ErrorIs(t, ring.Promote(id2), keyring.ErrKeyDisabled)

	// Enable then promote succeeds.
	require.NoError(t, ring.Enable(id2))
	require.NoError(t, ring.Promote(id2))
}

func TestDisableEnable(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)
	id1, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	id2, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)

	assert.ErrorIs(t, ring.Disable(id1), keyring.ErrCannotDisablePrimary)

	require.NoError(t, ring.Disable(id2))
	_, enabled := ring.EnabledKey(id2)
	assert.False(t, enabled, "disabled keys are excluded from lookup")

	// Enable restores secondary status; enabling twice is a no-op.
	require.NoError(t, ring.Enable(id2))
	require.NoError(t, ring.Enable(id2))
	key2, err := ring.Get(id2)
	require.NoError(t, err)
	assert.Equal(t, types.StatusSecondary, key2.Status())
}

func TestRemove(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)
	id1, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	id2, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)

	assert.ErrorIs(t, ring.Remove(id1), keyring.ErrCannotRemovePrimary)

	key2, err := ring.Get(id2)
	require.NoError(t, err)
	secret := key2.Secret()

	require.NoError(t, ring.Remove(id2))
	_, err = ring.Get(id2)
	assert.ErrorIs(t, err, keyring.ErrKeyNotFound)
	assert.Equal(t, 1, ring.Len())

	// Material is zeroized on removal.
	for _, b := range secret {
		assert.Zero(t, b)
	}
}

func TestAddExternalKey(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)

	material := make([]byte, 32)
	for i := range material {
		material[i] = byte(i)
	}

	// Into an empty keyring the imported key must become primary.
	id, err := ring.AddExternalKey(src, material, types.HMACSHA256, map[string]string{"source": "hsm"})
	require.NoError(t, err)
	key, err := ring.Get(id)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPrimary, key.Status())
	assert.Equal(t, types.OriginExternal, key.Origin())
	assert.Equal(t, material, key.Secret())

	// Into a populated keyring it comes in as secondary.
	id2, err := ring.AddExternalKey(src, material, types.HMACSHA256, nil)
	require.NoError(t, err)
	key2, err := ring.Get(id2)
	require.NoError(t, err)
	assert.Equal(t, types.StatusSecondary, key2.Status())
}

func TestAddExternalKeyInvalidMaterial(t *testing.T) {
	ring := keyring.New()
	_, err := ring.AddExternalKey(testSource(t), []byte("too short"), types.HMACSHA256, nil)
	assert.ErrorIs(t, err, keyring.ErrInvalidKeyMaterial)
	assert.Equal(t, 0, ring.Len(), "failed import must not mutate the keyring")
}

func TestSetMetadata(t *testing.T) {
	ring := keyring.New()
	id, err := ring.Generate(testSource(t), types.HMACSHA256)
	require.NoError(t, err)

	require.NoError(t, ring.SetMetadata(id, "rotated-2026-08"))
	key, err := ring.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "rotated-2026-08", key.Metadata())

	assert.ErrorIs(t, ring.SetMetadata(999, nil), keyring.ErrKeyNotFound)
}

func TestEnabledKeysOrder(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)
	id1, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	id2, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	id3, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)

	// Rotate twice: id3 primary, then id2 primary.
	require.NoError(t, ring.Promote(id3))
	require.NoError(t, ring.Promote(id2))
	require.NoError(t, ring.Disable(id3))

	var order []uint32
	for key := range ring.EnabledKeys() {
		order = append(order, key.ID())
	}
	// Current primary first, then never-promoted keys in insertion order.
	// id3 is disabled and absent.
	assert.Equal(t, []uint32{id2, id1}, order)
}

func TestIDsNeverReused(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)
	_, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	id2, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	require.NoError(t, ring.Remove(id2))

	seen := map[uint32]struct{}{id2: {}}
	for i := 0; i < 50; i++ {
		id, err := ring.Generate(src, types.HMACSHA256)
		require.NoError(t, err)
		_, dup := seen[id]
		assert.False(t, dup, "id %d reused", id)
		seen[id] = struct{}{}
	}
}

func TestKeysView(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)
	id1, err := ring.Generate(src, types.Ed25519)
	require.NoError(t, err)
	id2, err := ring.Generate(src, types.Ed25519)
	require.NoError(t, err)

	infos := ring.Keys()
	require.Len(t, infos, 2)
	assert.Equal(t, id1, infos[0].ID)
	assert.Equal(t, id2, infos[1].ID)
	assert.Equal(t, types.Ed25519, infos[0].Algorithm)
	assert.Equal(t, types.StatusPrimary, infos[0].Status)
	assert.False(t, infos[0].CreatedAt.IsZero())
}
