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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-keyring/pkg/keyring"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

func TestMarshalLoadRoundTrip(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)
	id1, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	id2, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	id3, err := ring.Generate(src, types.Ed25519)
	require.NoError(t, err)
	require.NoError(t, ring.Promote(id2))
	require.NoError(t, ring.Disable(id3))
	require.NoError(t, ring.SetMetadata(id1, "imported from v1"))

	data, err := ring.Marshal()
	require.NoError(t, err)

	loaded, err := keyring.Load(data)
	require.NoError(t, err)
	require.Equal(t, ring.Len(), loaded.Len())

	primary, err := loaded.Primary()
	require.NoError(t, err)
	assert.Equal(t, id2, primary.ID())

	orig, err := ring.Get(id1)
	require.NoError(t, err)
	got, err := loaded.Get(id1)
	require.NoError(t, err)
	assert.Equal(t, orig.Secret(), got.Secret())
	assert.Equal(t, orig.Algorithm(), got.Algorithm())
	assert.Equal(t, orig.Origin(), got.Origin())
	assert.Equal(t, "imported from v1", got.Metadata())

	key3, err := loaded.Get(id3)
	require.NoError(t, err)
	assert.Equal(t, types.StatusDisabled, key3.Status())

	// The signing key's public component is re-derived on load.
	orig3, err := ring.Get(id3)
	require.NoError(t, err)
	assert.Equal(t, orig3.Public(), key3.Public())
}

func TestLoadedFanoutStartsAtPrimary(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)
	_, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	id2, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	require.NoError(t, ring.Promote(id2))

	data, err := ring.Marshal()
	require.NoError(t, err)
	loaded, err := keyring.Load(data)
	require.NoError(t, err)

	var first uint32
	for key := range loaded.EnabledKeys() {
		first = key.ID()
		break
	}
	assert.Equal(t, id2, first)
}

func TestLoadEmptyKeyring(t *testing.T) {
	data, err := keyring.New().Marshal()
	require.NoError(t, err)
	loaded, err := keyring.Load(data)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestLoadRejectsMalformed(t *testing.T) {
	ring := keyring.New()
	_, err := ring.Generate(testSource(t), types.HMACSHA256)
	require.NoError(t, err)
	valid, err := ring.Marshal()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(valid, &doc))

	mutate := func(t *testing.T, f func(doc map[string]any)) []byte {
		t.Helper()
		var copied map[string]any
		require.NoError(t, json.Unmarshal(valid, &copied))
		f(copied)
		out, err := json.Marshal(copied)
		require.NoError(t, err)
		return out
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"not json", []byte("{"), keyring.ErrMalformedKeyring},
		{"wrong version", mutate(t, func(d map[string]any) { d["version"] = 7 }), keyring.ErrUnsupportedVersion},
		{"zero key id", mutate(t, func(d map[string]any) {
			d["keys"].([]any)[0].(map[string]any)["id"] = 0
		}), keyring.ErrMalformedKeyring},
		{"bad status", mutate(t, func(d map[string]any) {
			d["keys"].([]any)[0].(map[string]any)["status"] = "retired"
		}), keyring.ErrMalformedKeyring},
		{"unknown algorithm", mutate(t, func(d map[string]any) {
			d["keys"].([]any)[0].(map[string]any)["algorithm"] = "rot13"
		}), keyring.ErrMalformedKeyring},
		{"primary id mismatch", mutate(t, func(d map[string]any) {
			d["primary_key_id"] = 123456789
		}), keyring.ErrMalformedKeyring},
		{"no primary", mutate(t, func(d map[string]any) {
			d["keys"].([]any)[0].(map[string]any)["status"] = "secondary"
		}), keyring.ErrMalformedKeyring},
		{"truncated material", mutate(t, func(d map[string]any) {
			d["keys"].([]any)[0].(map[string]any)["material"] = map[string]any{"secret": "c2hvcnQ="}
		}), keyring.ErrMalformedKeyring},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := keyring.Load(tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	ring := keyring.New()
	src := testSource(t)
	_, err := ring.Generate(src, types.HMACSHA256)
	require.NoError(t, err)
	valid, err := ring.Marshal()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(valid, &doc))
	keys := doc["keys"].([]any)
	dup := keys[0].(map[string]any)
	second := map[string]any{}
	for k, v := range dup {
		second[k] = v
	}
	second["status"] = "secondary"
	doc["keys"] = append(keys, second)
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	_, err = keyring.Load(data)
	assert.ErrorIs(t, err, keyring.ErrMalformedKeyring)
}
