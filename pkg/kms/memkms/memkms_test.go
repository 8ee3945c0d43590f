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

package memkms_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-keyring/pkg/kms/memkms"
)

func TestWrapUnwrap(t *testing.T) {
	ctx := context.Background()
	kms := memkms.New(nil)
	dek := []byte("0123456789abcdef0123456789abcdef")
	aad := []byte("envelope-id")

	wrapped, err := kms.Encrypt(ctx, "mem://a", aad, dek)
	require.NoError(t, err)
	assert.NotEqual(t, dek, wrapped)

	unwrapped, err := kms.Decrypt(ctx, "mem://a", aad, wrapped)
	require.NoError(t, err)
	assert.Equal(t, dek, unwrapped)
}

func TestPerURIKeys(t *testing.T) {
	ctx := context.Background()
	kms := memkms.New(nil)
	dek := []byte("0123456789abcdef0123456789abcdef")

	wrapped, err := kms.Encrypt(ctx, "mem://a", nil, dek)
	require.NoError(t, err)

	// A different URI has a different wrapping key.
	_, err = kms.Decrypt(ctx, "mem://b", nil, wrapped)
	assert.Error(t, err)
}

func TestAADBinding(t *testing.T) {
	ctx := context.Background()
	kms := memkms.New(nil)
	dek := []byte("0123456789abcdef0123456789abcdef")

	wrapped, err := kms.Encrypt(ctx, "mem://a", []byte("aad"), dek)
	require.NoError(t, err)
	_, err = kms.Decrypt(ctx, "mem://a", []byte("other"), wrapped)
	assert.Error(t, err)
}

func TestErrorInjection(t *testing.T) {
	ctx := context.Background()
	kms := memkms.New(nil)
	boom := errors.New("injected")

	kms.FailEncrypt(boom)
	_, err := kms.Encrypt(ctx, "mem://a", nil, []byte("dek"))
	assert.ErrorIs(t, err, boom)
	kms.FailEncrypt(nil)

	wrapped, err := kms.Encrypt(ctx, "mem://a", nil, []byte("dek"))
	require.NoError(t, err)

	kms.FailDecrypt(boom)
	_, err = kms.Decrypt(ctx, "mem://a", nil, wrapped)
	assert.ErrorIs(t, err, boom)
	kms.FailDecrypt(nil)

	_, err = kms.Decrypt(ctx, "mem://a", nil, wrapped)
	assert.NoError(t, err)
}

func TestDecryptTruncated(t *testing.T) {
	ctx := context.Background()
	kms := memkms.New(nil)
	_, err := kms.Decrypt(ctx, "mem://a", nil, []byte("short"))
	assert.Error(t, err)
}
