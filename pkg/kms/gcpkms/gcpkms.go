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

//go:build gcpkms

// Package gcpkms implements the envelope KMS capability against Google
// Cloud KMS. The key URI is the full CryptoKey resource name. Associated
// data maps to Cloud KMS additional authenticated data.
package gcpkms

import (
	"context"
	"fmt"

	gkms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"
	"google.golang.org/api/option"
)

// KMS wraps a Cloud KMS client as an envelope.KMS.
type KMS struct {
	client *gkms.KeyManagementClient
}

// Config holds Google Cloud connection settings.
type Config struct {
	// CredentialsFile optionally points at a service-account key file;
	// when empty, application default credentials are used.
	CredentialsFile string
}

// New returns a Cloud KMS-backed KMS.
func New(ctx context.Context, cfg *Config) (*KMS, error) {
	var opts []option.ClientOption
	if cfg != nil && cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := gkms.NewKeyManagementClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcpkms: %w", err)
	}
	return &KMS{client: client}, nil
}

// Close releases the underlying client connection.
func (k *KMS) Close() error {
	return k.client.Close()
}

// Encrypt wraps plaintext under the CryptoKey.
func (k *KMS) Encrypt(ctx context.Context, keyURI string, aad, plaintext []byte) ([]byte, error) {
	resp, err := k.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:                        keyURI,
		Plaintext:                   plaintext,
		AdditionalAuthenticatedData: aad,
	})
	if err != nil {
		return nil, fmt.Errorf("gcpkms: encrypt: %w", err)
	}
	return resp.Ciphertext, nil
}

// Decrypt reverses Encrypt for the same CryptoKey and associated data.
func (k *KMS) Decrypt(ctx context.Context, keyURI string, aad, ciphertext []byte) ([]byte, error) {
	resp, err := k.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:                        keyURI,
		Ciphertext:                  ciphertext,
		AdditionalAuthenticatedData: aad,
	})
	if err != nil {
		return nil, fmt.Errorf("gcpkms: decrypt: %w", err)
	}
	return resp.Plaintext, nil
}
