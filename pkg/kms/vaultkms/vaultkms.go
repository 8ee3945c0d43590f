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

//go:build vault

// Package vaultkms implements the envelope KMS capability against
// HashiCorp Vault's Transit secrets engine. Wrapping keys never leave
// Vault; the key URI passed to Encrypt/Decrypt is the Transit key name.
package vaultkms

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"

	vault "github.com/hashicorp/vault/api"
)

// Config holds the Vault connection settings.
type Config struct {
	// Address is the Vault server URL, e.g. "https://vault:8200".
	Address string

	// Token authenticates the client.
	Token string

	// TransitPath is the Transit engine mount, default "transit".
	TransitPath string
}

// KMS wraps a Vault API client as an envelope.KMS.
type KMS struct {
	client *vault.Client
	mount  string
}

// New returns a Transit-backed KMS.
func New(cfg *Config) (*KMS, error) {
	vcfg := vault.DefaultConfig()
	if cfg.Address != "" {
		vcfg.Address = cfg.Address
	}
	client, err := vault.NewClient(vcfg)
	if err != nil {
		return nil, fmt.Errorf("vaultkms: %w", err)
	}
	client.SetToken(cfg.Token)
	mount := cfg.TransitPath
	if mount == "" {
		mount = "transit"
	}
	return &KMS{client: client, mount: mount}, nil
}

// Encrypt wraps plaintext under the named Transit key. Associated data is
// bound through Transit's derived-key context parameter.
func (k *KMS) Encrypt(ctx context.Context, keyURI string, aad, plaintext []byte) ([]byte, error) {
	data := map[string]interface{}{
		"plaintext": base64.StdEncoding.EncodeToString(plaintext),
	}
	if len(aad) > 0 {
		data["context"] = base64.StdEncoding.EncodeToString(aad)
	}
	secret, err := k.client.Logical().WriteWithContext(ctx,
		path.Join(k.mount, "encrypt", keyURI), data)
	if err != nil {
		return nil, fmt.Errorf("vaultkms: encrypt: %w", err)
	}
	ciphertext, ok := secret.Data["ciphertext"].(string)
	if !ok {
		return nil, fmt.Errorf("vaultkms: no ciphertext in response")
	}
	return []byte(ciphertext), nil
}

// Decrypt reverses Encrypt for the same key name and associated data.
func (k *KMS) Decrypt(ctx context.Context, keyURI string, aad, ciphertext []byte) ([]byte, error) {
	data := map[string]interface{}{
		"ciphertext": string(ciphertext),
	}
	if len(aad) > 0 {
		data["context"] = base64.StdEncoding.EncodeToString(aad)
	}
	secret, err := k.client.Logical().WriteWithContext(ctx,
		path.Join(k.mount, "decrypt", keyURI), data)
	if err != nil {
		return nil, fmt.Errorf("vaultkms: decrypt: %w", err)
	}
	encoded, ok := secret.Data["plaintext"].(string)
	if !ok {
		return nil, fmt.Errorf("vaultkms: no plaintext in response")
	}
	plaintext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("vaultkms: invalid plaintext encoding: %w", err)
	}
	return plaintext, nil
}
