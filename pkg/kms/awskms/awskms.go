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

//go:build awskms

// Package awskms implements the envelope KMS capability against AWS KMS.
// The key URI is the AWS key id or ARN. Associated data is bound through
// the KMS EncryptionContext, which AWS authenticates but does not store
// with the ciphertext.
package awskms

import (
	"context"
	"encoding/base64"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// aadContextKey is the EncryptionContext entry carrying the caller's
// associated data, base64-encoded since context values must be strings.
const aadContextKey = "aad"

// KMS wraps an AWS KMS client as an envelope.KMS.
type KMS struct {
	client *kms.Client
}

// Config holds AWS connection settings.
type Config struct {
	// Region overrides the default region resolution.
	Region string
}

// New returns an AWS-backed KMS using the default credential chain.
func New(ctx context.Context, cfg *Config) (*KMS, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg != nil && cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("awskms: %w", err)
	}
	return &KMS{client: kms.NewFromConfig(awsCfg)}, nil
}

// Encrypt wraps plaintext under the AWS key.
func (k *KMS) Encrypt(ctx context.Context, keyURI string, aad, plaintext []byte) ([]byte, error) {
	input := &kms.EncryptInput{
		KeyId:     &keyURI,
		Plaintext: plaintext,
	}
	if len(aad) > 0 {
		input.EncryptionContext = map[string]string{
			aadContextKey: base64.StdEncoding.EncodeToString(aad),
		}
	}
	out, err := k.client.Encrypt(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("awskms: encrypt: %w", err)
	}
	return out.CiphertextBlob, nil
}

// Decrypt reverses Encrypt for the same key and associated data.
func (k *KMS) Decrypt(ctx context.Context, keyURI string, aad, ciphertext []byte) ([]byte, error) {
	input := &kms.DecryptInput{
		KeyId:          &keyURI,
		CiphertextBlob: ciphertext,
	}
	if len(aad) > 0 {
		input.EncryptionContext = map[string]string{
			aadContextKey: base64.StdEncoding.EncodeToString(aad),
		}
	}
	out, err := k.client.Decrypt(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("awskms: decrypt: %w", err)
	}
	return out.Plaintext, nil
}
