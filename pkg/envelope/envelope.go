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

// Package envelope protects serialized keyrings at rest. A keyring is
// serialized, encrypted locally under a fresh data-encryption key (DEK)
// with AES-256-GCM, and the DEK is wrapped by an external KMS. The
// envelope therefore owns no long-lived secret: compromise of stored
// envelopes without the KMS yields nothing.
//
// Ciphertext layout, after the original system's format:
//
//	[4-byte big-endian wrapped-DEK length] [KMS-wrapped DEK] [nonce || GCM ciphertext]
package envelope

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
	"github.com/jeremyhahn/go-keyring/pkg/keyring"
	"github.com/jeremyhahn/go-keyring/pkg/logging"
)

const (
	dekSize   = 32
	nonceSize = 12
)

// KMS is the external key-management capability. Both calls are blocking,
// fallible, and externally timed; the library imposes no retry policy.
type KMS interface {
	Encrypt(ctx context.Context, keyURI string, aad, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, keyURI string, aad, ciphertext []byte) ([]byte, error)
}

// Envelope is a sealed keyring snapshot plus the metadata needed to open
// it. The ID is generated at seal time for audit correlation and carries
// no secret.
type Envelope struct {
	ID         string `json:"id"`
	KMSKeyURI  string `json:"kms_key_uri"`
	AAD        []byte `json:"associated_data,omitempty"`
	Ciphertext []byte `json:"ciphertext"`
}

// Sealer seals and opens envelopes against one KMS capability.
type Sealer struct {
	kms      KMS
	src      rand.Source
	logger   *logging.Logger
	ringOpts []keyring.Option
}

// Option configures a Sealer.
type Option func(*Sealer)

// WithRand overrides the DEK and nonce randomness source.
func WithRand(src rand.Source) Option {
	return func(s *Sealer) { s.src = src }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Sealer) { s.logger = l }
}

// WithKeyringOptions forwards options to keyring.Load when opening, such
// as a custom backend registry.
func WithKeyringOptions(opts ...keyring.Option) Option {
	return func(s *Sealer) { s.ringOpts = opts }
}

// NewSealer returns a Sealer backed by kms.
func NewSealer(kms KMS, opts ...Option) *Sealer {
	s := &Sealer{
		kms:    kms,
		src:    rand.System,
		logger: logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seal serializes ring and produces an envelope bound to keyURI and aad.
// The plaintext serialization and the DEK are zeroized before return on
// every path.
func (s *Sealer) Seal(ctx context.Context, ring *keyring.Keyring, keyURI string, aad []byte) (*Envelope, error) {
	plaintext, err := ring.Marshal()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer zeroize(plaintext)

	dek, err := s.src.Bytes(dekSize)
	if err != nil {
		return nil, err
	}
	defer zeroize(dek)

	nonce, err := s.src.Bytes(nonceSize)
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(dek)
	if err != nil {
		return nil, err
	}
	local := gcm.Seal(nonce, nonce, plaintext, aad)

	wrapped, err := s.kms.Encrypt(ctx, keyURI, aad, dek)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKMS, err)
	}

	ciphertext := make([]byte, 4, 4+len(wrapped)+len(local))
	binary.BigEndian.PutUint32(ciphertext, uint32(len(wrapped)))
	ciphertext = append(ciphertext, wrapped...)
	ciphertext = append(ciphertext, local...)

	env := &Envelope{
		ID:         uuid.NewString(),
		KMSKeyURI:  keyURI,
		AAD:        append([]byte(nil), aad...),
		Ciphertext: ciphertext,
	}
	s.logger.Debugf("envelope: sealed keyring as %s under %s", env.ID, keyURI)
	return env, nil
}

// Open unwraps the DEK via the KMS, decrypts, and deserializes. Any KMS or
// authentication failure surfaces without a partially deserialized
// keyring.
func (s *Sealer) Open(ctx context.Context, env *Envelope) (*keyring.Keyring, error) {
	wrapped, local, err := splitCiphertext(env.Ciphertext)
	if err != nil {
		return nil, err
	}
	dek, err := s.kms.Decrypt(ctx, env.KMSKeyURI, env.AAD, wrapped)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKMS, err)
	}
	defer zeroize(dek)
	if len(dek) != dekSize {
		return nil, ErrAuthentication
	}

	gcm, err := newGCM(dek)
	if err != nil {
		return nil, err
	}
	if len(local) < nonceSize {
		return nil, ErrMalformed
	}
	plaintext, err := gcm.Open(nil, local[:nonceSize], local[nonceSize:], env.AAD)
	if err != nil {
		return nil, ErrAuthentication
	}
	defer zeroize(plaintext)

	ring, err := keyring.Load(plaintext, s.ringOpts...)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("envelope: opened %s", env.ID)
	return ring, nil
}

// MigrateOption adjusts the target of a migration.
type MigrateOption func(*migrateConfig)

type migrateConfig struct {
	keyURI *string
	aad    *[]byte
}

// WithKeyURI re-envelopes under a different KMS key.
func WithKeyURI(uri string) MigrateOption {
	return func(c *migrateConfig) { c.keyURI = &uri }
}

// WithAAD re-envelopes under different associated data.
func WithAAD(aad []byte) MigrateOption {
	return func(c *migrateConfig) { c.aad = &aad }
}

// Migrate opens env fully and seals a fresh envelope under the new key URI
// and/or associated data. It is fail-closed: env is never mutated, and no
// new envelope is returned unless the open and the re-seal both succeed.
// Atomic replacement of the stored envelope is the caller's job.
func (s *Sealer) Migrate(ctx context.Context, env *Envelope, opts ...MigrateOption) (*Envelope, error) {
	cfg := migrateConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	keyURI := env.KMSKeyURI
	if cfg.keyURI != nil {
		keyURI = *cfg.keyURI
	}
	aad := env.AAD
	if cfg.aad != nil {
		aad = *cfg.aad
	}

	ring, err := s.Open(ctx, env)
	if err != nil {
		return nil, err
	}
	fresh, err := s.Seal(ctx, ring, keyURI, aad)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("envelope: migrated %s to %s", env.ID, fresh.ID)
	return fresh, nil
}

func splitCiphertext(ct []byte) (wrapped, local []byte, err error) {
	if len(ct) < 4 {
		return nil, nil, ErrMalformed
	}
	n := binary.BigEndian.Uint32(ct[:4])
	if n == 0 || uint64(len(ct)) < 4+uint64(n) {
		return nil, nil, ErrMalformed
	}
	return ct[4 : 4+n], ct[4+n:], nil
}

func newGCM(dek []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(dek)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
