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

package software

import (
	"crypto/ed25519"
	"fmt"

	circled "github.com/cloudflare/circl/sign/ed25519"

	"github.com/jeremyhahn/go-keyring/pkg/backend"
	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

// Signature material is the 32-byte Ed25519 seed; the public key is
// re-derived from it on validation and load.

type ed25519Engine struct{}

func (ed25519Engine) Algorithm() types.Algorithm { return types.Ed25519 }
func (ed25519Engine) Name() string               { return "software" }
func (ed25519Engine) KeySize() int               { return ed25519.SeedSize }
func (ed25519Engine) SignatureSize() int         { return ed25519.SignatureSize }

func (e ed25519Engine) GenerateKey(src rand.Source) (secret, public []byte, err error) {
	seed, err := src.Bytes(ed25519.SeedSize)
	if err != nil {
		return nil, nil, err
	}
	public, err = e.ValidateKey(seed)
	if err != nil {
		return nil, nil, err
	}
	return seed, public, nil
}

func (ed25519Engine) ValidateKey(secret []byte) ([]byte, error) {
	if len(secret) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d",
			backend.ErrInvalidKeyMaterial, len(secret), ed25519.SeedSize)
	}
	priv := ed25519.NewKeyFromSeed(secret)
	return append([]byte(nil), priv.Public().(ed25519.PublicKey)...), nil
}

func (ed25519Engine) Sign(secret, data []byte) ([]byte, error) {
	if len(secret) != ed25519.SeedSize {
		return nil, backend.ErrInvalidKeyMaterial
	}
	return ed25519.Sign(ed25519.NewKeyFromSeed(secret), data), nil
}

func (ed25519Engine) Verify(public, data, sig []byte) bool {
	if len(public) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(public), data, sig)
}

// circlEd25519 is an interchangeable Ed25519 engine backed by CIRCL. It
// exists to exercise the determinism contract across independent engines;
// pin it with Registry.Select("circl") to use it for real work.
type circlEd25519 struct{}

func (circlEd25519) Algorithm() types.Algorithm { return types.Ed25519 }
func (circlEd25519) Name() string               { return "circl" }
func (circlEd25519) KeySize() int               { return circled.SeedSize }
func (circlEd25519) SignatureSize() int         { return circled.SignatureSize }

func (e circlEd25519) GenerateKey(src rand.Source) (secret, public []byte, err error) {
	seed, err := src.Bytes(circled.SeedSize)
	if err != nil {
		return nil, nil, err
	}
	public, err = e.ValidateKey(seed)
	if err != nil {
		return nil, nil, err
	}
	return seed, public, nil
}

func (circlEd25519) ValidateKey(secret []byte) ([]byte, error) {
	if len(secret) != circled.SeedSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d",
			backend.ErrInvalidKeyMaterial, len(secret), circled.SeedSize)
	}
	priv := circled.NewKeyFromSeed(secret)
	pub := priv.Public().(circled.PublicKey)
	return append([]byte(nil), pub...), nil
}

func (circlEd25519) Sign(secret, data []byte) ([]byte, error) {
	if len(secret) != circled.SeedSize {
		return nil, backend.ErrInvalidKeyMaterial
	}
	return circled.Sign(circled.NewKeyFromSeed(secret), data), nil
}

func (circlEd25519) Verify(public, data, sig []byte) bool {
	if len(public) != circled.PublicKeySize {
		return false
	}
	return circled.Verify(circled.PublicKey(public), data, sig)
}
