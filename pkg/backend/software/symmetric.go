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
	"fmt"

	"github.com/jeremyhahn/go-keyring/pkg/backend"
	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
)

// symmetric supplies the GenerateKey/ValidateKey behavior shared by every
// engine whose material is a flat random byte string.
type symmetric struct {
	size int
}

func (s symmetric) GenerateKey(src rand.Source) (secret, public []byte, err error) {
	secret, err = src.Bytes(s.size)
	return secret, nil, err
}

func (s symmetric) ValidateKey(secret []byte) ([]byte, error) {
	if len(secret) != s.size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d",
			backend.ErrInvalidKeyMaterial, len(secret), s.size)
	}
	return nil, nil
}

func (s symmetric) KeySize() int {
	return s.size
}
