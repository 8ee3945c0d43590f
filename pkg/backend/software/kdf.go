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
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/jeremyhahn/go-keyring/pkg/types"
)

type hkdfSHA256 struct{ symmetric }

func newHKDFSHA256() hkdfSHA256 { return hkdfSHA256{symmetric{32}} }

func (hkdfSHA256) Algorithm() types.Algorithm { return types.HKDFSHA256 }
func (hkdfSHA256) Name() string               { return "software" }

func (hkdfSHA256) Extract(secret, salt []byte) []byte {
	return hkdf.Extract(sha256.New, secret, salt)
}

func (hkdfSHA256) Expand(prk, info []byte, length int) ([]byte, error) {
	return hkdfExpand(sha256.New, prk, info, length)
}

type hkdfSHA512 struct{ symmetric }

func newHKDFSHA512() hkdfSHA512 { return hkdfSHA512{symmetric{64}} }

func (hkdfSHA512) Algorithm() types.Algorithm { return types.HKDFSHA512 }
func (hkdfSHA512) Name() string               { return "software" }

func (hkdfSHA512) Extract(secret, salt []byte) []byte {
	return hkdf.Extract(sha512.New, secret, salt)
}

func (hkdfSHA512) Expand(prk, info []byte, length int) ([]byte, error) {
	return hkdfExpand(sha512.New, prk, info, length)
}

func hkdfExpand(h func() hash.Hash, prk, info []byte, length int) ([]byte, error) {
	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.Expand(h, prk, info), out); err != nil {
		return nil, err
	}
	return out, nil
}
