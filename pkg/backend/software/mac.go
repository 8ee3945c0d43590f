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
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/jeremyhahn/go-keyring/pkg/types"
)

type hmacSHA256 struct{ symmetric }

func newHMACSHA256() hmacSHA256 { return hmacSHA256{symmetric{32}} }

func (hmacSHA256) Algorithm() types.Algorithm { return types.HMACSHA256 }
func (hmacSHA256) Name() string               { return "software" }
func (hmacSHA256) TagSize() int               { return sha256.Size }

func (hmacSHA256) NewHash(key []byte) (hash.Hash, error) {
	return hmac.New(sha256.New, key), nil
}

type hmacSHA384 struct{ symmetric }

func newHMACSHA384() hmacSHA384 { return hmacSHA384{symmetric{48}} }

func (hmacSHA384) Algorithm() types.Algorithm { return types.HMACSHA384 }
func (hmacSHA384) Name() string               { return "software" }
func (hmacSHA384) TagSize() int               { return sha512.Size384 }

func (hmacSHA384) NewHash(key []byte) (hash.Hash, error) {
	return hmac.New(sha512.New384, key), nil
}

type hmacSHA512 struct{ symmetric }

func newHMACSHA512() hmacSHA512 { return hmacSHA512{symmetric{64}} }

func (hmacSHA512) Algorithm() types.Algorithm { return types.HMACSHA512 }
func (hmacSHA512) Name() string               { return "software" }
func (hmacSHA512) TagSize() int               { return sha512.Size }

func (hmacSHA512) NewHash(key []byte) (hash.Hash, error) {
	return hmac.New(sha512.New, key), nil
}

// blake2bMAC uses BLAKE2b's native keyed mode rather than HMAC.
type blake2bMAC struct{ symmetric }

func newBlake2bMAC() blake2bMAC { return blake2bMAC{symmetric{32}} }

func (blake2bMAC) Algorithm() types.Algorithm { return types.Blake2b256 }
func (blake2bMAC) Name() string               { return "software" }
func (blake2bMAC) TagSize() int               { return blake2b.Size256 }

func (blake2bMAC) NewHash(key []byte) (hash.Hash, error) {
	return blake2b.New256(key)
}
