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

// Package rand models randomness as an injected capability rather than a
// hidden process-wide generator. Key generation and envelope sealing take a
// Source explicitly, which lets tests substitute a deterministic source and
// lets callers route entropy through hardware when they have it.
package rand

import (
	"crypto/rand"
	"encoding/binary"
	"io"
)

// Source produces cryptographic randomness. Implementations must be safe
// for concurrent use.
type Source interface {
	// Bytes returns n fresh random bytes.
	Bytes(n int) ([]byte, error)

	// Uint32 returns a fresh random 32-bit value.
	Uint32() (uint32, error)
}

// System is the default Source, backed by the operating system CSPRNG
// via crypto/rand.
var System Source = systemSource{}

type systemSource struct{}

func (systemSource) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (systemSource) Uint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

// Reader adapts a Source to io.Reader for APIs that consume randomness as
// a stream, such as nonce generation.
func Reader(s Source) io.Reader {
	return sourceReader{s}
}

type sourceReader struct {
	src Source
}

func (r sourceReader) Read(p []byte) (int, error) {
	b, err := r.src.Bytes(len(p))
	if err != nil {
		return 0, err
	}
	copy(p, b)
	return len(p), nil
}
