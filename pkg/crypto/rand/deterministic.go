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

package rand

import (
	"crypto/sha256"
	"encoding/binary"
	"sync"
)

// Deterministic is a seeded Source for tests. It produces a repeatable
// byte stream by hashing a seed with an incrementing counter.
//
// Never use outside of testing.
type Deterministic struct {
	mu      sync.Mutex
	seed    [32]byte
	counter uint64
	buf     []byte
}

// NewDeterministic returns a Deterministic source for the given seed.
// Equal seeds yield equal streams.
func NewDeterministic(seed []byte) *Deterministic {
	d := &Deterministic{}
	d.seed = sha256.Sum256(seed)
	return d
}

func (d *Deterministic) Bytes(n int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, 0, n)
	for len(out) < n {
		if len(d.buf) == 0 {
			var block [40]byte
			copy(block[:32], d.seed[:])
			binary.BigEndian.PutUint64(block[32:], d.counter)
			d.counter++
			sum := sha256.Sum256(block[:])
			d.buf = sum[:]
		}
		take := n - len(out)
		if take > len(d.buf) {
			take = len(d.buf)
		}
		out = append(out, d.buf[:take]...)
		d.buf = d.buf[take:]
	}
	return out, nil
}

func (d *Deterministic) Uint32() (uint32, error) {
	b, err := d.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}
