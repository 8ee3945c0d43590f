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

// Package header encodes and decodes the optional 4-byte big-endian key-id
// prefix carried by primitive outputs (MAC tags, ciphertexts, signatures).
// A present header gives verification an O(1) key lookup; an omitted header
// forces candidate fan-out but permits shorter truncated outputs.
package header

import (
	"encoding/binary"
	"errors"
)

// IDLen is the byte length of an encoded key id.
const IDLen = 4

// Truncation floors. A tag without a header may not be shorter than
// MinPayloadLen. A tag carrying a header must keep at least MinPayloadLen
// of payload after the id, so its total floor is MinTaggedLen. The floor is
// higher with a header present because a guessable 4-byte id narrows a
// brute-force search less than payload bytes do.
const (
	MinPayloadLen = 10
	MinTaggedLen  = IDLen + MinPayloadLen
)

// ErrTagTooShort is returned when a requested truncation falls below the
// floor for the chosen header mode.
var ErrTagTooShort = errors.New("header: tag too short")

// Encode prepends the big-endian key id to payload.
func Encode(id uint32, payload []byte) []byte {
	out := make([]byte, IDLen+len(payload))
	binary.BigEndian.PutUint32(out, id)
	copy(out[IDLen:], payload)
	return out
}

// Parse splits a possible header from b. ok is false when b is too short
// to carry both an id and a minimum payload.
func Parse(b []byte) (id uint32, payload []byte, ok bool) {
	if len(b) < MinTaggedLen {
		return 0, nil, false
	}
	return binary.BigEndian.Uint32(b[:IDLen]), b[IDLen:], true
}

// ValidateLen checks a requested total output length against the floor for
// the given header mode. The two settings are independent but validated
// jointly: header-present lengths must cover the id plus the minimum
// payload.
func ValidateLen(n int, omitted bool) error {
	if omitted {
		if n < MinPayloadLen {
			return ErrTagTooShort
		}
		return nil
	}
	if n < MinTaggedLen {
		return ErrTagTooShort
	}
	return nil
}
