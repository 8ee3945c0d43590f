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

package mac

import "github.com/jeremyhahn/go-keyring/pkg/header"

// Tag is a computed authentication tag. By default its wire form carries
// the 4-byte key-id header for O(1) verification; OmitHeader drops the
// header irreversibly, and Truncate shortens the payload down to the floor
// for the tag's header mode.
type Tag struct {
	id      uint32
	payload []byte
	omitted bool
}

// Bytes returns the wire form: id || payload with the header, payload
// alone without it.
func (t Tag) Bytes() []byte {
	if t.omitted {
		return append([]byte(nil), t.payload...)
	}
	return header.Encode(t.id, t.payload)
}

// KeyID returns the id of the key that produced the tag.
func (t Tag) KeyID() uint32 { return t.id }

// OmitHeader returns a copy of the tag without the key-id header. The
// choice is one-way: a consumer cannot reattach a header later, so the
// verifier must fan out over candidate keys. Omitting the header is
// required before truncating below the header-present floor.
func (t Tag) OmitHeader() (Tag, error) {
	if err := header.ValidateLen(len(t.payload), true); err != nil {
		return Tag{}, err
	}
	t.omitted = true
	return t, nil
}

// Truncate shortens the tag's wire form to n bytes. The floor depends on
// header mode: a headered tag must keep the id plus the minimum payload,
// a headerless tag only the minimum payload. Below the floor the request
// fails with ErrTagTooShort and the tag is unchanged.
func (t Tag) Truncate(n int) (Tag, error) {
	if err := header.ValidateLen(n, t.omitted); err != nil {
		return Tag{}, err
	}
	payloadLen := n
	if !t.omitted {
		payloadLen = n - header.IDLen
	}
	if payloadLen > len(t.payload) {
		payloadLen = len(t.payload)
	}
	t.payload = append([]byte(nil), t.payload[:payloadLen]...)
	return t, nil
}
