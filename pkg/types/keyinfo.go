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

package types

import "time"

// KeyInfo is a public view of a key: everything except the secret material.
// Inspect-style tooling and audit logs consume KeyInfo rather than the key
// itself so that material never crosses an API boundary by accident.
type KeyInfo struct {
	ID        uint32    `json:"id"`
	Algorithm Algorithm `json:"algorithm"`
	Status    Status    `json:"status"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}
