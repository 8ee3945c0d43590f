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

// Status is the lifecycle state of a key within its keyring.
type Status string

const (
	// StatusPrimary marks the single key used for new generation
	// operations (compute, seal, sign). Exactly one key per non-empty
	// keyring holds this status.
	StatusPrimary Status = "primary"

	// StatusSecondary marks an enabled, non-primary key retained for
	// verifying and decrypting older outputs.
	StatusSecondary Status = "secondary"

	// StatusDisabled marks a key excluded from all operations until it
	// is re-enabled.
	StatusDisabled Status = "disabled"
)

// Enabled reports whether a key with this status participates in
// verification and decryption.
func (s Status) Enabled() bool {
	return s == StatusPrimary || s == StatusSecondary
}

// Valid reports whether s is one of the three defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPrimary, StatusSecondary, StatusDisabled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Origin records where a key's material came from.
type Origin string

const (
	// OriginGenerated marks material produced locally from the injected
	// randomness source.
	OriginGenerated Origin = "generated"

	// OriginExternal marks material imported from outside the keyring.
	OriginExternal Origin = "external"
)
