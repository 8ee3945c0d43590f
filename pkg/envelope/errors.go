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

package envelope

import "errors"

var (
	// ErrKMS indicates the external KMS call failed. The KMS collaborator
	// owns retries; the caller decides whether to try again.
	ErrKMS = errors.New("envelope: kms operation failed")

	// ErrAuthentication indicates the envelope ciphertext failed AEAD
	// authentication: wrong key URI, wrong associated data, or tampering.
	ErrAuthentication = errors.New("envelope: authentication failed")

	// ErrMalformed indicates envelope bytes that do not parse as an
	// envelope at all.
	ErrMalformed = errors.New("envelope: malformed envelope")
)
