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

import (
	"errors"

	"github.com/jeremyhahn/go-keyring/pkg/header"
)

var (
	// ErrVerificationFailed is deliberately opaque. It never reveals
	// which candidate key was tried, how many were tried, or where the
	// comparison diverged, to prevent oracle attacks.
	ErrVerificationFailed = errors.New("mac: verification failed")

	// ErrTagTooShort indicates a truncation request below the floor for
	// the tag's header mode.
	ErrTagTooShort = header.ErrTagTooShort

	// ErrFinalized indicates a streaming operation was used after its
	// single permitted finalize, or after cancellation.
	ErrFinalized = errors.New("mac: stream already finalized")
)
