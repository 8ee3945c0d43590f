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

package backend

import "errors"

var (
	// ErrUnsupportedAlgorithm indicates no engine is registered for the
	// requested algorithm.
	ErrUnsupportedAlgorithm = errors.New("backend: unsupported algorithm")

	// ErrWrongPrimitive indicates the registered engine does not serve
	// the requested primitive facade.
	ErrWrongPrimitive = errors.New("backend: algorithm does not belong to primitive")

	// ErrInvalidKeyMaterial indicates key material has the wrong length
	// or shape for its algorithm.
	ErrInvalidKeyMaterial = errors.New("backend: invalid key material")

	// ErrEngineMismatch indicates two engines registered for the same
	// algorithm produced different outputs for identical inputs.
	ErrEngineMismatch = errors.New("backend: engine outputs differ")

	// ErrEngineNotFound indicates no engine with the requested name is
	// registered for the algorithm.
	ErrEngineNotFound = errors.New("backend: engine not found")
)
