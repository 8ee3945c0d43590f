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

// Package software provides the portable pure-Go engines for every
// supported algorithm. Importing the package registers the engines with
// the default backend registry; RegisterAll wires them into a custom one.
package software

import "github.com/jeremyhahn/go-keyring/pkg/backend"

func init() {
	RegisterAll(backend.Default())
}

// RegisterAll registers every software engine with reg.
func RegisterAll(reg *backend.Registry) {
	for _, e := range engines() {
		reg.Register(e)
	}
}

func engines() []backend.Engine {
	return []backend.Engine{
		newHMACSHA256(), newHMACSHA384(), newHMACSHA512(), newBlake2bMAC(),
		newAESGCM(), newChaCha20(), newXChaCha20(),
		newSIV(),
		newHKDFSHA256(), newHKDFSHA512(),
		ed25519Engine{}, circlEd25519{},
	}
}
