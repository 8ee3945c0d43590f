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

import (
	"bytes"
	"fmt"

	"github.com/jeremyhahn/go-keyring/pkg/types"
)

// CrossCheck runs every engine registered for alg over the same key and
// input and fails unless all outputs are byte-identical. Determinism across
// engines is a correctness requirement, not a performance concern: material
// generated under one engine must verify under another. Deployments that
// pin an alternate engine should run this at startup.
func (r *Registry) CrossCheck(alg types.Algorithm, key, data []byte) error {
	engines := r.Engines(alg)
	if len(engines) < 2 {
		return nil
	}
	var reference []byte
	var refName string
	for _, e := range engines {
		out, err := engineOutput(e, key, data)
		if err != nil {
			return fmt.Errorf("backend: cross-check %s engine %q: %w", alg, e.Name(), err)
		}
		if out == nil {
			// Primitive has no deterministic single-shot output to compare.
			return nil
		}
		if reference == nil {
			reference, refName = out, e.Name()
			continue
		}
		if !bytes.Equal(reference, out) {
			return fmt.Errorf("%w: %s engines %q and %q", ErrEngineMismatch, alg, refName, e.Name())
		}
	}
	return nil
}

func engineOutput(e Engine, key, data []byte) ([]byte, error) {
	switch eng := e.(type) {
	case MAC:
		h, err := eng.NewHash(key)
		if err != nil {
			return nil, err
		}
		h.Write(data)
		return h.Sum(nil), nil
	case Signer:
		return eng.Sign(key, data)
	case DAEAD:
		return eng.Seal(key, data, nil)
	default:
		// AEADs and KDFs with randomized or caller-driven inputs are
		// exercised through round-trip interop instead.
		return nil, nil
	}
}
