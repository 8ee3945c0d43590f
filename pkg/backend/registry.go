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
	"fmt"
	"sync"

	"github.com/jeremyhahn/go-keyring/pkg/crypto/rand"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

// Registry resolves algorithms to engines. The first engine registered for
// an algorithm is its default; alternates are selectable by name via
// Select. All registered engines for one algorithm must produce identical
// outputs for identical inputs.
type Registry struct {
	mu       sync.RWMutex
	engines  map[types.Algorithm][]Engine
	selected map[types.Algorithm]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		engines:  make(map[types.Algorithm][]Engine),
		selected: make(map[types.Algorithm]string),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry. The software engines register
// themselves here on import.
func Default() *Registry {
	return defaultRegistry
}

// Register adds an engine. Registering two engines with the same
// (algorithm, name) pair is a programming error and panics.
func (r *Registry) Register(e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.engines[e.Algorithm()] {
		if existing.Name() == e.Name() {
			panic(fmt.Sprintf("backend: duplicate engine %q for %s", e.Name(), e.Algorithm()))
		}
	}
	r.engines[e.Algorithm()] = append(r.engines[e.Algorithm()], e)
}

// Select pins the engine used for an algorithm by name. This is the static
// configuration hook: capability selection happens here, once, not by
// guessing at call time.
func (r *Registry) Select(alg types.Algorithm, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.engines[alg] {
		if e.Name() == name {
			r.selected[alg] = name
			return nil
		}
	}
	return fmt.Errorf("%w: %q for %s", ErrEngineNotFound, name, alg)
}

// Engines returns every engine registered for alg, default first.
func (r *Registry) Engines(alg types.Algorithm) []Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Engine, len(r.engines[alg]))
	copy(out, r.engines[alg])
	return out
}

func (r *Registry) resolve(alg types.Algorithm) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	engines := r.engines[alg]
	if len(engines) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
	if name, ok := r.selected[alg]; ok {
		for _, e := range engines {
			if e.Name() == name {
				return e, nil
			}
		}
	}
	return engines[0], nil
}

// MAC resolves a MAC engine for alg.
func (r *Registry) MAC(alg types.Algorithm) (MAC, error) {
	e, err := r.resolve(alg)
	if err != nil {
		return nil, err
	}
	m, ok := e.(MAC)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a MAC", ErrWrongPrimitive, alg)
	}
	return m, nil
}

// AEAD resolves an AEAD engine for alg.
func (r *Registry) AEAD(alg types.Algorithm) (AEAD, error) {
	e, err := r.resolve(alg)
	if err != nil {
		return nil, err
	}
	a, ok := e.(AEAD)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an AEAD", ErrWrongPrimitive, alg)
	}
	return a, nil
}

// DAEAD resolves a deterministic AEAD engine for alg.
func (r *Registry) DAEAD(alg types.Algorithm) (DAEAD, error) {
	e, err := r.resolve(alg)
	if err != nil {
		return nil, err
	}
	d, ok := e.(DAEAD)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a DAEAD", ErrWrongPrimitive, alg)
	}
	return d, nil
}

// KDF resolves a key derivation engine for alg.
func (r *Registry) KDF(alg types.Algorithm) (KDF, error) {
	e, err := r.resolve(alg)
	if err != nil {
		return nil, err
	}
	k, ok := e.(KDF)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a KDF", ErrWrongPrimitive, alg)
	}
	return k, nil
}

// Signer resolves a signature engine for alg.
func (r *Registry) Signer(alg types.Algorithm) (Signer, error) {
	e, err := r.resolve(alg)
	if err != nil {
		return nil, err
	}
	s, ok := e.(Signer)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a Signer", ErrWrongPrimitive, alg)
	}
	return s, nil
}

// GenerateMaterial produces fresh key material for alg using the resolved
// engine and the injected randomness source.
func (r *Registry) GenerateMaterial(alg types.Algorithm, src rand.Source) (secret, public []byte, err error) {
	e, err := r.resolve(alg)
	if err != nil {
		return nil, nil, err
	}
	return e.GenerateKey(src)
}

// ValidateMaterial checks imported material against alg's shape
// requirements, returning the derived public component for asymmetric
// algorithms.
func (r *Registry) ValidateMaterial(alg types.Algorithm, secret []byte) (public []byte, err error) {
	e, err := r.resolve(alg)
	if err != nil {
		return nil, err
	}
	return e.ValidateKey(secret)
}
