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

// Package config loads the library's YAML configuration for embedding
// applications and the external CLI: default algorithms per primitive,
// engine pinning, KMS provider selection, and logging. Environment
// variables prefixed with KEYRING_ override file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-keyring/pkg/backend"
	"github.com/jeremyhahn/go-keyring/pkg/types"
)

// Config is the complete library configuration.
type Config struct {
	Logging  LoggingConfig     `yaml:"logging"`
	KMS      KMSConfig         `yaml:"kms"`
	Defaults DefaultsConfig    `yaml:"defaults"`
	Engines  map[string]string `yaml:"engines"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// KMSConfig selects and configures the envelope KMS provider.
type KMSConfig struct {
	// Provider is one of "memory", "vault", "awskms", "gcpkms".
	Provider string `yaml:"provider"`

	// KeyURI is the provider-specific key identifier: a Transit key
	// name, an AWS key ARN, or a Cloud KMS CryptoKey resource name.
	KeyURI string `yaml:"key_uri"`

	Vault VaultConfig `yaml:"vault"`
	AWS   AWSConfig   `yaml:"aws"`
	GCP   GCPConfig   `yaml:"gcp"`
}

// VaultConfig holds HashiCorp Vault settings.
type VaultConfig struct {
	Address     string `yaml:"address"`
	Token       string `yaml:"token"`
	TransitPath string `yaml:"transit_path"`
}

// AWSConfig holds AWS settings.
type AWSConfig struct {
	Region string `yaml:"region"`
}

// GCPConfig holds Google Cloud settings.
type GCPConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
}

// DefaultsConfig names the default algorithm per primitive facade.
type DefaultsConfig struct {
	MAC       types.Algorithm `yaml:"mac"`
	AEAD      types.Algorithm `yaml:"aead"`
	DAEAD     types.Algorithm `yaml:"daead"`
	KDF       types.Algorithm `yaml:"kdf"`
	Signature types.Algorithm `yaml:"signature"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		KMS: KMSConfig{Provider: "memory"},
		Defaults: DefaultsConfig{
			MAC:       types.HMACSHA256,
			AEAD:      types.AES256GCM,
			DAEAD:     types.AES256SIV,
			KDF:       types.HKDFSHA256,
			Signature: types.Ed25519,
		},
	}
}

// Load reads a YAML configuration file, fills unset fields with defaults,
// applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KEYRING_LOG_DEBUG"); v == "1" || v == "true" {
		c.Logging.Debug = true
	}
	if v := os.Getenv("KEYRING_KMS_PROVIDER"); v != "" {
		c.KMS.Provider = v
	}
	if v := os.Getenv("KEYRING_KMS_KEY_URI"); v != "" {
		c.KMS.KeyURI = v
	}
	if v := os.Getenv("KEYRING_VAULT_ADDR"); v != "" {
		c.KMS.Vault.Address = v
	}
	if v := os.Getenv("KEYRING_VAULT_TOKEN"); v != "" {
		c.KMS.Vault.Token = v
	}
	if v := os.Getenv("KEYRING_AWS_REGION"); v != "" {
		c.KMS.AWS.Region = v
	}
}

// Validate checks algorithm names and provider selection.
func (c *Config) Validate() error {
	for _, alg := range []types.Algorithm{
		c.Defaults.MAC, c.Defaults.AEAD, c.Defaults.DAEAD,
		c.Defaults.KDF, c.Defaults.Signature,
	} {
		if alg != "" && !alg.Valid() {
			return fmt.Errorf("config: unknown algorithm %q", alg)
		}
	}
	switch c.KMS.Provider {
	case "", "memory", "vault", "awskms", "gcpkms":
	default:
		return fmt.Errorf("config: unknown kms provider %q", c.KMS.Provider)
	}
	return nil
}

// ApplyEngines pins configured engines on reg. Keys of the Engines map
// are algorithm tags, values engine names, e.g. "ed25519: circl".
func (c *Config) ApplyEngines(reg *backend.Registry) error {
	for alg, name := range c.Engines {
		if err := reg.Select(types.Algorithm(alg), name); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}
