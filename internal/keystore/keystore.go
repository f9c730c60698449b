// Package keystore models EIP-2335 validator keystores and checks them
// against the schema the launcher enforces on its side, so a broken
// keystore can be rejected before it travels over the wire.
package keystore

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Module is one crypto function entry of a keystore: the kdf, checksum or
// cipher object.
type Module struct {
	Function string                 `json:"function"`
	Params   map[string]interface{} `json:"params"`
	Message  string                 `json:"message"`
}

// Crypto groups the three modules protecting the signing key.
type Crypto struct {
	KDF      Module `json:"kdf"`
	Checksum Module `json:"checksum"`
	Cipher   Module `json:"cipher"`
}

// Keystore is an EIP-2335 keystore. Crypto, path, uuid and version are
// required; description and pubkey are optional.
type Keystore struct {
	Crypto      Crypto `json:"crypto"`
	Description string `json:"description,omitempty"`
	Pubkey      string `json:"pubkey,omitempty"`
	Path        string `json:"path"`
	UUID        string `json:"uuid"`
	Version     int    `json:"version"`
}

var uuidFormat = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

// Validate checks that data is a structurally valid EIP-2335 keystore and
// returns the first problem found.
func Validate(data []byte) error {
	var ks Keystore
	if err := json.Unmarshal(data, &ks); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if ks.Path == "" {
		return fmt.Errorf("missing required field: path")
	}
	if ks.UUID == "" {
		return fmt.Errorf("missing required field: uuid")
	}
	if !uuidFormat.MatchString(ks.UUID) {
		return fmt.Errorf("invalid uuid format")
	}
	if ks.Version < 1 {
		return fmt.Errorf("invalid version: must be a number greater than or equal to 1")
	}

	if err := validateModule("kdf", ks.Crypto.KDF); err != nil {
		return fmt.Errorf("invalid crypto.kdf: %w", err)
	}
	if err := validateModule("checksum", ks.Crypto.Checksum); err != nil {
		return fmt.Errorf("invalid crypto.checksum: %w", err)
	}
	if err := validateModule("cipher", ks.Crypto.Cipher); err != nil {
		return fmt.Errorf("invalid crypto.cipher: %w", err)
	}
	return nil
}

// validateModule checks the fields every crypto module must carry. The
// message may legitimately be empty (the kdf module usually leaves it so),
// but params must at least be an empty object.
func validateModule(name string, mod Module) error {
	if mod.Function == "" {
		return fmt.Errorf("missing required field: %s.function", name)
	}
	if mod.Params == nil {
		return fmt.Errorf("missing required field: %s.params", name)
	}
	return nil
}
