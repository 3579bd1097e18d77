package registry

import (
	"bytes"
	_ "embed"
)

// The built-in registry is embedded so the CLI works without a registry file.

//go:embed builtin.toml
var builtinTOML []byte

// Builtin returns a fresh copy of the built-in registry.
func Builtin() (*Registry, error) {
	return Load(bytes.NewReader(builtinTOML))
}
