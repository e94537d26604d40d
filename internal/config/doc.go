// Package config loads and validates the feedwatch YAML configuration.
//
// ${VAR} references in the file are expanded from the environment before
// parsing, so endpoints can be kept out of the file itself.
package config
