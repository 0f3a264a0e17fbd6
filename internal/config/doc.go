// Package config loads and validates application settings from the
// environment and optional config files, exposing them as typed structs so
// the rest of the codebase never reads raw environment variables.
package config
