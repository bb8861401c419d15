// Package file provides file-based configuration for billchat.
//
// Settings are read from a TOML file in the billchat config directory
// with environment variable overrides, and LLM prompts are loaded from
// user-editable files with embedded defaults.
package file
