// Package config loads, normalizes, and validates camtrap configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI needs: the datapackage directory holding the CSV artifacts, the
// default timestamp offset for field sheets without one, the inclusion
// policy for unlinked media, and merge behaviour.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
