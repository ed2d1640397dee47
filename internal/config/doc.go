// Package config loads and validates the fieldbook workspace configuration.
//
// Configuration comes from a TOML file (~/.config/fieldbook/config.toml or a
// fieldbook.toml in the working directory). Load applies defaults, expands
// and absolutizes every path field, and validates the result, so the rest of
// the codebase never deals with relative or ~-prefixed paths.
package config
