// Package config loads editor settings from TOML or YAML files.
//
// Settings are read over the defaults, so a file only names what it
// changes:
//
//	[history]
//	max_depth = 50
//
//	[marks.ranks]
//	link = 5
//
// Load picks the decoder from the file extension and validates the result.
package config
