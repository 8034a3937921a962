// Package docs bundles long-form documentation with the noted binary.
package docs

import _ "embed"

// Format describes the note file format, printed by `noted guide`.
//
//go:embed format.md
var Format string
