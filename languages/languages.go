// Package languages embeds the per-language refactoring surface definitions.
// Each YAML file defines the source/test globs and file extensions the
// planner searches when propagating a change, making it straightforward to
// add new language support by dropping in a new *.yaml file and registering
// the lang key in internal/ident.
package languages

import "embed"

// FS is an embed.FS containing every *.yaml file in this directory.
//
//go:embed *.yaml
var FS embed.FS
