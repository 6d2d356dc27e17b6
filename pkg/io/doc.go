// Package io moves layouts and artifacts between kleviz and the file
// system.
//
// # Input discovery
//
// [Discover] expands command-line arguments into an ordered, de-duplicated
// list of layout files. An argument may be:
//
//   - a file path, used as is
//   - a directory, expanded to every *.json file below it
//   - a glob pattern, matched with slash-separated semantics where `*` stays
//     within one path segment and `**` crosses segments
//
// Patterns are matched against paths as the walker reports them, so a
// pattern rooted at "layouts/" only sees files under layouts/:
//
//	files, err := io.Discover([]string{"layouts/**/*.json", "extra/planck.json"})
//
// # Reading layouts
//
// [ImportLayout] reads and parses one file, enforcing the size limit from
// pkg/errors before any parsing happens.
//
// # Writing artifacts
//
// [OutputPath] derives an artifact path from its input and format:
//
//	layouts/60/ansi.json + "svg" -> <out>/ansi.svg
//
// [WriteFile] writes through a temporary file and a rename, so a
// concurrently running viewer never reads a half-written image.
package io
