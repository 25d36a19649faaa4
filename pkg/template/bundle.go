// Package template materializes the bundled contract project skeletons.
package template

import (
	"embed"
	"sort"
)

// PlaceholderManifest is the reserved manifest filename inside a
// template. It is never copied verbatim; Materialize patches it and
// re-emits it under the real manifest filename. The underscore also
// keeps cargo from treating the template as a workspace member.
const PlaceholderManifest = "_Cargo.toml"

const bundleRoot = "templates"

// The all: prefix is required because the placeholder manifest starts
// with an underscore, which go:embed skips by default.
//
//go:embed all:templates
var bundle embed.FS

// Names returns the names of all bundled templates in sorted order.
func Names() []string {
	entries, err := bundle.ReadDir(bundleRoot)
	if err != nil {
		// The bundle is compiled in, a read failure is a packaging bug.
		panic(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names
}
