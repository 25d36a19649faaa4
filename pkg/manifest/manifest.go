// Package manifest locates and reads Cargo.toml project manifests.
package manifest

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
)

// Filename is the real manifest filename inside a contract project.
const Filename = "Cargo.toml"

// Manifest is the subset of Cargo.toml this tool reads.
type Manifest struct {
	Package Package  `toml:"package"`
	Bin     []Binary `toml:"bin"`
}

// Package contains the package metadata.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Binary is a single [[bin]] target declaration.
type Binary struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Find walks up from startDir and returns the path of the nearest
// Cargo.toml. Returns an empty string if no directory up to and
// including the filesystem root contains one.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to resolve %s", startDir)
	}

	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to canonicalize %s", startDir)
	}

	for {
		manifestPath := filepath.Join(dir, Filename)
		_, err := os.Stat(manifestPath)
		if err == nil {
			return manifestPath, nil
		}
		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrapf(err, "Failed to check %s", manifestPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads and decodes the manifest at the given path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to read %s", path)
	}

	var m Manifest
	err = toml.Unmarshal(data, &m)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to parse %s", path)
	}

	return &m, nil
}

// SelectBinary resolves the binary target to build. An explicit name is
// used verbatim without consulting the manifest; otherwise the first
// [[bin]] entry wins.
func SelectBinary(manifestPath string, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	m, err := Load(manifestPath)
	if err != nil {
		return "", err
	}

	if len(m.Bin) == 0 || m.Bin[0].Name == "" {
		return "", eris.Errorf("No [[bin]] section found in %s. Please specify a binary name.", manifestPath)
	}

	return m.Bin[0].Name, nil
}
