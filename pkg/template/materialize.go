package template

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	"github.com/rotisserie/eris"

	"github.com/ngld/pvm-contract/pkg"
	"github.com/ngld/pvm-contract/pkg/manifest"
)

// Materialize copies the named template into targetDir and writes a
// Cargo.toml whose package name is projectName. targetDir must not
// exist yet.
//
// There is no rollback: a failure partway through leaves the files
// written so far in place and the caller has to clean up manually.
func Materialize(ctx context.Context, name string, targetDir string, projectName string) error {
	root := path.Join(bundleRoot, name)
	_, err := fs.Stat(bundle, root)
	if err != nil {
		return eris.Errorf("Template '%s' not found. Available templates: %s",
			name, strings.Join(Names(), ", "))
	}

	_, err = os.Stat(targetDir)
	if err == nil {
		return eris.Errorf("Directory already exists: %s", targetDir)
	}
	if !eris.Is(err, os.ErrNotExist) {
		return eris.Wrapf(err, "Failed to check %s", targetDir)
	}

	err = os.Mkdir(targetDir, 0755)
	if err != nil {
		return eris.Wrapf(err, "Failed to create directory %s", targetDir)
	}

	err = extract(ctx, root, targetDir)
	if err != nil {
		return err
	}

	return writeManifest(ctx, root, targetDir, projectName)
}

// extract copies every file of the template into targetDir preserving
// relative paths, skipping the placeholder manifest.
func extract(ctx context.Context, root string, targetDir string) error {
	logger := pkg.Log(ctx)

	return fs.WalkDir(bundle, root, func(entryPath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return eris.Wrapf(err, "Failed to read template entry %s", entryPath)
		}
		if entryPath == root {
			return nil
		}

		rel := filepath.FromSlash(strings.TrimPrefix(entryPath, root+"/"))
		dest := filepath.Join(targetDir, rel)

		if entry.IsDir() {
			err = os.MkdirAll(dest, 0755)
			if err != nil {
				return eris.Wrapf(err, "Failed to create directory %s", dest)
			}
			return nil
		}

		if entry.Name() == PlaceholderManifest {
			return nil
		}

		logger.Debug().Msgf("Extracting %s", rel)
		data, err := bundle.ReadFile(entryPath)
		if err != nil {
			return eris.Wrapf(err, "Failed to read bundled file %s", entryPath)
		}

		err = os.WriteFile(dest, data, 0644)
		if err != nil {
			return eris.Wrapf(err, "Failed to write %s", dest)
		}
		return nil
	})
}

// writeManifest patches the template's placeholder manifest with the
// project name and writes it as the real Cargo.toml.
func writeManifest(ctx context.Context, root string, targetDir string, projectName string) error {
	data, err := bundle.ReadFile(path.Join(root, PlaceholderManifest))
	if err != nil {
		return eris.Wrapf(err, "Template is missing %s", PlaceholderManifest)
	}

	doc, err := toml.LoadBytes(data)
	if err != nil {
		return eris.Wrap(err, "Failed to parse the template manifest")
	}
	doc.Set("package.name", projectName)

	dest := filepath.Join(targetDir, manifest.Filename)
	pkg.Log(ctx).Debug().Msgf("Creating %s", dest)

	err = os.WriteFile(dest, []byte(doc.String()), 0644)
	if err != nil {
		return eris.Wrapf(err, "Failed to write %s", dest)
	}
	return nil
}
