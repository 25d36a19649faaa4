package template

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	bstoml "github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/ngld/pvm-contract/pkg"
	"github.com/ngld/pvm-contract/pkg/manifest"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return pkg.WithLogger(context.Background(), &logger)
}

func TestNames(t *testing.T) {
	names := Names()
	want := []string{"blank", "pico-alloc"}

	if len(names) != len(want) {
		t.Fatalf("Names = %v, want %v", names, want)
	}
	for idx, name := range want {
		if names[idx] != name {
			t.Errorf("Names[%d] = %q, want %q", idx, names[idx], name)
		}
	}
}

func TestMaterialize(t *testing.T) {
	targetDir := filepath.Join(t.TempDir(), "my-contract")

	err := Materialize(testContext(), "pico-alloc", targetDir, "my-contract")
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	// The real manifest carries the patched package name.
	var m manifest.Manifest
	_, err = bstoml.DecodeFile(filepath.Join(targetDir, manifest.Filename), &m)
	if err != nil {
		t.Fatalf("generated Cargo.toml does not parse: %v", err)
	}
	if m.Package.Name != "my-contract" {
		t.Errorf("package name = %q, want my-contract", m.Package.Name)
	}
	if m.Package.Version != "0.1.0" {
		t.Errorf("package version = %q, want 0.1.0", m.Package.Version)
	}
	if len(m.Bin) != 1 || m.Bin[0].Name != "contract" {
		t.Errorf("bin targets = %v, want the template's contract entry", m.Bin)
	}

	// Every other file arrives unchanged at its relative path.
	written, err := os.ReadFile(filepath.Join(targetDir, "src", "contract.rs"))
	if err != nil {
		t.Fatalf("src/contract.rs was not copied: %v", err)
	}
	bundled, err := bundle.ReadFile("templates/pico-alloc/src/contract.rs")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(written, bundled) {
		t.Error("src/contract.rs differs from the bundled template file")
	}

	// The placeholder must never be copied verbatim.
	if _, err := os.Stat(filepath.Join(targetDir, PlaceholderManifest)); err == nil {
		t.Errorf("%s was copied into the target directory", PlaceholderManifest)
	}
}

func TestMaterializeExistingDir(t *testing.T) {
	targetDir := filepath.Join(t.TempDir(), "existing")
	if err := os.Mkdir(targetDir, 0755); err != nil {
		t.Fatal(err)
	}
	marker := filepath.Join(targetDir, "keep.txt")
	if err := os.WriteFile(marker, []byte("precious"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Materialize(testContext(), "pico-alloc", targetDir, "existing")
	if err == nil {
		t.Fatal("Materialize succeeded for an existing directory")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("unexpected error: %v", err)
	}

	// The existing contents must be untouched.
	data, err := os.ReadFile(marker)
	if err != nil || string(data) != "precious" {
		t.Errorf("existing directory was modified: %v", err)
	}
	entries, err := os.ReadDir(targetDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("existing directory gained %d entries", len(entries)-1)
	}
}

func TestMaterializeUnknownTemplate(t *testing.T) {
	targetDir := filepath.Join(t.TempDir(), "proj")

	err := Materialize(testContext(), "does-not-exist", targetDir, "proj")
	if err == nil {
		t.Fatal("Materialize succeeded for an unknown template")
	}
	for _, name := range Names() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not list template %q", err.Error(), name)
		}
	}

	// The target directory must not be created for an unknown template.
	if _, err := os.Stat(targetDir); err == nil {
		t.Error("target directory was created despite the unknown template")
	}
}

func TestMaterializeBlank(t *testing.T) {
	targetDir := filepath.Join(t.TempDir(), "blank-proj")

	err := Materialize(testContext(), "blank", targetDir, "blank-proj")
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	var m manifest.Manifest
	_, err = bstoml.DecodeFile(filepath.Join(targetDir, manifest.Filename), &m)
	if err != nil {
		t.Fatalf("generated Cargo.toml does not parse: %v", err)
	}
	if m.Package.Name != "blank-proj" {
		t.Errorf("package name = %q, want blank-proj", m.Package.Name)
	}
}
