// Package pvm drives the RISC-V cross compile and the PolkaVM link step.
package pvm

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// TargetTriple is the rustc target the contract crates are compiled
// for. The compiled ELF ends up under target/<TargetTriple>/release/.
const TargetTriple = "riscv64emac-unknown-none-polkavm"

// The target description ships with the linker toolchain and must match
// the instruction set polkatool encodes for.
//
//go:embed riscv64emac-unknown-none-polkavm.json
var targetJSON []byte

// TargetJSONArgs selects the target description variant.
type TargetJSONArgs struct {
	Is64Bit bool
}

// TargetJSONPath materializes the bundled rustc target description in
// the user cache directory and returns its path.
func TargetJSONPath(args TargetJSONArgs) (string, error) {
	if !args.Is64Bit {
		return "", eris.New("Only the 64-bit PolkaVM target is supported")
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", eris.Wrap(err, "Failed to determine the user cache directory")
	}

	dir := filepath.Join(cacheDir, "pvm-contract")
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to create %s", dir)
	}

	path := filepath.Join(dir, TargetTriple+".json")
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, targetJSON) {
		return path, nil
	}
	if err != nil && !eris.Is(err, os.ErrNotExist) {
		return "", eris.Wrapf(err, "Failed to read %s", path)
	}

	err = os.WriteFile(path, targetJSON, 0644)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to write %s", path)
	}

	return path, nil
}
