package pvm

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ngld/pvm-contract/pkg"
)

// Config holds the options passed to the polkatool linker.
type Config struct {
	Strip    bool
	Optimize bool
}

// InstructionSet selects the bytecode encoding polkatool emits.
type InstructionSet string

// InstructionSetReviveV1 is the encoding expected by the revive
// runtime. It matches the bundled target description.
const InstructionSetReviveV1 InstructionSet = "revive-v1"

// LinkProgram hands the ELF bytes to polkatool and returns the linked
// PolkaVM program blob.
func LinkProgram(ctx context.Context, config Config, iset InstructionSet, elfBytes []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "pvm-contract-link")
	if err != nil {
		return nil, eris.Wrap(err, "Failed to create a temporary directory")
	}
	defer os.RemoveAll(tmpDir)

	elfPath := filepath.Join(tmpDir, "program.elf")
	outputPath := filepath.Join(tmpDir, "program.polkavm")
	err = os.WriteFile(elfPath, elfBytes, 0644)
	if err != nil {
		return nil, eris.Wrapf(err, "Failed to write %s", elfPath)
	}

	args := []string{"link", "--instruction-set", string(iset)}
	if config.Strip {
		args = append(args, "--strip")
	}
	if !config.Optimize {
		args = append(args, "--disable-optimizations")
	}
	args = append(args, "--output", outputPath, elfPath)

	linkCmd := exec.Command("polkatool", args...)
	var stderr bytes.Buffer
	linkCmd.Stderr = &stderr

	pkg.Log(ctx).Debug().Msgf("Running %v", linkCmd.Args)
	err = linkCmd.Run()
	if err != nil {
		if stderr.Len() > 0 {
			return nil, eris.Wrapf(err, "Failed to link PolkaVM program: %s", strings.TrimSpace(stderr.String()))
		}
		return nil, eris.Wrap(err, "Failed to execute polkatool")
	}

	linked, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, eris.Wrapf(err, "polkatool did not produce %s", outputPath)
	}

	return linked, nil
}

// LinkToPolkaVM reads the ELF object, links it with stripping and
// optimization enabled and writes the bytecode to outputPath. The write
// is not atomic; rebuilding is cheap enough that a partial file from a
// crashed run is acceptable.
func LinkToPolkaVM(ctx context.Context, elfPath string, outputPath string) error {
	logger := pkg.Log(ctx)
	logger.Debug().Msg("Linking to PolkaVM bytecode")

	elfBytes, err := os.ReadFile(elfPath)
	if err != nil {
		return eris.Wrapf(err, "Failed to read ELF from %s", elfPath)
	}

	config := Config{Strip: true, Optimize: true}
	linked, err := LinkProgram(ctx, config, InstructionSetReviveV1, elfBytes)
	if err != nil {
		return err
	}

	err = os.WriteFile(outputPath, linked, 0644)
	if err != nil {
		return eris.Wrapf(err, "Failed to write PolkaVM bytecode to %s", outputPath)
	}

	logger.Debug().Msgf("Wrote %d bytes to %s", len(linked), outputPath)
	return nil
}
