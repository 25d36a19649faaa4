package pvm

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/ngld/pvm-contract/pkg"
)

// BuildELF cross-compiles the named binary of the given Cargo project
// in release mode and returns the path of the produced ELF object.
//
// The standard library is rebuilt restricted to core and alloc with
// panics aborting immediately since the target has no unwinding
// support. RUSTC_BOOTSTRAP is set because the -Z flags are only
// accepted by nightly toolchains.
func BuildELF(ctx context.Context, manifestPath string, binName string) (string, error) {
	logger := pkg.Log(ctx)
	logger.Debug().Msgf("Building RISC-V ELF binary %s", binName)

	targetJSONPath, err := TargetJSONPath(TargetJSONArgs{Is64Bit: true})
	if err != nil {
		return "", err
	}

	workDir := filepath.Dir(manifestPath)

	buildCmd := exec.Command("cargo",
		"build", "--release",
		"--manifest-path", manifestPath,
		"-Zbuild-std=core,alloc",
		"-Zbuild-std-features=panic_immediate_abort",
		"--bin", binName,
		"--target", targetJSONPath,
	)
	buildCmd.Dir = workDir
	buildCmd.Env = append(os.Environ(), "RUSTC_BOOTSTRAP=1")
	buildCmd.Stdout = os.Stdout
	buildCmd.Stderr = os.Stderr

	logger.Debug().Msgf("Running %v", buildCmd.Args)
	err = buildCmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if eris.As(err, &exitErr) {
			return "", eris.Errorf("Failed to build binary %s", binName)
		}
		return "", eris.Wrap(err, "Failed to execute cargo build")
	}

	// cargo can exit successfully without producing the binary if the
	// path conventions drift, so double-check before linking.
	elfPath := filepath.Join(workDir, "target", TargetTriple, "release", binName)
	_, err = os.Stat(elfPath)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return "", eris.Errorf("ELF binary was not generated at %s", elfPath)
		}
		return "", eris.Wrapf(err, "Failed to check %s", elfPath)
	}

	return elfPath, nil
}
