package pvm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakePolkatool writes fixed bytes to whatever --output path it is
// handed, mimicking a successful link.
const fakePolkatool = `out=""
prev=""
for arg in "$@"; do
	if [ "$prev" = "--output" ]; then
		out="$arg"
	fi
	prev="$arg"
done
printf 'PVM\0blob' > "$out"
`

func TestLinkProgram(t *testing.T) {
	installFakeTool(t, "polkatool", fakePolkatool)

	config := Config{Strip: true, Optimize: true}
	linked, err := LinkProgram(testContext(), config, InstructionSetReviveV1, []byte("not a real elf"))
	if err != nil {
		t.Fatalf("LinkProgram failed: %v", err)
	}
	if string(linked) != "PVM\x00blob" {
		t.Errorf("LinkProgram = %q, want the polkatool output", linked)
	}
}

func TestLinkProgramFailure(t *testing.T) {
	installFakeTool(t, "polkatool", `echo "unsupported relocation in section .text" >&2
exit 1
`)

	_, err := LinkProgram(testContext(), Config{}, InstructionSetReviveV1, []byte("elf"))
	if err == nil {
		t.Fatal("LinkProgram succeeded despite a failing polkatool invocation")
	}
	if !strings.Contains(err.Error(), "unsupported relocation") {
		t.Errorf("error %q does not surface the linker detail", err.Error())
	}
}

func TestLinkToPolkaVM(t *testing.T) {
	installFakeTool(t, "polkatool", fakePolkatool)

	dir := t.TempDir()
	elfPath := filepath.Join(dir, "demo")
	if err := os.WriteFile(elfPath, []byte("not a real elf"), 0644); err != nil {
		t.Fatal(err)
	}

	outputPath := filepath.Join(dir, "demo.polkavm")
	err := LinkToPolkaVM(testContext(), elfPath, outputPath)
	if err != nil {
		t.Fatalf("LinkToPolkaVM failed: %v", err)
	}

	written, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("bytecode was not written: %v", err)
	}
	if string(written) != "PVM\x00blob" {
		t.Errorf("bytecode = %q, want the polkatool output", written)
	}
}

func TestLinkToPolkaVMMissingELF(t *testing.T) {
	installFakeTool(t, "polkatool", fakePolkatool)

	dir := t.TempDir()
	err := LinkToPolkaVM(testContext(), filepath.Join(dir, "missing"), filepath.Join(dir, "out.polkavm"))
	if err == nil {
		t.Fatal("LinkToPolkaVM succeeded with a missing ELF file")
	}
}
