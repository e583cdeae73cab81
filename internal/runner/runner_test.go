package runner_test

import (
	"arkvm/internal/runner"
	"arkvm/pkg/bytecode"
	"arkvm/pkg/color"
	"arkvm/pkg/vm"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeProgram(t *testing.T, b *bytecode.Builder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.arkc")
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunPrints(t *testing.T) {
	color.EnableColor(false)

	b := bytecode.NewBuilder()
	printSym := b.AddSymbol("print")
	c := b.AddString("hello, world")
	b.NewPage().
		Emit16(bytecode.LOAD_CONST, c).
		Emit16(bytecode.LOAD_SYMBOL, printSym).
		Emit16(bytecode.CALL, 1).
		Emit(bytecode.HALT)

	var out bytes.Buffer
	r := runner.Runner{SourceFile: writeProgram(t, b), Out: &out, Verbose: true, Dump: true}
	if err := r.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"=== Disassembly ===", "LOAD_SYMBOL", "hello, world\n", "=== Final Stack ===", "0: nil"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunReportsRuntimeError(t *testing.T) {
	color.EnableColor(false)

	b := bytecode.NewBuilder()
	y := b.AddSymbol("y")
	c := b.AddNumber("1")
	b.NewPage().
		Emit16(bytecode.LOAD_CONST, c).
		Emit16(bytecode.STORE, y).
		Emit(bytecode.HALT)

	var out bytes.Buffer
	r := runner.Runner{SourceFile: writeProgram(t, b), Out: &out}
	err := r.Run()
	if !errors.Is(err, vm.ErrUndeclaredAssignment) {
		t.Fatalf("expected ErrUndeclaredAssignment, got %v", err)
	}
	if !strings.Contains(out.String(), "0:0003 STORE") || !strings.Contains(out.String(), "`y`") {
		t.Errorf("unexpected report:\n%s", out.String())
	}
}

func TestRunReportsLoadError(t *testing.T) {
	color.EnableColor(false)

	path := filepath.Join(t.TempDir(), "bad.arkc")
	if err := os.WriteFile(path, []byte("not bytecode"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	r := runner.Runner{SourceFile: path, Out: &out}
	err := r.Run()
	if !errors.Is(err, bytecode.ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
	if !strings.Contains(out.String(), "=== Load Error ===") {
		t.Errorf("unexpected report:\n%s", out.String())
	}
}

func TestRunMaxSteps(t *testing.T) {
	b := bytecode.NewBuilder()
	b.NewPage().EmitJump(bytecode.JUMP, 0)

	var out bytes.Buffer
	r := runner.Runner{SourceFile: writeProgram(t, b), Out: &out, MaxSteps: 50}
	if err := r.Run(); !errors.Is(err, vm.ErrMaxStepsExceeded) {
		t.Errorf("expected ErrMaxStepsExceeded, got %v", err)
	}
}
