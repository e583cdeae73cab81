package bytecode_test

import (
	"arkvm/pkg/bytecode"
	"arkvm/pkg/value"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRoundTrip(t *testing.T) {
	b := bytecode.NewBuilder()
	x := b.AddSymbol("x")
	b.AddSymbol("y")
	c42 := b.AddNumber("42")
	b.AddString("hello")
	b.AddFunction(1)

	b.NewPage().
		Emit16(bytecode.LOAD_CONST, c42).
		Emit16(bytecode.LET, x).
		Emit(bytecode.HALT)
	b.NewPage().Emit(bytecode.RET)

	prog, err := bytecode.Load(b.Bytes())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(prog.Symbols) != 2 || prog.Symbols[0] != "x" || prog.Symbols[1] != "y" {
		t.Errorf("unexpected symbols %v", prog.Symbols)
	}
	if name, ok := prog.Symbol(x); !ok || name != "x" {
		t.Errorf("symbol id %d resolved to %q, %v", x, name, ok)
	}

	if len(prog.Constants) != 3 {
		t.Fatalf("expected 3 constants, got %d", len(prog.Constants))
	}
	if !prog.Constants[0].Equal(value.FromInt(42)) {
		t.Errorf("constant 0 = %s, want 42", prog.Constants[0])
	}
	if !prog.Constants[1].Equal(value.NewString("hello")) {
		t.Errorf("constant 1 = %s, want hello", prog.Constants[1])
	}
	if !prog.Constants[2].Equal(value.NewFunction(1)) {
		t.Errorf("constant 2 = %s, want page 1", prog.Constants[2])
	}

	if len(prog.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(prog.Pages))
	}
	if len(prog.Pages[0]) != 7 || bytecode.Opcode(prog.Pages[0][6]) != bytecode.HALT {
		t.Errorf("unexpected page 0 %v", prog.Pages[0])
	}
	if len(prog.Pages[1]) != 1 || bytecode.Opcode(prog.Pages[1][0]) != bytecode.RET {
		t.Errorf("unexpected page 1 %v", prog.Pages[1])
	}
}

func TestLoadEntryOffset(t *testing.T) {
	b := bytecode.NewBuilder()
	b.AddSymbol("a")
	b.AddNumber("1")
	b.NewPage().Emit(bytecode.HALT)

	data := b.Bytes()
	prog, err := bytecode.Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if prog.EntryOffset >= len(data) {
		t.Fatalf("entry offset %d out of range", prog.EntryOffset)
	}
	if bytecode.Opcode(data[prog.EntryOffset]) != bytecode.HALT {
		t.Errorf("entry offset %d does not point at page 0's first instruction", prog.EntryOffset)
	}
}

func TestLoadErrors(t *testing.T) {
	valid := func() []byte {
		b := bytecode.NewBuilder()
		b.AddSymbol("x")
		b.AddNumber("1")
		b.NewPage().Emit(bytecode.HALT)
		return b.Bytes()
	}()

	tests := []struct {
		name    string
		data    []byte
		section bytecode.Section
		err     error
	}{
		{"empty", nil, bytecode.SectionMagic, bytecode.ErrInvalidMagic},
		{"magic only", []byte{'a', 'r', 'k', 0}, bytecode.SectionMagic, bytecode.ErrInvalidMagic},
		{"wrong magic", []byte{'a', 'r', 'c', 0, 1, 0, 0}, bytecode.SectionMagic, bytecode.ErrInvalidMagic},
		{"no symbol marker", []byte{'a', 'r', 'k', 0, 9}, bytecode.SectionSymbols, bytecode.ErrMissingSymbolTable},
		{"no constant marker", []byte{'a', 'r', 'k', 0, 1, 0, 0, 9}, bytecode.SectionConstants, bytecode.ErrMissingConstantTable},
		{"constants missing at eof", []byte{'a', 'r', 'k', 0, 1, 0, 0}, bytecode.SectionConstants, bytecode.ErrMissingConstantTable},
		{"unterminated symbol", []byte{'a', 'r', 'k', 0, 1, 0, 1, 'x'}, bytecode.SectionSymbols, bytecode.ErrTruncated},
		{"short symbol count", []byte{'a', 'r', 'k', 0, 1, 0}, bytecode.SectionSymbols, bytecode.ErrTruncated},
		{"bad number", []byte{'a', 'r', 'k', 0, 1, 0, 0, 2, 0, 1, 1, 'z', 0}, bytecode.SectionConstants, bytecode.ErrInvalidNumber},
		{"short page address", []byte{'a', 'r', 'k', 0, 1, 0, 0, 2, 0, 1, 3, 0}, bytecode.SectionConstants, bytecode.ErrTruncated},
		{"truncated segment", valid[:len(valid)-2], bytecode.SectionCode, bytecode.ErrTruncated},
	}

	for _, tt := range tests {
		_, err := bytecode.Load(tt.data)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !errors.Is(err, tt.err) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.err, err)
		}
		var le *bytecode.LoadError
		if !errors.As(err, &le) {
			t.Errorf("%s: expected *LoadError, got %T", tt.name, err)
			continue
		}
		if le.Section != tt.section {
			t.Errorf("%s: section = %q, want %q", tt.name, le.Section, tt.section)
		}
	}
}

func TestLoadUnknownConstantTypeStopsSilently(t *testing.T) {
	b := bytecode.NewBuilder()
	b.AddNumber("7")
	b.AddRawConstant(0x7f)
	b.AddString("never read")
	b.NewPage().Emit(bytecode.HALT)

	prog, err := bytecode.Load(b.Bytes())
	if err != nil {
		t.Fatalf("unknown constant type must not be an error, got %v", err)
	}
	if len(prog.Constants) != 1 || !prog.Constants[0].Equal(value.FromInt(7)) {
		t.Errorf("expected only the constants before the unknown tag, got %v", prog.Constants)
	}
	if len(prog.Pages) != 0 {
		t.Errorf("expected no pages after early stop, got %d", len(prog.Pages))
	}
}

func TestLoadNoSegments(t *testing.T) {
	b := bytecode.NewBuilder()
	b.AddSymbol("x")

	prog, err := bytecode.Load(b.Bytes())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(prog.Pages) != 0 {
		t.Errorf("expected no pages, got %d", len(prog.Pages))
	}
}

func TestLoadFile(t *testing.T) {
	b := bytecode.NewBuilder()
	b.NewPage().Emit(bytecode.HALT)

	path := filepath.Join(t.TempDir(), "prog.arkc")
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	prog, err := bytecode.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(prog.Pages) != 1 {
		t.Errorf("expected 1 page, got %d", len(prog.Pages))
	}

	if _, err := bytecode.LoadFile(filepath.Join(t.TempDir(), "missing.arkc")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestDisassemble(t *testing.T) {
	b := bytecode.NewBuilder()
	x := b.AddSymbol("x")
	c := b.AddString("hi")
	b.NewPage().
		Emit16(bytecode.LOAD_CONST, c).
		Emit16(bytecode.LET, x).
		EmitJump(bytecode.POP_JUMP_IF_TRUE, 4).
		EmitJump(bytecode.JUMP, 0).
		Emit(bytecode.HALT)

	prog, err := bytecode.Load(b.Bytes())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	out := bytecode.Disassemble(prog)
	for _, want := range []string{
		"[  3] x",
		`"hi"`,
		"LOAD_CONST",
		"LET",
		"; x",
		"POP_JUMP_IF_TRUE",
		"-> 0012",
		"JUMP",
		"-> 0000",
		"0012  HALT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q:\n%s", want, out)
		}
	}
}

func TestOpcodeString(t *testing.T) {
	if bytecode.CALL.String() != "CALL" {
		t.Errorf("unexpected mnemonic %s", bytecode.CALL)
	}
	if bytecode.Opcode(0xee).Valid() {
		t.Errorf("0xee must not be a valid opcode")
	}
	if s := bytecode.Opcode(0xee).String(); s != "UNKNOWN(0xee)" {
		t.Errorf("unexpected unknown rendering %s", s)
	}
}
