package bytecode

import "fmt"

type Opcode byte

// List of instructions
const (
	NOP               Opcode = 0x00
	LOAD_SYMBOL       Opcode = 0x01
	LOAD_CONST        Opcode = 0x02
	POP_JUMP_IF_TRUE  Opcode = 0x03
	STORE             Opcode = 0x04
	LET               Opcode = 0x05
	POP_JUMP_IF_FALSE Opcode = 0x06
	JUMP              Opcode = 0x07
	RET               Opcode = 0x08
	HALT              Opcode = 0x09
	CALL              Opcode = 0x0a
	NEW_ENV           Opcode = 0x0b
	BUILTIN           Opcode = 0x0c
)

// Section markers and constant tags. They share byte values with the
// instructions; the loader only interprets them in their own position.
const (
	SymTableStart    byte = 0x01
	ValTableStart    byte = 0x02
	CodeSegmentStart byte = 0x03

	NumberType byte = 0x01
	StringType byte = 0x02
	FuncType   byte = 0x03
)

// Magic is the four byte container header.
var Magic = [4]byte{'a', 'r', 'k', byte(NOP)}

var opcodeNames = map[Opcode]string{
	NOP:               "NOP",
	LOAD_SYMBOL:       "LOAD_SYMBOL",
	LOAD_CONST:        "LOAD_CONST",
	POP_JUMP_IF_TRUE:  "POP_JUMP_IF_TRUE",
	STORE:             "STORE",
	LET:               "LET",
	POP_JUMP_IF_FALSE: "POP_JUMP_IF_FALSE",
	JUMP:              "JUMP",
	RET:               "RET",
	HALT:              "HALT",
	CALL:              "CALL",
	NEW_ENV:           "NEW_ENV",
	BUILTIN:           "BUILTIN",
}

// String returns the mnemonic, or a hex form for unknown bytes.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02x)", byte(op))
}

// Valid reports whether op is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}

// OperandWidth is the number of operand bytes following op.
func (op Opcode) OperandWidth() int {
	switch op {
	case LOAD_SYMBOL, LOAD_CONST, POP_JUMP_IF_TRUE, STORE, LET,
		POP_JUMP_IF_FALSE, JUMP, CALL, BUILTIN:
		return 2
	default:
		return 0
	}
}

// SignedOperand reports whether the operand is a signed jump offset.
func (op Opcode) SignedOperand() bool {
	return op == POP_JUMP_IF_TRUE || op == POP_JUMP_IF_FALSE || op == JUMP
}
