package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the program.
func Disassemble(p *Program) string {
	var sb strings.Builder

	if len(p.Symbols) > 0 {
		sb.WriteString("; Symbols:\n")
		for i, s := range p.Symbols {
			sb.WriteString(fmt.Sprintf(";   [%3d] %s\n", i+ReservedSymbols, s))
		}
		sb.WriteString("\n")
	}

	if len(p.Constants) > 0 {
		sb.WriteString("; Constants:\n")
		for i, c := range p.Constants {
			sb.WriteString(fmt.Sprintf(";   [%3d] %-8s %s\n", i, c.Kind, c.GoString()))
		}
		sb.WriteString("\n")
	}

	for i, page := range p.Pages {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("; === page 0 (entry, file offset %d) ===\n", p.EntryOffset))
		} else {
			sb.WriteString(fmt.Sprintf("; === page %d ===\n", i))
		}
		DisassemblePage(&sb, p, page)
		sb.WriteString("\n")
	}

	return sb.String()
}

// DisassemblePage writes one line per instruction in page.
func DisassemblePage(sb *strings.Builder, p *Program, page []byte) {
	for ip := 0; ip < len(page); {
		ip = DisassembleInstruction(sb, p, page, ip)
	}
}

// DisassembleInstruction writes the instruction at ip and returns the offset
// of the next one.
func DisassembleInstruction(sb *strings.Builder, p *Program, page []byte, ip int) int {
	op := Opcode(page[ip])
	sb.WriteString(fmt.Sprintf("%04d  %-18s", ip, op))

	width := op.OperandWidth()
	if width == 0 {
		sb.WriteString("\n")
		return ip + 1
	}
	if ip+1+width > len(page) {
		sb.WriteString("<truncated>\n")
		return len(page)
	}

	operand := binary.BigEndian.Uint16(page[ip+1:])
	switch op {
	case LOAD_SYMBOL, STORE, LET:
		sb.WriteString(fmt.Sprintf("%5d  ; %s", operand, symbolName(p, operand)))
	case LOAD_CONST:
		if c, ok := p.Constant(operand); ok {
			sb.WriteString(fmt.Sprintf("%5d  ; %s", operand, c.GoString()))
		} else {
			sb.WriteString(fmt.Sprintf("%5d  ; <out of range>", operand))
		}
	case POP_JUMP_IF_TRUE, POP_JUMP_IF_FALSE:
		offset := int16(operand)
		// relative to the last operand byte
		sb.WriteString(fmt.Sprintf("%5d  ; -> %04d", offset, ip+width+int(offset)))
	case JUMP:
		sb.WriteString(fmt.Sprintf("%5d  ; -> %04d", int16(operand), int16(operand)))
	default:
		sb.WriteString(fmt.Sprintf("%5d", operand))
	}
	sb.WriteString("\n")

	return ip + 1 + width
}

func symbolName(p *Program, id uint16) string {
	switch id {
	case 0:
		return "nil"
	case 1:
		return "false"
	case 2:
		return "true"
	}
	if name, ok := p.Symbol(id); ok {
		return name
	}
	return "<unknown>"
}
