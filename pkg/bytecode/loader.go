package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"arkvm/pkg/value"

	"github.com/charmbracelet/log"
)

// Program is a loaded container. It is read-only after Load and may be
// shared between several VMs.
type Program struct {
	Symbols   []string
	Constants []value.Value
	Pages     [][]byte

	// EntryOffset is the container offset of the first instruction byte of
	// page 0. Execution always starts at page 0, offset 0; this is only
	// used to map page 0 offsets back onto the source file.
	EntryOffset int
}

// ReservedSymbols is the number of symbol ids mapped straight to
// Nil, False and True.
const ReservedSymbols = 3

// Symbol returns the name behind a non-reserved symbol id.
func (p *Program) Symbol(id uint16) (string, bool) {
	if id < ReservedSymbols {
		return "", false
	}
	idx := int(id) - ReservedSymbols
	if idx >= len(p.Symbols) {
		return "", false
	}
	return p.Symbols[idx], true
}

// Constant returns the constant at id.
func (p *Program) Constant(id uint16) (value.Value, bool) {
	if int(id) >= len(p.Constants) {
		return value.Value{}, false
	}
	return p.Constants[id], true
}

// LoadFile reads and loads a container from disk.
func LoadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return Load(data)
}

// Load parses a container into its symbol table, constant pool and code
// pages.
func Load(data []byte) (*Program, error) {
	l := &loader{data: data, section: SectionMagic}

	if len(data) <= len(Magic) || !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return nil, l.fail(ErrInvalidMagic)
	}
	l.offset = len(Magic)
	log.Debug("Magic constant found", "magic", `ark\0`)

	prog := &Program{}

	if err := l.readSymbols(prog); err != nil {
		return nil, err
	}

	complete, err := l.readConstants(prog)
	if err != nil {
		return nil, err
	}
	if !complete {
		// An unknown constant tag ends loading early and silently; whatever
		// was parsed so far is the program.
		return prog, nil
	}

	prog.EntryOffset = l.offset + 3

	if err := l.readSegments(prog); err != nil {
		return nil, err
	}

	return prog, nil
}

type loader struct {
	data    []byte
	offset  int
	section Section
}

func (l *loader) fail(err error) error {
	return &LoadError{Section: l.section, Offset: l.offset, Err: err}
}

// peek returns the byte at the cursor without consuming it.
func (l *loader) peek() (byte, bool) {
	if l.offset >= len(l.data) {
		return 0, false
	}
	return l.data[l.offset], true
}

func (l *loader) readByte() (byte, error) {
	b, ok := l.peek()
	if !ok {
		return 0, l.fail(ErrTruncated)
	}
	l.offset++
	return b, nil
}

func (l *loader) readUint16() (uint16, error) {
	if l.offset+2 > len(l.data) {
		return 0, l.fail(ErrTruncated)
	}
	n := binary.BigEndian.Uint16(l.data[l.offset:])
	l.offset += 2
	return n, nil
}

// readCString reads up to and consumes the next NUL byte.
func (l *loader) readCString() (string, error) {
	end := bytes.IndexByte(l.data[l.offset:], 0)
	if end < 0 {
		return "", l.fail(ErrTruncated)
	}
	s := string(l.data[l.offset : l.offset+end])
	l.offset += end + 1
	return s, nil
}

func (l *loader) readSymbols(prog *Program) error {
	l.section = SectionSymbols
	if b, ok := l.peek(); !ok || b != SymTableStart {
		return l.fail(ErrMissingSymbolTable)
	}
	l.offset++

	count, err := l.readUint16()
	if err != nil {
		return err
	}
	log.Debug("Symbols table", "length", count)

	prog.Symbols = make([]string, 0, count)
	for j := uint16(0); j < count; j++ {
		sym, err := l.readCString()
		if err != nil {
			return err
		}
		prog.Symbols = append(prog.Symbols, sym)
		log.Debug("Symbol", "id", int(j)+ReservedSymbols, "name", sym)
	}

	return nil
}

// readConstants reports false when it stopped on an unknown constant tag.
func (l *loader) readConstants(prog *Program) (bool, error) {
	l.section = SectionConstants
	if b, ok := l.peek(); !ok || b != ValTableStart {
		return false, l.fail(ErrMissingConstantTable)
	}
	l.offset++

	count, err := l.readUint16()
	if err != nil {
		return false, err
	}
	log.Debug("Constants table", "length", count)

	prog.Constants = make([]value.Value, 0, count)
	for j := uint16(0); j < count; j++ {
		tag, err := l.readByte()
		if err != nil {
			return false, err
		}

		switch tag {
		case NumberType:
			start := l.offset
			text, err := l.readCString()
			if err != nil {
				return false, err
			}
			num, err := value.NewNumber(text)
			if err != nil {
				return false, &LoadError{Section: l.section, Offset: start, Err: fmt.Errorf("%w: %v", ErrInvalidNumber, err)}
			}
			prog.Constants = append(prog.Constants, num)
			log.Debug("Constant", "id", j, "type", "Number", "value", text)

		case StringType:
			text, err := l.readCString()
			if err != nil {
				return false, err
			}
			prog.Constants = append(prog.Constants, value.NewString(text))
			log.Debug("Constant", "id", j, "type", "String", "value", text)

		case FuncType:
			addr, err := l.readUint16()
			if err != nil {
				return false, err
			}
			// padding NOP
			if _, err := l.readByte(); err != nil {
				return false, err
			}
			prog.Constants = append(prog.Constants, value.NewFunction(addr))
			log.Debug("Constant", "id", j, "type", "PageAddr", "value", addr)

		default:
			log.Debug("Unknown value type, stopping", "id", j, "type", tag, "offset", l.offset-1)
			return false, nil
		}
	}

	return true, nil
}

func (l *loader) readSegments(prog *Program) error {
	l.section = SectionCode
	for {
		if b, ok := l.peek(); !ok || b != CodeSegmentStart {
			return nil
		}
		l.offset++

		size, err := l.readUint16()
		if err != nil {
			return err
		}
		if l.offset+int(size) > len(l.data) {
			return l.fail(ErrTruncated)
		}

		page := make([]byte, size)
		copy(page, l.data[l.offset:])
		l.offset += int(size)
		prog.Pages = append(prog.Pages, page)
		log.Debug("Code segment", "page", len(prog.Pages)-1, "length", size)

		// trailing pad byte, absent at the very end of some containers
		if l.offset < len(l.data) {
			l.offset++
		}
	}
}
