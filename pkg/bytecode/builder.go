package bytecode

import (
	"encoding/binary"
)

// Builder assembles a container in the format Load reads. Symbol and
// string constants must not contain NUL bytes.
type Builder struct {
	symbols   []string
	symbolIDs map[string]uint16
	constants [][]byte
	pages     []*PageBuilder
}

// PageBuilder accumulates the instructions of one code page.
type PageBuilder struct {
	index uint16
	code  []byte
}

// NewBuilder creates an empty container builder
func NewBuilder() *Builder {
	return &Builder{symbolIDs: make(map[string]uint16)}
}

// AddSymbol interns name and returns its instruction operand id (>= 3).
func (b *Builder) AddSymbol(name string) uint16 {
	if id, ok := b.symbolIDs[name]; ok {
		return id
	}
	id := uint16(len(b.symbols) + ReservedSymbols)
	b.symbols = append(b.symbols, name)
	b.symbolIDs[name] = id
	return id
}

// AddNumber appends a decimal literal to the constant pool.
func (b *Builder) AddNumber(text string) uint16 {
	return b.addConstant(append(append([]byte{NumberType}, text...), 0))
}

// AddString appends a string to the constant pool.
func (b *Builder) AddString(s string) uint16 {
	return b.addConstant(append(append([]byte{StringType}, s...), 0))
}

// AddFunction appends a page address to the constant pool.
func (b *Builder) AddFunction(page uint16) uint16 {
	entry := []byte{FuncType, 0, 0, byte(NOP)}
	binary.BigEndian.PutUint16(entry[1:], page)
	return b.addConstant(entry)
}

// AddRawConstant appends an entry verbatim, tag byte included.
func (b *Builder) AddRawConstant(entry ...byte) uint16 {
	return b.addConstant(append([]byte(nil), entry...))
}

func (b *Builder) addConstant(entry []byte) uint16 {
	b.constants = append(b.constants, entry)
	return uint16(len(b.constants) - 1)
}

// NewPage starts a new code page. The first page is the entry page.
func (b *Builder) NewPage() *PageBuilder {
	p := &PageBuilder{index: uint16(len(b.pages))}
	b.pages = append(b.pages, p)
	return p
}

// Index is the page address to use in AddFunction.
func (p *PageBuilder) Index() uint16 {
	return p.index
}

// Len is the offset the next emitted instruction will have.
func (p *PageBuilder) Len() int {
	return len(p.code)
}

// Emit appends an instruction without operand.
func (p *PageBuilder) Emit(op Opcode) *PageBuilder {
	p.code = append(p.code, byte(op))
	return p
}

// Emit16 appends an instruction with a 16-bit operand.
func (p *PageBuilder) Emit16(op Opcode, operand uint16) *PageBuilder {
	p.code = append(p.code, byte(op), byte(operand>>8), byte(operand))
	return p
}

// EmitJump appends a jump with a signed operand.
func (p *PageBuilder) EmitJump(op Opcode, offset int16) *PageBuilder {
	return p.Emit16(op, uint16(offset))
}

// Raw appends bytes verbatim.
func (p *PageBuilder) Raw(bs ...byte) *PageBuilder {
	p.code = append(p.code, bs...)
	return p
}

// Bytes encodes the container.
func (b *Builder) Bytes() []byte {
	out := append([]byte(nil), Magic[:]...)

	out = append(out, SymTableStart)
	out = binary.BigEndian.AppendUint16(out, uint16(len(b.symbols)))
	for _, s := range b.symbols {
		out = append(out, s...)
		out = append(out, 0)
	}

	out = append(out, ValTableStart)
	out = binary.BigEndian.AppendUint16(out, uint16(len(b.constants)))
	for _, c := range b.constants {
		out = append(out, c...)
	}

	for _, p := range b.pages {
		out = append(out, CodeSegmentStart)
		out = binary.BigEndian.AppendUint16(out, uint16(len(p.code)))
		out = append(out, p.code...)
		out = append(out, byte(NOP))
	}

	return out
}
