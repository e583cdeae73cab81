package bytecode

import (
	"errors"
	"fmt"
)

// Section identifies the part of the container a LoadError came from.
type Section string

const (
	SectionMagic     Section = "magic"
	SectionSymbols   Section = "symbol table"
	SectionConstants Section = "constant pool"
	SectionCode      Section = "code segment"
)

var (
	ErrInvalidMagic         = errors.New("invalid format: couldn't find magic constant")
	ErrMissingSymbolTable   = errors.New("couldn't find symbols table")
	ErrMissingConstantTable = errors.New("couldn't find constants table")
	ErrInvalidNumber        = errors.New("invalid number literal")
	ErrTruncated            = errors.New("unexpected end of bytecode")
)

// LoadError is returned by Load for malformed containers.
type LoadError struct {
	Section Section
	Offset  int // byte offset in the container where parsing failed
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s at byte %d: %v", e.Section, e.Offset, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
