package vm

import (
	"errors"
	"fmt"

	"arkvm/pkg/bytecode"
)

var (
	ErrPagePointer          = errors.New("page pointer has gone too far")
	ErrInstructionPointer   = errors.New("instruction pointer has gone too far")
	ErrTruncatedOperand     = errors.New("operand runs past the end of the page")
	ErrUnknownInstruction   = errors.New("unknown instruction")
	ErrUnknownSymbolID      = errors.New("symbol id not in symbol table")
	ErrReservedSymbol       = errors.New("cannot bind a reserved symbol")
	ErrUnboundSymbol        = errors.New("couldn't find symbol to load")
	ErrUndeclaredAssignment = errors.New("couldn't find symbol to store into")
	ErrConstantOutOfRange   = errors.New("constant id out of range")
	ErrStackUnderflow       = errors.New("operand stack underflow")
	ErrNotCallable          = errors.New("couldn't identify function object")
	ErrUnknownBuiltin       = errors.New("unknown builtin")
	ErrNativeFailed         = errors.New("native procedure failed")
	ErrNoCaller             = errors.New("no calling frame to return to")
	ErrMaxStepsExceeded     = errors.New("maximum steps exceeded")
)

// RuntimeError is returned by Step and Run once execution stops on a
// fatal condition.
type RuntimeError struct {
	Op     bytecode.Opcode
	Page   int
	IP     int
	Symbol string // offending symbol or native name, if any
	Err    error
}

func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("page %d, ip %d, %s: %v", e.Page, e.IP, e.Op, e.Err)
	if e.Symbol != "" {
		msg += ": " + e.Symbol
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func symbolError(name string, err error) error {
	return &RuntimeError{Symbol: name, Err: err}
}
