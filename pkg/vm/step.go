package vm

import (
	"encoding/binary"
	"fmt"

	"arkvm/pkg/bytecode"
	"arkvm/pkg/value"
)

// Step executes a single instruction, returning (halted, error). After an
// error the VM is stopped and every further Step reports halted.
func (m *VM) Step() (bool, error) {
	if !m.running {
		return true, nil
	}

	m.op, m.opIP, m.opPage = bytecode.NOP, m.ip, m.pp
	if m.maxSteps > 0 && m.steps >= m.maxSteps {
		return m.fail(ErrMaxStepsExceeded)
	}

	if m.pp < 0 || m.pp >= len(m.prog.Pages) {
		return m.fail(ErrPagePointer)
	}
	page := m.prog.Pages[m.pp]
	if m.ip < 0 || m.ip >= len(page) {
		return m.fail(ErrInstructionPointer)
	}

	m.op = bytecode.Opcode(page[m.ip])
	if m.trace {
		m.logger.Debug("exec", "page", m.pp, "ip", m.ip, "op", m.op, "frames", m.frames.Depth(), "stack", m.frames.Top().Depth())
	}

	if err := m.exec(m.op); err != nil {
		return m.fail(err)
	}
	m.steps++

	// HALT leaves the pointer on itself
	if m.op != bytecode.HALT {
		m.ip++
	}

	return !m.running, nil
}

func (m *VM) fail(err error) (bool, error) {
	m.running = false

	re, ok := err.(*RuntimeError)
	if !ok {
		re = &RuntimeError{Err: err}
	}
	re.Op, re.Page, re.IP = m.op, m.opPage, m.opIP

	m.logger.Error("Virtual machine stopped", "error", re)
	return true, re
}

// readOperand reads the 16-bit operand following the current opcode and
// leaves ip on its last byte; the increment in Step moves past it.
func (m *VM) readOperand() (uint16, error) {
	page := m.prog.Pages[m.pp]
	if m.ip+2 >= len(page) {
		return 0, ErrTruncatedOperand
	}
	n := binary.BigEndian.Uint16(page[m.ip+1:])
	m.ip += 2
	return n, nil
}

// exec is the instruction switch. Every opcode of bytecode.Opcode has a case.
func (m *VM) exec(op bytecode.Opcode) error {
	switch op {
	case bytecode.NOP:
		return nil

	case bytecode.LOAD_SYMBOL:
		return m.loadSymbol()

	case bytecode.LOAD_CONST:
		id, err := m.readOperand()
		if err != nil {
			return err
		}
		c, ok := m.prog.Constant(id)
		if !ok {
			return fmt.Errorf("%w: %d", ErrConstantOutOfRange, id)
		}
		m.push(c)
		return nil

	case bytecode.STORE:
		return m.store()

	case bytecode.LET:
		return m.let()

	case bytecode.POP_JUMP_IF_TRUE:
		return m.popJumpIf(value.Value.IsTrue)

	case bytecode.POP_JUMP_IF_FALSE:
		return m.popJumpIf(value.Value.IsFalse)

	case bytecode.JUMP:
		addr, err := m.readOperand()
		if err != nil {
			return err
		}
		// absolute, unlike the conditional jumps; -1 for the increment in Step
		m.ip = int(int16(addr)) - 1
		return nil

	case bytecode.RET:
		return m.ret()

	case bytecode.HALT:
		m.running = false
		return nil

	case bytecode.CALL:
		return m.call()

	case bytecode.NEW_ENV:
		m.frames.Push(NewFrame())
		return nil

	case bytecode.BUILTIN:
		id, err := m.readOperand()
		if err != nil {
			return err
		}
		name, ok := m.registry.Name(int(id))
		if !ok {
			return fmt.Errorf("%w: id %d", ErrUnknownBuiltin, id)
		}
		m.push(value.NewNative(name))
		return nil

	default:
		return fmt.Errorf("%w: 0x%02x", ErrUnknownInstruction, byte(op))
	}
}

func (m *VM) loadSymbol() error {
	id, err := m.readOperand()
	if err != nil {
		return err
	}

	switch id {
	case 0:
		m.push(value.Nil)
		return nil
	case 1:
		m.push(value.False)
		return nil
	case 2:
		m.push(value.True)
		return nil
	}

	name, ok := m.prog.Symbol(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSymbolID, id)
	}
	v, ok := m.frames.Lookup(name)
	if !ok {
		return symbolError(name, ErrUnboundSymbol)
	}
	m.push(v)
	return nil
}

// bindable resolves the symbol operand of LET and STORE.
func (m *VM) bindable() (string, error) {
	id, err := m.readOperand()
	if err != nil {
		return "", err
	}
	if id < bytecode.ReservedSymbols {
		return "", fmt.Errorf("%w: %d", ErrReservedSymbol, id)
	}
	name, ok := m.prog.Symbol(id)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownSymbolID, id)
	}
	return name, nil
}

func (m *VM) store() error {
	name, err := m.bindable()
	if err != nil {
		return err
	}
	v, err := m.pop()
	if err != nil {
		return err
	}
	if !m.frames.Store(name, v) {
		return symbolError(name, ErrUndeclaredAssignment)
	}
	return nil
}

func (m *VM) let() error {
	name, err := m.bindable()
	if err != nil {
		return err
	}
	v, err := m.pop()
	if err != nil {
		return err
	}
	m.frames.Let(name, v)
	return nil
}

// popJumpIf jumps relative to the last operand byte when cond holds.
func (m *VM) popJumpIf(cond func(value.Value) bool) error {
	addr, err := m.readOperand()
	if err != nil {
		return err
	}
	v, err := m.pop()
	if err != nil {
		return err
	}
	if cond(v) {
		m.ip += int(int16(addr)) - 1
	}
	return nil
}

func (m *VM) ret() error {
	// returning from the entry page ends the run
	if m.pp == 0 {
		m.running = false
		return nil
	}

	ret, err := m.pop()
	if err != nil {
		return err
	}

	// NEW_ENV frames opened inside the function go with it
	for {
		f, ok := m.frames.Pop()
		if !ok {
			return ErrNoCaller
		}
		if resume, ok := f.Caller(); ok {
			m.ip, m.pp = resume.IP, resume.Page
			break
		}
	}

	m.push(ret)
	return nil
}

func (m *VM) call() error {
	argc, err := m.readOperand()
	if err != nil {
		return err
	}

	callee, err := m.pop()
	if err != nil {
		return err
	}
	if int(argc) > m.frames.Top().Depth() {
		return fmt.Errorf("%w: call needs %d arguments, stack holds %d", ErrStackUnderflow, argc, m.frames.Top().Depth())
	}

	// args[0] is the last argument pushed by the caller
	args := make([]value.Value, argc)
	for j := range args {
		args[j], _ = m.pop()
	}

	switch callee.Kind {
	case value.KindNative:
		proc, ok := m.registry.Lookup(callee.Str)
		if !ok {
			return symbolError(callee.Str, ErrUnknownBuiltin)
		}
		supplied := make([]value.Value, len(args))
		for j, a := range args {
			supplied[len(args)-1-j] = a
		}
		result, err := proc(supplied)
		if err != nil {
			return symbolError(callee.Str, fmt.Errorf("%w: %w", ErrNativeFailed, err))
		}
		m.push(result)
		return nil

	case value.KindFunction:
		m.frames.Push(newCallFrame(m.ip, m.pp))
		m.pp = int(callee.Page)
		m.ip = 0
		// the callee finds its first argument on top
		for _, a := range args {
			m.push(a)
		}
		return nil

	default:
		return fmt.Errorf("%w: %s %s", ErrNotCallable, callee.Kind, callee.GoString())
	}
}
