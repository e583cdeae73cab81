package vm

import (
	"arkvm/pkg/bytecode"
	"arkvm/pkg/natives"
	"arkvm/pkg/value"

	"github.com/charmbracelet/log"
)

// VM executes a loaded program. All mutable state belongs to the VM; the
// program is only read.
type VM struct {
	prog     *bytecode.Program
	registry *natives.Registry
	frames   *Frames

	ip      int // offset in the current page
	pp      int // current page
	running bool

	// instruction being executed, for error reports
	op     bytecode.Opcode
	opIP   int
	opPage int

	logger   *log.Logger
	trace    bool
	maxSteps int // 0 = unlimited
	steps    int
}

type Option func(*VM)

// WithRegistry sets the native procedure registry
func WithRegistry(r *natives.Registry) Option {
	return func(m *VM) { m.registry = r }
}

// WithLogger sets the diagnostics logger
func WithLogger(l *log.Logger) Option {
	return func(m *VM) { m.logger = l }
}

// WithMaxSteps sets a maximum number of steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(m *VM) { m.maxSteps = n }
}

// WithTrace logs every executed instruction at debug level
func WithTrace(on bool) Option {
	return func(m *VM) { m.trace = on }
}

// New creates a VM ready to run prog from page 0, offset 0
func New(prog *bytecode.Program, opts ...Option) *VM {
	m := &VM{prog: prog}
	for _, o := range opts {
		o(m)
	}

	if m.registry == nil {
		m.registry = natives.Default()
	}
	if m.logger == nil {
		m.logger = log.Default()
	}

	m.Reset()
	return m
}

// Reset drops all frames and rewinds to the entry page. Every native
// procedure is bound by name in the fresh global frame.
func (m *VM) Reset() {
	m.frames = NewFrames()
	m.ip = 0
	m.pp = 0
	m.steps = 0
	m.running = len(m.prog.Pages) > 0

	global := m.frames.Global()
	for _, name := range m.registry.Names() {
		global.Set(name, value.NewNative(name))
	}
}

// Run executes until halt or error
func (m *VM) Run() error {
	if len(m.prog.Pages) == 0 {
		m.logger.Warn("No code pages to run")
		return nil
	}

	for {
		halted, err := m.Step()
		if err != nil {
			return err
		}

		if halted {
			return nil
		}
	}
}

func (m *VM) Program() *bytecode.Program {
	return m.prog
}

func (m *VM) Frames() *Frames {
	return m.frames
}

// IP returns the instruction pointer within the current page
func (m *VM) IP() int {
	return m.ip
}

// Page returns the page pointer
func (m *VM) Page() int {
	return m.pp
}

func (m *VM) Running() bool {
	return m.running
}

// Steps returns the number of instructions executed since the last Reset
func (m *VM) Steps() int {
	return m.steps
}

// Stack returns the operand stack of the innermost frame, bottom first
func (m *VM) Stack() []value.Value {
	return m.frames.Top().Operands()
}

// Lookup resolves name through the current environment chain
func (m *VM) Lookup(name string) (value.Value, bool) {
	return m.frames.Lookup(name)
}

func (m *VM) push(v value.Value) {
	m.frames.Top().Push(v)
}

func (m *VM) pop() (value.Value, error) {
	v, ok := m.frames.Top().Pop()
	if !ok {
		return value.Value{}, ErrStackUnderflow
	}
	return v, nil
}
