package vm

import (
	"arkvm/pkg/stack"
	"arkvm/pkg/value"
)

// Resume is the caller position a call frame returns to.
type Resume struct {
	IP   int
	Page int
}

// Frame represents one scope: a function call or a NEW_ENV block.
type Frame struct {
	operands *stack.Stack[value.Value]
	locals   map[string]value.Value
	caller   *Resume // nil for the global frame and NEW_ENV frames
}

// NewFrame creates a frame without a resume address
func NewFrame() *Frame {
	return &Frame{
		operands: stack.New[value.Value](),
		locals:   make(map[string]value.Value),
	}
}

func newCallFrame(ip, page int) *Frame {
	f := NewFrame()
	f.caller = &Resume{IP: ip, Page: page}
	return f
}

// Caller returns the saved resume address, if this is a call frame.
func (f *Frame) Caller() (Resume, bool) {
	if f.caller == nil {
		return Resume{}, false
	}
	return *f.caller, true
}

func (f *Frame) Push(v value.Value) {
	f.operands.Push(v)
}

func (f *Frame) Pop() (value.Value, bool) {
	return f.operands.Pop()
}

// Depth is the operand stack size.
func (f *Frame) Depth() int {
	return f.operands.Size()
}

// Operands returns the operand stack, bottom first.
func (f *Frame) Operands() []value.Value {
	return f.operands.Array()
}

func (f *Frame) Get(name string) (value.Value, bool) {
	v, ok := f.locals[name]
	return v, ok
}

func (f *Frame) Set(name string, v value.Value) {
	f.locals[name] = v
}

// Frames is the environment chain, global frame at the bottom. It is never
// empty.
type Frames struct {
	frames []*Frame
}

// NewFrames creates a chain holding only the global frame
func NewFrames() *Frames {
	return &Frames{frames: []*Frame{NewFrame()}}
}

func (fs *Frames) Top() *Frame {
	return fs.frames[len(fs.frames)-1]
}

func (fs *Frames) Global() *Frame {
	return fs.frames[0]
}

func (fs *Frames) Depth() int {
	return len(fs.frames)
}

func (fs *Frames) Push(f *Frame) {
	fs.frames = append(fs.frames, f)
}

// Pop removes the top frame. The global frame is never popped.
func (fs *Frames) Pop() (*Frame, bool) {
	if len(fs.frames) <= 1 {
		return nil, false
	}
	f := fs.frames[len(fs.frames)-1]
	fs.frames[len(fs.frames)-1] = nil
	fs.frames = fs.frames[:len(fs.frames)-1]
	return f, true
}

// Lookup searches from the innermost frame outwards.
func (fs *Frames) Lookup(name string) (value.Value, bool) {
	for i := len(fs.frames) - 1; i >= 0; i-- {
		if v, ok := fs.frames[i].Get(name); ok {
			return v, true
		}
	}
	return value.Value{}, false
}

// Let binds name in the innermost frame only.
func (fs *Frames) Let(name string, v value.Value) {
	fs.Top().Set(name, v)
}

// Store rebinds the nearest existing binding of name. It reports false,
// and creates nothing, when no frame binds name.
func (fs *Frames) Store(name string, v value.Value) bool {
	for i := len(fs.frames) - 1; i >= 0; i-- {
		if _, ok := fs.frames[i].Get(name); ok {
			fs.frames[i].Set(name, v)
			return true
		}
	}
	return false
}
