package value

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

type Kind uint8

const (
	KindNil Kind = iota
	KindFalse
	KindTrue
	KindNumber
	KindString
	KindFunction
	KindNative
)

var kindNames = [...]string{
	KindNil:      "nil",
	KindFalse:    "false",
	KindTrue:     "true",
	KindNumber:   "number",
	KindString:   "string",
	KindFunction: "function",
	KindNative:   "native",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a VM-visible value. Values are copied between stack slots;
// the decimal behind a Number is never mutated once built.
type Value struct {
	Kind Kind
	Num  *apd.Decimal // KindNumber
	Str  string       // KindString text, KindNative procedure name
	Page uint16       // KindFunction page address
}

// Reserved sentinels. They map to symbol ids 0, 1 and 2.
var (
	Nil   = Value{Kind: KindNil}
	False = Value{Kind: KindFalse}
	True  = Value{Kind: KindTrue}
)

// NewNumber parses a decimal literal.
func NewNumber(text string) (Value, error) {
	d, _, err := apd.NewFromString(text)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number literal %q: %w", text, err)
	}
	return Value{Kind: KindNumber, Num: d}, nil
}

// FromDecimal wraps d as a Number. The caller gives up ownership of d.
func FromDecimal(d *apd.Decimal) Value {
	return Value{Kind: KindNumber, Num: d}
}

// FromInt builds a Number from an integer.
func FromInt(i int64) Value {
	return Value{Kind: KindNumber, Num: apd.New(i, 0)}
}

func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

func NewFunction(page uint16) Value {
	return Value{Kind: KindFunction, Page: page}
}

func NewNative(name string) Value {
	return Value{Kind: KindNative, Str: name}
}

// Bool maps a Go bool onto the True/False sentinels.
func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

// IsTrue reports whether v is the True sentinel.
func (v Value) IsTrue() bool { return v.Kind == KindTrue }

// IsFalse reports whether v is the False sentinel.
func (v Value) IsFalse() bool { return v.Kind == KindFalse }

// Truthy is false only for Nil and False.
func (v Value) Truthy() bool {
	return v.Kind != KindNil && v.Kind != KindFalse
}

// Equal compares kind and payload. Numbers compare by decimal value.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num.Cmp(o.Num) == 0
	case KindString, KindNative:
		return v.Str == o.Str
	case KindFunction:
		return v.Page == o.Page
	default:
		return true
	}
}

// String renders the value for printing.
func (v Value) String() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindFalse:
		return "false"
	case KindTrue:
		return "true"
	case KindNumber:
		if v.Num == nil {
			return "0"
		}
		return v.Num.Text('f')
	case KindString:
		return v.Str
	case KindFunction:
		return "<function @" + strconv.Itoa(int(v.Page)) + ">"
	case KindNative:
		return "<native " + v.Str + ">"
	default:
		return "<invalid>"
	}
}

// GoString quotes strings, which is what diagnostics want.
func (v Value) GoString() string {
	if v.Kind == KindString {
		return strconv.Quote(v.Str)
	}
	return v.String()
}
