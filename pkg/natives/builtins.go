package natives

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"arkvm/pkg/value"

	"github.com/cockroachdb/apd/v3"
)

// DefaultPrecision is the number of significant digits used by the
// arithmetic builtins.
const DefaultPrecision = 34

var (
	ErrArity        = errors.New("wrong number of arguments")
	ErrType         = errors.New("wrong argument type")
	ErrDivideByZero = errors.New("division by zero")
)

type library struct {
	out       io.Writer
	precision uint32
	ctx       *apd.Context
}

type Option func(*library)

// WithOutput sets the writer used by print
func WithOutput(w io.Writer) Option {
	return func(l *library) { l.out = w }
}

// WithPrecision sets the significant digits of arithmetic results; 0 keeps
// DefaultPrecision
func WithPrecision(p uint32) Option {
	return func(l *library) {
		if p > 0 {
			l.precision = p
		}
	}
}

// Default returns a registry holding the standard builtins, in this id
// order: print + - * / = != < > not len str.
func Default(opts ...Option) *Registry {
	l := &library{out: os.Stdout, precision: DefaultPrecision}
	for _, o := range opts {
		o(l)
	}
	if l.precision == 0 {
		l.precision = DefaultPrecision
	}
	l.ctx = apd.BaseContext.WithPrecision(l.precision)

	r := New()
	r.Register("print", l.print)
	r.Register("+", l.arith("+", l.ctx.Add))
	r.Register("-", l.sub)
	r.Register("*", l.arith("*", l.ctx.Mul))
	r.Register("/", l.quo)
	r.Register("=", equal)
	r.Register("!=", notEqual)
	r.Register("<", compare("<", func(c int) bool { return c < 0 }))
	r.Register(">", compare(">", func(c int) bool { return c > 0 }))
	r.Register("not", not)
	r.Register("len", length)
	r.Register("str", str)
	return r
}

func (l *library) print(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	if _, err := fmt.Fprintln(l.out, strings.Join(parts, " ")); err != nil {
		return value.Nil, err
	}
	return value.Nil, nil
}

type binaryOp func(d, x, y *apd.Decimal) (apd.Condition, error)

func numbers(name string, args []value.Value, min int) ([]*apd.Decimal, error) {
	if len(args) < min {
		return nil, fmt.Errorf("%s: %w: expected at least %d, got %d", name, ErrArity, min, len(args))
	}
	out := make([]*apd.Decimal, len(args))
	for i, a := range args {
		if a.Kind != value.KindNumber {
			return nil, fmt.Errorf("%s: %w: argument %d is %s, expected number", name, ErrType, i+1, a.Kind)
		}
		out[i] = a.Num
	}
	return out, nil
}

// fold applies op left to right, always into fresh decimals.
func fold(name string, nums []*apd.Decimal, op binaryOp) (value.Value, error) {
	acc := new(apd.Decimal).Set(nums[0])
	for _, n := range nums[1:] {
		next := new(apd.Decimal)
		if _, err := op(next, acc, n); err != nil {
			return value.Nil, fmt.Errorf("%s: %w", name, err)
		}
		acc = next
	}
	return value.FromDecimal(acc), nil
}

func (l *library) arith(name string, op binaryOp) Proc {
	return func(args []value.Value) (value.Value, error) {
		nums, err := numbers(name, args, 1)
		if err != nil {
			return value.Nil, err
		}
		return fold(name, nums, op)
	}
}

func (l *library) sub(args []value.Value) (value.Value, error) {
	nums, err := numbers("-", args, 1)
	if err != nil {
		return value.Nil, err
	}
	if len(nums) == 1 {
		return value.FromDecimal(new(apd.Decimal).Neg(nums[0])), nil
	}
	return fold("-", nums, l.ctx.Sub)
}

func (l *library) quo(args []value.Value) (value.Value, error) {
	nums, err := numbers("/", args, 2)
	if err != nil {
		return value.Nil, err
	}
	for _, n := range nums[1:] {
		if n.IsZero() {
			return value.Nil, fmt.Errorf("/: %w", ErrDivideByZero)
		}
	}
	return fold("/", nums, l.ctx.Quo)
}

func equal(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Nil, fmt.Errorf("=: %w: expected 2, got %d", ErrArity, len(args))
	}
	return value.Bool(args[0].Equal(args[1])), nil
}

func notEqual(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Nil, fmt.Errorf("!=: %w: expected 2, got %d", ErrArity, len(args))
	}
	return value.Bool(!args[0].Equal(args[1])), nil
}

func compare(name string, pred func(int) bool) Proc {
	return func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return value.Nil, fmt.Errorf("%s: %w: expected 2, got %d", name, ErrArity, len(args))
		}
		a, b := args[0], args[1]
		switch {
		case a.Kind == value.KindNumber && b.Kind == value.KindNumber:
			return value.Bool(pred(a.Num.Cmp(b.Num))), nil
		case a.Kind == value.KindString && b.Kind == value.KindString:
			return value.Bool(pred(strings.Compare(a.Str, b.Str))), nil
		default:
			return value.Nil, fmt.Errorf("%s: %w: cannot compare %s with %s", name, ErrType, a.Kind, b.Kind)
		}
	}
}

func not(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Nil, fmt.Errorf("not: %w: expected 1, got %d", ErrArity, len(args))
	}
	return value.Bool(!args[0].Truthy()), nil
}

func length(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Nil, fmt.Errorf("len: %w: expected 1, got %d", ErrArity, len(args))
	}
	if args[0].Kind != value.KindString {
		return value.Nil, fmt.Errorf("len: %w: expected string, got %s", ErrType, args[0].Kind)
	}
	return value.FromInt(int64(utf8.RuneCountInString(args[0].Str))), nil
}

func str(args []value.Value) (value.Value, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.String())
	}
	return value.NewString(sb.String()), nil
}
