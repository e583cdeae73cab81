package runner

import (
	"errors"
	"fmt"
	"io"
	"os"

	"arkvm/pkg/bytecode"
	"arkvm/pkg/color"
	"arkvm/pkg/natives"
	"arkvm/pkg/vm"

	"github.com/charmbracelet/log"
)

type Runner struct {
	Help       bool   // Show help message
	Verbose    bool   // Enable verbose output
	Trace      bool   // Log every executed instruction
	NoColor    bool   // Disable colored output
	Dump       bool   // Print the disassembly before running
	MaxSteps   int    // Step limit, 0 for none
	Precision  uint32 // Significant digits of arithmetic builtins
	ConfigFile string // Path to an arkvm.toml file
	SourceFile string // Path to the bytecode container

	Out io.Writer // Program and report output, stdout when nil
}

// Run loads the container, optionally disassembles it, and executes it.
func (opts *Runner) Run() error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	log.Info("Loading bytecode", "file", opts.SourceFile)

	prog, err := bytecode.LoadFile(opts.SourceFile)
	if err != nil {
		var le *bytecode.LoadError
		if errors.As(err, &le) {
			fmt.Fprintln(out, color.BrightRedText("=== Load Error ==="))
			fmt.Fprintf(out, "%s at byte %s: %v\n", color.YellowText(string(le.Section)), color.CyanText(fmt.Sprint(le.Offset)), le.Err)
		}
		return fmt.Errorf("loading failed: %w", err)
	}

	log.Info("Program loaded",
		"symbols", len(prog.Symbols),
		"constants", len(prog.Constants),
		"pages", len(prog.Pages))

	if opts.Dump {
		fmt.Fprintln(out, color.GreenText("=== Disassembly ==="))
		if len(prog.Pages) == 0 {
			fmt.Fprintln(out, color.GrayText("No code pages."))
		}
		fmt.Fprint(out, bytecode.Disassemble(prog))
	}

	registry := natives.Default(
		natives.WithOutput(out),
		natives.WithPrecision(opts.Precision),
	)
	machine := vm.New(prog,
		vm.WithRegistry(registry),
		vm.WithMaxSteps(opts.MaxSteps),
		vm.WithTrace(opts.Trace),
	)

	if opts.Verbose {
		fmt.Fprintln(out, color.GreenText("\n=== Program Output ==="))
	}

	if err := machine.Run(); err != nil {
		var re *vm.RuntimeError
		if errors.As(err, &re) {
			fmt.Fprintln(out, color.BrightRedText("=== Runtime Error ==="))
			msg := fmt.Sprintf("%s %s: %v", color.Location(re.Page, re.IP), color.YellowText(re.Op.String()), re.Err)
			if re.Symbol != "" {
				msg += " `" + color.BlueText(re.Symbol) + "`"
			}
			fmt.Fprintln(out, msg)
		}
		return fmt.Errorf("execution failed: %w", err)
	}

	if opts.Verbose {
		fmt.Fprintln(out, color.GreenText("\n=== Final Stack ==="))
		stack := machine.Stack()
		if len(stack) == 0 {
			fmt.Fprintln(out, color.GrayText("Empty."))
		}
		for i, v := range stack {
			fmt.Fprintf(out, "%s: %s\n", color.CyanText(fmt.Sprintf("%d", i)), color.Value(v.Kind.String(), v.GoString()))
		}
	}

	log.Info("Program halted", "steps", machine.Steps())
	return nil
}
