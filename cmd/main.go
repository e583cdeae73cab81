package main

import (
	"arkvm/internal/config"
	"arkvm/internal/logger"
	"arkvm/internal/runner"
	"arkvm/pkg/color"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// Main entry point for the arkvm bytecode runner.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode")
	flag.BoolVar(&options.Trace, "t", false, "Trace every instruction")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.Dump, "d", false, "Print the disassembly before running")
	flag.IntVar(&options.MaxSteps, "s", 0, "Maximum instructions to execute (0 for no limit)")
	flag.StringVar(&options.ConfigFile, "config", "", "Configuration file (default: nearest "+config.FileName+")")

	flag.Parse()
	args := flag.Args()

	var (
		cfg *config.Config
		err error
	)
	if options.ConfigFile != "" {
		cfg, err = config.Load(options.ConfigFile)
	} else {
		cfg, err = config.FindAndLoad(".")
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if cfg != nil {
		applyConfig(&options, cfg, set)
	}

	logger.Init(options.Verbose || options.Trace, options.NoColor)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	if cfg.Path != "" {
		log.Debug("Configuration loaded", "file", cfg.Path)
	}

	if options.Help {
		fmt.Printf("Usage: %s [options] <file.arkc>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]

	if err := options.Run(); err != nil {
		log.Fatal("Run failed", "error", err)
	}
}

// applyConfig fills the options the command line left unset.
func applyConfig(options *runner.Runner, cfg *config.Config, set map[string]bool) {
	if !set["v"] {
		options.Verbose = cfg.Debug
	}
	if !set["t"] {
		options.Trace = cfg.Trace
	}
	if !set["n"] {
		options.NoColor = cfg.NoColor
	}
	if !set["d"] {
		options.Dump = cfg.Dump
	}
	if !set["s"] {
		options.MaxSteps = cfg.MaxSteps
	}
	options.Precision = cfg.Precision
}
