package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Init configures the default logger used by the loader, the VM and the CLI
func Init(debug, noColor bool) {
	log.SetDefault(New(os.Stderr, debug, noColor))
}

// New builds a logger writing to w
func New(w io.Writer, debug, noColor bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportCaller:    debug,
		ReportTimestamp: false,
		Prefix:          "ARKVM",
		Level:           log.WarnLevel,
	})

	if debug {
		l.SetLevel(log.DebugLevel)
	}

	l.SetColorProfile(termenv.ANSI256)
	if noColor {
		l.SetColorProfile(termenv.Ascii)
	}

	return l
}
