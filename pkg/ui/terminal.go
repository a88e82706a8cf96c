package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ASCII logo for the application
const ASCIILogo = `
    ╔═══════════════════════════════════════════╗
    ║ ███████╗███╗   ███╗██████╗ ██████╗        ║
    ║ ██╔════╝████╗ ████║██╔══██╗██╔══██╗       ║
    ║ █████╗  ██╔████╔██║██████╔╝██║  ██║       ║
    ║ ██╔══╝  ██║╚██╔╝██║██╔═══╝ ██║  ██║       ║
    ║ ██║     ██║ ╚═╝ ██║██║     ██████╔╝       ║
    ║ ╚═╝     ╚═╝     ╚═╝╚═╝     ╚═════╝        ║
    ║    FACEBOOK MASSIVE PICTURE DOWNLOADER    ║
    ╚═══════════════════════════════════════════╝
`

var (
	mu     sync.Mutex
	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr
	color            = isTerminal(os.Stderr)
	quiet  bool
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorize returns a function that wraps text with ANSI color codes when
// color output is enabled
func colorize(colorString string) func(string) string {
	return func(text string) string {
		mu.Lock()
		enabled := color
		mu.Unlock()
		if !enabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// SetOutput redirects results (stdout) and messages (stderr). Nil keeps the current writer.
func SetOutput(stdout, stderr io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if stdout != nil {
		out = stdout
	}
	if stderr != nil {
		errOut = stderr
	}
}

// SetColor forces color output on or off
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	color = enabled
}

// SetQuietMode suppresses results and informational messages. Errors are
// always printed.
func SetQuietMode(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool {
	mu.Lock()
	defer mu.Unlock()
	return quiet
}

func writers() (io.Writer, io.Writer, bool) {
	mu.Lock()
	defer mu.Unlock()
	return out, errOut, quiet
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	_, e, q := writers()
	if q {
		return
	}
	fmt.Fprint(e, Cyan(ASCIILogo))
}

// PrintResult prints one line of program output (a written file path) to stdout
func PrintResult(line string) {
	o, _, q := writers()
	if q {
		return
	}
	fmt.Fprintln(o, line)
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	_, e, _ := writers()
	if len(args) > 0 {
		fmt.Fprintln(e, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(e, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	_, e, q := writers()
	if q {
		return
	}
	fmt.Fprintln(e, Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	_, e, q := writers()
	if q {
		return
	}
	fmt.Fprintf(e, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	_, e, q := writers()
	if q {
		return
	}
	if len(args) > 0 {
		fmt.Fprintln(e, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(e, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	_, e, q := writers()
	if q {
		return
	}
	fmt.Fprintln(e, Magenta(msg))
}
