// Package fbid reads photo identifiers from list files, arguments and stdin.
package fbid

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinArg as a positional argument requests identifiers from stdin
const StdinArg = "-"

// ReadList reads one identifier per line. Surrounding whitespace is stripped;
// blank lines and lines starting with '#' are skipped.
func ReadList(r io.Reader) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read identifiers: %w", err)
	}
	return ids, nil
}

// ReadFile reads identifiers from the list file at path
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open list file: %w", err)
	}
	defer f.Close()

	return ReadList(f)
}

// Collect builds the identifier sequence for a run. Positional arguments come
// first in the order given; a StdinArg among them appends the lines of stdin.
// With no arguments at all the list file is read.
func Collect(args []string, stdin io.Reader, listFile string) ([]string, error) {
	if len(args) == 0 {
		return ReadFile(listFile)
	}

	var ids []string
	readStdin := false
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		switch {
		case arg == StdinArg:
			readStdin = true
		case arg != "":
			ids = append(ids, arg)
		}
	}

	if readStdin {
		more, err := ReadList(stdin)
		if err != nil {
			return nil, err
		}
		ids = append(ids, more...)
	}

	return ids, nil
}
