// Package cliutil provides shared helpers for the gotp command-line tools.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// GetOutput opens the output file, or returns w when outputFile is empty.
// A nil w means stdout.
func GetOutput(outputFile string, w io.Writer) (io.Writer, func(), error) {
	if outputFile == "" {
		if w == nil {
			w = os.Stdout
		}
		return w, func() {}, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// PrintError writes a formatted error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(color.Error, "%s "+format+"\n", append([]any{color.RedString("error:")}, args...)...)
}
