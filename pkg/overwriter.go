package fastdupes

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// OverWriter is an output helper for status lines that overdraw the
// previous line cleanly. On a terminal each Write repaints the current
// line in place (padding out the remnants of longer earlier lines); on
// anything else every update becomes a plain line.
type OverWriter struct {
	file   *os.File
	maxLen int
	isTTY  bool
}

// NewOverWriter creates an OverWriter for the given file, detecting
// whether it is a terminal
func NewOverWriter(file *os.File) *OverWriter {
	ow := &OverWriter{file: file}
	if _, err := unix.IoctlGetTermios(int(file.Fd()), unix.TCGETS); err == nil {
		ow.isTTY = true
	}
	return ow
}

// Write repaints the status line with the given text
func (ow *OverWriter) Write(text string) {
	ow.write(text, false)
}

// WriteLine writes the text and finishes the line, so the next Write
// starts fresh below it
func (ow *OverWriter) WriteLine(text string) {
	ow.write(text, true)
}

func (ow *OverWriter) write(text string, newline bool) {
	if !ow.isTTY {
		fmt.Fprintf(ow.file, "%s\n", text)
		return
	}

	if len(text) > ow.maxLen {
		ow.maxLen = len(text)
	}

	fmt.Fprintf(ow.file, "\r%-*s", ow.maxLen, text)
	if newline {
		fmt.Fprintf(ow.file, "\n")
		ow.maxLen = 0
	}
}
