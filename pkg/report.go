package fastdupes

import (
	"fmt"
	"os"
	"runtime"
	"syscall"

	"github.com/google/vectorio"
)

// formatGroupLines renders the duplicate groups as one buffer per output
// line: each member path on its own line, groups separated by a blank line
func formatGroupLines(groups []DuplicateGroup) [][]byte {
	var lines [][]byte
	for _, group := range groups {
		for _, file := range group.Files {
			lines = append(lines, []byte(file+"\n"))
		}
		lines = append(lines, []byte("\n"))
	}
	return lines
}

// WriteGroups writes the duplicate groups to the given file using vectored
// writes: the formatted lines are gathered into iovec batches and handed to
// writev, chunked to respect the kernel's IOV_MAX limit
func WriteGroups(file *os.File, groups []DuplicateGroup) error {
	lines := formatGroupLines(groups)
	if len(lines) == 0 {
		return nil
	}

	iovecs := make([]syscall.Iovec, len(lines))
	var total int
	for i, line := range lines {
		iovecs[i] = syscall.Iovec{
			Base: &line[0],
			Len:  uint64(len(line)),
		}
		total += len(line)
	}

	var written int
	for start := 0; start < len(iovecs); start += maxIovecsPerWritev {
		end := start + maxIovecsPerWritev
		if end > len(iovecs) {
			end = len(iovecs)
		}
		chunk := iovecs[start:end]

		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), chunk)
		if err != nil {
			return fmt.Errorf("failed to write duplicate groups: %w", err)
		}
		written += nw
	}

	// The iovecs point into the line buffers; keep them reachable until
	// every writev has returned
	runtime.KeepAlive(lines)

	if written != total {
		return fmt.Errorf("short write: %d of %d bytes", written, total)
	}

	return nil
}
