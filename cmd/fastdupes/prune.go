package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	fastdupes "github.com/mattkeenan/fastdupes/pkg"
)

// promptKeepers displays one duplicate group and prompts for the files to
// keep. The user may enter "all" or one or more numbers separated by spaces
// and/or commas; it is impossible to accidentally keep none of the files.
// Returns the paths to be deleted.
func promptKeepers(files []string, pos, total int, in *bufio.Reader, out *os.File) ([]string, error) {
	fmt.Fprintln(out)
	for i, file := range files {
		fmt.Fprintf(out, "%d) %s\n", i+1, file)
	}

	for {
		fmt.Fprintf(out, "[%d/%d] Keepers: ", pos, total)
		line, err := in.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("failed to read choice: %w", err)
		}

		choice := strings.TrimSpace(line)
		if choice == "" {
			fmt.Fprintln(out, "Please enter a space/comma-separated list of numbers or 'all'.")
			continue
		}
		if strings.EqualFold(choice, "all") {
			return nil, nil
		}

		keep := make(map[int]bool)
		valid := true
		for _, field := range strings.Fields(strings.ReplaceAll(choice, ",", " ")) {
			n, err := strconv.Atoi(field)
			if err != nil || n < 1 || n > len(files) {
				valid = false
				break
			}
			keep[n-1] = true
		}
		if !valid || len(keep) == 0 {
			fmt.Fprintln(out, "Invalid choice. Please enter a space/comma-separated list of numbers or 'all'.")
			continue
		}

		var doomed []string
		for i, file := range files {
			if !keep[i] {
				doomed = append(doomed, file)
			}
		}
		return doomed, nil
	}
}

// runPrune walks the duplicate groups interactively, deleting everything
// the user chooses not to keep
func runPrune(groups []fastdupes.DuplicateGroup) error {
	in := bufio.NewReader(os.Stdin)

	for pos, group := range groups {
		doomed, err := promptKeepers(group.Files, pos+1, len(groups), in, os.Stdout)
		if err != nil {
			return err
		}
		for _, path := range doomed {
			if err := os.Remove(path); err != nil {
				fmt.Fprintf(os.Stderr, "fastdupes: failed to delete %s: %v\n", path, err)
				continue
			}
			fastdupes.VerboseLog(1, "deleted %s", path)
		}
	}

	return nil
}
