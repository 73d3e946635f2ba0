package main

import (
	"fmt"
	"strconv"
	"strings"
)

// cmdOptions holds the parsed command line
type cmdOptions struct {
	Roots        []string
	Exact        bool
	Delete       bool
	ShowDefaults bool
	JSON         bool
	Exclude      []string
	MinSize      int64
	MinSizeSet   bool
	Workers      int
	WorkersSet   bool
	ConfigPath   string
	Verbose      int
	VerboseSet   bool
	Debug        string
	DebugSet     bool
}

// parseArguments parses the command line into cmdOptions. Flags may appear
// before, between, or after the root paths.
func parseArguments(args []string) (*cmdOptions, error) {
	opts := &cmdOptions{}

	needsValue := func(i int, flag string) (string, int, error) {
		if i+1 >= len(args) {
			return "", i, fmt.Errorf("option %s requires a value", flag)
		}
		return args[i+1], i + 1, nil
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--exact" || arg == "-E":
			opts.Exact = true
		case arg == "--delete" || arg == "-d":
			opts.Delete = true
		case arg == "--defaults" || arg == "-D":
			opts.ShowDefaults = true
		case arg == "--json":
			opts.JSON = true
		case arg == "--exclude" || arg == "-e":
			value, next, err := needsValue(i, arg)
			if err != nil {
				return nil, err
			}
			opts.Exclude = append(opts.Exclude, value)
			i = next
		case arg == "--min-size":
			value, next, err := needsValue(i, arg)
			if err != nil {
				return nil, err
			}
			minSize, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid --min-size value %q: %w", value, err)
			}
			opts.MinSize = minSize
			opts.MinSizeSet = true
			i = next
		case arg == "--workers":
			value, next, err := needsValue(i, arg)
			if err != nil {
				return nil, err
			}
			workers, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid --workers value %q: %w", value, err)
			}
			opts.Workers = workers
			opts.WorkersSet = true
			i = next
		case arg == "--config":
			value, next, err := needsValue(i, arg)
			if err != nil {
				return nil, err
			}
			opts.ConfigPath = value
			i = next
		case arg == "--debug":
			value, next, err := needsValue(i, arg)
			if err != nil {
				return nil, err
			}
			opts.Debug = value
			opts.DebugSet = true
			i = next
		case arg == "--verbose":
			value, next, err := needsValue(i, arg)
			if err != nil {
				return nil, err
			}
			level, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid --verbose value %q: %w", value, err)
			}
			opts.Verbose = level
			opts.VerboseSet = true
			i = next
		case strings.HasPrefix(arg, "-v"):
			// -v, -vv, -v2 forms
			level, err := parseVerboseShorthand(arg)
			if err != nil {
				return nil, err
			}
			opts.Verbose = level
			opts.VerboseSet = true
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown option: %s", arg)
		default:
			opts.Roots = append(opts.Roots, arg)
		}
	}

	return opts, nil
}

// parseVerboseShorthand handles -v, -vv, -vvv and -vN
func parseVerboseShorthand(arg string) (int, error) {
	rest := arg[2:]
	if rest == "" {
		return 1, nil
	}
	if strings.Trim(rest, "v") == "" {
		return 1 + len(rest), nil
	}
	level, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid verbose option: %s", arg)
	}
	return level, nil
}
