package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fastdupes "github.com/mattkeenan/fastdupes/pkg"
)

const versionString = "0.4.0"

func main() {
	if len(os.Args) < 2 {
		showUsage()
		os.Exit(1)
	}

	// Handle help and version early
	if os.Args[1] == "--help" || os.Args[1] == "-h" || os.Args[1] == "help" {
		showHelp()
		return
	}

	if os.Args[1] == "--version" {
		fmt.Printf("fastdupes %s\n", versionString)
		return
	}

	opts, err := parseArguments(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fastdupes: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "fastdupes: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *cmdOptions) error {
	cfg, err := fastdupes.LoadConfig(configPath(opts))
	if err != nil {
		return err
	}

	pipelineOpts, err := cfg.PipelineOptions()
	if err != nil {
		return err
	}

	// Command-line flags override config file settings
	verbose := cfg.GetVerboseConfig()
	if opts.VerboseSet {
		verbose.Level = opts.Verbose
	}
	if opts.DebugSet {
		verbose.Debug = opts.Debug
	}
	fastdupes.SetVerboseLevel(verbose.Level)
	fastdupes.SetDebugFlags(verbose.Debug)

	if opts.Exact {
		pipelineOpts.Exact = true
	}
	if opts.MinSizeSet {
		pipelineOpts.MinSize = opts.MinSize
	}
	if opts.WorkersSet {
		pipelineOpts.Workers = opts.Workers
	}

	excludePatterns := fastdupes.NormalizeExcludes(
		append(fastdupes.DefaultExcludes(), opts.Exclude...))

	if opts.ShowDefaults {
		showDefaults(pipelineOpts, excludePatterns)
		return nil
	}

	if len(opts.Roots) == 0 {
		showUsage()
		return errors.New("no paths given")
	}

	excludes, err := fastdupes.NewExcludeManager(excludePatterns)
	if err != nil {
		return err
	}

	shutdownChan := setupSignalHandler()
	status := fastdupes.NewOverWriter(os.Stderr)

	progress := func(stage string, groupsDone, groupsTotal, filesExamined int) {
		switch {
		case stage == fastdupes.StagePaths:
			status.Write(fmt.Sprintf(
				"Gathering file paths to compare... (%d files examined)",
				filesExamined))
		case groupsDone >= groupsTotal:
			status.WriteLine(fmt.Sprintf(
				"Finished grouping by %s. (%d files examined)",
				stage, filesExamined))
		default:
			status.Write(fmt.Sprintf(
				"Subdividing group %d of %d by %s... (%d files examined)",
				groupsDone, groupsTotal, stage, filesExamined))
		}
	}
	failure := func(path string, err error) {
		status.WriteLine(fmt.Sprintf("Skipping %s: %v", path, err))
	}

	paths, err := fastdupes.CollectPaths(opts.Roots, excludes, progress, failure)
	if err != nil {
		return err
	}
	status.WriteLine(fmt.Sprintf(
		"Found %d files to be compared for duplication.", len(paths)))

	pipelineOpts.Progress = progress
	pipelineOpts.Failure = failure
	pipelineOpts.Shutdown = shutdownChan

	groups, err := fastdupes.FindDuplicates(paths, pipelineOpts)
	if err != nil {
		return err
	}
	status.WriteLine(fmt.Sprintf("Found %d sets of duplicate files.", len(groups)))

	switch {
	case opts.Delete:
		return runPrune(groups)
	case opts.JSON || cfg.GetOutputConfig().Format == "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(groups)
	default:
		return fastdupes.WriteGroups(os.Stdout, groups)
	}
}

// configPath returns the explicit --config path or the per-user default
func configPath(opts *cmdOptions) string {
	if opts.ConfigPath != "" {
		return opts.ConfigPath
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "fastdupes", "config")
}

func showDefaults(opts fastdupes.Options, excludes []string) {
	fmt.Printf("%12s: %d\n", "min_size", opts.MinSize)
	fmt.Printf("%12s: %d\n", "head_size", opts.HeadSize)
	fmt.Printf("%12s: %d\n", "chunk_size", opts.ChunkSize)
	fmt.Printf("%12s: %s\n", "algorithm", opts.Algorithm)
	fmt.Printf("%12s: %v\n", "exact", opts.Exact)
	fmt.Printf("%12s: %s\n", "exclude", strings.Join(excludes, ", "))
}

func showUsage() {
	fmt.Fprintf(os.Stderr, "Usage: fastdupes [options] <folder path> ...\n")
	fmt.Fprintf(os.Stderr, "Try 'fastdupes --help' for more information.\n")
}

func showHelp() {
	fmt.Printf("fastdupes - find duplicate files quickly\n\n")
	fmt.Printf("Usage: fastdupes [options] <folder path> ...\n\n")

	fmt.Printf("MODES:\n")
	fmt.Printf("  -E, --exact       Compare file contents byte-for-byte instead of by\n")
	fmt.Printf("                    hash. Eliminates the vanishingly small chance of a\n")
	fmt.Printf("                    hash collision at the cost of a lot of disk seeks.\n")
	fmt.Printf("  -d, --delete      Prompt for files to keep and delete all others\n")
	fmt.Printf("  -D, --defaults    Display default option values and exit\n")
	fmt.Printf("      --json        Emit duplicate groups as JSON\n\n")

	fmt.Printf("INPUT FILTERING:\n")
	fmt.Printf("  -e, --exclude PAT Add a globbing pattern to the exclude list. May be\n")
	fmt.Printf("                    given multiple times; a bare '-' resets the built-in\n")
	fmt.Printf("                    defaults (%s)\n", strings.Join(fastdupes.DefaultExcludes(), ", "))
	fmt.Printf("      --min-size N  Ignore files smaller than N bytes (default: %d)\n\n", fastdupes.DefaultMinSize)

	fmt.Printf("TUNING:\n")
	fmt.Printf("      --workers N   Concurrent group workers (default: one per core)\n")
	fmt.Printf("      --config PATH Read settings from PATH instead of the per-user\n")
	fmt.Printf("                    config file\n\n")

	fmt.Printf("DIAGNOSTICS:\n")
	fmt.Printf("  -v[N], --verbose N  Verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)\n")
	fmt.Printf("      --debug FLAGS   Comma-separated debug flags (walk,group,compare,pipeline)\n")
	fmt.Printf("      --version       Show version information\n")
	fmt.Printf("  -h, --help          Show this help\n")
}
