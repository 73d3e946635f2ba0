// Package fastdupes identifies duplicate files across directory trees using
// progressively more expensive comparisons so that most candidates are
// eliminated before any file content is read.
//
// # Core API
//
// The main entry point takes a flat list of file paths and the run options:
//
//	paths, err := fastdupes.CollectPaths(roots, excludes, progress, failure)
//	groups, err := fastdupes.FindDuplicates(paths, fastdupes.DefaultOptions())
//	for _, group := range groups {
//		fmt.Printf("%d copies: %v\n", group.Count, group.Files)
//	}
//
// The pipeline partitions the input by file size, then by a hash of each
// file's header, and finally either by a full-content hash or, in exact
// mode, by parallel byte-for-byte comparison. Each stage only ever
// subdivides the groups of the previous stage and discards anything left
// without a partner, so the expensive stages see only genuine candidates.
//
// # Hooks and Cancellation
//
// Progress and failure reporting are injectable observers (ProgressFunc,
// FailureFunc); unreadable or vanished files are reported and dropped,
// never fatal. Long runs are cancelled cooperatively by closing the
// Shutdown channel in Options.
//
// # Configuration
//
// Defaults can be read from an ini file:
//
//	cfg, err := fastdupes.LoadConfig("/home/user/.config/fastdupes/config")
//	opts, err := cfg.PipelineOptions()
//
// Enable debug output:
//
//	fastdupes.SetVerboseLevel(2)
//	fastdupes.SetDebugFlags("walk,compare")
package fastdupes
