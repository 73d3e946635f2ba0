package fastdupes

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// collectedPath is one gathered file path, keyed by its absolute form
type collectedPath struct {
	AbsPath string
}

// CollectPaths converts a list of files and directory roots into a flat,
// sorted list of absolute file paths ready for FindDuplicates. Roots are
// resolved with realpath semantics (absolute + symlinks evaluated) so that
// overlapping or repeated roots cannot smuggle the same file in twice; the
// gathered paths are deduplicated and ordered through a path-keyed skiplist.
//
// A root that is itself a regular file is always included, overriding the
// exclude patterns ("do as I mean, not as I say"). Directory walks skip
// excluded directories without descending into them and skip excluded and
// non-regular files. Unreadable roots and walk errors go to the failure
// hook; they never abort collection.
func CollectPaths(roots []string, excludes *ExcludeManager, progress ProgressFunc, failure FailureFunc) ([]string, error) {
	defer VerboseEnter()()

	report := func(path string, err error) {
		if failure != nil {
			failure(path, err)
		}
	}

	sl := zcsl.MakeZeroCopySkiplist[collectedPath, string, string](
		16,
		func(p *collectedPath) string { return p.AbsPath },
		func(p *collectedPath) int { return len(p.AbsPath) },
		strings.Compare,
	)

	count := 0
	add := func(path string) {
		sl.Insert(&collectedPath{AbsPath: path}, StagePaths)
		count++
		if progress != nil {
			progress(StagePaths, 0, 1, count)
		}
	}

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			report(root, fmt.Errorf("failed to resolve root %s: %w", root, err))
			continue
		}
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			report(root, fmt.Errorf("failed to resolve root %s: %w", root, err))
			continue
		}

		info, err := os.Stat(resolved)
		if err != nil {
			report(resolved, fmt.Errorf("failed to stat root %s: %w", resolved, err))
			continue
		}

		// Directly-referenced files are always included, even when an
		// exclude pattern matches them
		if info.Mode().IsRegular() {
			add(resolved)
			continue
		}
		if !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				report(path, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				// Don't even descend into excluded directories
				if path != resolved && excludes != nil && excludes.Match(path) {
					if IsDebugEnabled("walk") {
						VerboseLog(3, "walk: skipping excluded directory %s", path)
					}
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil // Symlinks and special files never enter the pipeline
			}
			if excludes != nil && excludes.Match(path) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			report(resolved, fmt.Errorf("failed to walk %s: %w", resolved, err))
		}
	}

	// Skiplist iteration yields the deduplicated paths in sorted order
	paths := make([]string, 0, sl.Length())
	for current := sl.First(); current != nil; current = current.Next() {
		paths = append(paths, current.Item().AbsPath)
	}

	VerboseLog(1, "collected %d files for duplicate comparison", len(paths))
	return paths, nil
}
