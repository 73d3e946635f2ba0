package fastdupes

import (
	"errors"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrInterrupted is returned when an operation is stopped by the shutdown channel
var ErrInterrupted = errors.New("operation interrupted by shutdown")

// Group is a set of file paths treated as mutual duplicate candidates at one
// pipeline stage. Member order carries no meaning.
type Group []string

// ProgressFunc is invoked at group boundaries with the stage name, the number
// of input groups processed so far, the total number of input groups, and the
// running count of files examined. Implementations must be fast and must not
// block; a nil hook disables progress reporting.
type ProgressFunc func(stage string, groupsDone, groupsTotal, filesExamined int)

// FailureFunc is invoked whenever a path is dropped because of an I/O error
// during classification or comparison. A nil hook discards failures silently.
type FailureFunc func(path string, err error)

// Classifier maps a path to a bucket key. ok reports whether the path
// participates at all; a false return excludes the path from this and every
// later stage (symlink, below minimum size, and so on). A non-nil error also
// drops the path but is additionally reported through the failure hook.
type Classifier[K comparable] func(path string) (key K, ok bool, err error)

// GroupByOptions controls a single GroupBy invocation
type GroupByOptions struct {
	// KeepUniques retains single-member buckets in the result. Only the
	// synthetic seed stage wants this; every filtering stage discards them.
	KeepUniques bool

	// Workers bounds the number of input groups classified concurrently.
	// Zero or negative means one worker per available core.
	Workers int

	Progress ProgressFunc
	Failure  FailureFunc

	// Shutdown is polled between input groups; a closed channel makes
	// GroupBy return ErrInterrupted once in-flight groups drain.
	Shutdown <-chan struct{}
}

// GroupBy subdivides groups of paths according to a per-path classifier,
// producing a fresh bucket map. The classifier is invoked exactly once per
// input path. Paths sharing a key are merged into one output group even if
// they arrived in different input groups; the pipeline never exercises that
// case, but the primitive does not assume it away.
//
// Input groups are classified concurrently by a bounded worker pool; the
// result map is only ever written under a single lock, so per-group results
// merge in arbitrary but commutative order.
func GroupBy[K comparable](stage string, groupsIn []Group, classify Classifier[K], opts GroupByOptions) (map[K]Group, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu            sync.Mutex
		buckets       = make(map[K]Group)
		groupsDone    int
		filesExamined int
	)

	var eg errgroup.Group
	eg.SetLimit(workers)

	for _, paths := range groupsIn {
		select {
		case <-opts.Shutdown:
			eg.Wait()
			return nil, ErrInterrupted
		default:
		}

		eg.Go(func() error {
			local := make(map[K][]string)
			examined := 0
			for _, path := range paths {
				key, ok, err := classify(path)
				examined++
				if err != nil {
					if errors.Is(err, ErrInterrupted) {
						return err
					}
					mu.Lock()
					if opts.Failure != nil {
						opts.Failure(path, err)
					}
					mu.Unlock()
					continue
				}
				if !ok {
					continue
				}
				local[key] = append(local[key], path)
			}

			mu.Lock()
			for key, members := range local {
				buckets[key] = append(buckets[key], members...)
			}
			groupsDone++
			filesExamined += examined
			if opts.Progress != nil {
				opts.Progress(stage, groupsDone, len(groupsIn), filesExamined)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if !opts.KeepUniques {
		for key, members := range buckets {
			if len(members) < 2 {
				delete(buckets, key)
			}
		}
	}

	if opts.Progress != nil {
		opts.Progress(stage, len(groupsIn), len(groupsIn), filesExamined)
	}
	VerboseLog(1, "stage %q: %d buckets from %d groups (%d files examined)",
		stage, len(buckets), len(groupsIn), filesExamined)

	return buckets, nil
}

// groupsOf flattens a bucket map into a slice of groups for the next stage
func groupsOf[K comparable](buckets map[K]Group) []Group {
	groups := make([]Group, 0, len(buckets))
	for _, members := range buckets {
		groups = append(groups, members)
	}
	return groups
}
