package fastdupes

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Usage errors reported before any pipeline stage executes
var (
	ErrNoInput        = errors.New("no input paths to compare")
	ErrInvalidMinSize = errors.New("minimum file size must not be negative")
)

// Options configures a FindDuplicates run
type Options struct {
	// Exact selects true byte-for-byte comparison for the final stage
	// instead of a full-content hash. Hashing carries a vanishingly small
	// chance of false positives; exact mode trades disk seeks for
	// certainty.
	Exact bool

	// MinSize excludes files smaller than this many bytes. Zero admits
	// everything including empty files.
	MinSize int64

	// HeadSize bounds the header-hash stage; zero or negative selects
	// HeadSize (16 KiB)
	HeadSize int64

	// ChunkSize is the unit of chunked reads for hashing and comparison;
	// zero or negative selects ChunkSize (64 KiB)
	ChunkSize int

	// Algorithm names the digest for the hash stages (sha1, sha256,
	// sha512); empty selects DefaultHashAlgorithm
	Algorithm string

	// Workers bounds how many groups are processed concurrently per
	// stage; zero or negative means one per available core
	Workers int

	// MaxOpenFiles caps simultaneously open handles during exact
	// comparison; zero or negative derives the cap from RLIMIT_NOFILE
	MaxOpenFiles int64

	// Progress and Failure are the injectable observer hooks; either may
	// be nil. Both are invoked serially.
	Progress ProgressFunc
	Failure  FailureFunc

	// Shutdown cooperatively cancels the run between groups and between
	// chunk reads; the pipeline returns ErrInterrupted
	Shutdown <-chan struct{}
}

// DefaultOptions returns the options used by the command-line tool when
// nothing is configured
func DefaultOptions() Options {
	return Options{
		MinSize:   DefaultMinSize,
		HeadSize:  HeadSize,
		ChunkSize: ChunkSize,
		Algorithm: DefaultHashAlgorithm,
	}
}

// DuplicateGroup is one set of duplicate-equivalent files in a result.
// Key is the final stage's bucket key: a hex digest in hash mode, or an
// arbitrary representative member's path in exact mode, where it has no
// meaning beyond distinguishing buckets.
type DuplicateGroup struct {
	Key   string   `json:"key"`
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// FindDuplicates partitions the given files into groups of duplicates using
// progressively more expensive comparisons: first by file size (no content
// read at all), then by a hash of each file's first HeadSize bytes, and
// finally either by full-content hash or, in exact mode, by parallel
// byte-for-byte comparison. Every stage only ever subdivides the groups of
// the previous one, so each returned group is a subset of one size bucket
// and one header-hash bucket.
//
// The caller supplies absolute, symlink-resolved paths with no duplicates
// (CollectPaths produces exactly that). Paths that vanish or become
// unreadable mid-run are dropped via the failure hook without aborting.
// Every returned group has at least two members; groups and their members
// are sorted for deterministic output.
func FindDuplicates(paths []string, opts Options) ([]DuplicateGroup, error) {
	defer VerboseEnter()()

	if len(paths) == 0 {
		return nil, ErrNoInput
	}
	if opts.MinSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMinSize, opts.MinSize)
	}
	if opts.HeadSize <= 0 {
		opts.HeadSize = HeadSize
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = ChunkSize
	}
	if opts.Algorithm == "" {
		opts.Algorithm = DefaultHashAlgorithm
	}
	algorithm, err := GetHashAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	progress := opts.Progress
	failure := opts.Failure

	groupOpts := GroupByOptions{
		Workers:  opts.Workers,
		Progress: progress,
		Failure:  failure,
		Shutdown: opts.Shutdown,
	}

	// Stage 1: the synthetic seed group holding every input path. This is
	// the only place a single-member group survives; every later stage
	// filters them out.
	seed := []Group{Group(paths)}

	// Stage 2: classify by size. Most files share a size with nothing
	// else, so this eliminates the bulk of the input for free.
	sizeBuckets, err := GroupBy(StageSizes, seed, SizeClassifier(opts.MinSize), groupOpts)
	if err != nil {
		return nil, err
	}

	// Stage 3: classify each surviving group by header hash. Worth doing
	// even in exact mode: it cheaply eliminates most false same-size
	// candidates and keeps the expensive final stage small.
	headerBuckets, err := GroupBy(StageHeaders, groupsOf(sizeBuckets),
		HashClassifier(algorithm, opts.HeadSize, opts.ChunkSize, opts.Shutdown), groupOpts)
	if err != nil {
		return nil, err
	}

	// Stage 4: settle each surviving group by full content
	var final map[string]Group
	if opts.Exact {
		ctx, cancel := shutdownContext(opts.Shutdown)
		defer cancel()

		grouper := NewContentGrouper(opts.ChunkSize, opts.MaxOpenFiles, failure)
		final, err = grouper.GroupAll(ctx, groupsOf(headerBuckets), opts.Workers, progress)
	} else {
		final, err = GroupBy(StageHashes, groupsOf(headerBuckets),
			HashClassifier(algorithm, 0, opts.ChunkSize, opts.Shutdown), groupOpts)
	}
	if err != nil {
		return nil, err
	}

	return sortedGroups(final), nil
}

// sortedGroups converts a final bucket map into the exported result form,
// sorting members within each group and groups by their first member
func sortedGroups(buckets map[string]Group) []DuplicateGroup {
	result := make([]DuplicateGroup, 0, len(buckets))
	for key, members := range buckets {
		files := append([]string(nil), members...)
		sort.Strings(files)
		result = append(result, DuplicateGroup{
			Key:   key,
			Files: files,
			Count: len(files),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Files[0] < result[j].Files[0]
	})
	return result
}

// shutdownContext bridges the shutdown-channel idiom to the context form
// that semaphore acquisition wants
func shutdownContext(shutdown <-chan struct{}) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	if shutdown != nil {
		go func() {
			select {
			case <-shutdown:
				cancel()
			case <-ctx.Done():
			}
		}()
	}
	return ctx, cancel
}
