package fastdupes

import (
	"bytes"
	"context"
	"io"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sys/unix"
)

// openChunk tracks one file participating in a byte-for-byte comparison:
// its path, its open handle, and the chunk read in the current round.
type openChunk struct {
	path   string
	handle *os.File
	buf    []byte
	chunk  []byte
}

// ContentGrouper performs true byte-for-byte duplicate detection. Instead of
// hashing whole files it opens every candidate in a group simultaneously and
// compares them chunk by chunk, closing files the moment they provably
// diverge or reach end-of-file. No byte is ever read twice and files that
// differ early cost almost nothing.
//
// The number of simultaneously open handles across all in-flight groups is
// capped by a weighted semaphore so that pathological buckets (thousands of
// files sharing a size and header hash) cannot exhaust the process's file
// descriptor limit; groups queue for budget instead.
type ContentGrouper struct {
	chunkSize int
	budget    int64
	handles   *semaphore.Weighted
	failure   FailureFunc
	mu        sync.Mutex
}

// NewContentGrouper creates a grouper reading in chunks of chunkSize bytes
// with at most maxOpen simultaneously open handles. Zero or negative values
// select the defaults: ChunkSize, and half the RLIMIT_NOFILE soft limit.
func NewContentGrouper(chunkSize int, maxOpen int64, failure FailureFunc) *ContentGrouper {
	if chunkSize <= 0 {
		chunkSize = ChunkSize
	}
	if maxOpen <= 0 {
		maxOpen = defaultOpenFileBudget()
	}
	return &ContentGrouper{
		chunkSize: chunkSize,
		budget:    maxOpen,
		handles:   semaphore.NewWeighted(maxOpen),
		failure:   failure,
	}
}

// defaultOpenFileBudget derives a conservative open-handle cap from the
// process's file descriptor rlimit, leaving headroom for everything else
// the process has open
func defaultOpenFileBudget() int64 {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return 256
	}
	budget := int64(rl.Cur) / 2
	if budget < 64 {
		budget = 64
	}
	return budget
}

func (cg *ContentGrouper) reportFailure(path string, err error) {
	if cg.failure == nil {
		return
	}
	cg.mu.Lock()
	cg.failure(path, err)
	cg.mu.Unlock()
}

// GroupByContent compares one group of candidate paths byte for byte and
// returns every finished partition keyed by an arbitrary representative
// member. Singleton partitions (unique files) are included; callers filter
// them out. Files unreadable at open time are skipped via the failure hook.
func (cg *ContentGrouper) GroupByContent(ctx context.Context, paths []string) (map[string]Group, error) {
	// Hold semaphore weight for the whole group. Groups larger than the
	// global budget are clamped: they still run whole, since partition
	// refinement needs every member of a partition open at once.
	weight := int64(len(paths))
	if weight > cg.budget {
		weight = cg.budget
	}
	if err := cg.handles.Acquire(ctx, weight); err != nil {
		return nil, ErrInterrupted
	}
	outstanding := weight

	release := func(n int) {
		rel := int64(n)
		if rel > outstanding {
			rel = outstanding
		}
		if rel > 0 {
			cg.handles.Release(rel)
			outstanding -= rel
		}
	}

	var entry []*openChunk
	for _, path := range paths {
		handle, err := os.Open(path)
		if err != nil {
			cg.reportFailure(path, err)
			release(1)
			continue
		}
		entry = append(entry, &openChunk{
			path:   path,
			handle: handle,
			buf:    make([]byte, cg.chunkSize),
		})
	}

	var queue [][]*openChunk
	if len(entry) > 0 {
		queue = append(queue, entry)
	}

	defer func() {
		// Close whatever an early return left in flight
		for _, part := range queue {
			for _, f := range part {
				f.handle.Close()
			}
			release(len(part))
		}
		if outstanding > 0 {
			cg.handles.Release(outstanding)
			outstanding = 0
		}
	}()

	results := make(map[string]Group)
	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, ErrInterrupted
		default:
		}

		part := queue[0]
		queue = queue[1:]

		more, done := cg.compareChunks(part, release)
		queue = append(queue, more...)
		for _, group := range done {
			results[group[0]] = group
		}
	}

	return results, nil
}

// compareChunks advances one comparison round: it reads the next chunk from
// every still-open handle and partitions the files by exact chunk equality
// using the first unassigned file as a pivot, repeating on the remainder
// until every file belongs to exactly one partition. A partition is finished
// when it has a single member (provably unique within its group) or its
// members hit end-of-file together (identical in full); finished partitions
// have their handles closed immediately. Everything else is carried forward
// for another round.
func (cg *ContentGrouper) compareChunks(files []*openChunk, release func(int)) (more [][]*openChunk, done []Group) {
	remaining := make([]*openChunk, 0, len(files))
	for _, f := range files {
		n, err := io.ReadFull(f.handle, f.buf)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			cg.reportFailure(f.path, err)
			f.handle.Close()
			release(1)
			continue
		}
		f.chunk = f.buf[:n]
		remaining = append(remaining, f)
	}

	for len(remaining) > 0 {
		pivot := remaining[0]
		matches := []*openChunk{pivot}
		var nonMatches []*openChunk
		for _, f := range remaining[1:] {
			if bytes.Equal(pivot.chunk, f.chunk) {
				matches = append(matches, f)
			} else {
				nonMatches = append(nonMatches, f)
			}
		}

		if len(matches) == 1 || len(pivot.chunk) == 0 {
			group := make(Group, len(matches))
			for i, f := range matches {
				f.handle.Close()
				group[i] = f.path
			}
			release(len(matches))
			done = append(done, group)
		} else {
			more = append(more, matches)
		}
		remaining = nonMatches
	}

	return more, done
}

// GroupAll runs byte-for-byte comparison over every entry group, fanning the
// independent groups out across a bounded worker pool and assembling the
// final bucket map under a single lock. Singleton partitions are discarded
// here: every returned bucket holds two or more byte-identical files.
func (cg *ContentGrouper) GroupAll(ctx context.Context, groupsIn []Group, workers int, progress ProgressFunc) (map[string]Group, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu            sync.Mutex
		results       = make(map[string]Group)
		groupsDone    int
		filesExamined int
	)

	var eg errgroup.Group
	eg.SetLimit(workers)

	for _, paths := range groupsIn {
		select {
		case <-ctx.Done():
			eg.Wait()
			return nil, ErrInterrupted
		default:
		}

		eg.Go(func() error {
			sub, err := cg.GroupByContent(ctx, paths)
			if err != nil {
				return err
			}
			mu.Lock()
			for key, members := range sub {
				if len(members) > 1 {
					results[key] = members
				}
			}
			groupsDone++
			filesExamined += len(paths)
			if progress != nil {
				progress(StageContent, groupsDone, len(groupsIn), filesExamined)
			}
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if progress != nil {
		progress(StageContent, len(groupsIn), len(groupsIn), filesExamined)
	}
	VerboseLog(1, "stage %q: %d buckets from %d groups (%d files examined)",
		StageContent, len(results), len(groupsIn), filesExamined)

	return results, nil
}
