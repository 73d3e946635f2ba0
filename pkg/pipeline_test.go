package fastdupes

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findDuplicatesModes(t *testing.T, paths []string, base Options) map[string][]DuplicateGroup {
	t.Helper()
	results := make(map[string][]DuplicateGroup)
	for name, exact := range map[string]bool{"hash": false, "exact": true} {
		opts := base
		opts.Exact = exact
		groups, err := FindDuplicates(paths, opts)
		require.NoError(t, err, "mode %s", name)
		results[name] = groups
	}
	return results
}

func TestFindDuplicates_NoInput(t *testing.T) {
	_, err := FindDuplicates(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoInput)

	_, err = FindDuplicates([]string{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestFindDuplicates_NegativeMinSize(t *testing.T) {
	opts := DefaultOptions()
	opts.MinSize = -1
	_, err := FindDuplicates([]string{"/tmp/whatever"}, opts)
	assert.ErrorIs(t, err, ErrInvalidMinSize)
}

func TestFindDuplicates_UnknownAlgorithm(t *testing.T) {
	opts := DefaultOptions()
	opts.Algorithm = "crc32"
	_, err := FindDuplicates([]string{"/tmp/whatever"}, opts)
	assert.Error(t, err)
}

func TestFindDuplicates_ThreeIdenticalFiles(t *testing.T) {
	tempDir := t.TempDir()
	content := bytes.Repeat([]byte("triplicate "), 20)
	a := writeTestFile(t, tempDir, "a.dat", content)
	b := writeTestFile(t, tempDir, "b.dat", content)
	c := writeTestFile(t, tempDir, "c.dat", content)

	for mode, groups := range findDuplicatesModes(t, []string{a, b, c}, DefaultOptions()) {
		require.Len(t, groups, 1, "mode %s", mode)
		assert.Equal(t, []string{a, b, c}, groups[0].Files, "mode %s", mode)
		assert.Equal(t, 3, groups[0].Count, "mode %s", mode)
	}
}

func TestFindDuplicates_DifferentSizesNeverGrouped(t *testing.T) {
	tempDir := t.TempDir()
	a := writeTestFile(t, tempDir, "a.dat", bytes.Repeat([]byte("x"), 100))
	b := writeTestFile(t, tempDir, "b.dat", bytes.Repeat([]byte("x"), 101))

	for mode, groups := range findDuplicatesModes(t, []string{a, b}, DefaultOptions()) {
		assert.Empty(t, groups, "mode %s", mode)
	}
}

func TestFindDuplicates_SmallFilesExcludedByDefault(t *testing.T) {
	tempDir := t.TempDir()
	content := []byte("tiny dup") // 8 bytes, below the default minimum
	a := writeTestFile(t, tempDir, "a.dat", content)
	b := writeTestFile(t, tempDir, "b.dat", content)

	for mode, groups := range findDuplicatesModes(t, []string{a, b}, DefaultOptions()) {
		assert.Empty(t, groups, "mode %s", mode)
	}

	// With the minimum lowered they pair up
	opts := DefaultOptions()
	opts.MinSize = 0
	for mode, groups := range findDuplicatesModes(t, []string{a, b}, opts) {
		require.Len(t, groups, 1, "mode %s", mode)
		assert.Equal(t, []string{a, b}, groups[0].Files, "mode %s", mode)
	}
}

func TestFindDuplicates_EmptyFilesExcludedByDefault(t *testing.T) {
	tempDir := t.TempDir()
	a := writeTestFile(t, tempDir, "a.dat", nil)
	b := writeTestFile(t, tempDir, "b.dat", nil)

	groups, err := FindDuplicates([]string{a, b}, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestFindDuplicates_SameHeaderDifferentTail(t *testing.T) {
	tempDir := t.TempDir()
	// Large enough that the whole header-hash window matches; only the
	// last byte distinguishes them, so the final stage must do the work.
	content := bytes.Repeat([]byte{0}, int(HeadSize)*2)
	a := writeTestFile(t, tempDir, "a.dat", content)

	altered := append(append([]byte(nil), content[:len(content)-1]...), 1)
	b := writeTestFile(t, tempDir, "b.dat", altered)

	for mode, groups := range findDuplicatesModes(t, []string{a, b}, DefaultOptions()) {
		assert.Empty(t, groups, "mode %s", mode)
	}
}

func TestFindDuplicates_HashAndExactAgree(t *testing.T) {
	tempDir := t.TempDir()
	contentA := bytes.Repeat([]byte("alpha content "), 500)
	contentB := bytes.Repeat([]byte("bravo content "), 500)

	paths := []string{
		writeTestFile(t, tempDir, "a1.dat", contentA),
		writeTestFile(t, tempDir, "a2.dat", contentA),
		writeTestFile(t, tempDir, "a3.dat", contentA),
		writeTestFile(t, tempDir, "b1.dat", contentB),
		writeTestFile(t, tempDir, "b2.dat", contentB),
		writeTestFile(t, tempDir, "lone.dat", bytes.Repeat([]byte("charlie "), 500)),
	}

	results := findDuplicatesModes(t, paths, DefaultOptions())

	var fileSets [2][][]string
	for i, mode := range []string{"hash", "exact"} {
		for _, group := range results[mode] {
			fileSets[i] = append(fileSets[i], group.Files)
		}
	}
	assert.Equal(t, fileSets[0], fileSets[1])
	require.Len(t, results["hash"], 2)
}

func TestFindDuplicates_Idempotent(t *testing.T) {
	tempDir := t.TempDir()
	content := bytes.Repeat([]byte("stable "), 100)
	a := writeTestFile(t, tempDir, "a.dat", content)
	b := writeTestFile(t, tempDir, "b.dat", content)

	first, err := FindDuplicates([]string{a, b}, DefaultOptions())
	require.NoError(t, err)
	second, err := FindDuplicates([]string{a, b}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFindDuplicates_VanishedFileDropped(t *testing.T) {
	tempDir := t.TempDir()
	content := bytes.Repeat([]byte("survivor "), 50)
	a := writeTestFile(t, tempDir, "a.dat", content)
	b := writeTestFile(t, tempDir, "b.dat", content)
	ghost := filepath.Join(tempDir, "ghost.dat")

	var (
		mu       sync.Mutex
		failures []string
	)
	opts := DefaultOptions()
	opts.Failure = func(path string, err error) {
		mu.Lock()
		failures = append(failures, path)
		mu.Unlock()
	}

	groups, err := FindDuplicates([]string{a, ghost, b}, opts)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{a, b}, groups[0].Files)
	assert.Equal(t, []string{ghost}, failures)
}

func TestFindDuplicates_ShutdownInterrupts(t *testing.T) {
	tempDir := t.TempDir()
	content := bytes.Repeat([]byte("cancel "), 100)
	a := writeTestFile(t, tempDir, "a.dat", content)
	b := writeTestFile(t, tempDir, "b.dat", content)

	shutdown := make(chan struct{})
	close(shutdown)

	opts := DefaultOptions()
	opts.Shutdown = shutdown
	_, err := FindDuplicates([]string{a, b}, opts)
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestFindDuplicates_ProgressStages(t *testing.T) {
	tempDir := t.TempDir()
	content := bytes.Repeat([]byte("observe "), 100)
	a := writeTestFile(t, tempDir, "a.dat", content)
	b := writeTestFile(t, tempDir, "b.dat", content)

	var (
		mu     sync.Mutex
		stages = make(map[string]bool)
	)
	opts := DefaultOptions()
	opts.Progress = func(stage string, groupsDone, groupsTotal, filesExamined int) {
		mu.Lock()
		stages[stage] = true
		mu.Unlock()
	}

	_, err := FindDuplicates([]string{a, b}, opts)
	require.NoError(t, err)
	assert.True(t, stages[StageSizes])
	assert.True(t, stages[StageHeaders])
	assert.True(t, stages[StageHashes])
	assert.False(t, stages[StageContent])

	stages = make(map[string]bool)
	opts.Exact = true
	_, err = FindDuplicates([]string{a, b}, opts)
	require.NoError(t, err)
	assert.True(t, stages[StageContent])
	assert.False(t, stages[StageHashes])
}

func TestFindDuplicates_SortedOutput(t *testing.T) {
	tempDir := t.TempDir()
	contentX := bytes.Repeat([]byte("xx"), 100)
	contentY := bytes.Repeat([]byte("yy"), 100)

	// Deliberately unsorted input
	paths := []string{
		writeTestFile(t, tempDir, "z-second.dat", contentY),
		writeTestFile(t, tempDir, "m-first.dat", contentX),
		writeTestFile(t, tempDir, "a-first.dat", contentX),
		writeTestFile(t, tempDir, "b-second.dat", contentY),
	}

	groups, err := FindDuplicates(paths, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{
		filepath.Join(tempDir, "a-first.dat"),
		filepath.Join(tempDir, "m-first.dat"),
	}, groups[0].Files)
	assert.Equal(t, []string{
		filepath.Join(tempDir, "b-second.dat"),
		filepath.Join(tempDir, "z-second.dat"),
	}, groups[1].Files)
}
