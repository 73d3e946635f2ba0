package fastdupes

import (
	"encoding/hex"
	"fmt"
	"os"
)

// SizeClassifier returns a classifier keying each path by its on-disk size.
// It uses the non-dereferencing stat form, so symlinks are recognised and
// excluded rather than followed. Files below minSize and anything that is
// not a regular file are excluded as well. This is the cheapest filter in
// the pipeline: no file content is read at all.
func SizeClassifier(minSize int64) Classifier[int64] {
	return func(path string) (int64, bool, error) {
		info, err := os.Lstat(path)
		if err != nil {
			return 0, false, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return 0, false, nil // Skip symlinks
		}
		if !info.Mode().IsRegular() {
			return 0, false, nil
		}
		if info.Size() < minSize {
			return 0, false, nil // Skip files below the size limit
		}
		return info.Size(), true, nil
	}
}

// HashClassifier returns a classifier keying each path by a content digest.
// A positive limit hashes only the file's header (rounded up to a whole
// chunk); a limit of 0 hashes the entire file. Interruption via the
// shutdown channel is propagated as a fatal error, not a per-path drop.
func HashClassifier(algorithm *HashAlgorithm, limit int64, chunkSize int, shutdownChan <-chan struct{}) Classifier[string] {
	return func(path string) (string, bool, error) {
		digest, err := HashFileLimit(path, algorithm, limit, chunkSize, shutdownChan)
		if err != nil {
			return "", false, err
		}
		return hex.EncodeToString(digest), true, nil
	}
}
