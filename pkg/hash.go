package fastdupes

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	Size    int
	NewFunc func() hash.Hash
}

// GetHashAlgorithm returns the hash algorithm configuration for the given name.
// All supported digests are at least 160 bits wide so that a digest match can
// be treated as content equality with astronomically small residual collision
// risk. Callers wanting zero collision risk must use content comparison
// instead of hashing; the two modes are mutually exclusive.
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return &HashAlgorithm{
			Name:    "sha1",
			Size:    HashSizeSHA1,
			NewFunc: func() hash.Hash { return sha1.New() },
		}, nil
	case "sha256":
		return &HashAlgorithm{
			Name:    "sha256",
			Size:    HashSizeSHA256,
			NewFunc: func() hash.Hash { return sha256.New() },
		}, nil
	case "sha512":
		return &HashAlgorithm{
			Name:    "sha512",
			Size:    HashSizeSHA512,
			NewFunc: func() hash.Hash { return sha512.New() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", name)
	}
}

// HashFileLimit calculates the hash of a file's leading bytes, reading in
// chunks of chunkSize to bound memory regardless of file size. If limit > 0
// only the first limit bytes are consumed, rounded up to a whole chunk;
// reading stops early even if more file data remains. A limit of 0 hashes
// the entire file. Checks for shutdown signals between chunk reads for
// graceful interruption.
func HashFileLimit(filePath string, algorithm *HashAlgorithm, limit int64, chunkSize int, shutdownChan <-chan struct{}) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	if chunkSize <= 0 {
		chunkSize = ChunkSize
	}
	if limit > 0 && int64(chunkSize) > limit {
		chunkSize = int(limit)
	}

	hasher := algorithm.NewFunc()
	buffer := make([]byte, chunkSize)

	var read int64
	for {
		// Check for shutdown signal before each read
		select {
		case <-shutdownChan:
			return nil, ErrInterrupted
		default:
		}

		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			read += int64(n)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}

		if limit > 0 && read >= limit {
			// Header hash complete; skip the rest of the file
			break
		}
	}

	return hasher.Sum(nil), nil
}

// HashFile calculates the hash of a file's full contents
func HashFile(filePath string, algorithm *HashAlgorithm) ([]byte, error) {
	return HashFileLimit(filePath, algorithm, 0, ChunkSize, nil)
}

// HashFileToHexString calculates the hash of a file and returns it as a hex string
func HashFileToHexString(filePath string, algorithm *HashAlgorithm) (string, error) {
	hashBytes, err := HashFile(filePath, algorithm)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(hashBytes), nil
}
