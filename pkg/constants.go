package fastdupes

// Pipeline defaults
const (
	// ChunkSize is the size of chunked reads from file handles
	ChunkSize = 1 << 16

	// HeadSize limits how many bytes are read when comparing file headers
	HeadSize = 1 << 14

	// DefaultMinSize is the smallest file size (in bytes) considered for
	// duplicate detection unless configured otherwise
	DefaultMinSize = 25
)

// Stage names reported through the progress hook
const (
	StagePaths   = "paths"
	StageSizes   = "sizes"
	StageHeaders = "header hashes"
	StageHashes  = "hashes"
	StageContent = "contents"
)

// Hash size constants
const (
	HashSizeSHA1   = 20 // SHA-1 hash size in bytes
	HashSizeSHA256 = 32 // SHA-256 hash size in bytes
	HashSizeSHA512 = 64 // SHA-512 hash size in bytes
)

// DefaultHashAlgorithm is the digest used for header and full-content
// hashing when no algorithm is configured
const DefaultHashAlgorithm = "sha1"

// maxIovecsPerWritev limits the batch size passed to a single writev call
// to stay under the kernel's IOV_MAX
const maxIovecsPerWritev = 1024
