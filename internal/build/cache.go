package build

import (
	"github.com/spf13/afero"

	"github.com/conneroisu/docsite/internal/errors"
)

// DecisionReason explains a cache decision.
type DecisionReason int

const (
	// ReasonNoExistingFile means the existing output could not be read,
	// whether it is missing or unreadable.
	ReasonNoExistingFile DecisionReason = iota
	// ReasonDigestMismatch means the output exists with different content.
	ReasonDigestMismatch
	// ReasonDigestMatch means the output is already up to date.
	ReasonDigestMatch
)

// String returns the string representation of the reason
func (r DecisionReason) String() string {
	switch r {
	case ReasonNoExistingFile:
		return "no-existing-file"
	case ReasonDigestMismatch:
		return "digest-mismatch"
	case ReasonDigestMatch:
		return "digest-match"
	default:
		return "unknown"
	}
}

// CacheDecision is the outcome of comparing fresh output with the file on disk.
type CacheDecision struct {
	Write  bool
	Reason DecisionReason
	// ReadErr holds the read failure behind ReasonNoExistingFile, if any.
	// It is informational; the decision is already "write".
	ReadErr error
}

// CacheGate decides whether rendered output needs to be written. The HTML
// files on disk are the cache: nothing else is persisted between runs.
type CacheGate struct {
	fs     afero.Fs
	hasher Hasher
}

// NewCacheGate creates a gate reading existing output from fs.
func NewCacheGate(fs afero.Fs, hasher Hasher) *CacheGate {
	if hasher == nil {
		hasher = NewHasher()
	}
	return &CacheGate{fs: fs, hasher: hasher}
}

// Decide compares newText with the content of existingPath. Any read error
// resolves to a write: an unnecessary write is preferred over a stale file.
func (g *CacheGate) Decide(newText, existingPath string) CacheDecision {
	data, err := afero.ReadFile(g.fs, existingPath)
	if err != nil {
		return CacheDecision{
			Write:   true,
			Reason:  ReasonNoExistingFile,
			ReadErr: errors.NewCacheReadError(existingPath, err),
		}
	}

	if g.hasher.Digest(string(data)) != g.hasher.Digest(newText) {
		return CacheDecision{Write: true, Reason: ReasonDigestMismatch}
	}

	return CacheDecision{Write: false, Reason: ReasonDigestMatch}
}

// ShouldWrite reports whether newText differs from the file at existingPath.
func (g *CacheGate) ShouldWrite(newText, existingPath string) bool {
	return g.Decide(newText, existingPath).Write
}
