// Package build implements the incremental page generation pipeline: output
// path resolution, content digests, the cache gate that skips unchanged files,
// the race-tolerant directory writer and the generator that drives them.
package build

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hasher computes stable digests of rendered output. Digests are used to
// detect changes only.
type Hasher interface {
	Digest(text string) string
}

// XXHasher digests content with xxHash64.
type XXHasher struct{}

// NewHasher returns the default content hasher.
func NewHasher() XXHasher {
	return XXHasher{}
}

// Digest returns the 16 character hex digest of text.
func (XXHasher) Digest(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}
