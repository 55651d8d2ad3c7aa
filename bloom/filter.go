// Package bloom tracks which sitemap documents a download has already
// visited. A Bloom filter answers most first-time lookups; an exact set
// confirms every possible hit, so no URL is ever reported as seen wrongly.
package bloom

import (
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Set is an exact set of URLs safe for concurrent use.
type Set struct {
	mu   sync.Mutex
	f    *bloom.BloomFilter
	seen map[string]struct{}
}

// NewSet creates a Set whose pre-check filter is sized for n expected URLs
// with the given false positive rate. Exceeding n only makes the pre-check
// less useful; membership stays exact.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		f:    bloom.NewWithEstimates(n, fpRate),
		seen: make(map[string]struct{}),
	}
}

// Visit records url and reports whether it was seen for the first time.
// URL fragments are ignored.
func (s *Set) Visit(url string) bool {
	url = stripFragment(url)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f.TestOrAddString(url) {
		if _, ok := s.seen[url]; ok {
			return false
		}
	}
	s.seen[url] = struct{}{}
	return true
}

// Len returns the number of distinct URLs visited.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
