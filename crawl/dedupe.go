package crawl

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultDedupeSize is the number of content hashes remembered by default.
const DefaultDedupeSize = 10000

// ContentDeduper detects pages whose Markdown is identical to a page seen
// earlier in the same run. Memory is bounded: once size hashes have been
// recorded the least recently matched ones are forgotten.
// It is safe for concurrent use.
type ContentDeduper struct {
	seen *lru.Cache[string, string]
}

// NewContentDeduper creates a deduper remembering up to size hashes.
func NewContentDeduper(size int) (*ContentDeduper, error) {
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &ContentDeduper{seen: cache}, nil
}

// Check records content for url. When the same content was already
// recorded for a different URL it returns that URL and true.
func (d *ContentDeduper) Check(url, content string) (string, bool) {
	hash := ComputeHash(content)
	if original, ok := d.seen.Get(hash); ok && original != url {
		return original, true
	}
	d.seen.Add(hash, url)
	return "", false
}

// Len returns the number of remembered hashes.
func (d *ContentDeduper) Len() int {
	return d.seen.Len()
}

// ComputeHash returns the xxhash of content as 16 hex digits.
func ComputeHash(content string) string {
	h := strconv.FormatUint(xxhash.Sum64String(content), 16)
	return strings.Repeat("0", 16-len(h)) + h
}
