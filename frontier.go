package websum

import "context"

// QueuedURL is a crawl work item tagged with its traversal depth.
type QueuedURL struct {
	URL    string
	Depth  int
	Parent string
}

// URLFrontier is a FIFO crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a URL to the back of the queue.
	// Returns false if the URL has already been queued.
	Push(item QueuedURL) bool

	// Pop removes the oldest queued URL.
	// Returns false if the frontier is empty.
	Pop() (QueuedURL, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been queued at some point.
	Seen(url string) bool
}

// DomainLimiter provides per-host rate limiting.
type DomainLimiter interface {
	// Wait blocks until a request to the host is allowed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
