package crawl

import (
	"github.com/cespare/xxhash/v2"
)

// Item is a queued URL and the link distance from the base URL.
type Item struct {
	URL   string
	Depth int
}

// Frontier is the FIFO crawl queue together with the set of URLs that have
// ever been enqueued. URLs are marked visited when pushed, not when fetched,
// so a URL is never queued twice. Frontier is owned by a single run and is
// not safe for concurrent use.
type Frontier struct {
	queue   []Item
	head    int
	visited map[uint64]struct{}
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{visited: make(map[uint64]struct{})}
}

// Push enqueues url at depth unless it was seen before.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(url string, depth int) bool {
	key := xxhash.Sum64String(url)
	if _, ok := f.visited[key]; ok {
		return false
	}
	f.visited[key] = struct{}{}
	f.queue = append(f.queue, Item{URL: url, Depth: depth})
	return true
}

// Pop dequeues the oldest item.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (Item, bool) {
	if f.head == len(f.queue) {
		return Item{}, false
	}
	it := f.queue[f.head]
	f.queue[f.head] = Item{}
	f.head++
	if f.head == len(f.queue) {
		f.queue = f.queue[:0]
		f.head = 0
	}
	return it, true
}

// Len returns the number of queued items.
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}
