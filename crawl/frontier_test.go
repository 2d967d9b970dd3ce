package crawl_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/siteindex/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()

	assert.True(t, f.Push("https://example.com/docs/page1", 0), "first push should succeed")
	assert.False(t, f.Push("https://example.com/docs/page1", 1), "duplicate URL should be rejected")
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_Pop_returns_items_in_insertion_order(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push("https://example.com/a", 0)
	f.Push("https://example.com/b", 1)
	f.Push("https://example.com/c", 1)

	for _, want := range []crawl.Item{
		{URL: "https://example.com/a", Depth: 0},
		{URL: "https://example.com/b", Depth: 1},
		{URL: "https://example.com/c", Depth: 1},
	} {
		got, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := f.Pop()
	assert.False(t, ok, "empty frontier should report false")
}

func TestFrontier_dedup_survives_Pop(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push("https://example.com/a", 0)
	_, _ = f.Pop()

	assert.False(t, f.Push("https://example.com/a", 0), "popped URL must not be re-queued")
	assert.True(t, f.Push("https://example.com/b", 0))
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_interleaved_push_and_pop(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	var got []string
	f.Push("u0", 0)
	for i := 1; i < 50; i++ {
		it, ok := f.Pop()
		assert.True(t, ok)
		got = append(got, it.URL)
		f.Push(fmt.Sprintf("u%d", i), it.Depth+1)
	}

	assert.Len(t, got, 49)
	assert.Equal(t, "u48", got[48])
	assert.False(t, f.Push("u0", 0), "every pushed URL stays deduplicated")
	assert.Equal(t, 1, f.Len())
}
