package siteindex_test

import (
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/siteindex"
	"github.com/stretchr/testify/assert"
)

func TestTruncateMarkup(t *testing.T) {
	t.Parallel()

	t.Run("keeps short input", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "<p>hi</p>", siteindex.TruncateMarkup("<p>hi</p>", 100))
	})

	t.Run("cuts long input", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "<p>", siteindex.TruncateMarkup("<p>hi</p>", 3))
	})

	t.Run("does not split a multi-byte character", func(t *testing.T) {
		t.Parallel()

		got := siteindex.TruncateMarkup("aé", 2)
		assert.Equal(t, "a", got)
		assert.True(t, utf8.ValidString(got))
	})
}
