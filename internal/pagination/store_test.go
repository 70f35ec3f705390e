package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreHasOneEmptyPage(t *testing.T) {
	s := NewStore(nil)
	require.Equal(t, 1, s.Len())
	p, ok := s.At(0)
	require.True(t, ok)
	assert.NotEmpty(t, p.ID)
	assert.Empty(t, p.Content)
}

func TestStoreAddPage(t *testing.T) {
	s := NewStore(nil)
	first, _ := s.At(0)

	last := s.AddPage(-1)
	middle := s.AddPage(0)

	pages := s.Pages()
	require.Len(t, pages, 3)
	assert.Equal(t, first.ID, pages[0].ID)
	assert.Equal(t, middle, pages[1].ID)
	assert.Equal(t, last, pages[2].ID)
	assert.Equal(t, 1, s.Index(middle))
	assert.Equal(t, -1, s.Index("missing"))

	appended := s.AddPage(99)
	assert.Equal(t, 3, s.Index(appended))
}

func TestStoreIDsAreNeverReused(t *testing.T) {
	s := NewStore(nil)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := s.AddPage(-1)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		if i%2 == 0 {
			require.True(t, s.RemoveIfEmpty(id))
		}
	}
}

func TestStoreSetContent(t *testing.T) {
	s := NewStore(nil)
	p, _ := s.At(0)

	require.NoError(t, s.SetContent(p.ID, "hello"))
	got, ok := s.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, "hello", got.Content)

	assert.ErrorIs(t, s.SetContent("nope", "x"), ErrPageNotFound)
}

func TestStorePagesIsACopy(t *testing.T) {
	s := NewStore(nil)
	pages := s.Pages()
	pages[0].Content = "mutated"

	p, _ := s.At(0)
	assert.Empty(t, p.Content)
}

func TestStoreRemoveIfEmpty(t *testing.T) {
	s := NewStore(nil)
	only, _ := s.At(0)
	assert.False(t, s.RemoveIfEmpty(only.ID), "only page is kept")

	second := s.AddPage(-1)
	require.NoError(t, s.SetContent(second, "<p>text</p>"))
	assert.False(t, s.RemoveIfEmpty(second), "non-blank page is kept")

	require.NoError(t, s.SetContent(second, "<p> </p>"))
	assert.True(t, s.RemoveIfEmpty(second))
	assert.Equal(t, 1, s.Len())
	assert.False(t, s.RemoveIfEmpty("missing"))
}

func TestStoreNotifies(t *testing.T) {
	var gotContent string
	var gotCount, calls int
	s := NewStore(func(content string, pageCount int) {
		gotContent = content
		gotCount = pageCount
		calls++
	})

	p, _ := s.At(0)
	require.NoError(t, s.SetContent(p.ID, "one"))
	id := s.AddPage(-1)
	require.NoError(t, s.SetContent(id, "two"))

	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, gotCount)
	assert.Equal(t, "one"+PageBreak+"two", gotContent)

	s.Reset(nil)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 1, gotCount)
	assert.Equal(t, "", gotContent)
}

func TestStoreTotalContentRoundTrip(t *testing.T) {
	s := NewStore(nil)
	s.Reset([]string{"<p>a</p>", "b", ""})

	joined := s.TotalContent()
	assert.Equal(t, []string{"<p>a</p>", "b", ""}, SplitContent(joined))
	assert.Equal(t, "<p>a</p>b", s.Concat())
}

func TestSplitContent(t *testing.T) {
	assert.Equal(t, []string{"plain"}, SplitContent("plain"))
	assert.Equal(t, []string{"a", "b"},
		SplitContent(`a<div style="page-break-after: always"></div>b`))
}
