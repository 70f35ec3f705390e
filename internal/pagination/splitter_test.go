package pagination

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/gompdf/pagedoc/internal/text"
)

// testGeometry holds 60 monospace columns and 15 lines of height 10
func testGeometry() Geometry {
	return Geometry{
		PageSize:   PageSize{Width: 80, Height: 170, Name: "test"},
		Margins:    UniformMargins(10),
		LineHeight: 10,
	}
}

func testMeasurer() text.Measurer {
	return text.NewMonospace(1, 10)
}

// words returns n four-letter words; twelve fill a 60 column line
func words(n int) string {
	return strings.Repeat("abcd ", n)
}

func TestGeometry(t *testing.T) {
	g := testGeometry()
	assert.InDelta(t, 60.0, g.ContentWidth(), 1e-9)
	assert.InDelta(t, 150.0, g.UsableHeight(), 1e-9)
	assert.Equal(t, 15, g.MaxLines())
	assert.InDelta(t, 150.0, g.CapacityHeight(), 1e-9)
	require.NoError(t, g.Validate())

	d := DefaultGeometry()
	assert.Equal(t, 43, d.MaxLines())
	require.NoError(t, d.Validate())

	bad := g
	bad.LineHeight = 200
	assert.Error(t, bad.Validate())
}

func TestPageSizeOrientation(t *testing.T) {
	l := PageSizeA4.Landscape()
	assert.True(t, l.IsLandscape())
	assert.Equal(t, PageSizeA4.Width, l.Height)
	assert.Equal(t, PageSizeA4, l.Portrait())

	size, err := LookupPageSize("letter")
	require.NoError(t, err)
	assert.Equal(t, PageSizeLetter, size)

	_, err = LookupPageSize("B5")
	assert.Error(t, err)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", nil},
		{"words", "one two  three", []string{"one ", "two  ", "three"}},
		{"leading whitespace", "  one two", []string{"  one ", "two"}},
		{"trailing whitespace", "one two \n", []string{"one ", "two \n"}},
		{"whitespace only", "   ", []string{"   "}},
		{"tag attributes stay whole", `<span class="a b">x y</span>`, []string{`<span class="a b">x `, "y</span>"}},
		{"tags between words", "<p>a</p>\n<p>b</p>", []string{"<p>a</p>\n", "<p>b</p>"}},
		{"bare less-than is text", "if a < b then c", []string{"if ", "a ", "< ", "b ", "then ", "c"}},
		{"less-than before digit", "x<3 y", []string{"x<3 ", "y"}},
		{"comment stays whole", "a <!-- x y --> b", []string{"a ", "<!-- x y --> ", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.content)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.content, strings.Join(got, ""))
		})
	}
}

type countingMeasurer struct {
	next  text.Measurer
	calls int
}

func (c *countingMeasurer) Measure(content string, width float64) (float64, bool) {
	c.calls++
	return c.next.Measure(content, width)
}

func TestFitPrefixUsesLogarithmicMeasurements(t *testing.T) {
	tokens := Tokenize(words(1024))
	m := &countingMeasurer{next: testMeasurer()}

	k, ok := FitPrefix("", tokens, m, 60, 150)
	require.True(t, ok)
	assert.Equal(t, 180, k)
	assert.LessOrEqual(t, m.calls, 11)
}

func TestFitPrefixWithBase(t *testing.T) {
	base := words(12 * 14)
	k, ok := FitPrefix(base, Tokenize(words(20)), testMeasurer(), 60, 150)
	require.True(t, ok)
	assert.Equal(t, 12, k)
}

func TestFitPrefixUnknown(t *testing.T) {
	unknown := text.MeasurerFunc(func(string, float64) (float64, bool) { return 0, false })
	_, ok := FitPrefix("", Tokenize("a b c"), unknown, 60, 150)
	assert.False(t, ok)
}

func TestSplit(t *testing.T) {
	g := testGeometry()
	m := testMeasurer()

	t.Run("fits", func(t *testing.T) {
		content := words(100)
		res := Split(content, m, g.ContentWidth(), g.CapacityHeight())
		assert.True(t, res.Measured)
		assert.Equal(t, content, res.Keep)
		assert.Empty(t, res.Overflow)
	})

	t.Run("one extra word", func(t *testing.T) {
		content := words(181)
		res := Split(content, m, g.ContentWidth(), g.CapacityHeight())
		assert.Equal(t, words(180), res.Keep)
		assert.Equal(t, "abcd ", res.Overflow)
	})

	t.Run("first word too tall", func(t *testing.T) {
		content := strings.Repeat("x", 1000) + " tail"
		res := Split(content, m, g.ContentWidth(), g.CapacityHeight())
		assert.True(t, res.Measured)
		assert.Empty(t, res.Keep)
		assert.Equal(t, content, res.Overflow)
	})

	t.Run("unknown measurement never splits", func(t *testing.T) {
		content := words(1000)
		res := Split(content, m, 0, g.CapacityHeight())
		assert.False(t, res.Measured)
		assert.Equal(t, content, res.Keep)
		assert.Empty(t, res.Overflow)
	})
}

func TestDetector(t *testing.T) {
	d := Detector{Geometry: testGeometry(), Measurer: testMeasurer()}

	lines, ok := d.Lines(words(12*14 + 1))
	require.True(t, ok)
	assert.Equal(t, 15, lines)
	assert.False(t, d.IsOverflowing(words(180)))
	assert.True(t, d.IsOverflowing(words(181)))
	assert.False(t, d.IsOverflowing(""))

	unknown := Detector{Geometry: testGeometry(), Measurer: text.MeasurerFunc(func(string, float64) (float64, bool) {
		return 1e9, false
	})}
	assert.False(t, unknown.IsOverflowing(words(10000)))
}

func TestDetectorIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := Detector{Geometry: testGeometry(), Measurer: testMeasurer()}
		content := words(rapid.IntRange(0, 400).Draw(t, "words"))
		first := d.IsOverflowing(content)
		for i := 0; i < 3; i++ {
			if d.IsOverflowing(content) != first {
				t.Fatalf("verdict changed on call %d", i)
			}
		}
	})
}

func genWords(t *rapid.T, label string) string {
	ws := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,12}`), 0, 300).Draw(t, label)
	return strings.Join(ws, " ")
}

func TestSplitRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		content := genWords(t, "content")
		cols := float64(rapid.IntRange(12, 80).Draw(t, "cols"))
		lines := rapid.IntRange(1, 20).Draw(t, "lines")
		capacity := float64(lines) * 10
		m := testMeasurer()

		res := Split(content, m, cols, capacity)
		if res.Keep+res.Overflow != content {
			t.Fatalf("keep+overflow does not reconstruct content")
		}
		if res.Overflow == "" {
			return
		}

		h, _ := m.Measure(res.Keep, cols)
		if h > capacity {
			t.Fatalf("kept part is %v tall, capacity %v", h, capacity)
		}
		next := Tokenize(res.Overflow)[0]
		h, _ = m.Measure(res.Keep+next, cols)
		if h <= capacity {
			t.Fatalf("split is not maximal: next token still fits")
		}
	})
}

func TestJoinSeam(t *testing.T) {
	assert.Equal(t, "a b", joinSeam("a", "b"))
	assert.Equal(t, "a b", joinSeam("a ", "b"))
	assert.Equal(t, "a\nb", joinSeam("a", "\nb"))
	assert.Equal(t, "a", joinSeam("a", ""))
	assert.Equal(t, "b", joinSeam("", "b"))
}
