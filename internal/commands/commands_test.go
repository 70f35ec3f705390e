package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// testConfig gives 60 monospace columns by 15 lines per page
const testConfig = `
page:
  width: 80
  height: 170
  margins: {top: 10, right: 10, bottom: 10, left: 10}
text:
  measurer: monospace
  line_height: 10
  char_width: 1
`

func setup(t *testing.T, content string) (dir, input string, flags *Flags) {
	t.Helper()
	dir = t.TempDir()
	cfgPath := filepath.Join(dir, "pagedoc.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(testConfig), 0o644))
	input = filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(input, []byte(content), 0o644))
	return dir, input, &Flags{ConfigPath: cfgPath}
}

func run(t *testing.T, flags *Flags, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := &cli.Command{Name: "pagedoc", Writer: &out}
	app = NewPaginateCmd(flags).Register(app)
	app = NewExportCmd(flags).Register(app)
	err := app.Run(context.Background(), append([]string{"pagedoc"}, args...))
	return out.String(), err
}

func TestPaginate(t *testing.T) {
	_, input, flags := setup(t, strings.Repeat("abcd ", 400))

	out, err := run(t, flags, "paginate", input)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "3 pages, 15 lines per page", lines[0])
	assert.Contains(t, lines[1], "lines  15/15")
	assert.Contains(t, lines[3], "lines   4/15")
}

func TestPaginatePreview(t *testing.T) {
	dir, _, flags := setup(t, "")
	input := filepath.Join(dir, "doc.html")
	require.NoError(t, os.WriteFile(input, []byte("<p>hello <b>world</b></p>"), 0o644))

	out, err := run(t, flags, "paginate", "--preview", "--width", "20", input)
	require.NoError(t, err)
	assert.Contains(t, out, "1 pages")
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, strings.Repeat("-", 20))
}

func TestPaginateArguments(t *testing.T) {
	_, _, flags := setup(t, "")

	_, err := run(t, flags, "paginate")
	assert.Error(t, err)

	_, err = run(t, flags, "paginate", "does-not-exist.txt")
	assert.Error(t, err)
}

func TestPaginatePlainTextIsEscaped(t *testing.T) {
	_, input, flags := setup(t, "if a < b && c > d")

	out, err := run(t, flags, "paginate", "--preview", input)
	require.NoError(t, err)
	assert.Contains(t, out, "if a < b && c > d")
}

func TestPaginateStdin(t *testing.T) {
	_, _, flags := setup(t, "")

	var out bytes.Buffer
	app := &cli.Command{Name: "pagedoc", Writer: &out, Reader: strings.NewReader(strings.Repeat("abcd ", 200))}
	app = NewPaginateCmd(flags).Register(app)
	require.NoError(t, app.Run(context.Background(), []string{"pagedoc", "paginate", "-"}))
	assert.True(t, strings.HasPrefix(out.String(), "2 pages"))
}

func TestExport(t *testing.T) {
	dir, input, flags := setup(t, strings.Repeat("abcd ", 400))
	output := filepath.Join(dir, "out", "doc.pdf")

	out, err := run(t, flags, "export", "-o", output, input)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 3 pages")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportDefaultOutput(t *testing.T) {
	dir, input, flags := setup(t, "short")

	_, err := run(t, flags, "export", input)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "doc.pdf"))
}

func TestExportDebugBoxes(t *testing.T) {
	dir, input, flags := setup(t, strings.Repeat("abcd ", 30))
	plain := filepath.Join(dir, "plain.pdf")
	boxed := filepath.Join(dir, "boxed.pdf")

	_, err := run(t, flags, "export", "-o", plain, input)
	require.NoError(t, err)
	_, err = run(t, flags, "export", "--debug-boxes", "-o", boxed, input)
	require.NoError(t, err)

	a, err := os.ReadFile(plain)
	require.NoError(t, err)
	b, err := os.ReadFile(boxed)
	require.NoError(t, err)
	assert.Greater(t, len(b), len(a))
}

func TestBadConfig(t *testing.T) {
	dir, input, _ := setup(t, "x")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("text:\n  measurer: magic\n"), 0o644))

	_, err := run(t, &Flags{ConfigPath: bad}, "paginate", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text.measurer")
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "notes.pdf", defaultOutput("notes.html"))
	assert.Equal(t, "dir/notes.pdf", defaultOutput("dir/notes"))
	assert.Equal(t, "document.pdf", defaultOutput("-"))
	assert.Equal(t, "document.pdf", defaultOutput("https://example.com/a.html"))
}
