package pagination

import (
	"strings"

	"github.com/gompdf/pagedoc/internal/cursor"
	"github.com/gompdf/pagedoc/internal/parser/html"
)

// Paste inserts blob into a page at a character offset, spreading it over as
// many new pages as it needs. Each new page is filled one frame after it is
// created. Pastes queue behind any running split or paste.
func (e *Engine) Paste(id string, offset int, blob string) error {
	if e.closed {
		return ErrClosed
	}
	if _, ok := e.store.Get(id); !ok {
		return ErrPageNotFound
	}
	e.enqueue(op{kind: opPaste, pageID: id, run: func() {
		e.startPaste(id, offset, blob)
	}})
	return nil
}

// pasteJob is the state of a paste between frames
type pasteJob struct {
	e      *Engine
	pageID string
	head   string
	tail   string
	tokens []string
	next   int
	pages  int
}

func (e *Engine) startPaste(id string, offset int, blob string) {
	page, ok := e.store.Get(id)
	if !ok {
		e.release()
		return
	}
	at := html.IndexOf(page.Content, offset)
	job := &pasteJob{
		e:      e,
		pageID: id,
		head:   page.Content[:at],
		tail:   page.Content[at:],
		tokens: Tokenize(blob),
	}
	e.log.Debug().
		Str("page", id).
		Int("tokens", len(job.tokens)).
		Msg("paste started")
	job.step()
}

// step fills the current page with as many of the remaining tokens as fit.
// Every step either consumes a token or moves to a fresh empty page, and a
// fresh page always takes at least one token, so the job ends after at most
// one page per token plus one.
func (j *pasteJob) step() {
	e := j.e
	if e.closed {
		return
	}
	if _, ok := e.store.Get(j.pageID); !ok {
		e.log.Debug().Str("page", j.pageID).Msg("paste target removed, abandoning paste")
		e.release()
		return
	}

	remaining := j.tokens[j.next:]
	if len(remaining) == 0 {
		j.finish()
		return
	}

	k, ok := FitPrefix(j.head, remaining, e.measurer, e.geometry.ContentWidth(), e.geometry.CapacityHeight())
	if !ok {
		k = len(remaining)
	}
	if k == 0 {
		if !html.IsBlank(j.head) {
			j.newPage()
			return
		}
		k = 1
	}

	j.head += strings.Join(remaining[:k], "")
	j.next += k
	_ = e.store.SetContent(j.pageID, j.head)

	if j.next < len(j.tokens) {
		j.newPage()
		return
	}
	j.finish()
}

// newPage leaves the current page as it is and continues on a new page right
// after it, once the new page has attached.
func (j *pasteJob) newPage() {
	e := j.e
	_ = e.store.SetContent(j.pageID, j.head)
	id := e.store.AddPage(e.store.Index(j.pageID))
	e.attachLater(id)
	j.pageID = id
	j.head = ""
	j.pages++
	e.loop.Post(j.step)
}

// finish puts the content that followed the insertion point back after the
// pasted text and hands the last page to the normal overflow pipeline.
func (j *pasteJob) finish() {
	e := j.e
	offset := html.Len(j.head)
	content := j.head + j.tail
	_ = e.store.SetContent(j.pageID, content)
	e.cursor = Cursor{PageID: j.pageID, Offset: cursor.Clamp(content, offset)}

	e.log.Debug().
		Str("page", j.pageID).
		Int("new_pages", j.pages).
		Msg("paste finished")

	e.release()
	e.Check(j.pageID)
}
