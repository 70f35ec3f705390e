package pagination

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/gompdf/pagedoc/internal/cursor"
	"github.com/gompdf/pagedoc/internal/frame"
	"github.com/gompdf/pagedoc/internal/parser/html"
	"github.com/gompdf/pagedoc/internal/text"
)

// Options represents options for the pagination engine
type Options struct {
	Geometry Geometry
	Measurer text.Measurer

	// Loop receives all deferred work. A private loop is created if nil.
	Loop *frame.Loop
	// Clock drives the edit debounce. Defaults to frame.RealClock.
	Clock frame.Clock
	// Debounce is the quiet period after an edit before the page is
	// checked. Zero means frame.DefaultDebounce and a negative value checks
	// in the next frame.
	Debounce time.Duration

	Logger zerolog.Logger
}

// Cursor is the edit position: a character offset into a page's plain text
type Cursor struct {
	PageID string
	Offset int
}

type opKind int

const (
	opSplit opKind = iota
	opPaste
)

// op is a unit of work that needs exclusive use of the document
type op struct {
	kind   opKind
	pageID string
	run    func()
}

// Engine keeps a document's pages within their capacity as they are
// edited. It is not safe for concurrent use: every method and every frame of
// the loop must run on the same goroutine.
type Engine struct {
	store     *Store
	geometry  Geometry
	measurer  text.Measurer
	detector  Detector
	loop      *frame.Loop
	debouncer *frame.Debouncer
	log       zerolog.Logger

	states   map[string]State
	attached map[string]bool
	cursor   Cursor

	// single slot: at most one split or paste owns the document at a time
	busy    bool
	current op
	queue   []op

	closed bool
}

// NewEngine creates an engine over store. Pages already in the store are
// considered attached to the surface.
func NewEngine(store *Store, opts Options) *Engine {
	if opts.Geometry == (Geometry{}) {
		opts.Geometry = DefaultGeometry()
	}
	if opts.Measurer == nil {
		opts.Measurer = text.NewMonospace(7, opts.Geometry.LineHeight)
	}
	if opts.Loop == nil {
		opts.Loop = frame.NewLoop()
	}
	if opts.Clock == nil {
		opts.Clock = frame.RealClock{}
	}
	delay := opts.Debounce
	if delay == 0 {
		delay = frame.DefaultDebounce
	}

	e := &Engine{
		store:     store,
		geometry:  opts.Geometry,
		measurer:  opts.Measurer,
		detector:  Detector{Geometry: opts.Geometry, Measurer: opts.Measurer},
		loop:      opts.Loop,
		debouncer: frame.NewDebouncer(opts.Loop, opts.Clock, delay),
		log:       opts.Logger,
		states:    make(map[string]State),
		attached:  make(map[string]bool),
	}
	for _, p := range store.Pages() {
		e.attached[p.ID] = true
		e.states[p.ID] = Stable
	}
	if first, ok := store.At(0); ok {
		e.cursor = Cursor{PageID: first.ID}
	}
	return e
}

// Store returns the page store the engine manages
func (e *Engine) Store() *Store { return e.store }

// Geometry returns the page geometry
func (e *Engine) Geometry() Geometry { return e.geometry }

// Loop returns the frame loop the engine schedules on
func (e *Engine) Loop() *frame.Loop { return e.loop }

// State returns the lifecycle state of a page
func (e *Engine) State(id string) State {
	return e.states[id]
}

// Busy reports whether a split or paste currently owns the document
func (e *Engine) Busy() bool { return e.busy }

// Cursor returns the edit position
func (e *Engine) Cursor() Cursor { return e.cursor }

// SetCursor moves the edit position, clamping the offset to the page's text
func (e *Engine) SetCursor(c Cursor) error {
	page, ok := e.store.Get(c.PageID)
	if !ok {
		return ErrPageNotFound
	}
	e.cursor = Cursor{PageID: page.ID, Offset: cursor.Clamp(page.Content, c.Offset)}
	return nil
}

// Focus makes sure the cursor sits on an existing page and returns it. A
// cursor on a removed page moves to the end of the last page.
func (e *Engine) Focus() Cursor {
	if page, ok := e.store.Get(e.cursor.PageID); ok {
		e.cursor.Offset = cursor.Clamp(page.Content, e.cursor.Offset)
		return e.cursor
	}
	e.cursorToEnd()
	return e.cursor
}

func (e *Engine) cursorToEnd() {
	last, ok := e.store.At(e.store.Len() - 1)
	if !ok {
		return
	}
	e.cursor = Cursor{PageID: last.ID, Offset: html.Len(last.Content)}
}

// Edit replaces a page's content with what the user typed and schedules a
// debounced overflow check. Edits are applied in the order they arrive.
func (e *Engine) Edit(id, content string, cursorOffset int) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.store.SetContent(id, content); err != nil {
		return err
	}
	e.cursor = Cursor{PageID: id, Offset: cursor.Clamp(content, cursorOffset)}
	e.states[id] = PendingCheck
	e.debouncer.Trigger(id, func() { e.runCheck(id) })
	return nil
}

// Check schedules an overflow check of a page for the next frame, without
// waiting for the debounce.
func (e *Engine) Check(id string) {
	if e.closed {
		return
	}
	e.states[id] = PendingCheck
	e.loop.Post(func() { e.runCheck(id) })
}

// Load replaces the document and checks every page. The new pages attach in
// the next frame, then are checked in order.
func (e *Engine) Load(contents []string) {
	if e.closed {
		return
	}
	for id := range e.states {
		e.debouncer.Cancel(id)
	}
	e.states = make(map[string]State)
	e.attached = make(map[string]bool)
	e.queue = nil

	e.store.Reset(contents)
	pages := e.store.Pages()
	for _, p := range pages {
		e.attachLater(p.ID)
	}
	for _, p := range pages {
		e.Check(p.ID)
	}
	e.cursor = Cursor{PageID: pages[0].ID}
}

// Close cancels pending debounce timers and discards scheduled frame work
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.debouncer.Stop()
	e.loop.Close()
	e.queue = nil
}

// attachLater marks a page as attached to the surface in the next frame.
// Until then it cannot be measured.
func (e *Engine) attachLater(id string) {
	e.states[id] = Stable
	e.loop.Post(func() { e.attached[id] = true })
}

// runCheck is the deferred overflow check of one page
func (e *Engine) runCheck(id string) {
	if e.closed {
		return
	}
	page, ok := e.store.Get(id)
	if !ok {
		delete(e.states, id)
		return
	}
	if !e.attached[id] {
		e.log.Debug().Str("page", id).Msg("page not attached, assuming it fits")
		e.states[id] = Stable
		e.cleanup()
		return
	}
	if !e.detector.IsOverflowing(page.Content) {
		e.states[id] = Stable
		e.cleanup()
		return
	}

	e.states[id] = Overflowing
	e.enqueue(op{kind: opSplit, pageID: id, run: func() { e.split(id) }})
}

// enqueue hands o to the single slot. A split for a page that already has a
// split waiting is dropped, since the waiting one re-reads the content.
// Pastes always queue.
func (e *Engine) enqueue(o op) {
	if o.kind == opSplit {
		if e.busy && e.current.kind == opSplit && e.current.pageID == o.pageID {
			e.log.Debug().Str("page", o.pageID).Msg("split already in flight, coalesced")
			return
		}
		for _, q := range e.queue {
			if q.kind == opSplit && q.pageID == o.pageID {
				e.log.Debug().Str("page", o.pageID).Msg("split already queued, coalesced")
				return
			}
		}
	}
	e.queue = append(e.queue, o)
	e.pump()
}

// pump starts the next queued op if the slot is free
func (e *Engine) pump() {
	if e.closed || e.busy || len(e.queue) == 0 {
		return
	}
	o := e.queue[0]
	e.queue = e.queue[1:]
	e.busy = true
	e.current = o
	o.run()
}

// release frees the slot. The next queued op starts in the next frame.
func (e *Engine) release() {
	e.busy = false
	e.current = op{}
	if len(e.queue) > 0 {
		e.loop.Post(e.pump)
	}
}

// split moves the overflow of a page onto the page after it
func (e *Engine) split(id string) {
	defer e.release()

	page, ok := e.store.Get(id)
	if !ok {
		delete(e.states, id)
		return
	}
	e.states[id] = Splitting

	res := Split(page.Content, e.measurer, e.geometry.ContentWidth(), e.geometry.CapacityHeight())
	if !res.Measured || res.Overflow == "" {
		e.states[id] = Stable
		e.cleanup()
		return
	}

	keep, overflow := res.Keep, res.Overflow
	if keep == "" {
		tokens := Tokenize(page.Content)
		if len(tokens) <= 1 {
			e.log.Debug().Str("page", id).Msg("single word taller than a page, leaving it in place")
			e.states[id] = Stable
			return
		}
		keep = tokens[0]
		overflow = page.Content[len(keep):]
		e.log.Debug().Str("page", id).Msg("first word exceeds page, keeping it alone")
	}

	idx := e.store.Index(id)
	var dest string
	shift := 0
	if next, ok := e.store.At(idx + 1); ok {
		dest = next.ID
		joined := joinSeam(overflow, next.Content)
		shift = html.Len(joined) - html.Len(next.Content)
		_ = e.store.SetContent(id, keep)
		_ = e.store.SetContent(dest, joined)
	} else {
		dest = e.store.AddPage(idx)
		e.attachLater(dest)
		_ = e.store.SetContent(id, keep)
		_ = e.store.SetContent(dest, overflow)
	}

	e.log.Debug().
		Str("page", id).
		Str("dest", dest).
		Int("kept_bytes", len(keep)).
		Int("moved_bytes", len(overflow)).
		Msg("split page")

	e.relocateCursor(id, page.Content, overflow, dest, shift)
	e.states[id] = Stable
	e.Check(dest)
}

// relocateCursor moves a cursor that was past the split point onto the
// destination page, keeping its distance from the split point. A cursor
// already on the destination moves right by the shift characters that were
// prepended to it.
func (e *Engine) relocateCursor(id, original, overflow, dest string, shift int) {
	if e.cursor.PageID == dest {
		if page, ok := e.store.Get(dest); ok && shift > 0 {
			e.cursor.Offset = cursor.Clamp(page.Content, e.cursor.Offset+shift)
		}
		return
	}
	if e.cursor.PageID != id {
		return
	}
	s := html.Len(original) - html.Len(overflow)
	if e.cursor.Offset <= s {
		if page, ok := e.store.Get(id); ok {
			e.cursor.Offset = cursor.Clamp(page.Content, e.cursor.Offset)
		}
		return
	}
	page, ok := e.store.Get(dest)
	if !ok {
		return
	}
	e.cursor = Cursor{PageID: dest, Offset: cursor.Clamp(page.Content, e.cursor.Offset-s)}
}

// cleanup removes trailing blank pages once no split or paste is running.
// The only page of a document is always kept.
func (e *Engine) cleanup() {
	if e.busy || len(e.queue) > 0 {
		return
	}
	for e.store.Len() > 1 {
		last, _ := e.store.At(e.store.Len() - 1)
		if e.states[last.ID] == PendingCheck || !e.store.RemoveIfEmpty(last.ID) {
			return
		}
		e.debouncer.Cancel(last.ID)
		delete(e.states, last.ID)
		delete(e.attached, last.ID)
		e.log.Debug().Str("page", last.ID).Msg("removed trailing empty page")

		if e.cursor.PageID == last.ID {
			e.cursorToEnd()
		}
	}
}
