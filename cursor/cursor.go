// Package cursor provides the character source consumed by the matching
// and lexing engines: a forward reader with a capture buffer, line/column
// bookkeeping and the ability to step back to a mark.
package cursor

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// EOF is returned by Current at the end of input.
const EOF rune = -1

// Cursor is a position in a character stream.
//
// Engines capture every character they consume while trying a match, so a
// Rewind to a mark taken during the same attempt can put those characters
// back. ClearCapture invalidates outstanding marks.
type Cursor interface {
	// Current returns the character under the cursor, or EOF.
	Current() rune
	// Advance moves to the next character. It is a no-op at EOF.
	Advance()
	// CaptureCurrent appends the current character to the capture buffer.
	CaptureCurrent()
	// ClearCapture empties the capture buffer.
	ClearCapture()
	// Capture returns the captured text.
	Capture() string
	// Line is the 1-based line of the current character.
	Line() int
	// Column is the 1-based column of the current character.
	Column() int
	// Position is the 0-based character offset of the current character.
	Position() int64
	// Mark records the current position.
	Mark() Mark
	// Rewind returns to m. Every character consumed since m must have been
	// captured.
	Rewind(m Mark)
}

// Mark is a saved cursor position.
type Mark struct {
	position   int64
	byteOffset int64
	line       int
	column     int
	capture    int
}

// Position returns the character offset the mark was taken at.
func (m Mark) Position() int64 {
	return m.position
}

// Reader is a Cursor over an io.Reader.
type Reader struct {
	in      *bufio.Reader // nil once exhausted
	err     error
	started bool

	current rune
	size    int    // encoded length of current in the input
	pending []char // characters handed back by Rewind, read before in
	capture []rune
	sizes   []int // encoded length of each captured character

	line       int
	column     int
	position   int64
	byteOffset int64
}

var _ Cursor = (*Reader)(nil)

// char is a decoded character and the number of input bytes it came from.
// Invalid bytes decode to utf8.RuneError with size 1.
type char struct {
	r    rune
	size int
}

// New returns a cursor reading UTF-8 text from in. Nothing is read until
// the first call to Current.
func New(in io.Reader) *Reader {
	return &Reader{
		in:     bufio.NewReader(in),
		line:   1,
		column: 1,
	}
}

// FromString returns a cursor over s.
func FromString(s string) *Reader {
	return New(strings.NewReader(s))
}

// Err returns the first read error other than io.EOF. Such an error ends
// the input.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) ensureStarted() {
	if !r.started {
		r.started = true
		r.load()
	}
}

func (r *Reader) load() {
	if len(r.pending) > 0 {
		r.current, r.size = r.pending[0].r, r.pending[0].size
		r.pending = r.pending[1:]
		return
	}
	if r.in == nil {
		r.current, r.size = EOF, 0
		return
	}
	c, size, err := r.in.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			r.err = err
		}
		r.in = nil
		r.current, r.size = EOF, 0
		return
	}
	r.current, r.size = c, size
}

func (r *Reader) Current() rune {
	r.ensureStarted()
	return r.current
}

func (r *Reader) Advance() {
	r.ensureStarted()
	if r.current == EOF {
		return
	}
	if r.current == '\n' {
		r.line++
		r.column = 1
	} else {
		r.column++
	}
	r.position++
	r.byteOffset += int64(r.size)
	r.load()
}

func (r *Reader) CaptureCurrent() {
	if c := r.Current(); c != EOF {
		r.capture = append(r.capture, c)
		r.sizes = append(r.sizes, r.size)
	}
}

func (r *Reader) ClearCapture() {
	r.capture = r.capture[:0]
	r.sizes = r.sizes[:0]
}

func (r *Reader) Capture() string {
	return string(r.capture)
}

func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) Column() int {
	return r.column
}

func (r *Reader) Position() int64 {
	return r.position
}

// ByteOffset returns the UTF-8 byte offset of the current character.
func (r *Reader) ByteOffset() int64 {
	return r.byteOffset
}

func (r *Reader) Mark() Mark {
	r.ensureStarted()
	return Mark{
		position:   r.position,
		byteOffset: r.byteOffset,
		line:       r.line,
		column:     r.column,
		capture:    len(r.capture),
	}
}

func (r *Reader) Rewind(m Mark) {
	r.ensureStarted()
	if m.position == r.position {
		n := min(m.capture, len(r.capture))
		r.capture, r.sizes = r.capture[:n], r.sizes[:n]
		return
	}
	if m.capture > len(r.capture) || int64(len(r.capture)-m.capture) != r.position-m.position {
		panic("cursor: rewind over characters that were not captured")
	}
	consumed, sizes := r.capture[m.capture:], r.sizes[m.capture:]
	replay := make([]char, 0, len(consumed)+len(r.pending))
	for i := 1; i < len(consumed); i++ {
		replay = append(replay, char{consumed[i], sizes[i]})
	}
	if r.current != EOF {
		replay = append(replay, char{r.current, r.size})
	}
	replay = append(replay, r.pending...)
	r.current, r.size = consumed[0], sizes[0]
	r.pending = replay
	r.capture, r.sizes = r.capture[:m.capture], r.sizes[:m.capture]
	r.position, r.byteOffset = m.position, m.byteOffset
	r.line, r.column = m.line, m.column
}
