package cursor

import (
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderPositions(t *testing.T) {
	c := FromString("ab\ncd")
	assert.Equal(t, 'a', c.Current())
	assert.Equal(t, 1, c.Line())
	assert.Equal(t, 1, c.Column())

	c.Advance()
	c.Advance()
	assert.Equal(t, '\n', c.Current())
	assert.Equal(t, 3, c.Column())

	c.Advance()
	assert.Equal(t, 'c', c.Current())
	assert.Equal(t, 2, c.Line())
	assert.Equal(t, 1, c.Column())
	assert.Equal(t, int64(3), c.Position())

	c.Advance()
	c.Advance()
	assert.Equal(t, EOF, c.Current())
	c.Advance()
	assert.Equal(t, EOF, c.Current())
	assert.Equal(t, int64(5), c.Position())
	assert.NoError(t, c.Err())
}

func TestReaderCapture(t *testing.T) {
	c := FromString("xyz")
	c.CaptureCurrent()
	c.Advance()
	c.CaptureCurrent()
	assert.Equal(t, "xy", c.Capture())
	c.ClearCapture()
	assert.Equal(t, "", c.Capture())

	c.Advance()
	c.Advance()
	c.CaptureCurrent()
	assert.Equal(t, "", c.Capture(), "EOF is never captured")
}

func TestReaderByteOffset(t *testing.T) {
	c := FromString("é1€")
	c.Advance()
	assert.Equal(t, int64(1), c.Position())
	assert.Equal(t, int64(2), c.ByteOffset())
	c.Advance()
	assert.Equal(t, '€', c.Current())
	assert.Equal(t, int64(3), c.ByteOffset())
}

func TestReaderByteOffsetInvalidUTF8(t *testing.T) {
	c := FromString("\xffa\xfe€b")
	m := c.Mark()
	for range 3 {
		c.CaptureCurrent()
		c.Advance()
	}
	assert.Equal(t, '€', c.Current())
	assert.Equal(t, int64(3), c.ByteOffset())

	c.Rewind(m)
	assert.Equal(t, int64(0), c.ByteOffset())
	want := []int64{1, 2, 3, 6, 7}
	for i, off := range want {
		c.Advance()
		assert.Equal(t, off, c.ByteOffset(), "after %d characters", i+1)
	}
	assert.Equal(t, EOF, c.Current())
}

func TestReaderRewind(t *testing.T) {
	c := FromString("abcd")
	m0 := c.Mark()
	c.CaptureCurrent()
	c.Advance()
	m1 := c.Mark()
	assert.Equal(t, int64(1), m1.Position())
	c.CaptureCurrent()
	c.Advance()
	c.CaptureCurrent()
	c.Advance()
	require.Equal(t, 'd', c.Current())
	assert.Equal(t, "abc", c.Capture())

	c.Rewind(m1)
	assert.Equal(t, 'b', c.Current())
	assert.Equal(t, int64(1), c.Position())
	assert.Equal(t, 2, c.Column())
	assert.Equal(t, "a", c.Capture())

	c.Rewind(m0)
	assert.Equal(t, 'a', c.Current())
	assert.Equal(t, "", c.Capture())

	var got []rune
	for c.Current() != EOF {
		got = append(got, c.Current())
		c.Advance()
	}
	assert.Equal(t, []rune("abcd"), got)
}

func TestReaderRewindAtEOF(t *testing.T) {
	c := FromString("a\nb")
	m := c.Mark()
	for c.Current() != EOF {
		c.CaptureCurrent()
		c.Advance()
	}
	c.Rewind(m)
	assert.Equal(t, 1, c.Line())
	assert.Equal(t, 'a', c.Current())
	c.Advance()
	c.Advance()
	assert.Equal(t, 'b', c.Current())
	assert.Equal(t, 2, c.Line())
}

func TestReaderRewindUncaptured(t *testing.T) {
	c := FromString("ab")
	m := c.Mark()
	c.Advance()
	assert.Panics(t, func() { c.Rewind(m) })
}

func TestReaderError(t *testing.T) {
	boom := errors.New("boom")
	c := New(iotest.ErrReader(boom))
	assert.Equal(t, EOF, c.Current())
	assert.ErrorIs(t, c.Err(), boom)
}
