// Package source validates raw input and maps byte offsets to positions.
package source

import (
	"fmt"
	"unicode/utf8"
)

// File is a validated UTF-8 source buffer with a precomputed line index.
// Offsets handed to PositionFor refer to this buffer; the index makes the
// offset-to-position conversion O(log n) in the number of lines and does not
// require the buffer after construction.
type File struct {
	data       []byte
	lineStarts []int // byte offset of the first byte of each line
}

// InvalidUTF8Error reports the first ill-formed byte in the input.
type InvalidUTF8Error struct {
	Offset int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("invalid UTF-8 byte sequence at offset %d", e.Offset)
}

// New validates data as UTF-8 and builds the line index. The buffer is
// retained by reference; callers must not mutate it afterwards.
func New(data []byte) (*File, error) {
	for i := 0; i < len(data); {
		if data[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, &InvalidUTF8Error{Offset: i}
		}
		i += size
	}

	f := &File{data: data, lineStarts: make([]int, 1, 16)}
	f.lineStarts[0] = 0
	for i, b := range data {
		if b == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f, nil
}

// Data returns the underlying buffer.
func (f *File) Data() []byte { return f.data }

// Len returns the buffer length in bytes.
func (f *File) Len() int { return len(f.data) }

// PositionFor converts a byte offset into a 1-based (line, column) pair.
// Columns count bytes, matching the span model. Offsets past the end of the
// buffer clamp to the final position.
func (f *File) PositionFor(offset int) (line, column int) {
	if offset > len(f.data) {
		offset = len(f.data)
	}
	if offset < 0 {
		offset = 0
	}
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - f.lineStarts[lo] + 1
}

// LineCount returns the number of lines in the buffer. An empty buffer has
// one (empty) line.
func (f *File) LineCount() int { return len(f.lineStarts) }

// Line returns the text of the 1-based line n without its terminator.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := len(f.data)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	if end > start && end <= len(f.data) && end-1 >= 0 && f.data[end-1] == '\r' {
		end--
	}
	return string(f.data[start:end])
}
