package stream

import "bytes"

// LineFramer tokenizes an append-only byte stream into newline-terminated
// lines without losing partial data across read boundaries. It is owned by
// exactly one Session; all access happens from the session's reader goroutine.
//
// Invariant: the concatenation of every NextLine result in emission order,
// followed by one final TakeRest, reconstructs every byte ever fed in.
type LineFramer struct {
	buf []byte
}

// Feed appends a chunk of raw stream bytes to the buffer.
func (f *LineFramer) Feed(p []byte) {
	f.buf = append(f.buf, p...)
}

// NextLine returns the next fully-buffered line including its '\n' terminator.
// It reports false when only a partial line is buffered; that is not an error,
// the caller simply waits for more bytes.
func (f *LineFramer) NextLine() ([]byte, bool) {
	i := bytes.IndexByte(f.buf, '\n')
	if i < 0 {
		return nil, false
	}

	line := make([]byte, i+1)
	copy(line, f.buf[:i+1])
	f.buf = f.buf[i+1:]

	return line, true
}

// TakeRest returns and clears all buffered bytes not yet returned by
// NextLine, including any incomplete trailing line.
func (f *LineFramer) TakeRest() []byte {
	rest := f.buf
	f.buf = nil
	return rest
}

// Len reports the number of buffered bytes awaiting consumption.
func (f *LineFramer) Len() int {
	return len(f.buf)
}
