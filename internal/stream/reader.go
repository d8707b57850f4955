package stream

import (
	"bufio"
	"io"
)

// byteReader gives an unbuffered reader the io.ByteScanner methods the
// msgpack decoder needs, without reading ahead. ReadByte issues a one byte
// read, so the source is never consumed past the current value.
type byteReader struct {
	r       io.Reader
	buf     [1]byte
	last    byte
	hasLast bool
	unread  bool
}

func newByteReader(r io.Reader) *byteReader {
	return &byteReader{r: r}
}

func (b *byteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.unread {
		b.unread = false
		p[0] = b.last
		b.hasLast = true
		return 1, nil
	}
	n, err := b.r.Read(p)
	if n > 0 {
		b.last = p[n-1]
		b.hasLast = true
	}
	return n, err
}

func (b *byteReader) ReadByte() (byte, error) {
	if b.unread {
		b.unread = false
		b.hasLast = true
		return b.last, nil
	}
	if _, err := io.ReadFull(b.r, b.buf[:]); err != nil {
		return 0, err
	}
	b.last = b.buf[0]
	b.hasLast = true
	return b.last, nil
}

func (b *byteReader) UnreadByte() error {
	if !b.hasLast || b.unread {
		return bufio.ErrInvalidUnreadByte
	}
	b.unread = true
	b.hasLast = false
	return nil
}
