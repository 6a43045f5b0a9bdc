// Package iolib holds small io helpers shared by the wire codec and the client.
package iolib

import "io"

// WriteFull writes all of buf to w, retrying short writes.
// A writer that makes no progress without an error fails with [io.ErrShortWrite].
func WriteFull(w io.Writer, buf []byte) (uint, error) {
	total := uint(0)
	for total < uint(len(buf)) {
		n, err := w.Write(buf[total:])
		total += uint(n)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// LimitedReader reads from R until Remaining drops to zero, then reports [io.EOF].
// It stands in for [io.LimitedReader] where lengths are unsigned, such as
// Content-Length framed bodies and head size caps.
type LimitedReader struct {
	R         io.Reader
	Remaining uint
}

func LimitReader(r io.Reader, n uint) *LimitedReader { return &LimitedReader{R: r, Remaining: n} }

func (lr *LimitedReader) Read(p []byte) (int, error) {
	if lr.Remaining == 0 {
		return 0, io.EOF
	}
	p = p[:min(uint(len(p)), lr.Remaining)]
	n, err := lr.R.Read(p)
	lr.Remaining -= uint(n)
	return n, err
}
