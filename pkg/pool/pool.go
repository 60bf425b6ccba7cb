// Buffer pools for instruction assembly
//
// G-code emission builds large text blobs line by line; pooling the
// underlying buffers keeps batch generation from churning the GC.
//
// Usage:
//
//	buf := pool.GetLineBuffer()
//	defer pool.PutLineBuffer(buf)
//	// write lines...
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package pool

import (
	"sync"
)

// LineBuffer accumulates instruction text before it is materialized
// into a single string.
type LineBuffer struct {
	buf []byte
}

var lineBufferPool = sync.Pool{
	New: func() any {
		return &LineBuffer{
			// A pod-scale print runs a few hundred layers at a few
			// lines per layer; start near the common size.
			buf: make([]byte, 0, 16*1024),
		}
	},
}

// GetLineBuffer gets a buffer from the pool
func GetLineBuffer() *LineBuffer {
	b := lineBufferPool.Get().(*LineBuffer)
	b.buf = b.buf[:0]
	return b
}

// PutLineBuffer returns a buffer to the pool
func PutLineBuffer(b *LineBuffer) {
	if b == nil {
		return
	}
	// Don't pool oversized buffers (> 1MB)
	if cap(b.buf) > 1<<20 {
		return
	}
	lineBufferPool.Put(b)
}

// WriteString appends a string
func (b *LineBuffer) WriteString(s string) (int, error) {
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// WriteByte appends a single byte
func (b *LineBuffer) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Write appends bytes to the buffer
func (b *LineBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// WriteLine appends a string followed by a newline
func (b *LineBuffer) WriteLine(s string) {
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, '\n')
}

// Len returns the buffer length
func (b *LineBuffer) Len() int {
	return len(b.buf)
}

// Reset clears the buffer
func (b *LineBuffer) Reset() {
	b.buf = b.buf[:0]
}

// String materializes the buffer contents
func (b *LineBuffer) String() string {
	return string(b.buf)
}
