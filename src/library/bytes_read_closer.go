package library

import "bytes"

// bytesReadCloser is a helper type which helps bytes.Reader implement
// io.ReadCloser.
type bytesReadCloser struct {
	r *bytes.Reader
}

// Close is a no-op which is here only to implement io.Closer and
// io.ReadCloser.
func (b *bytesReadCloser) Close() error {
	return nil
}

// Read is needed to implement io.Reader and io.ReadCloser.
func (b *bytesReadCloser) Read(buff []byte) (int, error) {
	return b.r.Read(buff)
}

// Len returns the number of bytes of the unread portion of the slice.
func (b *bytesReadCloser) Len() int {
	return b.r.Len()
}

func newBytesReadCloser(buff []byte) *bytesReadCloser {
	return &bytesReadCloser{
		r: bytes.NewReader(buff),
	}
}
