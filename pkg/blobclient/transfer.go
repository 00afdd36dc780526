package blobclient

import (
	"io"
)

type nopObserver struct{}

func (nopObserver) Request(string, string)           {}
func (nopObserver) Transferred(string, int64, error) {}

// transferReadCloser считает прочитанные байты и один раз сообщает итог наблюдателю.
type transferReadCloser struct {
	id    string
	inner io.ReadCloser
	obs   Observer
	n     int64
	done  bool
}

func newTransferReadCloser(id string, inner io.ReadCloser, obs Observer) io.ReadCloser {
	if obs == nil || inner == nil {
		return inner
	}

	return &transferReadCloser{
		id:    id,
		inner: inner,
		obs:   obs,
	}
}

func (t *transferReadCloser) Read(b []byte) (int, error) {
	n, err := t.inner.Read(b)
	t.n += int64(n)
	if err != nil {
		t.finish(err)
	}
	return n, err
}

func (t *transferReadCloser) Close() error {
	err := t.inner.Close()
	t.finish(err)
	return err
}

func (t *transferReadCloser) finish(err error) {
	if t.done {
		return
	}
	t.done = true
	if err == io.EOF {
		err = nil
	}
	t.obs.Transferred(t.id, t.n, err)
}
