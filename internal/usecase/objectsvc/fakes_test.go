package objectsvc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sir_venger/chunkgate/pkg/blobclient"
	"github.com/sir_venger/chunkgate/pkg/blobproto"
)

const testGateway = "http://gw.test/ipfs"

var errFakeUpstream = errors.New("fake upstream failure")

// fakeBlobs имитирует blob-шлюз в памяти и записывает порядок обращений.
type fakeBlobs struct {
	mu        sync.Mutex
	data      map[string][]byte
	heads     map[string]int
	fetches   []string
	failHead  map[string]bool
	failFetch map[string]bool
	truncate  map[string]bool
	delay     map[string]time.Duration
	// headGate задерживает HEAD до закрытия канала или отмены ctx.
	headGate map[string]chan struct{}
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{
		data:      map[string][]byte{},
		heads:     map[string]int{},
		failHead:  map[string]bool{},
		failFetch: map[string]bool{},
		truncate:  map[string]bool{},
		delay:     map[string]time.Duration{},
		headGate:  map[string]chan struct{}{},
	}
}

func (f *fakeBlobs) add(id string, b []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[id] = b
}

func (f *fakeBlobs) headCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heads[id]
}

func (f *fakeBlobs) fetchLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetches...)
}

func (f *fakeBlobs) Size(ctx context.Context, _ string, id string) (int64, error) {
	f.mu.Lock()
	f.heads[id]++
	gate := f.headGate[id]
	fail := f.failHead[id]
	b, ok := f.data[id]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	if fail {
		return 0, errFakeUpstream
	}
	if !ok {
		return 0, fmt.Errorf("%w: 404", blobclient.ErrUnexpectedStatus)
	}
	return int64(len(b)), nil
}

func (f *fakeBlobs) Fetch(ctx context.Context, _ string, id string, span *blobclient.Span) (io.ReadCloser, error) {
	f.mu.Lock()
	b, ok := f.data[id]
	fail := f.failFetch[id]
	trunc := f.truncate[id]
	delay := f.delay[id]
	if span == nil {
		f.fetches = append(f.fetches, id+":*")
	} else {
		f.fetches = append(f.fetches, fmt.Sprintf("%s:%d-%d", id, span.Start, span.End))
	}
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !ok || fail {
		return nil, errFakeUpstream
	}
	if span != nil {
		b = b[span.Start : span.End+1]
	}
	if trunc && len(b) > 0 {
		b = b[:len(b)-1]
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fakeBlobs) Put(_ context.Context, _ string, id string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.add(id, b)
	return nil
}

type fakeShares struct {
	shares map[string]blobproto.Share
}

func (f *fakeShares) Lookup(_ context.Context, token string) (blobproto.Share, error) {
	s, ok := f.shares[token]
	if !ok {
		return blobproto.Share{}, errors.New("share lookup failed: 404 Not Found")
	}
	return s, nil
}

func (f *fakeShares) Publish(_ context.Context, s blobproto.Share) (string, error) {
	token := fmt.Sprintf("t%d", len(f.shares))
	f.shares[token] = s
	return token, nil
}

type countingRecorder struct {
	mu       sync.Mutex
	hits     int
	misses   int
	streamed int64
}

func (c *countingRecorder) SizeCache(hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

func (c *countingRecorder) Streamed(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.streamed += n
}

func newTestObjects(t *testing.T, blobs *fakeBlobs, prefetch int) *Objects {
	t.Helper()
	sizes, err := NewSizeCache(128, 0)
	require.NoError(t, err)

	return New(Deps{
		Shares:             &fakeShares{shares: map[string]blobproto.Share{}},
		Blobs:              blobs,
		Router:             NewRouter(testGateway),
		Sizes:              sizes,
		Recorder:           &countingRecorder{},
		ResolveConcurrency: 4,
		Prefetch:           prefetch,
	})
}

// pattern возвращает n байт, различимых между чанками.
func pattern(seed byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i%7)
	}
	return b
}
