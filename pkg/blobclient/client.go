package blobclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sir_venger/chunkgate/pkg/blobproto"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
	ErrNoLength         = errors.New("missing or invalid Content-Length")
	ErrContentRange     = errors.New("missing or mismatched Content-Range")
)

// Span задаёт включительный диапазон байт внутри одного блоба.
type Span struct {
	Start int64
	End   int64
}

// Header форматирует значение заголовка Range.
func (s Span) Header() string {
	return fmt.Sprintf("bytes=%d-%d", s.Start, s.End)
}

type Client interface {
	// Size Узнать размер блоба через HEAD
	Size(ctx context.Context, baseURL, id string) (int64, error)
	// Fetch Скачать блоб целиком (span == nil) или его диапазон
	Fetch(ctx context.Context, baseURL, id string, span *Span) (io.ReadCloser, error)
	// Put Положить блоб в хранилище
	Put(ctx context.Context, baseURL, id string, r io.Reader, size int64, sha256 string) error
}

// Observer получает уведомления о каждом обращении к шлюзу.
type Observer interface {
	Request(method string, outcome string)
	Transferred(id string, n int64, err error)
}

type Option func(*httpClient)

// WithHTTPClient подменяет HTTP-клиент по умолчанию.
func WithHTTPClient(c *http.Client) Option {
	return func(h *httpClient) { h.c = c }
}

// WithObserver подключает наблюдателя за запросами.
func WithObserver(o Observer) Option {
	return func(h *httpClient) { h.obs = o }
}

// WithHeaderTimeout ограничивает ожидание заголовков ответа. Тело ответа не ограничивается.
func WithHeaderTimeout(d time.Duration) Option {
	return func(h *httpClient) { h.headerTimeout = d }
}

type httpClient struct {
	c             *http.Client
	obs           Observer
	headerTimeout time.Duration
}

// New создаёт HTTP-клиент blob-шлюза.
func New(opts ...Option) Client {
	h := &httpClient{
		c:   &http.Client{},
		obs: nopObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.headerTimeout > 0 {
		tr, ok := http.DefaultTransport.(*http.Transport)
		if ok && h.c.Transport == nil {
			tr = tr.Clone()
			tr.ResponseHeaderTimeout = h.headerTimeout
			h.c.Transport = tr
		}
	}

	return h
}

// Size выполняет HEAD и возвращает Content-Length блоба.
func (h *httpClient) Size(ctx context.Context, baseURL, id string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, blobURL(baseURL, id), nil)
	if err != nil {
		return 0, err
	}

	resp, err := h.c.Do(req)
	if err != nil {
		h.obs.Request(http.MethodHead, "error")
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.obs.Request(http.MethodHead, strconv.Itoa(resp.StatusCode))
		return 0, fmt.Errorf("%w: HEAD %s: %s", ErrUnexpectedStatus, id, resp.Status)
	}
	h.obs.Request(http.MethodHead, strconv.Itoa(resp.StatusCode))

	// resp.ContentLength для HEAD берётся из заголовка, но -1 не отличает "нет" от "битый".
	raw := resp.Header.Get("Content-Length")
	size, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || size < 0 {
		return 0, fmt.Errorf("%w: HEAD %s: %q", ErrNoLength, id, raw)
	}

	return size, nil
}

// Fetch скачивает блоб или его диапазон и возвращает поток с телом.
func (h *httpClient) Fetch(ctx context.Context, baseURL, id string, span *Span) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, blobURL(baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	if span != nil {
		req.Header.Set(blobproto.HeaderRange, span.Header())
	}

	resp, err := h.c.Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		h.obs.Request(http.MethodGet, "error")
		return nil, err
	}
	h.obs.Request(http.MethodGet, strconv.Itoa(resp.StatusCode))

	if err = checkFetchResponse(resp, span); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %w", id, err)
	}

	return newTransferReadCloser(id, resp.Body, h.obs), nil
}

func checkFetchResponse(resp *http.Response, span *Span) error {
	if span == nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
		}
		return nil
	}

	if resp.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	raw := resp.Header.Get(blobproto.HeaderCRange)
	start, end, ok := parseContentRange(raw)
	if !ok || start != span.Start || end != span.End {
		return fmt.Errorf("%w: want %d-%d, got %q", ErrContentRange, span.Start, span.End, raw)
	}

	return nil
}

// parseContentRange разбирает "bytes start-end/total", total может быть "*".
func parseContentRange(v string) (start, end int64, ok bool) {
	spec, found := strings.CutPrefix(strings.TrimSpace(v), "bytes ")
	if !found {
		return 0, 0, false
	}
	rng, _, found := strings.Cut(spec, "/")
	if !found {
		return 0, 0, false
	}
	first, last, found := strings.Cut(rng, "-")
	if !found {
		return 0, 0, false
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.ParseInt(last, 10, 64)
	if err != nil || end < start {
		return 0, 0, false
	}

	return start, end, true
}

// Put загружает блоб в указанный шлюз.
func (h *httpClient) Put(ctx context.Context, baseURL, id string, r io.Reader, size int64, sha256 string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, blobURL(baseURL, id), r)
	if err != nil {
		return err
	}
	req.ContentLength = size
	if sha256 != "" {
		req.Header.Set(blobproto.HeaderChecksum, sha256)
	}

	resp, err := h.c.Do(req)
	if err != nil {
		h.obs.Request(http.MethodPut, "error")
		return err
	}
	defer resp.Body.Close()
	h.obs.Request(http.MethodPut, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: PUT %s: %s", ErrUnexpectedStatus, id, resp.Status)
	}

	return nil
}

func blobURL(base, id string) string {
	return fmt.Sprintf(blobproto.BlobPathFormat, strings.TrimRight(base, "/"), id)
}
