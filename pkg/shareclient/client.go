package shareclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sir_venger/chunkgate/pkg/blobproto"
)

var ErrNotFound = errors.New("share lookup failed")

type Client interface {
	// Lookup Получить список чанков и атрибуты файла по токену
	Lookup(ctx context.Context, token string) (blobproto.Share, error)
	// Publish Зарегистрировать манифест и получить токен
	Publish(ctx context.Context, share blobproto.Share) (string, error)
}

type httpClient struct {
	c    *http.Client
	base string
}

// New создаёт клиента сервиса метаданных. В base передаётся полный URL эндпоинта, например https://host/api/reqdata.
func New(base string, c *http.Client) Client {
	if c == nil {
		c = &http.Client{}
	}
	return &httpClient{c: c, base: base}
}

// Lookup запрашивает манифест; любой неуспех сводится к ErrNotFound.
func (h *httpClient) Lookup(ctx context.Context, token string) (blobproto.Share, error) {
	u, err := url.Parse(h.base)
	if err != nil {
		return blobproto.Share{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	q := u.Query()
	q.Set(blobproto.QueryShared, token)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return blobproto.Share{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	resp, err := h.c.Do(req)
	if err != nil {
		return blobproto.Share{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return blobproto.Share{}, fmt.Errorf("%w: %s", ErrNotFound, resp.Status)
	}

	var m blobproto.Manifest
	if err = json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return blobproto.Share{}, fmt.Errorf("%w: decode manifest: %w", ErrNotFound, err)
	}

	share, err := m.Share()
	if err != nil {
		return blobproto.Share{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return share, nil
}

type publishResp struct {
	Shared string `json:"shared"`
}

// Publish отправляет манифест POST-запросом на base и возвращает выданный токен.
func (h *httpClient) Publish(ctx context.Context, share blobproto.Share) (string, error) {
	b, err := json.Marshal(blobproto.NewManifest(share))
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.base, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("publish share failed: %s", resp.Status)
	}

	var out publishResp
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Shared == "" {
		return "", fmt.Errorf("publish share: empty token")
	}

	return out.Shared, nil
}
