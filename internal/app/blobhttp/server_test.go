package blobhttp

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sir_venger/chunkgate/pkg/blobproto"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	root := t.TempDir()
	s := httptest.NewServer(New(root))
	t.Cleanup(s.Close)
	return s, root
}

func do(t *testing.T, method, url string, body string, hdr map[string]string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestBlob_PutGetRangeHead(t *testing.T) {
	s, root := newTestServer(t)
	payload := "the quick brown fox"
	sum := sha256.Sum256([]byte(payload))

	resp, _ := do(t, http.MethodPut, s.URL+"/ipfs/fox", payload, map[string]string{
		blobproto.HeaderChecksum: hex.EncodeToString(sum[:]),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, hex.EncodeToString(sum[:]), resp.Header.Get(blobproto.HeaderChecksum))

	resp, body := do(t, http.MethodGet, s.URL+"/ipfs/fox", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, payload, string(body))
	require.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))

	resp, body = do(t, http.MethodGet, s.URL+"/ipfs/fox", "", map[string]string{"Range": "bytes=4-8"})
	require.Equal(t, http.StatusPartialContent, resp.StatusCode)
	require.Equal(t, "bytes 4-8/19", resp.Header.Get("Content-Range"))
	require.Equal(t, "quick", string(body))

	resp, body = do(t, http.MethodHead, s.URL+"/ipfs/fox", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "19", resp.Header.Get("Content-Length"))
	require.Empty(t, body)

	entries, err := os.ReadDir(filepath.Join(root, tmpDirName))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestBlob_RejectsBadUploads(t *testing.T) {
	s, root := newTestServer(t)

	resp, _ := do(t, http.MethodPut, s.URL+"/ipfs/bad", "payload", map[string]string{
		blobproto.HeaderChecksum: strings.Repeat("0", 64),
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	_, err := os.Stat(filepath.Join(root, blobsDirName, "bad"))
	require.True(t, os.IsNotExist(err))

	resp, _ = do(t, http.MethodGet, s.URL+"/ipfs/bad", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodHead, s.URL+"/ipfs/..", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShare_PostGet(t *testing.T) {
	s, _ := newTestServer(t)

	resp, body := do(t, http.MethodPost, s.URL+"/api/reqdata",
		`{"data":{"profile_picture":"Multipart","data":["c1","c2"],"contentType":"video/mp4","filename":"m.mp4"}}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out postShareResp
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Shared)

	resp, body = do(t, http.MethodGet, s.URL+"/api/reqdata?shared="+out.Shared, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var m blobproto.Manifest
	require.NoError(t, json.Unmarshal(body, &m))
	share, err := m.Share()
	require.NoError(t, err)
	require.Equal(t, []string{"c1", "c2"}, share.Locators)
	require.Equal(t, "m.mp4", share.Filename)

	resp, _ = do(t, http.MethodPost, s.URL+"/api/reqdata", `{"data":{"profile_picture":"Multipart"}}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, s.URL+"/api/reqdata?shared=../../etc/passwd", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, s.URL+"/api/reqdata?shared=6f1c1e8e-0000-4000-8000-000000000000", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	s, root := newTestServer(t)

	resp, body := do(t, http.MethodGet, s.URL+"/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"ok":true,"blobs":0,"blob_bytes":0,"shares":0,"pending_uploads":0}`, string(body))

	do(t, http.MethodPut, s.URL+"/ipfs/a", "12345", nil)
	do(t, http.MethodPut, s.URL+"/ipfs/b", "678", nil)
	resp, _ = do(t, http.MethodPost, s.URL+"/api/reqdata", `{"data":{"profile_picture":"a"}}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, os.WriteFile(filepath.Join(root, tmpDirName, "upload"), []byte("part"), 0o644))

	_, body = do(t, http.MethodGet, s.URL+"/health", "", nil)
	require.JSONEq(t, `{"ok":true,"blobs":2,"blob_bytes":8,"shares":1,"pending_uploads":1}`, string(body))
}

func TestGC_ReportsSweepFailure(t *testing.T) {
	s, root := newTestServer(t)

	resp, _ := do(t, http.MethodPost, s.URL+"/admin/gc", "", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// tmp не каталог: ReadDir падает.
	require.NoError(t, os.WriteFile(filepath.Join(root, tmpDirName), []byte("x"), 0o644))
	resp, body := do(t, http.MethodPost, s.URL+"/admin/gc", "", nil)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NotEmpty(t, body)
}

func TestSweepOnce(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, sweepOnce(root, time.Hour))

	tmp := filepath.Join(root, tmpDirName)
	require.NoError(t, os.MkdirAll(tmp, 0o755))
	stale := filepath.Join(tmp, "stale")
	fresh := filepath.Join(tmp, "fresh")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("y"), 0o644))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	require.NoError(t, sweepOnce(root, time.Hour))
	_, err := os.Stat(stale)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	require.NoError(t, err)
}
