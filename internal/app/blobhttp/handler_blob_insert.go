package blobhttp

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/sir_venger/chunkgate/pkg/blobproto"
)

// insertBlob принимает PUT-запросы на запись блоба.
func (a *Server) insertBlob(w http.ResponseWriter, r *http.Request) {
	req, ok := a.requireBlobRequest(w, r)
	if !ok {
		return
	}
	a.writeBlob(w, r, req)
}

func (a *Server) writeBlob(w http.ResponseWriter, r *http.Request, req *blobRequest) {
	if err := a.ensureDirs(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	expSha := r.Header.Get(blobproto.HeaderChecksum)
	size, err := parseContentLength(r.Header.Get("Content-Length"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Пишем во временный файл и переименовываем: читатели никогда не видят недописанный блоб.
	tmpPath := filepath.Join(a.tmpDir(), uuid.NewString())
	f, err := os.Create(tmpPath)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmpPath)
	defer f.Close()

	h := sha256.New()
	wrt := io.MultiWriter(f, h)
	n, err := io.Copy(wrt, r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if size >= 0 && n != size {
		http.Error(w, "size mismatch", http.StatusBadRequest)
		return
	}
	got := hex.EncodeToString(h.Sum(nil))
	if expSha != "" && got != expSha {
		http.Error(w, "sha256 mismatch", http.StatusConflict)
		return
	}

	if err = f.Close(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err = os.Rename(tmpPath, req.path); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set(blobproto.HeaderChecksum, got)
	w.WriteHeader(http.StatusCreated)
}

func parseContentLength(value string) (int64, error) {
	if value == "" {
		return -1, nil
	}

	sz, err := strconv.ParseInt(value, 10, 64)
	if err != nil || sz < 0 {
		return 0, fmt.Errorf("invalid Content-Length header")
	}

	return sz, nil
}
