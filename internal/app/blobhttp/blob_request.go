package blobhttp

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// blobRequest содержит идентификатор блоба и путь до него на диске.
type blobRequest struct {
	id   string
	path string
}

// requireBlobRequest валидирует path-параметр и возвращает заполненную структуру.
func (a *Server) requireBlobRequest(w http.ResponseWriter, r *http.Request) (*blobRequest, bool) {
	req, err := newBlobRequest(a.blobsDir(), r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	return req, true
}

// newBlobRequest парсит идентификатор из URL и рассчитывает путь на диске.
func newBlobRequest(root string, r *http.Request) (*blobRequest, error) {
	id := chi.URLParam(r, "id")
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("invalid blob id %q", id)
	}

	return &blobRequest{
		id:   id,
		path: filepath.Join(root, id),
	}, nil
}
