package blobhttp

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/sir_venger/chunkgate/pkg/blobproto"
)

type postShareResp struct {
	Shared string `json:"shared"`
}

// postShare регистрирует манифест и выдаёт для него новый токен.
func (a *Server) postShare(w http.ResponseWriter, r *http.Request) {
	var m blobproto.Manifest
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := m.Share(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := a.ensureDirs(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	token := uuid.NewString()
	if err := writeManifest(a.sharePath(token), m); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(postShareResp{Shared: token})
}

// getShare отдаёт манифест по токену из query-параметра shared.
func (a *Server) getShare(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get(blobproto.QueryShared))
	if _, err := uuid.Parse(token); err != nil {
		http.NotFound(w, r)
		return
	}

	m, err := readManifest(a.sharePath(token))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

func (a *Server) sharePath(token string) string {
	return filepath.Join(a.sharesDir(), token+".json")
}
