package blobhttp

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
)

type healthResp struct {
	OK         bool  `json:"ok"`
	Blobs      int   `json:"blobs"`
	BlobBytes  int64 `json:"blob_bytes"`
	Shares     int   `json:"shares"`
	PendingTmp int   `json:"pending_uploads"`
}

// health отдаёт число блобов и их объём, число манифестов и недописанных загрузок.
func (a *Server) health(w http.ResponseWriter, _ *http.Request) {
	var (
		resp = healthResp{OK: true}
		err  error
	)
	if resp.Blobs, resp.BlobBytes, err = dirStats(a.blobsDir()); err == nil {
		if resp.Shares, _, err = dirStats(a.sharesDir()); err == nil {
			resp.PendingTmp, _, err = dirStats(a.tmpDir())
		}
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// dirStats считает обычные файлы плоского каталога. Отсутствующий каталог пуст.
func dirStats(dir string) (files int, size int64, err error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return 0, 0, err
		}
		files++
		size += info.Size()
	}
	return files, size, nil
}
