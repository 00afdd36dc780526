package blobhttp

import (
	"net/http"
	"os"
)

// fetchBlob обслуживает GET/HEAD. Range, If-Range и Content-Range обрабатывает http.ServeContent.
func (a *Server) fetchBlob(w http.ResponseWriter, r *http.Request) {
	req, ok := a.requireBlobRequest(w, r)
	if !ok {
		return
	}

	f, err := os.Open(req.path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Без явного Content-Type ServeContent стал бы сниффить содержимое.
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeContent(w, r, "", info.ModTime(), f)
}
