package blobhttp

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	blobsDirName  = "blobs"
	sharesDirName = "shares"
	tmpDirName    = "tmp"
)

// Server serves the dev blob gateway and share metadata on top of the local filesystem.
type Server struct {
	dataDir string
}

// New создаёт HTTP-обработчик blob-шлюза поверх каталога с данными.
func New(dataDir string) http.Handler {
	srv := &Server{
		dataDir: dataDir,
	}

	return srv.routes()
}

// routes регистрирует обработчики для блобов, манифестов, здоровья и GC.
func (a *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/ipfs/{id}", func(br chi.Router) {
		br.Put("/", a.insertBlob)
		br.Get("/", a.fetchBlob)
		br.Head("/", a.fetchBlob)
	})

	r.Get("/api/reqdata", a.getShare)
	r.Post("/api/reqdata", a.postShare)

	r.Get("/health", a.health)
	r.HandleFunc("/admin/gc", a.gcOnce)

	return r
}

func (a *Server) blobsDir() string  { return filepath.Join(a.dataDir, blobsDirName) }
func (a *Server) sharesDir() string { return filepath.Join(a.dataDir, sharesDirName) }
func (a *Server) tmpDir() string    { return filepath.Join(a.dataDir, tmpDirName) }

// ensureDirs создаёт подкаталоги хранилища.
func (a *Server) ensureDirs() error {
	for _, dir := range []string{a.blobsDir(), a.sharesDir(), a.tmpDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
