package blobhttp

import (
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const manualGCTTL = time.Hour

// gcOnce вручную запускает сбор брошенных временных файлов.
func (a *Server) gcOnce(w http.ResponseWriter, _ *http.Request) {
	if err := sweepOnce(a.dataDir, manualGCTTL); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartGC стартует периодическую очистку каталога.
func StartGC(root string, ttl time.Duration, every time.Duration) func() {
	if every <= 0 || ttl <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(every)
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := sweepOnce(root, ttl); err != nil {
					log.Warn().Err(err).Str("data_dir", root).Msg("gc sweep failed")
				}
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stop)
		})
	}
}

// sweepOnce удаляет временные файлы загрузок старше ttl: их PUT оборвался, не дойдя до rename.
func sweepOnce(root string, ttl time.Duration) error {
	now := time.Now()
	dir := filepath.Join(root, tmpDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}

		if now.Sub(info.ModTime()) < ttl {
			continue
		}

		_ = os.Remove(filepath.Join(dir, e.Name()))
	}

	return nil
}
