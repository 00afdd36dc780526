package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sir_venger/chunkgate/internal/app/blobhttp"
)

const (
	defaultBlobstoreAddr = ":8081"
	dataDirEnv           = "DATA_DIR"
	gcTTLMinEnv          = "GC_TTL_MIN"
	gcIntervalMinEnv     = "GC_INTERVAL_MIN"
	defaultDataDir       = "/data"
	defaultGCTTLMin      = 60
	defaultGCIntervalMin = 30
)

func main() {
	addr := flag.String("addr", defaultBlobstoreAddr, "listen address")
	flag.Parse()

	dataDir := os.Getenv(dataDirEnv)
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("data_dir", dataDir).Msg("create data dir")
	}

	h := blobhttp.New(dataDir)

	// Настраиваем фоновый GC брошенных временных файлов загрузок.
	gcTTLMin := envInt(gcTTLMinEnv, defaultGCTTLMin)
	gcEveryMin := envInt(gcIntervalMinEnv, defaultGCIntervalMin)
	stopGC := blobhttp.StartGC(dataDir, time.Duration(gcTTLMin)*time.Minute, time.Duration(gcEveryMin)*time.Minute)
	defer stopGC()

	server := &http.Server{Addr: *addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("blobstore shutdown")
		}
	}()

	log.Info().
		Str("addr", *addr).
		Str("data_dir", dataDir).
		Int("gc_ttl_min", gcTTLMin).
		Int("gc_every_min", gcEveryMin).
		Msg("blobstore listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("listen")
	}
}

// envInt возвращает целочисленное значение из переменной окружения либо дефолт.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
