package objectsvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sir_venger/chunkgate/internal/models"
	"github.com/sir_venger/chunkgate/pkg/blobclient"
)

// StreamAll отдаёт объект целиком: каждый чанк скачивается полностью, в исходном порядке.
func (s *Objects) StreamAll(ctx context.Context, obj models.VirtualObject, w io.Writer) (int64, error) {
	return s.stream(ctx, obj.Gateway, models.WholeChunks(obj.Chunks), w)
}

// Stream выполняет план: скачивает выборки чанков и пишет их в w строго по порядку.
func (s *Objects) Stream(ctx context.Context, obj models.VirtualObject, plan []models.ChunkRange, w io.Writer) (int64, error) {
	return s.stream(ctx, obj.Gateway, plan, w)
}

func (s *Objects) stream(ctx context.Context, gateway string, plan []models.ChunkRange, w io.Writer) (written int64, err error) {
	log := zerolog.Ctx(ctx)
	defer func() {
		s.Recorder.Streamed(written)
		ev := log.Debug()
		if err != nil {
			ev = log.Warn().Err(err)
		}
		ev.Int("ranges", len(plan)).
			Str("written", humanize.IBytes(uint64(written))).
			Msg("stream finished")
	}()

	if len(plan) == 0 {
		return 0, nil
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	eg, egCtx := errgroup.WithContext(streamCtx)
	// Загрузчики допускаются строго в порядке плана: самый младший незавершённый
	// всегда держит слот, иначе писатель мог бы ждать pipe, чей загрузчик не стартовал.
	sem := semaphore.NewWeighted(int64(s.Prefetch))

	// rootErr хранит первую ошибку шлюза; отмены, которые она вызвала, её не перекрывают.
	var (
		rootErr  error
		rootOnce sync.Once
	)

	pipes := make([]*io.PipeReader, len(plan))
	writers := make([]*io.PipeWriter, len(plan))
	for idx := range plan {
		pipes[idx], writers[idx] = io.Pipe()
	}

	eg.Go(func() error {
		for idx := range plan {
			errAcq := sem.Acquire(egCtx, 1)
			if errAcq == nil && egCtx.Err() != nil {
				sem.Release(1)
				errAcq = egCtx.Err()
			}
			if errAcq != nil {
				for j := idx; j < len(plan); j++ {
					_ = writers[j].CloseWithError(errAcq)
				}
				return errAcq
			}

			idx := idx
			eg.Go(func() error {
				errFetch := s.fetchRange(egCtx, gateway, plan[idx], writers[idx])
				_ = writers[idx].CloseWithError(errFetch)
				if errFetch != nil && !errors.Is(errFetch, context.Canceled) {
					rootOnce.Do(func() { rootErr = errFetch })
					// Отменяем до освобождения слота, чтобы следующий чанк не стартовал.
					cancel()
				}
				sem.Release(1)
				return errFetch
			})
		}
		return nil
	})

	// Писатель: читает pipe'ы строго по порядку и пишет в w.
	for idx := range plan {
		n, errCopy := io.Copy(w, pipes[idx])
		written += n
		if errCopy != nil {
			cancel()
			for j := idx; j < len(plan); j++ {
				_ = pipes[j].CloseWithError(errCopy)
			}

			_ = eg.Wait()
			if rootErr != nil {
				return written, rootErr
			}
			return written, errCopy
		}
	}

	if err = eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return written, err
	}

	return written, nil
}

// fetchRange скачивает одну выборку и копирует ровно cr.Len() байт в w.
func (s *Objects) fetchRange(ctx context.Context, gateway string, cr models.ChunkRange, w io.Writer) error {
	var span *blobclient.Span
	if !cr.Whole() {
		span = &blobclient.Span{Start: cr.Start, End: cr.End}
	}

	rc, err := s.Blobs.Fetch(ctx, gateway, cr.Chunk.ID, span)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: chunk %d (%s): %w", models.ErrUpstreamFetch, cr.Chunk.Index, cr.Chunk.ID, err)
	}
	defer rc.Close()

	want := max(cr.Len(), 0)
	n, err := io.CopyN(w, rc, want)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: chunk %d (%s): short body: want %d, got %d",
				models.ErrUpstreamFetch, cr.Chunk.Index, cr.Chunk.ID, want, n)
		}
		return err
	}

	// Лишние байты означают, что шлюз отдал не то, что обещал HEAD.
	var probe [1]byte
	if extra, _ := rc.Read(probe[:]); extra > 0 {
		return fmt.Errorf("%w: chunk %d (%s): body longer than %d bytes",
			models.ErrUpstreamFetch, cr.Chunk.Index, cr.Chunk.ID, want)
	}

	return nil
}
