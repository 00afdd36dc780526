package objectsvc

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sir_venger/chunkgate/internal/models"
)

// ResolveSizes приводит локаторы к идентификаторам и узнаёт размер каждого чанка.
// Возвращает чанки в исходном порядке и их суммарный размер. Ошибка по любому чанку
// проваливает весь запрос: без размеров всех чанков смещения не посчитать.
func (s *Objects) ResolveSizes(ctx context.Context, gateway string, locators []string) ([]models.ChunkRef, int64, error) {
	if len(locators) == 0 {
		return nil, 0, fmt.Errorf("%w: empty chunk list", models.ErrSizeResolution)
	}

	chunks := make([]models.ChunkRef, len(locators))
	for idx, loc := range locators {
		id, err := ResolveLocator(loc)
		if err != nil {
			return nil, 0, fmt.Errorf("chunk %d: %w", idx, err)
		}
		chunks[idx] = models.ChunkRef{Index: idx, Locator: loc, ID: id}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.ResolveConcurrency)

	// Каждая горутина пишет только в свой элемент среза.
	for idx := range chunks {
		idx := idx
		eg.Go(func() error {
			id := chunks[idx].ID
			size, hit, err := s.Sizes.Resolve(egCtx, id, func(ctx context.Context) (int64, error) {
				return s.Blobs.Size(ctx, gateway, id)
			})
			if err != nil {
				return fmt.Errorf("%w: chunk %d (%s): %w", models.ErrSizeResolution, idx, id, err)
			}
			s.Recorder.SizeCache(hit)
			chunks[idx].Size = size
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	var total int64
	for _, c := range chunks {
		total += c.Size
	}

	zerolog.Ctx(ctx).Debug().
		Int("chunks", len(chunks)).
		Int64("total", total).
		Str("gateway", gateway).
		Msg("chunk sizes resolved")

	return chunks, total, nil
}
