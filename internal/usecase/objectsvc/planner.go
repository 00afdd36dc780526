package objectsvc

import (
	"fmt"

	"github.com/sir_venger/chunkgate/internal/models"
)

// Plan переводит глобальный диапазон в упорядоченный список выборок из чанков.
// Чанки, целиком лежащие до rng.Start, пропускаются; обход прекращается, как только
// покрыт rng.End. Диапазон обязан лежать внутри объекта.
func Plan(rng models.ByteRange, chunks []models.ChunkRef) ([]models.ChunkRange, error) {
	var total int64
	for _, c := range chunks {
		total += c.Size
	}
	if rng.Start < 0 || rng.End < rng.Start || rng.Start >= total || rng.End >= total {
		return nil, fmt.Errorf("%w: bytes %d-%d of %d", models.ErrRangeNotSatisfiable, rng.Start, rng.End, total)
	}

	var (
		plan   []models.ChunkRange
		cursor int64
	)
	for _, c := range chunks {
		if cursor > rng.End {
			break
		}
		if c.Size == 0 {
			continue
		}
		if cursor+c.Size <= rng.Start {
			cursor += c.Size
			continue
		}

		plan = append(plan, models.ChunkRange{
			Chunk: c,
			Start: max(rng.Start-cursor, 0),
			End:   min(c.Size-1, rng.End-cursor),
		})
		cursor += c.Size
	}

	return plan, nil
}
