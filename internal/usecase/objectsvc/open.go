package objectsvc

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/sir_venger/chunkgate/internal/models"
)

// Open получает манифест по токену, выбирает шлюз и узнаёт размеры всех чанков.
func (s *Objects) Open(ctx context.Context, token string) (models.VirtualObject, error) {
	share, err := s.Shares.Lookup(ctx, token)
	if err != nil {
		return models.VirtualObject{}, fmt.Errorf("%w: %w", models.ErrNotFound, err)
	}

	gateway, err := s.Router.Pick()
	if err != nil {
		return models.VirtualObject{}, err
	}

	chunks, total, err := s.ResolveSizes(ctx, gateway, share.Locators)
	if err != nil {
		return models.VirtualObject{}, err
	}

	obj := models.VirtualObject{
		Token:       token,
		ContentType: share.ContentType,
		Filename:    share.Filename,
		Gateway:     gateway,
		Chunks:      chunks,
		Size:        total,
	}

	zerolog.Ctx(ctx).Debug().
		Bool("multipart", obj.Multipart()).
		Str("size", humanize.IBytes(uint64(total))).
		Msg("object opened")

	return obj, nil
}
