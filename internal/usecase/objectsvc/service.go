package objectsvc

import (
	"context"
	"io"

	"github.com/sir_venger/chunkgate/internal/models"
	"github.com/sir_venger/chunkgate/pkg/blobclient"
	"github.com/sir_venger/chunkgate/pkg/shareclient"
)

type (
	// Recorder принимает счётчики сервиса (кэш размеров и отданные байты).
	Recorder interface {
		SizeCache(hit bool)
		Streamed(n int64)
	}

	// Service объединяет операции по открытию и выдаче виртуальных объектов.
	Service interface {
		Open(ctx context.Context, token string) (models.VirtualObject, error)
		Stream(ctx context.Context, obj models.VirtualObject, plan []models.ChunkRange, w io.Writer) (int64, error)
		StreamAll(ctx context.Context, obj models.VirtualObject, w io.Writer) (int64, error)
		AddGateways(gateways ...string)
		Gateways() []string
	}
)

type Deps struct {
	Shares             shareclient.Client
	Blobs              blobclient.Client
	Router             *Router
	Sizes              *SizeCache
	Recorder           Recorder
	ResolveConcurrency int
	Prefetch           int
}

type Objects struct {
	Deps
}

// New конструирует сервис с заданными зависимостями.
func New(deps Deps) *Objects {
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if deps.ResolveConcurrency <= 0 {
		deps.ResolveConcurrency = 1
	}
	if deps.Prefetch <= 0 {
		deps.Prefetch = 1
	}
	return &Objects{Deps: deps}
}

var _ Service = (*Objects)(nil)

// AddGateways добавляет новые blob-шлюзы в маршрутизатор без удаления существующих.
func (s *Objects) AddGateways(gateways ...string) {
	if s.Router == nil || len(gateways) == 0 {
		return
	}
	s.Router.Add(gateways...)
}

// Gateways возвращает текущий список шлюзов.
func (s *Objects) Gateways() []string {
	if s.Router == nil {
		return nil
	}
	return s.Router.List()
}

type nopRecorder struct{}

func (nopRecorder) SizeCache(bool) {}
func (nopRecorder) Streamed(int64) {}
