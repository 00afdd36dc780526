package objectsvc

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSizeCacheEntries задаёт ёмкость кэша размеров по умолчанию.
const DefaultSizeCacheEntries = 100_000

// SizeCache хранит размеры чанков по идентификатору.
// Создаётся один раз при старте процесса и разделяется всеми запросами:
// идентификаторы контентно-адресуемые, поэтому размер для id никогда не меняется.
// Кэш ограничен по числу записей (LRU); вытеснение стоит лишь повторного HEAD.
type SizeCache struct {
	entries      *lru.Cache[string, int64]
	flight       singleflight.Group
	fetchTimeout time.Duration
}

// NewSizeCache создаёт кэш на entries записей. fetchTimeout ограничивает общий HEAD (0 без ограничения).
func NewSizeCache(entries int, fetchTimeout time.Duration) (*SizeCache, error) {
	if entries <= 0 {
		entries = DefaultSizeCacheEntries
	}
	c, err := lru.New[string, int64](entries)
	if err != nil {
		return nil, fmt.Errorf("size cache: %w", err)
	}
	return &SizeCache{entries: c, fetchTimeout: fetchTimeout}, nil
}

// Get возвращает размер из кэша.
func (c *SizeCache) Get(id string) (int64, bool) {
	return c.entries.Get(id)
}

// Add записывает размер. Повторная запись того же id идемпотентна.
func (c *SizeCache) Add(id string, size int64) {
	c.entries.Add(id, size)
}

// Len возвращает число записей.
func (c *SizeCache) Len() int {
	return c.entries.Len()
}

// Resolve возвращает размер из кэша либо вызывает fetch, схлопывая одновременные запросы одного id.
// Общий fetch выполняется вне отмены вызывающего: его результат ждут и другие запросы.
// Каждый вызывающий перестаёт ждать по отмене своего ctx.
func (c *SizeCache) Resolve(ctx context.Context, id string, fetch func(ctx context.Context) (int64, error)) (size int64, hit bool, err error) {
	if size, ok := c.Get(id); ok {
		return size, true, nil
	}

	ch := c.flight.DoChan(id, func() (any, error) {
		if size, ok := c.Get(id); ok {
			return size, nil
		}

		fetchCtx := context.WithoutCancel(ctx)
		if c.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fetchCtx, cancel = context.WithTimeout(fetchCtx, c.fetchTimeout)
			defer cancel()
		}

		size, err := fetch(fetchCtx)
		if err != nil {
			return int64(0), err
		}
		c.Add(id, size)
		return size, nil
	})

	select {
	case <-ctx.Done():
		return 0, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return 0, false, res.Err
		}
		return res.Val.(int64), false, nil
	}
}
