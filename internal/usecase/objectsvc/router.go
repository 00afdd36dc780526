package objectsvc

import (
	"strings"
	"sync"

	"github.com/sir_venger/chunkgate/internal/models"
)

// Router выбирает blob-шлюз для очередного запроса по кругу.
type Router struct {
	mu         sync.Mutex
	configured []string
	next       int
}

// NewRouter создаёт маршрутизатор с начальным списком шлюзов.
func NewRouter(gateways ...string) *Router {
	r := &Router{}
	r.Add(gateways...)
	return r
}

// Set заменяет список шлюзов на новый.
func (r *Router) Set(gateways []string) {
	r.mu.Lock()
	r.configured = nil
	r.next = 0
	r.mu.Unlock()
	r.Add(gateways...)
}

// Add добавляет новые шлюзы, игнорируя дубликаты и пустые значения.
func (r *Router) Add(gateways ...string) {
	if len(gateways) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	known := make(map[string]struct{}, len(r.configured))
	for _, g := range r.configured {
		known[g] = struct{}{}
	}

	for _, gw := range gateways {
		gw = strings.TrimRight(strings.TrimSpace(gw), "/")
		if gw == "" {
			continue
		}

		if _, exists := known[gw]; exists {
			continue
		}

		r.configured = append(r.configured, gw)
		known[gw] = struct{}{}
	}
}

// List возвращает копию списка шлюзов.
func (r *Router) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.configured...)
}

// Pick возвращает следующий шлюз. Все чанки одного запроса идут через один шлюз.
func (r *Router) Pick() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.configured) == 0 {
		return "", models.ErrNoGateway
	}

	gw := r.configured[r.next%len(r.configured)]
	r.next = (r.next + 1) % len(r.configured)

	return gw, nil
}
