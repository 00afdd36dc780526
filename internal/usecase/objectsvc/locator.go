package objectsvc

import (
	"fmt"
	"strings"

	"github.com/sir_venger/chunkgate/internal/models"
)

const (
	// dwebMarker помечает субдоменные шлюзы вида https://<cid>.ipfs.dweb.link/...
	dwebMarker = "dweb"
	// dwebSegment указывает компонент с хостом после разбиения URL по "/".
	dwebSegment = 2
)

// ResolveLocator приводит локатор чанка к каноническому идентификатору.
// Голый идентификатор возвращается без изменений.
func ResolveLocator(locator string) (string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return "", fmt.Errorf("%w: empty locator", models.ErrMalformedLocator)
	}
	if !isURL(locator) {
		return locator, nil
	}

	parts := strings.Split(locator, "/")
	if strings.Contains(locator, dwebMarker) {
		if len(parts) <= dwebSegment {
			return "", fmt.Errorf("%w: %q", models.ErrMalformedLocator, locator)
		}
		id, _, _ := strings.Cut(parts[dwebSegment], ".")
		if id == "" {
			return "", fmt.Errorf("%w: %q", models.ErrMalformedLocator, locator)
		}
		return id, nil
	}

	// Хвост пути: query и fragment к идентификатору не относятся.
	last := parts[len(parts)-1]
	if i := strings.IndexAny(last, "?#"); i >= 0 {
		last = last[:i]
	}
	if len(parts) <= dwebSegment+1 || last == "" {
		return "", fmt.Errorf("%w: %q", models.ErrMalformedLocator, locator)
	}

	return last, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
