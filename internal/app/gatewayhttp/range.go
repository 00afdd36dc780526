package gatewayhttp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sir_venger/chunkgate/internal/models"
)

// parseRange разбирает единственный диапазон вида bytes=<start>-[<end>].
// Списки диапазонов и суффиксная форма bytes=-N не поддерживаются.
// end за пределами объекта усекается до total-1, при start за пределами возвращается ошибка.
func parseRange(raw string, total int64) (models.ByteRange, error) {
	spec, ok := strings.CutPrefix(strings.TrimSpace(raw), "bytes=")
	if !ok {
		return models.ByteRange{}, fmt.Errorf("%w: unsupported unit in %q", models.ErrRangeNotSatisfiable, raw)
	}
	if strings.Contains(spec, ",") {
		return models.ByteRange{}, fmt.Errorf("%w: multiple ranges are not supported", models.ErrRangeNotSatisfiable)
	}

	first, last, ok := strings.Cut(spec, "-")
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if !ok || first == "" {
		return models.ByteRange{}, fmt.Errorf("%w: malformed range %q", models.ErrRangeNotSatisfiable, raw)
	}

	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil || start < 0 {
		return models.ByteRange{}, fmt.Errorf("%w: malformed range %q", models.ErrRangeNotSatisfiable, raw)
	}
	if start >= total {
		return models.ByteRange{}, fmt.Errorf("%w: start %d beyond size %d", models.ErrRangeNotSatisfiable, start, total)
	}

	end := total - 1
	if last != "" {
		end, err = strconv.ParseInt(last, 10, 64)
		if err != nil || end < start {
			return models.ByteRange{}, fmt.Errorf("%w: malformed range %q", models.ErrRangeNotSatisfiable, raw)
		}
		end = min(end, total-1)
	}

	return models.ByteRange{Start: start, End: end}, nil
}
