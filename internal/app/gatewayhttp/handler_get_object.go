package gatewayhttp

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sir_venger/chunkgate/internal/models"
	"github.com/sir_venger/chunkgate/internal/usecase/objectsvc"
	"github.com/sir_venger/chunkgate/pkg/httperrors"
)

const (
	cacheControl       = "public, max-age=29030400"
	defaultContentType = "application/octet-stream"
)

var exposedHeaders = []string{
	"Content-Range", "Content-Length", "ETag",
	"Access-Control-Allow-Methods", "Access-Control-Allow-Origin",
}

// getObject отдаёт виртуальный объект целиком (200) или единственный диапазон (206).
// После отправки заголовков ошибка шлюза может только оборвать тело ответа.
func (s *Server) getObject(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("shared"))
	if token == "" {
		s.fail(w, *zerolog.Ctx(r.Context()), fmt.Errorf("%w: missing shared parameter", models.ErrBadRequest), 0)
		return
	}

	log := zerolog.Ctx(r.Context()).With().Str("shared", token).Logger()
	ctx := log.WithContext(r.Context())

	obj, err := s.Objects.Open(ctx, token)
	if err != nil {
		s.fail(w, log, err, 0)
		return
	}

	status := http.StatusOK
	var plan []models.ChunkRange
	rawRange := r.Header.Get("Range")
	if rawRange != "" {
		rng, errRange := parseRange(rawRange, obj.Size)
		if errRange == nil {
			plan, errRange = objectsvc.Plan(rng, obj.Chunks)
		}
		if errRange != nil {
			s.fail(w, log, errRange, obj.Size)
			return
		}

		status = http.StatusPartialContent
		w.Header().Set("Content-Range", rng.ContentRange(obj.Size))
		w.Header().Set("Content-Length", strconv.FormatInt(rng.Len(), 10))
	} else {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}

	s.setObjectHeaders(w.Header(), obj, r.URL.Query().Get("filename"))
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		s.Metrics.Response(status)
		return
	}

	if plan == nil {
		_, err = s.Objects.StreamAll(ctx, obj, w)
	} else {
		_, err = s.Objects.Stream(ctx, obj, plan, w)
	}
	if err != nil {
		s.Metrics.Aborted()
		if ctx.Err() != nil {
			log.Debug().Err(err).Msg("client went away")
		} else {
			log.Error().Err(err).Msg("stream aborted")
		}
		// Статус уже отправлен, остаётся только оборвать соединение.
		panic(http.ErrAbortHandler)
	}
	s.Metrics.Response(status)
}

// fail отвечает ошибкой до отправки заголовков объекта. Для 416 добавляет Content-Range с размером объекта.
func (s *Server) fail(w http.ResponseWriter, log zerolog.Logger, err error, size int64) {
	code := httperrors.Status(err)
	if code == http.StatusRequestedRangeNotSatisfiable {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
	}
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Int("status", code).Msg("object request failed")
	} else {
		log.Info().Err(err).Int("status", code).Msg("object request rejected")
	}
	s.Metrics.Response(code)
	httperrors.Write(w, err)
}

func (s *Server) setObjectHeaders(h http.Header, obj models.VirtualObject, filename string) {
	contentType := obj.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}
	if filename = strings.TrimSpace(filename); filename == "" {
		filename = obj.Filename
	}

	h.Set("Content-Type", contentType)
	h.Set("Cache-Control", cacheControl)
	h.Set("Content-Disposition", contentDisposition(filename))
	h.Set("Accept-Ranges", "bytes")
	if s.allowAll {
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET")
		h.Set("Access-Control-Expose-Headers", strings.Join(exposedHeaders, ", "))
	}
}

func contentDisposition(filename string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r", "", "\n", "").Replace(filename)
	return fmt.Sprintf(`inline; filename="%s"`, escaped)
}
