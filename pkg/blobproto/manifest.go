package blobproto

import (
	"errors"
	"strings"
)

var ErrInvalidManifest = errors.New("invalid share manifest")

// ManifestData содержит полезную нагрузка сервиса метаданных.
// ProfilePicture содержит локатор единственного чанка либо маркер Multipart.
type ManifestData struct {
	ProfilePicture string   `json:"profile_picture"`
	Data           []string `json:"data,omitempty"`
	ContentType    string   `json:"contentType,omitempty"`
	Filename       string   `json:"filename,omitempty"`
}

// Manifest соответствует ответу сервиса метаданных на GET ?shared={token}.
// Старые ответы кладут contentType/filename на верхний уровень, поэтому поддерживаются оба варианта.
type Manifest struct {
	Data        ManifestData `json:"data"`
	ContentType string       `json:"contentType,omitempty"`
	Filename    string       `json:"filename,omitempty"`
}

// Share содержит нормализованное описание расшаренного файла.
type Share struct {
	Locators    []string `json:"locators"`
	ContentType string   `json:"content_type"`
	Filename    string   `json:"filename"`
}

// NewManifest строит манифест в формате сервиса метаданных.
func NewManifest(s Share) Manifest {
	data := ManifestData{
		ContentType: s.ContentType,
		Filename:    s.Filename,
	}
	if len(s.Locators) == 1 {
		data.ProfilePicture = s.Locators[0]
	} else {
		data.ProfilePicture = MultipartMarker
		data.Data = append([]string(nil), s.Locators...)
	}

	return Manifest{Data: data}
}

// Share нормализует манифест и проверяет, что список чанков не пуст.
func (m Manifest) Share() (Share, error) {
	out := Share{
		ContentType: firstNonEmpty(m.Data.ContentType, m.ContentType),
		Filename:    firstNonEmpty(m.Data.Filename, m.Filename),
	}

	switch pic := strings.TrimSpace(m.Data.ProfilePicture); pic {
	case "":
		return Share{}, ErrInvalidManifest
	case MultipartMarker:
		if len(m.Data.Data) == 0 {
			return Share{}, ErrInvalidManifest
		}
		out.Locators = append([]string(nil), m.Data.Data...)
	default:
		out.Locators = []string{pic}
	}

	return out, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
