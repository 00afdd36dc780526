// Package blobproto описывает HTTP-протокол взаимодействия с blob-шлюзами и сервисом метаданных.
package blobproto

// Параметры протокола blob-шлюза.
const (
	BlobPathFormat = "%s/%s"
	HeaderChecksum = "X-Checksum-Sha256"
	HeaderRange    = "Range"
	HeaderCRange   = "Content-Range"
)

// Параметры сервиса метаданных.
const (
	QueryShared     = "shared"
	MultipartMarker = "Multipart"
)
