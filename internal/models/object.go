package models

// ChunkRef описывает один чанк виртуального объекта.
type ChunkRef struct {
	Index   int    `json:"index"`
	Locator string `json:"locator"`
	ID      string `json:"id"`
	Size    int64  `json:"size"`
}

// VirtualObject описывает логический файл, собранный из упорядоченных чанков.
type VirtualObject struct {
	Token       string     `json:"token"`
	ContentType string     `json:"content_type"`
	Filename    string     `json:"filename"`
	Gateway     string     `json:"gateway"`
	Chunks      []ChunkRef `json:"chunks"`
	Size        int64      `json:"size"`
}

// Multipart сообщает, состоит ли объект больше чем из одного чанка.
func (o VirtualObject) Multipart() bool {
	return len(o.Chunks) > 1
}
