package models

import "fmt"

// ByteRange задаёт включительный диапазон байт в плоском адресном пространстве объекта.
type ByteRange struct {
	Start int64
	End   int64
}

// FullRange возвращает диапазон, покрывающий весь объект размера total.
func FullRange(total int64) ByteRange {
	return ByteRange{Start: 0, End: total - 1}
}

// Len возвращает количество байт в диапазоне.
func (r ByteRange) Len() int64 {
	return r.End - r.Start + 1
}

// ContentRange форматирует значение заголовка Content-Range.
func (r ByteRange) ContentRange(total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, total)
}

// ChunkRange описывает запланированную выборку локальных байт [Start, End] одного чанка.
type ChunkRange struct {
	Chunk ChunkRef
	Start int64
	End   int64
}

// Len возвращает количество байт, которые нужно забрать из чанка.
func (c ChunkRange) Len() int64 {
	return c.End - c.Start + 1
}

// Whole сообщает, покрывает ли выборка чанк целиком.
func (c ChunkRange) Whole() bool {
	return c.Start == 0 && c.End == c.Chunk.Size-1
}

// WholeChunks строит план, покрывающий каждый чанк целиком, в исходном порядке.
func WholeChunks(chunks []ChunkRef) []ChunkRange {
	plan := make([]ChunkRange, 0, len(chunks))
	for _, c := range chunks {
		plan = append(plan, ChunkRange{Chunk: c, Start: 0, End: c.Size - 1})
	}
	return plan
}
