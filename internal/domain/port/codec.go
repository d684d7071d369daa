package port

import (
	"image"

	"tread-bot/internal/domain/entity"
)

// ImageCodec интерфейс чтения, записи и масштабирования изображений
type ImageCodec interface {
	// Decode разбирает байты в растр с учётом EXIF-ориентации
	Decode(data []byte) (entity.RasterBuffer, error)

	// EncodePNG кодирует изображение в PNG
	EncodePNG(img image.Image) ([]byte, error)

	// Resize масштабирует растр до заданного размера
	Resize(buf entity.RasterBuffer, width, height int) (entity.RasterBuffer, error)
}
