package imageio

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"tread-bot/internal/domain/entity"
	"tread-bot/internal/domain/port"
)

// Codec связывает функции пакета с портом port.ImageCodec.
type Codec struct{}

// NewCodec создаёт кодек изображений
func NewCodec() *Codec {
	return &Codec{}
}

func (c *Codec) Decode(data []byte) (entity.RasterBuffer, error) {
	return Decode(data)
}

func (c *Codec) EncodePNG(img image.Image) ([]byte, error) {
	return EncodePNG(img)
}

func (c *Codec) Resize(buf entity.RasterBuffer, width, height int) (entity.RasterBuffer, error) {
	return Resize(buf, width, height)
}

// Resize масштабирует растр бикубической интерполяцией.
func Resize(buf entity.RasterBuffer, width, height int) (entity.RasterBuffer, error) {
	if width <= 0 || height <= 0 {
		return entity.RasterBuffer{}, fmt.Errorf("%w: target size %dx%d", entity.ErrInvalidInput, width, height)
	}
	src, err := buf.ToImage()
	if err != nil {
		return entity.RasterBuffer{}, err
	}
	if buf.Width == width && buf.Height == height {
		return entity.NewRasterFromImage(src), nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return entity.NewRasterFromImage(dst), nil
}

// Проверка реализации интерфейса
var _ port.ImageCodec = (*Codec)(nil)
