package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	exif "github.com/dsoprea/go-exif/v3"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"tread-bot/internal/domain/entity"
)

// ErrDecode возвращается, если байты не удалось разобрать как изображение.
var ErrDecode = errors.New("failed to decode image")

// Размер проверяется по заголовку до декодирования: маленький файл может
// объявить огромный кадр.
const (
	MaxImageSide   = 12000
	MaxImagePixels = 40_000_000
)

// Decode превращает байты изображения в растр и разворачивает его по EXIF Orientation.
func Decode(data []byte) (entity.RasterBuffer, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return entity.RasterBuffer{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := checkSize(cfg.Width, cfg.Height); err != nil {
		return entity.RasterBuffer{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return entity.RasterBuffer{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img = ApplyOrientation(img, Orientation(data))

	buf := entity.NewRasterFromImage(img)
	if err := buf.Validate(); err != nil {
		return entity.RasterBuffer{}, err
	}
	return buf, nil
}

func checkSize(w, h int) error {
	if w <= 0 || h <= 0 || w > MaxImageSide || h > MaxImageSide || w*h > MaxImagePixels {
		return fmt.Errorf("%w: image size %dx%d exceeds %d px per side or %d px total",
			ErrDecode, w, h, MaxImageSide, MaxImagePixels)
	}
	return nil
}

// Orientation читает тег EXIF Orientation (1..8). Без EXIF возвращает 1.
func Orientation(data []byte) int {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return 1
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return 1
	}

	for _, entry := range entries {
		if entry.TagName != "Orientation" {
			continue
		}
		if v, ok := entry.Value.([]uint16); ok && len(v) > 0 && v[0] >= 1 && v[0] <= 8 {
			return int(v[0])
		}
	}
	return 1
}

// EncodePNG кодирует изображение в PNG без потерь (скриншоты, панели).
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
