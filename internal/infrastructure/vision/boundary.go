package vision

import (
	"golang.org/x/sync/errgroup"

	"tread-bot/internal/domain/entity"
)

const (
	// Пиксель со всеми каналами не ниже порога считается фоном.
	DefaultBackgroundThreshold = 240

	DefaultMarginX        = 20
	DefaultMarginY        = 10
	DefaultMinContentSize = 1
)

// BoundaryDetector находит содержимое на скриншоте с почти белым фоном.
type BoundaryDetector struct {
	Threshold uint8 `yaml:"threshold"`
	MarginX   int   `yaml:"margin_x"`
	MarginY   int   `yaml:"margin_y"`
	MinSize   int   `yaml:"min_size"` // минимальная ширина и высота результата после отступов
}

// NewBoundaryDetector создаёт детектор с порогом 240 и отступами 20/10 px.
func NewBoundaryDetector() *BoundaryDetector {
	return &BoundaryDetector{
		Threshold: DefaultBackgroundThreshold,
		MarginX:   DefaultMarginX,
		MarginY:   DefaultMarginY,
		MinSize:   DefaultMinContentSize,
	}
}

// DetectContentBoundary ищет содержимое со стандартными отступами и заданным порогом.
func DetectContentBoundary(buf entity.RasterBuffer, threshold uint8) (entity.BoundingBox, error) {
	d := NewBoundaryDetector()
	d.Threshold = threshold
	return d.Detect(buf)
}

// Detect возвращает прямоугольник вокруг пикселей темнее фона, расширенный на отступы.
// Пустой кадр даёт entity.ErrNoContent, испорченный буфер даёт entity.ErrInvalidInput.
func (d *BoundaryDetector) Detect(buf entity.RasterBuffer) (entity.BoundingBox, error) {
	if err := buf.Validate(); err != nil {
		return entity.BoundingBox{}, err
	}

	var (
		left, right, top, bottom int
		found                    [4]bool
		g                        errgroup.Group
	)

	// Четыре прохода независимы, порядок не влияет на результат.
	g.Go(func() error {
		left, found[0] = scanColumns(buf, d.Threshold, 0, buf.Width, 1)
		return nil
	})
	g.Go(func() error {
		right, found[1] = scanColumns(buf, d.Threshold, buf.Width-1, -1, -1)
		return nil
	})
	g.Go(func() error {
		top, found[2] = scanRows(buf, d.Threshold, 0, buf.Height, 1)
		return nil
	})
	g.Go(func() error {
		bottom, found[3] = scanRows(buf, d.Threshold, buf.Height-1, -1, -1)
		return nil
	})
	_ = g.Wait()

	if !found[0] || !found[1] || !found[2] || !found[3] {
		return entity.BoundingBox{}, entity.ErrNoContent
	}

	box := entity.BoundingBox{
		Left:   left - d.MarginX,
		Top:    top - d.MarginY,
		Right:  right + 1 + d.MarginX,
		Bottom: bottom + 1 + d.MarginY,
	}.Clamp(buf.Width, buf.Height)

	if !box.Valid() || box.Width() < d.MinSize || box.Height() < d.MinSize {
		return entity.BoundingBox{}, entity.ErrNoContent
	}
	return box, nil
}

func scanColumns(buf entity.RasterBuffer, threshold uint8, from, to, step int) (int, bool) {
	for x := from; x != to; x += step {
		for y := 0; y < buf.Height; y++ {
			if isContent(buf, x, y, threshold) {
				return x, true
			}
		}
	}
	return 0, false
}

func scanRows(buf entity.RasterBuffer, threshold uint8, from, to, step int) (int, bool) {
	for y := from; y != to; y += step {
		for x := 0; x < buf.Width; x++ {
			if isContent(buf, x, y, threshold) {
				return y, true
			}
		}
	}
	return 0, false
}

// isContent проверяет цветовые каналы пикселя; альфа-канал не учитывается.
func isContent(buf entity.RasterBuffer, x, y int, threshold uint8) bool {
	channels := min(buf.Channels, 3)
	for c := 0; c < channels; c++ {
		if buf.Sample(x, y, c) < threshold {
			return true
		}
	}
	return false
}
