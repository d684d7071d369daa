package entity

import (
	"fmt"
	"image"
)

// BoundingBox — прямоугольник в пикселях, Right и Bottom не включаются.
// Нулевое значение невалидно и не совпадает с прямоугольником всего кадра.
type BoundingBox struct {
	Left   int // координата X левой границы
	Top    int // координата Y верхней границы
	Right  int // X правой границы (исключительно)
	Bottom int // Y нижней границы (исключительно)
}

// Valid сообщает, что у прямоугольника положительные ширина и высота.
func (b BoundingBox) Valid() bool {
	return b.Right > b.Left && b.Bottom > b.Top
}

func (b BoundingBox) Width() int  { return b.Right - b.Left }
func (b BoundingBox) Height() int { return b.Bottom - b.Top }

// Clamp обрезает прямоугольник по размерам растра.
func (b BoundingBox) Clamp(width, height int) BoundingBox {
	return BoundingBox{
		Left:   clampInt(b.Left, 0, width),
		Top:    clampInt(b.Top, 0, height),
		Right:  clampInt(b.Right, 0, width),
		Bottom: clampInt(b.Bottom, 0, height),
	}
}

// Rect переводит прямоугольник в image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom)
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", b.Left, b.Top, b.Right, b.Bottom)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

const (
	DefaultZoomFactor      = 2.0
	DefaultStripZoomFactor = 1.8
)

// ZoomBox возвращает центральную область размером 1/zoom от кадра.
func ZoomBox(width, height int, zoom float64) BoundingBox {
	if zoom < 1 {
		zoom = 1
	}
	cw := int(float64(width) / zoom)
	ch := int(float64(height) / zoom)

	left := max(0, width/2-cw/2)
	top := max(0, height/2-ch/2)
	return BoundingBox{
		Left:   left,
		Top:    top,
		Right:  min(width, left+cw),
		Bottom: min(height, top+ch),
	}
}

// StripBox возвращает вертикальную полосу по центру во всю высоту кадра,
// чтобы на виде спереди поместилась вся ширина протектора.
func StripBox(width, height int, zoom float64) BoundingBox {
	if zoom < 1 {
		zoom = 1
	}
	sw := int(float64(width) / zoom)
	return BoundingBox{
		Left:   max(0, width/2-sw/2),
		Top:    0,
		Right:  min(width, width/2+sw/2),
		Bottom: height,
	}
}
