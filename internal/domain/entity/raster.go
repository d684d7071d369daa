package entity

import (
	"fmt"
	"image"
	"image/color"
)

// RasterBuffer — неизменяемый растр с чередующимися каналами в порядке BGR(A),
// как в OpenCV. Анализ никогда не меняет Pix, все производные буферы новые.
type RasterBuffer struct {
	Width    int    // ширина в пикселях
	Height   int    // высота в пикселях
	Channels int    // 1 (яркость), 3 (BGR) или 4 (BGRA)
	Pix      []byte // Width*Height*Channels байт, построчно
}

// NewRasterFromImage переводит image.Image в трёхканальный BGR-буфер.
func NewRasterFromImage(img image.Image) RasterBuffer {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, w*h*3)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix[i] = c.B
			pix[i+1] = c.G
			pix[i+2] = c.R
			i += 3
		}
	}

	return RasterBuffer{Width: w, Height: h, Channels: 3, Pix: pix}
}

// NewGrayRaster оборачивает карту яркости в одноканальный буфер.
func NewGrayRaster(width, height int, pix []byte) RasterBuffer {
	return RasterBuffer{Width: width, Height: height, Channels: 1, Pix: pix}
}

// Validate проверяет контракт буфера: ненулевые размеры и согласованную длину Pix.
func (r RasterBuffer) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidInput, r.Width, r.Height)
	}
	if r.Channels != 1 && r.Channels != 3 && r.Channels != 4 {
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidInput, r.Channels)
	}
	if len(r.Pix) != r.Width*r.Height*r.Channels {
		return fmt.Errorf("%w: pixel data is %d bytes, want %d", ErrInvalidInput, len(r.Pix), r.Width*r.Height*r.Channels)
	}
	return nil
}

// Bounds возвращает полный прямоугольник буфера.
func (r RasterBuffer) Bounds() BoundingBox {
	return BoundingBox{Left: 0, Top: 0, Right: r.Width, Bottom: r.Height}
}

// offset возвращает индекс первого канала пикселя (x, y).
func (r RasterBuffer) offset(x, y int) int {
	return (y*r.Width + x) * r.Channels
}

// Sample возвращает значение канала ch пикселя (x, y).
func (r RasterBuffer) Sample(x, y, ch int) byte {
	return r.Pix[r.offset(x, y)+ch]
}

// Crop копирует область box в новый буфер. Область обрезается по границам растра.
func (r RasterBuffer) Crop(box BoundingBox) (RasterBuffer, error) {
	if err := r.Validate(); err != nil {
		return RasterBuffer{}, err
	}
	box = box.Clamp(r.Width, r.Height)
	if !box.Valid() {
		return RasterBuffer{}, fmt.Errorf("%w: empty crop %v", ErrInvalidInput, box)
	}

	w, h := box.Width(), box.Height()
	pix := make([]byte, w*h*r.Channels)
	rowLen := w * r.Channels
	for y := 0; y < h; y++ {
		src := r.offset(box.Left, box.Top+y)
		copy(pix[y*rowLen:(y+1)*rowLen], r.Pix[src:src+rowLen])
	}

	return RasterBuffer{Width: w, Height: h, Channels: r.Channels, Pix: pix}, nil
}

// ToImage переводит буфер обратно в image.Image (RGBA или Gray).
func (r RasterBuffer) ToImage() (image.Image, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, r.Width, r.Height)
	if r.Channels == 1 {
		img := image.NewGray(rect)
		copy(img.Pix, r.Pix)
		return img, nil
	}

	img := image.NewNRGBA(rect)
	for i, j := 0, 0; i < len(r.Pix); i, j = i+r.Channels, j+4 {
		img.Pix[j] = r.Pix[i+2]
		img.Pix[j+1] = r.Pix[i+1]
		img.Pix[j+2] = r.Pix[i]
		img.Pix[j+3] = 255
		if r.Channels == 4 {
			img.Pix[j+3] = r.Pix[i+3]
		}
	}
	return img, nil
}
