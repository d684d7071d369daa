package vision

import (
	"tread-bot/internal/domain/entity"
)

// solidRaster создаёт BGR-буфер, залитый одним значением.
func solidRaster(w, h int, value byte) entity.RasterBuffer {
	pix := make([]byte, w*h*3)
	for i := range pix {
		pix[i] = value
	}
	return entity.RasterBuffer{Width: w, Height: h, Channels: 3, Pix: pix}
}

// fillRect закрашивает прямоугольник [x0,x1)×[y0,y1) цветом BGR.
func fillRect(buf entity.RasterBuffer, x0, y0, x1, y1 int, b, g, r byte) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := (y*buf.Width + x) * buf.Channels
			buf.Pix[i] = b
			buf.Pix[i+1] = g
			buf.Pix[i+2] = r
		}
	}
}

// stripes создаёт чёрно-серые вертикальные полосы заданной ширины.
func stripes(w, h, period int) entity.RasterBuffer {
	buf := solidRaster(w, h, 200)
	for x := 0; x < w; x++ {
		if (x/period)%2 == 0 {
			fillRect(buf, x, 0, x+1, h, 20, 20, 20)
		}
	}
	return buf
}
