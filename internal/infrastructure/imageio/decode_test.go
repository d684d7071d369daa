package imageio

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"

	"tread-bot/internal/domain/entity"
)

func TestDecode_PNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	data, err := EncodePNG(img)
	require.NoError(t, err)
	require.Equal(t, 1, Orientation(data))

	buf, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 3, buf.Width)
	require.Equal(t, 2, buf.Height)
	require.Equal(t, byte(30), buf.Sample(2, 1, 0))
	require.Equal(t, byte(10), buf.Sample(2, 1, 2))
}

func TestDecode_JPEG(t *testing.T) {
	var jpg bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpg, image.NewGray(image.Rect(0, 0, 16, 8)), nil))

	buf, err := Decode(jpg.Bytes())
	require.NoError(t, err)
	require.Equal(t, 16, buf.Width)
	require.Equal(t, 8, buf.Height)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	require.ErrorIs(t, err, ErrDecode)
}

func TestApplyOrientation(t *testing.T) {
	// 2x1: красный слева, синий справа
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	img.Set(0, 0, red)
	img.Set(1, 0, blue)

	require.Same(t, img, ApplyOrientation(img, 1).(*image.NRGBA))

	flipped := ApplyOrientation(img, 2)
	require.Equal(t, blue, flipped.At(0, 0))

	cw := ApplyOrientation(img, 6)
	require.Equal(t, 1, cw.Bounds().Dx())
	require.Equal(t, 2, cw.Bounds().Dy())
	require.Equal(t, red, cw.At(0, 0))
	require.Equal(t, blue, cw.At(0, 1))

	ccw := ApplyOrientation(img, 8)
	require.Equal(t, blue, ccw.At(0, 0))
	require.Equal(t, red, ccw.At(0, 1))

	require.Equal(t, blue, ApplyOrientation(img, 3).At(0, 0))
	require.Equal(t, red, ApplyOrientation(img, 4).At(0, 0))

	transposed := ApplyOrientation(img, 5)
	require.Equal(t, red, transposed.At(0, 0))
	require.Equal(t, blue, transposed.At(0, 1))

	transversed := ApplyOrientation(img, 7)
	require.Equal(t, blue, transversed.At(0, 0))
	require.Equal(t, red, transversed.At(0, 1))

	require.Same(t, img, ApplyOrientation(img, 9).(*image.NRGBA))
}

func TestResize(t *testing.T) {
	pix := make([]byte, 4*2)
	for i := range pix {
		pix[i] = 100
	}
	buf := entity.NewGrayRaster(4, 2, pix)

	out, err := NewCodec().Resize(buf, 8, 4)
	require.NoError(t, err)
	require.Equal(t, 8, out.Width)
	require.Equal(t, 4, out.Height)
	require.InDelta(t, 100, float64(out.Sample(3, 2, 0)), 1)

	same, err := Resize(buf, 4, 2)
	require.NoError(t, err)
	require.Equal(t, 4, same.Width)

	_, err = Resize(buf, 0, 2)
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

// pngWithHeaderSize подменяет размеры в IHDR маленького PNG и пересчитывает CRC.
func pngWithHeaderSize(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data, err := EncodePNG(image.NewGray(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)

	// сигнатура 8 байт, длина 4, тип "IHDR" 4, затем ширина и высота
	require.Equal(t, "IHDR", string(data[12:16]))
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecode_OversizedHeader(t *testing.T) {
	_, err := Decode(pngWithHeaderSize(t, 60000, 60000))
	require.ErrorIs(t, err, ErrDecode)
	require.ErrorContains(t, err, "exceeds")

	// по сторонам проходит, по площади нет
	_, err = Decode(pngWithHeaderSize(t, 10000, 10000))
	require.ErrorIs(t, err, ErrDecode)
}

func TestCheckSize(t *testing.T) {
	require.NoError(t, checkSize(4000, 3000))
	require.NoError(t, checkSize(MaxImageSide, 100))
	require.ErrorIs(t, checkSize(MaxImageSide+1, 1), ErrDecode)
	require.ErrorIs(t, checkSize(0, 10), ErrDecode)
}
