//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"tread-bot/internal/domain/entity"
)

// Enabled сообщает, что сборка использует OpenCV.
const Enabled = true

var errEmptyGray = errors.New("empty grayscale image")

// rasterToMat копирует буфер в gocv.Mat, исходные байты не разделяются.
func rasterToMat(buf entity.RasterBuffer) (gocv.Mat, error) {
	if err := buf.Validate(); err != nil {
		return gocv.NewMat(), err
	}

	var mt gocv.MatType
	switch buf.Channels {
	case 1:
		mt = gocv.MatTypeCV8UC1
	case 3:
		mt = gocv.MatTypeCV8UC3
	default:
		mt = gocv.MatTypeCV8UC4
	}

	view, err := gocv.NewMatFromBytes(buf.Height, buf.Width, mt, buf.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap raster: %w", err)
	}
	defer view.Close()

	mat := view.Clone()
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), errors.New("failed to copy raster")
	}
	return mat, nil
}

// toGray возвращает одноканальную копию изображения.
func toGray(mat gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	switch mat.Channels() {
	case 1:
		mat.CopyTo(&gray)
	case 4:
		gocv.CvtColor(mat, &gray, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	}
	return gray
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}
