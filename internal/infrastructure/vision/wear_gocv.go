//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"tread-bot/internal/domain/entity"
)

// Analyze извлекает признаки протектора, считает износ и рисует панель сравнения.
// Любой сбой возвращается как *entity.AnalysisError без частично заполненного результата.
func (e *WearEngine) Analyze(buf entity.RasterBuffer) (*entity.WearResult, error) {
	features, err := e.ExtractFeatures(buf)
	if err != nil {
		return nil, err
	}
	return e.result(buf, features)
}

// ExtractFeatures выполняет шаги 1–7 конвейера: от серого изображения до регулярности рисунка.
func (e *WearEngine) ExtractFeatures(buf entity.RasterBuffer) (entity.TreadFeatures, error) {
	mat, err := rasterToMat(buf)
	if err != nil {
		return entity.TreadFeatures{}, entity.NewAnalysisError("decode", err)
	}
	defer mat.Close()

	gray := toGray(mat)
	defer gray.Close()
	if gray.Empty() {
		return entity.TreadFeatures{}, entity.NewAnalysisError("grayscale", errEmptyGray)
	}

	// Подавляем шум матрицы.
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(e.BlurKernel, e.BlurKernel), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, e.CannyLow, e.CannyHigh)

	// Замыкаем разорванные грани в линии канавок.
	closeKernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(e.CloseKernel, e.CloseKernel))
	defer closeKernel.Close()
	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(edges, &closed, gocv.MorphClose, closeKernel)

	pattern := e.linePattern(closed)
	defer pattern.Close()

	grooveCount, avgArea := e.grooves(pattern)
	meanGradient := meanGradientMagnitude(blurred)

	return entity.TreadFeatures{
		GrooveCount:       grooveCount,
		AvgGrooveWidth:    avgArea,
		TreadDepthScore:   e.depthScore(meanGradient),
		PatternIntegrity:  ratioOfMask(pattern) * 100,
		PatternRegularity: entity.PatternRegularity(e.gridDensities(pattern), e.Weights.RegularityScale),
		EdgeDensity:       ratioOfMask(edges),
	}, nil
}

// linePattern оставляет только длинные горизонтальные и вертикальные структуры.
func (e *WearEngine) linePattern(closed gocv.Mat) gocv.Mat {
	hKernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(e.LineKernel, 1))
	defer hKernel.Close()
	vKernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(1, e.LineKernel))
	defer vKernel.Close()

	horizontal := gocv.NewMat()
	defer horizontal.Close()
	gocv.MorphologyEx(closed, &horizontal, gocv.MorphOpen, hKernel)

	vertical := gocv.NewMat()
	defer vertical.Close()
	gocv.MorphologyEx(closed, &vertical, gocv.MorphOpen, vKernel)

	pattern := gocv.NewMat()
	gocv.BitwiseOr(horizontal, vertical, &pattern)
	return pattern
}

// grooves возвращает число компонент и среднюю площадь крупных из них.
func (e *WearEngine) grooves(pattern gocv.Mat) (int, float64) {
	contours := gocv.FindContours(pattern, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var (
		total float64
		large int
	)
	for i := 0; i < contours.Size(); i++ {
		area := gocv.ContourArea(contours.At(i))
		if area > e.MinGrooveArea {
			total += area
			large++
		}
	}

	if large == 0 {
		return contours.Size(), 0
	}
	return contours.Size(), total / float64(large)
}

// gridDensities делит карту рисунка на GridSize×GridSize секций и считает долю рисунка в каждой.
func (e *WearEngine) gridDensities(pattern gocv.Mat) []float64 {
	w, h := pattern.Cols(), pattern.Rows()
	n := e.GridSize
	densities := make([]float64, 0, n*n)

	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			rect := image.Rect(col*w/n, row*h/n, (col+1)*w/n, (row+1)*h/n)
			if rect.Empty() {
				continue
			}
			section := pattern.Region(rect)
			densities = append(densities, float64(gocv.CountNonZero(section))/float64(rect.Dx()*rect.Dy()))
			section.Close()
		}
	}
	return densities
}

// meanGradientMagnitude считает среднее евклидовой нормы градиентов Собеля.
func meanGradientMagnitude(gray gocv.Mat) float64 {
	gx := gocv.NewMat()
	defer gx.Close()
	gocv.Sobel(gray, &gx, gocv.MatTypeCV64F, 1, 0, 3, 1, 0, gocv.BorderDefault)

	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(gray, &gy, gocv.MatTypeCV64F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	magnitude := gocv.NewMat()
	defer magnitude.Close()
	gocv.Magnitude(gx, gy, &magnitude)

	return magnitude.Mean().Val1
}
