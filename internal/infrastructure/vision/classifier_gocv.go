//go:build gocv
// +build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"

	"tread-bot/internal/domain/entity"
)

// Classify прогоняет шесть проверок по серой копии изображения.
// Нечитаемый буфер даёт отрицательный вердикт без ошибки.
func (c *SubjectClassifier) Classify(buf entity.RasterBuffer) entity.PlausibilityVerdict {
	mat, err := rasterToMat(buf)
	if err != nil {
		return entity.RejectedVerdict()
	}
	defer mat.Close()

	gray := toGray(mat)
	defer gray.Close()
	if gray.Empty() {
		return entity.RejectedVerdict()
	}

	var (
		s entity.Subscores
		m entity.Measurements
	)

	// 1. Резина тёмная, документы и схемы светлые.
	m.MeanIntensity = gray.Mean().Val1
	s.Darkness = m.MeanIntensity < c.MaxMeanIntensity

	// 2. Дуга обода или боковины.
	m.CircleCount = c.countCircles(gray)
	s.Curvature = m.CircleCount > 0

	// 3. Плотность граней.
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, c.CannyLow, c.CannyHigh)
	m.EdgeRatio = ratioOfMask(edges)
	s.EdgeDensity = m.EdgeRatio > c.MinEdgeDensity

	// 4. Доля тёмных пикселей по гистограмме.
	m.DarkPixelRatio = c.darkRatio(gray)
	s.DarkRatio = m.DarkPixelRatio >= c.MinDarkRatio

	// 5. Прямоугольники характерны для схем и чертежей.
	m.RectangleCount = countQuads(edges)
	s.Rectangularity = m.RectangleCount <= c.MaxRectangles

	// 6. Крупные светлые области обычно означают текст документа.
	m.WhiteRatio = c.whiteRatio(gray)
	s.TextRatio = m.WhiteRatio <= c.MaxWhiteRatio

	return entity.NewPlausibilityVerdict(s, m, c.RequiredChecks)
}

func (c *SubjectClassifier) countCircles(gray gocv.Mat) int {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.MedianBlur(gray, &blurred, 5)

	minSide := min(gray.Cols(), gray.Rows())
	minRadius := int(float64(minSide) * c.MinCircleRadiusRatio)
	maxRadius := int(float64(minSide) * c.MaxCircleRadiusRatio)
	if maxRadius <= 0 {
		return 0
	}

	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(blurred, &circles, gocv.HoughGradient, 1.2,
		float64(minSide)/4, c.HoughParam1, c.HoughParam2, minRadius, maxRadius)

	if circles.Empty() {
		return 0
	}
	return circles.Cols()
}

func (c *SubjectClassifier) darkRatio(gray gocv.Mat) float64 {
	mask := gocv.NewMat()
	defer mask.Close()
	hist := gocv.NewMat()
	defer hist.Close()
	gocv.CalcHist([]gocv.Mat{gray}, []int{0}, mask, &hist, []int{256}, []float64{0, 256}, false)

	total := float64(gray.Cols() * gray.Rows())
	if total == 0 || hist.Empty() {
		return 0
	}

	var dark float64
	for i := 0; i < c.DarkBins && i < hist.Rows(); i++ {
		dark += float64(hist.GetFloatAt(i, 0))
	}
	return dark / total
}

func (c *SubjectClassifier) whiteRatio(gray gocv.Mat) float64 {
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(c.TextCloseKernel, c.TextCloseKernel))
	defer kernel.Close()

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(binary, &closed, gocv.MorphClose, kernel)

	return ratioOfMask(closed)
}

// countQuads считает контуры, которые аппроксимируются четырёхугольником.
func countQuads(edges gocv.Mat) int {
	contours := gocv.FindContours(edges, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer contours.Close()

	quads := 0
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		perimeter := gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, 0.02*perimeter, true)
		if approx.Size() == 4 {
			quads++
		}
		approx.Close()
	}
	return quads
}
