package vision

// SubjectClassifier решает, похоже ли изображение на фото шины, по шести эвристикам.
// Пороги подобраны вручную и не обучаются.
type SubjectClassifier struct {
	MaxMeanIntensity     float64 `yaml:"max_mean_intensity"`      // резина тёмная
	MinCircleRadiusRatio float64 `yaml:"min_circle_radius_ratio"` // от меньшей стороны кадра
	MaxCircleRadiusRatio float64 `yaml:"max_circle_radius_ratio"`
	HoughParam1          float64 `yaml:"hough_param1"`
	HoughParam2          float64 `yaml:"hough_param2"`
	CannyLow             float32 `yaml:"canny_low"`
	CannyHigh            float32 `yaml:"canny_high"`
	MinEdgeDensity       float64 `yaml:"min_edge_density"`
	DarkBins             int     `yaml:"dark_bins"` // тёмными считаются первые DarkBins из 256
	MinDarkRatio         float64 `yaml:"min_dark_ratio"`
	MaxRectangles        int     `yaml:"max_rectangles"`
	MaxWhiteRatio        float64 `yaml:"max_white_ratio"`
	TextCloseKernel      int     `yaml:"text_close_kernel"`
	RequiredChecks       int     `yaml:"required_checks"` // из шести
}

// NewSubjectClassifier создаёт классификатор с порогами по умолчанию.
func NewSubjectClassifier() *SubjectClassifier {
	return &SubjectClassifier{
		MaxMeanIntensity:     180,
		MinCircleRadiusRatio: 1.0 / 8,
		MaxCircleRadiusRatio: 1.0 / 2,
		HoughParam1:          100,
		HoughParam2:          30,
		CannyLow:             50,
		CannyHigh:            150,
		MinEdgeDensity:       0.15,
		DarkBins:             100,
		MinDarkRatio:         0.3,
		MaxRectangles:        10,
		MaxWhiteRatio:        0.6,
		TextCloseKernel:      3,
		RequiredChecks:       4,
	}
}
