package entity

// Subscores хранит результаты шести независимых проверок классификатора.
type Subscores struct {
	Darkness       bool // средняя яркость ниже порога
	Curvature      bool // найдена окружность подходящего радиуса
	EdgeDensity    bool // доля граней выше порога
	DarkRatio      bool // достаточно тёмных пикселей в гистограмме
	Rectangularity bool // мало четырёхугольников (не схема)
	TextRatio      bool // мало светлых «текстовых» областей
}

// Count возвращает число пройденных проверок.
func (s Subscores) Count() int {
	n := 0
	for _, ok := range []bool{s.Darkness, s.Curvature, s.EdgeDensity, s.DarkRatio, s.Rectangularity, s.TextRatio} {
		if ok {
			n++
		}
	}
	return n
}

// Measurements хранит сырые значения, по которым принимались решения.
type Measurements struct {
	MeanIntensity  float64
	CircleCount    int
	EdgeRatio      float64
	DarkPixelRatio float64
	RectangleCount int
	WhiteRatio     float64
}

// PlausibilityVerdict — итог одной классификации «похоже ли это на фото шины».
type PlausibilityVerdict struct {
	ScoreCount   int
	Passed       bool
	Subscores    Subscores
	Measurements Measurements
}

// NewPlausibilityVerdict считает итог по подоценкам и требуемому числу проверок.
func NewPlausibilityVerdict(s Subscores, m Measurements, required int) PlausibilityVerdict {
	count := s.Count()
	return PlausibilityVerdict{
		ScoreCount:   count,
		Passed:       count >= required,
		Subscores:    s,
		Measurements: m,
	}
}

// RejectedVerdict возвращает вердикт для нечитаемого изображения: всё false.
func RejectedVerdict() PlausibilityVerdict {
	return PlausibilityVerdict{}
}
