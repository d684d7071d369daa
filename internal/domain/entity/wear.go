package entity

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TreadFeatures — признаки протектора, извлечённые из одного снимка.
type TreadFeatures struct {
	GrooveCount       int     // число связных компонент карты рисунка
	AvgGrooveWidth    float64 // средняя площадь компонент больше порога, px²
	TreadDepthScore   float64 // 0..100, энергия градиента
	PatternIntegrity  float64 // 0..100, доля пикселей рисунка
	PatternRegularity float64 // 0..100, равномерность рисунка по сетке
	EdgeDensity       float64 // доля пикселей-граней, 0..1
}

// Condition задаёт категорию состояния шины.
type Condition string

const (
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionPoor      Condition = "Poor"
)

// SafetyStatus описывает вывод о безопасности эксплуатации.
type SafetyStatus string

const (
	SafetySafe        SafetyStatus = "safe"
	SafetyCaution     SafetyStatus = "caution"
	SafetyReplaceSoon SafetyStatus = "replace soon"
)

// ConditionBand описывает диапазон износа с фиксированными выводами.
type ConditionBand struct {
	MaxWear             float64 // верхняя граница включительно
	Condition           Condition
	Safety              SafetyStatus
	RemainingLifeMonths int
	Recommendations     []string
}

// conditionBands упорядочены по возрастанию MaxWear.
var conditionBands = []ConditionBand{
	{
		MaxWear:             25,
		Condition:           ConditionExcellent,
		Safety:              SafetySafe,
		RemainingLifeMonths: 24,
		Recommendations: []string{
			"Tread is in excellent condition.",
			"Keep checking tyre pressure monthly.",
		},
	},
	{
		MaxWear:             50,
		Condition:           ConditionGood,
		Safety:              SafetySafe,
		RemainingLifeMonths: 12,
		Recommendations: []string{
			"Tread is in good condition.",
			"Rotate tyres at the next service to keep wear even.",
		},
	},
	{
		MaxWear:             75,
		Condition:           ConditionFair,
		Safety:              SafetyCaution,
		RemainingLifeMonths: 6,
		Recommendations: []string{
			"Noticeable tread wear.",
			"Plan a replacement within the next six months and avoid high speed on wet roads.",
		},
	},
	{
		MaxWear:             100,
		Condition:           ConditionPoor,
		Safety:              SafetyReplaceSoon,
		RemainingLifeMonths: 1,
		Recommendations: []string{
			"Severe tread wear, grip on wet roads is reduced.",
			"Replace the tyre as soon as possible.",
		},
	},
}

// ConditionFor возвращает диапазон для процента износа. Границы включительные:
// 25.0 даёт Excellent, 25.01 даёт Good.
func ConditionFor(wearPercentage float64) ConditionBand {
	for _, band := range conditionBands {
		if wearPercentage <= band.MaxWear {
			return band
		}
	}
	return conditionBands[len(conditionBands)-1]
}

// WearWeights — эмпирические веса составной оценки износа.
type WearWeights struct {
	Depth           float64 `yaml:"depth"`
	Integrity       float64 `yaml:"integrity"`
	Grooves         float64 `yaml:"grooves"`
	Regularity      float64 `yaml:"regularity"`
	GrooveFactor    float64 `yaml:"groove_factor"`    // очков за одну канавку
	RegularityScale float64 `yaml:"regularity_scale"` // множитель стандартного отклонения
}

// DefaultWearWeights возвращает подобранные вручную веса.
func DefaultWearWeights() WearWeights {
	return WearWeights{
		Depth:           0.4,
		Integrity:       0.3,
		Grooves:         0.2,
		Regularity:      0.1,
		GrooveFactor:    2,
		RegularityScale: 1000,
	}
}

// PatternRegularity оценивает равномерность рисунка по плотностям секций сетки:
// 100 - scale*σ, ограничено 0..100. Плотности задаются долями пикселей рисунка
// в секции (0..1).
//
// Пустая сетка намеренно даёт 0, а не 100 по формуле (σ=0): «равномерно пустой»
// протектор не должен выглядеть регулярным в TreadFeatures. На процент износа
// это не влияет, CompositeWear отдельно возвращает 100 для пустого рисунка.
func PatternRegularity(densities []float64, scale float64) float64 {
	if len(densities) == 0 || stat.Mean(densities, nil) == 0 {
		return 0
	}
	return clamp(100-scale*stat.PopStdDev(densities, nil), 0, 100)
}

// GrooveScore переводит число канавок в очки 0..100.
func GrooveScore(grooveCount int, factor float64) float64 {
	return math.Min(100, factor*float64(grooveCount))
}

// CompositeWear сворачивает четыре «хороших» подоценки в процент износа.
// Если рисунок не найден вовсе, шина считается полностью изношенной.
func CompositeWear(f TreadFeatures, w WearWeights) float64 {
	if f.PatternIntegrity <= 0 && f.GrooveCount == 0 {
		return 100
	}
	good := w.Depth*f.TreadDepthScore +
		w.Integrity*f.PatternIntegrity +
		w.Grooves*GrooveScore(f.GrooveCount, w.GrooveFactor) +
		w.Regularity*f.PatternRegularity
	return clamp(100-good, 0, 100)
}

// WearResult — итог оценки износа одного снимка. После создания не меняется.
type WearResult struct {
	WearPercentage      float64
	Condition           Condition
	SafetyStatus        SafetyStatus
	RemainingLifeMonths int
	Recommendations     []string
	TreadFeatures       TreadFeatures
	Visualization       image.Image // панель 2x2 с эталонными уровнями износа
	VisualizationPath   string      // заполняется вызывающей стороной после сохранения
}

// NewWearResult считает износ по признакам и подбирает категорию.
func NewWearResult(f TreadFeatures, w WearWeights, visualization image.Image) *WearResult {
	pct := CompositeWear(f, w)
	band := ConditionFor(pct)

	recs := make([]string, len(band.Recommendations))
	copy(recs, band.Recommendations)

	return &WearResult{
		WearPercentage:      pct,
		Condition:           band.Condition,
		SafetyStatus:        band.Safety,
		RemainingLifeMonths: band.RemainingLifeMonths,
		Recommendations:     recs,
		TreadFeatures:       f,
		Visualization:       visualization,
	}
}

// WithVisualizationPath возвращает копию результата с путём к сохранённой панели.
func (r WearResult) WithVisualizationPath(path string) *WearResult {
	r.VisualizationPath = path
	return &r
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
