package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tread-bot/internal/infrastructure/vision"
)

// AppName используется в путях XDG.
const AppName = "tread-bot"

// ErrInvalidConfig возвращается для значений вне допустимого диапазона.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	TelegramToken      string
	Verbose            bool
	OutputDir          string // куда CLI сохраняет панели и отчёты
	AnalysisConfigPath string
	Analysis           *Analysis
}

// Analysis содержит пороги и веса анализа. Значения эмпирические, YAML позволяет их переопределить.
type Analysis struct {
	Boundary   *vision.BoundaryDetector  `yaml:"boundary"`
	Classifier *vision.SubjectClassifier `yaml:"classifier"`
	Wear       *vision.WearEngine        `yaml:"wear"`
	Visualizer *vision.WearVisualizer    `yaml:"visualizer"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		OutputDir:          os.Getenv("OUTPUT_DIR"),
		AnalysisConfigPath: os.Getenv("ANALYSIS_CONFIG"),
	}

	if v := os.Getenv("LOG_VERBOSE"); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: LOG_VERBOSE=%q", ErrInvalidConfig, v)
		}
		cfg.Verbose = verbose
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(xdg.DataHome, AppName)
	}

	analysis := DefaultAnalysis()
	if cfg.AnalysisConfigPath != "" {
		var err error
		analysis, err = LoadAnalysis(cfg.AnalysisConfigPath)
		if err != nil {
			return nil, err
		}
	}
	cfg.Analysis = analysis

	return cfg, nil
}

// DefaultAnalysis возвращает параметры анализа по умолчанию.
func DefaultAnalysis() *Analysis {
	a := &Analysis{
		Boundary:   vision.NewBoundaryDetector(),
		Classifier: vision.NewSubjectClassifier(),
		Wear:       vision.NewWearEngine(),
		Visualizer: vision.NewWearVisualizer(),
	}
	a.Wear.Visualizer = a.Visualizer
	return a
}

// LoadAnalysis читает YAML поверх значений по умолчанию: отсутствующие ключи не меняются.
func LoadAnalysis(path string) (*Analysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analysis config: %w", err)
	}

	a := DefaultAnalysis()
	if err := yaml.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	if a.Boundary == nil || a.Classifier == nil || a.Wear == nil || a.Visualizer == nil {
		return nil, fmt.Errorf("%w: %s: sections must not be null", ErrInvalidConfig, path)
	}
	a.Wear.Visualizer = a.Visualizer

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate проверяет, что параметры имеют смысл для конвейера.
func (a *Analysis) Validate() error {
	b, c, w, v := a.Boundary, a.Classifier, a.Wear, a.Visualizer

	switch {
	case b.Threshold == 0:
		return fmt.Errorf("%w: boundary.threshold must be positive", ErrInvalidConfig)
	case b.MarginX < 0 || b.MarginY < 0:
		return fmt.Errorf("%w: boundary margins must not be negative", ErrInvalidConfig)
	case c.RequiredChecks < 1 || c.RequiredChecks > 6:
		return fmt.Errorf("%w: classifier.required_checks must be within 1..6, got %d", ErrInvalidConfig, c.RequiredChecks)
	case c.MinCircleRadiusRatio <= 0 || c.MaxCircleRadiusRatio < c.MinCircleRadiusRatio:
		return fmt.Errorf("%w: classifier circle radius ratios", ErrInvalidConfig)
	case c.DarkBins < 1 || c.DarkBins > 256:
		return fmt.Errorf("%w: classifier.dark_bins must be within 1..256", ErrInvalidConfig)
	case c.TextCloseKernel < 1 || c.TextCloseKernel%2 == 0:
		return fmt.Errorf("%w: classifier.text_close_kernel must be odd and positive, got %d", ErrInvalidConfig, c.TextCloseKernel)
	case w.BlurKernel < 1 || w.BlurKernel%2 == 0:
		return fmt.Errorf("%w: wear.blur_kernel must be odd and positive, got %d", ErrInvalidConfig, w.BlurKernel)
	case w.CloseKernel < 1 || w.CloseKernel%2 == 0:
		return fmt.Errorf("%w: wear.close_kernel must be odd and positive, got %d", ErrInvalidConfig, w.CloseKernel)
	case w.LineKernel < 1 || w.GridSize < 1:
		return fmt.Errorf("%w: wear.line_kernel and wear.grid_size must be positive", ErrInvalidConfig)
	case w.GradientNormalizer <= 0:
		return fmt.Errorf("%w: wear.gradient_normalizer must be positive", ErrInvalidConfig)
	case w.Weights.Depth < 0 || w.Weights.Integrity < 0 || w.Weights.Grooves < 0 || w.Weights.Regularity < 0:
		return fmt.Errorf("%w: wear weights must not be negative", ErrInvalidConfig)
	case v.TileWidth < 1:
		return fmt.Errorf("%w: visualizer.tile_width must be positive", ErrInvalidConfig)
	case v.MaxBlurFactor < 0:
		return fmt.Errorf("%w: visualizer.max_blur_factor must not be negative", ErrInvalidConfig)
	case v.MaxContrastLoss < 0 || v.MaxContrastLoss > 1:
		return fmt.Errorf("%w: visualizer.max_contrast_loss must be within 0..1", ErrInvalidConfig)
	case v.TintAlpha < 0 || v.TintAlpha > 1:
		return fmt.Errorf("%w: visualizer.tint_alpha must be within 0..1", ErrInvalidConfig)
	}
	return nil
}
