package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tread-bot/internal/domain/entity"
	"tread-bot/internal/domain/port"
)

// CropMode задаёт способ обрезки скриншота.
type CropMode string

const (
	CropContent CropMode = "content" // по границе содержимого на светлом фоне
	CropZoom    CropMode = "zoom"    // центральное увеличение
	CropStrip   CropMode = "strip"   // вертикальная полоса по центру
)

// ParseCropMode разбирает имя режима обрезки.
func ParseCropMode(s string) (CropMode, error) {
	switch m := CropMode(s); m {
	case CropContent, CropZoom, CropStrip:
		return m, nil
	}
	return "", fmt.Errorf("unknown crop mode %q", s)
}

// Analyzers хранит порты анализа, которые собирает контейнер.
type Analyzers struct {
	Codec      port.ImageCodec
	Boundary   port.BoundaryDetector
	Classifier port.SubjectClassifier
	Wear       port.WearAnalyzer
	Describer  port.InspectionDescriber
}

type InspectionService struct {
	users  *UserService
	an     Analyzers
	logger *slog.Logger
}

// InspectOptions меняют поведение проверки.
type InspectOptions struct {
	Force    bool // оценивать износ, даже если фото не похоже на шину
	SkipWear bool // только классификация
}

// InspectionOutput содержит итог проверки, отчёт и PNG панели износа.
type InspectionOutput struct {
	Inspection    *entity.TyreInspection
	Report        *entity.Description
	Visualization []byte // nil, если износ не оценивался
}

// CropRequest содержит параметры обрезки скриншота.
type CropRequest struct {
	Mode CropMode
	Zoom float64 // для zoom и strip; 0 означает значение по умолчанию
}

// CropOutput содержит результат обрезки.
type CropOutput struct {
	Box      entity.BoundingBox
	Fallback bool // содержимое не найдено, возвращён исходный кадр
	Raster   entity.RasterBuffer
	Image    []byte // PNG
}

// NewInspectionService создаёт сервис, который управляет проверкой шин и обрезкой скриншотов.
func NewInspectionService(users *UserService, an Analyzers, logger *slog.Logger) *InspectionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InspectionService{
		users:  users,
		an:     an,
		logger: logger,
	}
}

// HandleTyrePhoto проверяет фото шины от пользователя бота.
// На время анализа пользователь занят, повторная отправка вернёт ErrBusy.
func (s *InspectionService) HandleTyrePhoto(ctx context.Context, userID, chatID int64, photo []byte) (*InspectionOutput, error) {
	if _, err := s.users.StartProcessing(ctx, userID, chatID); err != nil {
		return nil, err
	}
	defer s.finish(ctx, userID, chatID)

	return s.InspectPhoto(ctx, photo, InspectOptions{})
}

// HandleScreenshot обрезает скриншот от пользователя бота по содержимому.
func (s *InspectionService) HandleScreenshot(ctx context.Context, userID, chatID int64, data []byte) (*CropOutput, error) {
	if _, err := s.users.StartProcessing(ctx, userID, chatID); err != nil {
		return nil, err
	}
	defer s.finish(ctx, userID, chatID)

	return s.CropScreenshot(ctx, data, CropRequest{Mode: CropContent})
}

func (s *InspectionService) finish(ctx context.Context, userID, chatID int64) {
	// Контекст запроса может быть уже отменён, а пользователя надо освободить.
	if _, err := s.users.FinishProcessing(context.WithoutCancel(ctx), userID, chatID); err != nil {
		s.logger.Error("failed to reset user state", "user_id", userID, "error", err)
	}
}

// InspectPhoto декодирует фото и проверяет его.
func (s *InspectionService) InspectPhoto(ctx context.Context, photo []byte, opts InspectOptions) (*InspectionOutput, error) {
	if s.an.Codec == nil {
		return nil, errors.New("image codec is not configured")
	}
	buf, err := s.an.Codec.Decode(photo)
	if err != nil {
		return nil, err
	}
	return s.Inspect(ctx, buf, opts)
}

// Inspect классифицирует растр и, если фото похоже на шину, оценивает износ.
// Ошибка анализа износа не прерывает проверку, а попадает в TyreInspection.WearErr.
func (s *InspectionService) Inspect(ctx context.Context, buf entity.RasterBuffer, opts InspectOptions) (*InspectionOutput, error) {
	if s.an.Classifier == nil || s.an.Wear == nil {
		return nil, errors.New("analyzer is not configured")
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inspection := &entity.TyreInspection{
		ImageWidth:  buf.Width,
		ImageHeight: buf.Height,
		Verdict:     s.an.Classifier.Classify(buf),
	}
	s.logger.Debug("plausibility verdict",
		"score", inspection.Verdict.ScoreCount,
		"passed", inspection.Verdict.Passed)

	if !opts.SkipWear && (inspection.Accepted() || opts.Force) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wear, err := s.an.Wear.Analyze(buf)
		if err != nil {
			s.logger.Warn("wear analysis failed", "error", err)
			inspection.WearErr = err
		} else {
			inspection.Wear = wear
		}
	}

	out := &InspectionOutput{Inspection: inspection}

	if inspection.Wear != nil && inspection.Wear.Visualization != nil && s.an.Codec != nil {
		png, err := s.an.Codec.EncodePNG(inspection.Wear.Visualization)
		if err != nil {
			s.logger.Warn("failed to encode visualization", "error", err)
		} else {
			out.Visualization = png
		}
	}

	report, err := s.Report(ctx, inspection)
	if err != nil {
		return nil, err
	}
	out.Report = report

	return out, nil
}

// Report строит отчёт заново, например после сохранения панели на диск.
// Без описателя возвращает nil.
func (s *InspectionService) Report(ctx context.Context, inspection *entity.TyreInspection) (*entity.Description, error) {
	if s.an.Describer == nil {
		return nil, nil
	}
	report, err := s.an.Describer.Describe(ctx, inspection)
	if err != nil {
		return nil, fmt.Errorf("describe inspection: %w", err)
	}
	return report, nil
}

// CropScreenshot декодирует скриншот и обрезает его.
func (s *InspectionService) CropScreenshot(ctx context.Context, data []byte, req CropRequest) (*CropOutput, error) {
	if s.an.Codec == nil {
		return nil, errors.New("image codec is not configured")
	}
	buf, err := s.an.Codec.Decode(data)
	if err != nil {
		return nil, err
	}
	return s.Crop(ctx, buf, req)
}

// Crop обрезает растр выбранным способом. Если содержимое не найдено,
// возвращается исходный кадр с Fallback=true. Увеличенные режимы
// растягивают фрагмент обратно до исходного размера.
func (s *InspectionService) Crop(ctx context.Context, buf entity.RasterBuffer, req CropRequest) (*CropOutput, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &CropOutput{}
	switch req.Mode {
	case CropContent, "":
		if s.an.Boundary == nil {
			return nil, errors.New("boundary detector is not configured")
		}
		box, err := s.an.Boundary.Detect(buf)
		switch {
		case errors.Is(err, entity.ErrNoContent):
			s.logger.Info("no content found, keeping original image",
				"width", buf.Width, "height", buf.Height)
			out.Box = buf.Bounds()
			out.Fallback = true
		case err != nil:
			return nil, err
		default:
			out.Box = box
		}
	case CropZoom:
		out.Box = entity.ZoomBox(buf.Width, buf.Height, zoomOr(req.Zoom, entity.DefaultZoomFactor))
	case CropStrip:
		out.Box = entity.StripBox(buf.Width, buf.Height, zoomOr(req.Zoom, entity.DefaultStripZoomFactor))
	default:
		return nil, fmt.Errorf("unknown crop mode %q", req.Mode)
	}

	cropped, err := buf.Crop(out.Box)
	if err != nil {
		return nil, err
	}

	if req.Mode == CropZoom || req.Mode == CropStrip {
		if s.an.Codec == nil {
			return nil, errors.New("image codec is not configured")
		}
		cropped, err = s.an.Codec.Resize(cropped, buf.Width, buf.Height)
		if err != nil {
			return nil, fmt.Errorf("resize crop: %w", err)
		}
	}
	out.Raster = cropped

	if s.an.Codec != nil {
		img, err := cropped.ToImage()
		if err != nil {
			return nil, err
		}
		if out.Image, err = s.an.Codec.EncodePNG(img); err != nil {
			return nil, fmt.Errorf("encode crop: %w", err)
		}
	}

	return out, nil
}

func zoomOr(zoom, def float64) float64 {
	if zoom <= 0 {
		return def
	}
	return zoom
}
