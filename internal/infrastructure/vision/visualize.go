package vision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"tread-bot/internal/domain/entity"
)

// ReferenceLevels — эталонные уровни износа на панели, по порядку слева направо, сверху вниз.
var ReferenceLevels = []float64{0, 25, 50, 75}

var referenceTints = []color.RGBA{
	{R: 0, G: 200, B: 0, A: 255},   // зелёный
	{R: 230, G: 210, B: 0, A: 255}, // жёлтый
	{R: 255, G: 140, B: 0, A: 255}, // оранжевый
	{R: 220, G: 0, B: 0, A: 255},   // красный
}

const (
	panelPadding = 8
	labelHeight  = 18
	borderWidth  = 3
)

// WearVisualizer рисует иллюстративную панель 2x2: одно и то же фото,
// искусственно «состаренное» до эталонных уровней. Это не измерение.
type WearVisualizer struct {
	TileWidth       int        `yaml:"tile_width"` // сторона квадрата, в который вписывается плитка
	TintAlpha       float64    `yaml:"tint_alpha"`
	MaxBlurFactor   float64    `yaml:"max_blur_factor"`   // во сколько раз уменьшать при 100% износа
	MaxContrastLoss float64    `yaml:"max_contrast_loss"` // доля потерянного контраста при 100% износа
	Background      color.RGBA `yaml:"-"`
}

// NewWearVisualizer создаёт визуализатор с плитками шириной 320 px.
func NewWearVisualizer() *WearVisualizer {
	return &WearVisualizer{
		TileWidth:       320,
		TintAlpha:       0.25,
		MaxBlurFactor:   8,
		MaxContrastLoss: 0.6,
		Background:      color.RGBA{R: 40, G: 40, B: 40, A: 255},
	}
}

// ClosestReferenceLevel возвращает индекс эталона, ближайшего к проценту износа.
// При равенстве выбирается меньший уровень.
func ClosestReferenceLevel(wearPercentage float64) int {
	best := 0
	for i, level := range ReferenceLevels {
		if math.Abs(wearPercentage-level) < math.Abs(wearPercentage-ReferenceLevels[best]) {
			best = i
		}
	}
	return best
}

// Render рисует панель и подсвечивает эталон, ближайший к wearPercentage.
func (v *WearVisualizer) Render(buf entity.RasterBuffer, wearPercentage float64) (image.Image, error) {
	src, err := buf.ToImage()
	if err != nil {
		return nil, err
	}

	tile := fitTile(src, v.TileWidth)
	tw, th := tile.Bounds().Dx(), tile.Bounds().Dy()
	closest := ClosestReferenceLevel(wearPercentage)

	panel := image.NewRGBA(image.Rect(0, 0,
		2*tw+3*panelPadding,
		2*(th+labelHeight)+3*panelPadding))
	draw.Draw(panel, panel.Bounds(), &image.Uniform{C: v.Background}, image.Point{}, draw.Src)

	for i, level := range ReferenceLevels {
		col, row := i%2, i/2
		x0 := panelPadding + col*(tw+panelPadding)
		y0 := panelPadding + row*(th+labelHeight+panelPadding)
		tileRect := image.Rect(x0, y0+labelHeight, x0+tw, y0+labelHeight+th)

		ref := v.renderReference(tile, level, referenceTints[i])
		draw.Draw(panel, tileRect, ref, image.Point{}, draw.Src)

		label := fmt.Sprintf("%.0f%% wear", level)
		labelColor := color.RGBA{R: 200, G: 200, B: 200, A: 255}
		if i == closest {
			label = fmt.Sprintf("%s  <- %.1f%%", label, wearPercentage)
			labelColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
			drawBorder(panel, tileRect, referenceTints[i])
		}
		drawLabel(panel, x0, y0+labelHeight-5, label, labelColor)
	}

	return panel, nil
}

// renderReference размывает, снижает контраст и тонирует плитку пропорционально уровню.
func (v *WearVisualizer) renderReference(tile *image.RGBA, level float64, tint color.RGBA) *image.NRGBA {
	b := tile.Bounds()
	amount := level / 100

	var blurred image.Image = tile
	if factor := 1 + amount*v.MaxBlurFactor; factor > 1 {
		// Размытие через уменьшение и обратное увеличение.
		small := image.NewRGBA(image.Rect(0, 0,
			max(1, int(float64(b.Dx())/factor)),
			max(1, int(float64(b.Dy())/factor))))
		xdraw.ApproxBiLinear.Scale(small, small.Bounds(), tile, b, xdraw.Src, nil)
		out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.BiLinear.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)
		blurred = out
	}

	worn := imaging.AdjustContrast(blurred, -amount*v.MaxContrastLoss*100)
	fill := imaging.New(b.Dx(), b.Dy(), tint)
	return imaging.Overlay(worn, fill, image.Pt(0, 0), v.TintAlpha)
}

// fitTile масштабирует изображение так, чтобы оно поместилось в квадрат side×side
// с сохранением пропорций. Узкий высокий кадр не раздувает панель.
func fitTile(src image.Image, side int) *image.RGBA {
	b := src.Bounds()
	w, h := max(1, b.Dx()), max(1, b.Dy())
	if side <= 0 {
		side = max(w, h)
	}

	tw, th := side, side
	if w >= h {
		th = max(1, h*side/w)
	} else {
		tw = max(1, w*side/h)
	}

	// Прозрачные участки ложатся на чёрное, панель всегда непрозрачная.
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

func drawBorder(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	u := &image.Uniform{C: c}
	outer := r.Inset(-borderWidth)
	draw.Draw(dst, image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, r.Min.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(outer.Min.X, r.Max.Y, outer.Max.X, outer.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(outer.Min.X, r.Min.Y, r.Min.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X, r.Min.Y, outer.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}

func drawLabel(dst *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  &image.Uniform{C: c},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
