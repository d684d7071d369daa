package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tread-bot/internal/domain/entity"
	"tread-bot/internal/domain/port"
)

const reportTitle = "Tyre Inspection Report"

// MarkdownDescriber строит отчёт о проверке шины в формате GitHub Markdown.
type MarkdownDescriber struct{}

// NewMarkdownDescriber создаёт генератор отчётов.
func NewMarkdownDescriber() *MarkdownDescriber {
	return &MarkdownDescriber{}
}

// Describe генерирует отчёт: вердикт классификатора, затем износ, если он посчитан.
func (d *MarkdownDescriber) Describe(ctx context.Context, inspection *entity.TyreInspection) (*entity.Description, error) {
	_ = ctx
	if inspection == nil {
		return nil, errors.New("inspection is nil")
	}

	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)

	md.H1(reportTitle)
	md.PlainText("")
	d.writeVerdict(md, inspection)

	switch {
	case inspection.Wear != nil:
		d.writeWear(md, inspection.Wear)
	case inspection.WearErr != nil:
		md.Warning("Wear analysis could not be completed: " + inspection.WearErr.Error())
	case !inspection.Accepted():
		md.Warning("The image does not look like a tyre photo, wear was not estimated.")
	}

	if err := md.Build(); err != nil {
		return nil, fmt.Errorf("build markdown: %w", err)
	}

	return &entity.Description{Title: reportTitle, Text: buf.String()}, nil
}

func (d *MarkdownDescriber) writeVerdict(md *markdown.Markdown, inspection *entity.TyreInspection) {
	v := inspection.Verdict
	m := v.Measurements

	md.H2("Photo check")
	md.PlainText(fmt.Sprintf("Image %dx%d, %d of 6 checks passed: %s.",
		inspection.ImageWidth, inspection.ImageHeight, v.ScoreCount, passText(v.Passed)))
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Check", "Measured", "Result"},
		Rows: [][]string{
			{"Darkness", fmt.Sprintf("mean %.1f", m.MeanIntensity), mark(v.Subscores.Darkness)},
			{"Curvature", strconv.Itoa(m.CircleCount) + " circles", mark(v.Subscores.Curvature)},
			{"Edge density", percent(m.EdgeRatio), mark(v.Subscores.EdgeDensity)},
			{"Dark pixels", percent(m.DarkPixelRatio), mark(v.Subscores.DarkRatio)},
			{"Rectangles", strconv.Itoa(m.RectangleCount), mark(v.Subscores.Rectangularity)},
			{"Bright area", percent(m.WhiteRatio), mark(v.Subscores.TextRatio)},
		},
	})
	md.PlainText("")
}

func (d *MarkdownDescriber) writeWear(md *markdown.Markdown, w *entity.WearResult) {
	f := w.TreadFeatures
	// Caser хранит состояние, поэтому свой на каждый отчёт.
	title := cases.Title(language.English)

	md.H2("Tread wear")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Wear", fmt.Sprintf("%.1f%%", w.WearPercentage)},
			{"Condition", string(w.Condition)},
			{"Safety", title.String(string(w.SafetyStatus))},
			{"Remaining life", fmt.Sprintf("~%d months", w.RemainingLifeMonths)},
		},
	})
	md.PlainText("")

	md.H2("Tread features")
	md.Table(markdown.TableSet{
		Header: []string{"Feature", "Value"},
		Rows: [][]string{
			{"Grooves", strconv.Itoa(f.GrooveCount)},
			{"Average groove area", fmt.Sprintf("%.1f px²", f.AvgGrooveWidth)},
			{"Tread depth score", fmt.Sprintf("%.1f", f.TreadDepthScore)},
			{"Pattern integrity", fmt.Sprintf("%.1f", f.PatternIntegrity)},
			{"Pattern regularity", fmt.Sprintf("%.1f", f.PatternRegularity)},
			{"Edge density", percent(f.EdgeDensity)},
		},
	})
	md.PlainText("")

	md.H2("Recommendations")
	md.BulletList(w.Recommendations...)
	md.PlainText("")

	if w.VisualizationPath != "" {
		md.PlainText(fmt.Sprintf("![Wear comparison](%s)", w.VisualizationPath))
		md.PlainText("")
	}
}

func passText(passed bool) string {
	if passed {
		return "accepted as a tyre photo"
	}
	return "rejected"
}

func mark(ok bool) string {
	if ok {
		return "pass"
	}
	return "fail"
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// Проверка реализации интерфейса
var _ port.InspectionDescriber = (*MarkdownDescriber)(nil)
