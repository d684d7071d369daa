package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tread-bot/internal/infrastructure/imageio"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	out := t.TempDir()
	t.Setenv("OUTPUT_DIR", out)
	t.Setenv("ANALYSIS_CONFIG", "")
	t.Setenv("LOG_VERBOSE", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	return out
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// writeScreenshot сохраняет белый PNG с тёмным прямоугольником.
func writeScreenshot(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if x >= 50 && x < 70 && y >= 30 && y < 50 {
				c = color.NRGBA{R: 20, G: 20, B: 20, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	data, err := imageio.EncodePNG(img)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"bot", "crop", "classify", "wear", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, sub.Name())
	}
	require.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "tread-bot version")
	require.Contains(t, out, "commit:")
}

func TestBotCmd_RequiresToken(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "bot")
	require.ErrorContains(t, err, "TELEGRAM_TOKEN")
}

func TestCropCmd_Content(t *testing.T) {
	outDir := isolateEnv(t)
	src := writeScreenshot(t, t.TempDir(), "shot.png")

	out, err := execute(t, "crop", src)
	require.NoError(t, err)
	require.Contains(t, out, "(30,20)-(90,60)")

	data, err := os.ReadFile(filepath.Join(outDir, "shot_cropped.png"))
	require.NoError(t, err)
	buf, err := imageio.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 60, buf.Width)
	require.Equal(t, 40, buf.Height)
}

func TestCropCmd_StripKeepsSize(t *testing.T) {
	isolateEnv(t)
	src := writeScreenshot(t, t.TempDir(), "render.png")
	outDir := t.TempDir()

	_, err := execute(t, "crop", "--mode", "strip", "--zoom", "2", "--out", outDir, src)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, "render_cropped.png"))
	require.NoError(t, err)
	buf, err := imageio.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 120, buf.Width)
	require.Equal(t, 80, buf.Height)
}

func TestCropCmd_BatchContinuesAfterFailure(t *testing.T) {
	outDir := isolateEnv(t)
	dir := t.TempDir()
	good := writeScreenshot(t, dir, "good.png")
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0o600))

	_, err := execute(t, "crop", bad, good)
	require.ErrorContains(t, err, "1 of 2 files failed")
	require.FileExists(t, filepath.Join(outDir, "good_cropped.png"))
}

func TestCropCmd_InvalidMode(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "crop", "--mode", "diagonal", "x.png")
	require.ErrorContains(t, err, "unknown crop mode")
}

func TestClassifyCmd_PrintsTable(t *testing.T) {
	isolateEnv(t)
	src := writeScreenshot(t, t.TempDir(), "shot.png")

	out, err := execute(t, "classify", src)
	require.NoError(t, err)
	require.Contains(t, out, "VERDICT")
	require.Contains(t, out, src)
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, filepath.Join("out", "tyre_wear.png"), outputPath("out", "/photos/tyre.jpg", "_wear.png"))
	require.Equal(t, filepath.Join("out", "noext_report.md"), outputPath("out", "noext", "_report.md"))
}
