package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tread-bot/config"
	app "tread-bot/internal/application"
)

// NewCropCmd создаёт команду обрезки скриншотов
func NewCropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crop <file>...",
		Short: "Crop screenshots to their content",
		Long: `Crop removes the near-white background around screenshot content.
Zoom and strip modes cut a centred close-up and scale it back to the
original size.

Cropped images are written as <name>_cropped.png to the output directory
(OUTPUT_DIR, default $XDG_DATA_HOME/tread-bot).

Examples:
  tread-bot crop shot.png
  tread-bot crop --mode strip --zoom 1.8 render.png
  tread-bot crop --threshold 230 --out ./cropped *.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCropCmd,
	}

	cmd.Flags().StringP("mode", "m", string(app.CropContent), "Crop mode: content, zoom or strip")
	cmd.Flags().Float64P("zoom", "z", 0, "Zoom factor for zoom and strip modes (default 2.0 and 1.8)")
	cmd.Flags().Uint8P("threshold", "t", 0, "Background threshold for content mode (default 240)")
	cmd.Flags().StringP("out", "o", "", "Output directory (overrides OUTPUT_DIR)")

	return cmd
}

func runCropCmd(cmd *cobra.Command, args []string) error {
	modeName, _ := cmd.Flags().GetString("mode")
	mode, err := app.ParseCropMode(modeName)
	if err != nil {
		return err
	}
	zoom, _ := cmd.Flags().GetFloat64("zoom")
	threshold, _ := cmd.Flags().GetUint8("threshold")

	env, err := setup(cmd, func(a *config.Analysis) {
		if threshold > 0 {
			a.Boundary.Threshold = threshold
		}
	})
	if err != nil {
		return err
	}

	outDir := env.cfg.OutputDir
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		outDir = out
	}
	if err := ensureDir(outDir); err != nil {
		return err
	}

	req := app.CropRequest{Mode: mode, Zoom: zoom}
	return forEachFile(cmd, env, args, func(path string, data []byte) error {
		out, err := env.app.InspectionService.CropScreenshot(cmd.Context(), data, req)
		if err != nil {
			return err
		}

		dst := outputPath(outDir, path, "_cropped.png")
		if err := os.WriteFile(dst, out.Image, 0o640); err != nil {
			return fmt.Errorf("write crop: %w", err)
		}

		note := ""
		if out.Fallback {
			note = " (no content found, original kept)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s%s\n", path, out.Box, dst, note)
		return nil
	})
}
