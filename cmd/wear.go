package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	app "tread-bot/internal/application"
)

// NewWearCmd создаёт команду оценки износа
func NewWearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wear <file>...",
		Short: "Estimate tread wear",
		Long: `Wear classifies every photo and, for accepted ones, estimates tread
wear. For each photo it writes <name>_wear.png (comparison panel) and
<name>_report.md (Markdown report) to the output directory.

Examples:
  tread-bot wear tyre.jpg
  tread-bot wear --force --out ./reports front.jpg rear.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: runWearCmd,
	}

	cmd.Flags().BoolP("force", "f", false, "Estimate wear even if the photo does not look like a tyre")
	cmd.Flags().StringP("out", "o", "", "Output directory (overrides OUTPUT_DIR)")

	return cmd
}

func runWearCmd(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	env, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	env.warnNoVision()

	outDir := env.cfg.OutputDir
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		outDir = out
	}
	if err := ensureDir(outDir); err != nil {
		return err
	}

	svc := env.app.InspectionService
	return forEachFile(cmd, env, args, func(path string, data []byte) error {
		out, err := svc.InspectPhoto(cmd.Context(), data, app.InspectOptions{Force: force})
		if err != nil {
			return err
		}
		inspection := out.Inspection

		if len(out.Visualization) > 0 {
			visPath := outputPath(outDir, path, "_wear.png")
			if err := os.WriteFile(visPath, out.Visualization, 0o640); err != nil {
				return fmt.Errorf("write visualization: %w", err)
			}
			inspection.Wear = inspection.Wear.WithVisualizationPath(visPath)
			if out.Report, err = svc.Report(cmd.Context(), inspection); err != nil {
				return err
			}
		}

		if out.Report != nil {
			reportPath := outputPath(outDir, path, "_report.md")
			if err := os.WriteFile(reportPath, []byte(out.Report.Text), 0o640); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}

		switch {
		case inspection.Wear != nil:
			w := inspection.Wear
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.1f%% wear, %s, %s, ~%d months left\n",
				path, w.WearPercentage, w.Condition, w.SafetyStatus, w.RemainingLifeMonths)
		case inspection.WearErr != nil:
			return inspection.WearErr
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: not a tyre photo (%d/6 checks passed)\n",
				path, inspection.Verdict.ScoreCount)
		}
		return nil
	})
}
